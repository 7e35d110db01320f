package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/comigor/coach-go/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the coach in the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// the screen owns the terminal; logs only go to log.file
		a, err := newApp(cmd, io.Discard)
		if err != nil {
			return err
		}
		defer a.Close()

		return tui.Run(a.chat)
	},
}
