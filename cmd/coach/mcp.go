package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/comigor/coach-go/internal/mcpserver"
	"github.com/comigor/coach-go/pkg/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the chat session as MCP tools on stdio",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// stdout carries the protocol
		a, err := newApp(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		s := mcpserver.New(tools.NewChatToolManager(a.chat), version)
		return mcpserver.ServeStdio(s)
	},
}
