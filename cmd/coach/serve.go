package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/comigor/coach-go/internal/httpapi"
	"github.com/comigor/coach-go/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat session over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd, os.Stdout)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.cfg.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		router := httpapi.NewRouter(a.chat, httpapi.Options{
			Metrics: a.metrics.Handler(),
			Logger:  logger.L,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return httpapi.Run(ctx, a.cfg.Server.Addr(), router, logger.L)
	},
}
