package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "coach",
	Short: "AI workout assistant chat",
	Long: `coach runs the AI workout assistant chat session.

Front ends:
  coach chat    # terminal chat screen
  coach serve   # HTTP API
  coach mcp     # MCP server on stdio`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)

	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $CONFIG_PATH or ./config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Override log.level (debug, info, warn, error)")
}
