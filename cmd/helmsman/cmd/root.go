package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "helmsman",
	Short: "Helmsman is a multi-factor authentication service",
	Long: `An authentication backend that walks clients through password, passkey
and one-time-code factors, issues bearer tokens, and brokers single-use
tickets for WebSocket connections.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
