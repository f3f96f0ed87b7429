package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "passreset",
	Short: "Password reset frontend",
	Long: `passreset serves the page users land on from a password recovery link.

Available commands:
  serve      Start the HTTP server
  version    Print the version

Use "passreset [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
