package cmd

import (
	"fmt"
	"os"

	"github.com/nfrund/passreset/internal/config"
	"github.com/nfrund/passreset/internal/logging"
	"github.com/nfrund/passreset/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			os.Setenv("SERVER_ADDR", serveAddr)
		}

		cfg, err := config.New()
		if err != nil {
			return err
		}
		logging.New(cfg.GetLogFormat(), cfg.GetLogLevel())

		s, err := server.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}
		s.RegisterRoutes()
		return s.Start()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides SERVER_ADDR")
	rootCmd.AddCommand(serveCmd)
}
