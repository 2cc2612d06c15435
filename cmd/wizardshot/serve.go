package main

import (
	"fmt"
	"net/http"
	"time"

	"wizardshot/internal/config"
	"wizardshot/internal/runner"
	"wizardshot/internal/server"
	"wizardshot/internal/ui"

	"github.com/spf13/cobra"
)

var (
	flagServeOutput string
	flagPort        int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the captured images, manifest and log for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(config.Options{Output: flagServeOutput})
		if err != nil {
			return err
		}

		addr := fmt.Sprintf(":%d", flagPort)
		srv := &http.Server{
			Addr:              addr,
			Handler:           server.New(cfg.Output, runner.PlanFor(cfg)).Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		logSvc := ui.NewLogger(cfg.Debug).WithOutput(cmd.OutOrStdout())
		logSvc.Infof("wizardshot serve listening on %s (dir %s)\n", addr, cfg.Output)
		return srv.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagServeOutput, "output", "", "folder to serve (default from config)")
	serveCmd.Flags().IntVar(&flagPort, "port", 8787, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}
