/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/ainews/apiserver/config"
	"github.com/ainews/apiserver/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the news aggregator backend server",
	Long: `Starts the news aggregator backend server. Usage:

	apiserver server
`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()

		cfg, err := config.LoadConfig()
		if err != nil {
			logger.Fatalf("failed to load config: %v", err)
		}
		if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			logger.SetLevel(level)
		}

		srv, err := server.New(cmd.Context(), cfg, logger)
		if err != nil {
			logger.Fatalf("failed to start server: %v", err)
		}

		logger.WithFields(logrus.Fields{
			"port":        cfg.ServerPort,
			"environment": cfg.Environment,
		}).Info("starting server")

		if err := srv.Start(); err != nil {
			logger.Fatalf("server error: %v", err)
		}
	},
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
