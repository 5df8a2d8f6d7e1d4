package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thepoff1327/N-and-N/internal/analysis"
	"github.com/thepoff1327/N-and-N/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis pipeline over HTTP",
	Long: `Starts an HTTP server exposing the same analysis the interactive
session runs:

  POST /analyze  {"expression": "n^2+3n+2", "set": "N"}
  GET  /healthz`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.ListenAddr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}

		analyzer := analysis.New(logger)
		analyzer.Window = cfg.SampleWindow
		analyzer.PrimeCap = cfg.PrimeCap

		srv := &http.Server{
			Addr:              addr,
			Handler:           api.NewHandler(analyzer, logger),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		logger.Info("http server listening",
			zap.String("addr", addr),
			zap.Int("sample_window", analyzer.Window),
			zap.Int64("prime_cap", analyzer.PrimeCap))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}
