package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wgomg/oratoria/internal/api"
	"github.com/wgomg/oratoria/internal/utils"
	"github.com/wgomg/oratoria/internal/utils/httputils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the revision HTTP service",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := utils.NewLogger(cfg.App.LogLevel, cfg.App.RawBodyLog)
	logger.Info(nil, "Starting Speech Revision Service")
	logger.Info(nil, "Environment: %s", cfg.App.Env)
	logger.Info(nil, "Log level: %s", cfg.App.LogLevel)
	logger.Info(nil, "Response mode: %s", cfg.App.ResponseMode)
	logger.Info(nil, "Stages: fact_check=%v, redundancy=%v, grammar=%v",
		cfg.Pipeline.EnableFactCheck, cfg.Pipeline.EnableRedundancy, cfg.Pipeline.EnableGrammar)

	pipeline, inferenceClient, err := buildPipeline(cfg, logger)
	if err != nil {
		logger.Error(nil, "%v", err)
		return err
	}

	handler := api.NewHandler(logger, pipeline, inferenceClient, cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "Speech Revision Service is running\n")
	})
	api.RegisterRoutes(mux, handler)

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.App.ServerPort,
		Handler:           httputils.WithRequestID(httputils.LogRequests(logger, mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info(nil, "Starting server on port %s", cfg.App.ServerPort)
	logger.Info(nil, "Endpoints:")
	logger.Info(nil, "  GET  /health")
	logger.Info(nil, "  POST /revision")
	logger.Info(nil, "  POST /transcribe")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error(nil, "HTTP server error: %v", err)
			return err
		}
		return nil
	case <-sigCh:
	}

	logger.Info(nil, "Shutdown signal received, stopping server")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Pipeline.TimeoutSeconds)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error(nil, "Error during shutdown: %v", err)
		return err
	}

	logger.Info(nil, "Server stopped")
	return nil
}
