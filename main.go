package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mentor/handlers"
	"mentor/pkg/actionlog"
	"mentor/pkg/completion"
	"mentor/pkg/config"
	"mentor/pkg/content"
	"mentor/pkg/logx"
	"mentor/pkg/mentor"
	"mentor/pkg/metrics"
	"mentor/pkg/retrieval"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()

	// Use CONFIG_PATH env var if flag not provided
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logx.NewLogger("mentor")

	completionClient, err := completion.NewClient(cfg.Completion)
	if err != nil {
		log.Fatalf("Failed to create completion client: %v", err)
	}

	sink, err := actionlog.NewSink(cfg.ActionLog)
	if err != nil {
		log.Fatalf("Failed to create action log sink: %v", err)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warn("failed to close action log sink: %v", err)
		}
	}()

	recorder := metrics.NewRecorder()
	retrievalClient := retrieval.NewClient(cfg.RAG.APIURL, cfg.RAG.Timeout)
	agent := mentor.NewAgent(retrievalClient, completionClient, sink, recorder)

	// The content client is optional; without configured credentials the
	// /content endpoints report 503.
	var contentClient *content.Client
	if cfg.Content.BaseURL != "" && cfg.Content.Username != "" {
		contentClient = content.NewClient(cfg.Content)
		if contentClient.Authenticated() {
			logger.Info("content service connected: %s", cfg.Content.BaseURL)
		} else {
			logger.Warn("content service authentication failed, requests will retry login")
		}
	}

	var stats *metrics.QueryService
	if cfg.Metrics.PrometheusURL != "" {
		stats, err = metrics.NewQueryService(cfg.Metrics.PrometheusURL)
		if err != nil {
			logger.Warn("failed to create metrics query service: %v", err)
		}
	}

	server := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           handlers.NewServer(agent, stats, contentClient).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", cfg.Server.ListenAddr)
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received %v, shutting down", sig)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed: %v", err)
	}
	logger.Info("shutdown complete")
}
