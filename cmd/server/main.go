package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muscatlabs/qanun/internal/api"
	"github.com/muscatlabs/qanun/internal/config"
	"github.com/muscatlabs/qanun/internal/index"
	"github.com/muscatlabs/qanun/internal/llm"
	"github.com/muscatlabs/qanun/internal/pipeline"
	"github.com/muscatlabs/qanun/internal/section"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	client, err := llm.New(llm.Config{
		BaseURL:          cfg.OpenRouterBaseURL,
		APIKey:           cfg.OpenRouterAPIKey,
		Model:            cfg.ChatModel,
		EmbeddingBaseURL: cfg.EmbeddingBaseURL,
		EmbeddingModel:   cfg.EmbeddingModel,
		Temperature:      cfg.Temperature,
		MaxTokens:        cfg.MaxTokens,
	}, log)
	if err != nil {
		log.Error("llm client init failed", "error", err)
		os.Exit(1)
	}

	store, err := index.New(cfg.IndexPath, client.EmbeddingFunc(), log)
	if err != nil {
		log.Error("index init failed", "error", err)
		os.Exit(1)
	}

	nav := section.NewNavigator(log)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, nav, store, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, nav, store, client, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting qanun", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
