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

	"go.uber.org/zap"

	"trade-tracker-go/internal/config"
	"trade-tracker-go/internal/logger"
	"trade-tracker-go/internal/store"
	"trade-tracker-go/internal/view"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Open the trade log
	tradeStore, err := store.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to open trade log", zap.Error(err))
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatal("Failed to load page templates", zap.Error(err))
	}

	limiter := NewSubmitLimiter(cfg.Server.SubmitRate, cfg.Server.SubmitBurst)
	handler := NewTradeHandler(log.Named("ui"), tradeStore, renderer, limiter)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(handler, log.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("Web server shutdown failed", zap.Error(err))
		}
	}()

	log.Info("Starting web server", zap.String("address", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Web server failed", zap.Error(err))
	}
	log.Info("Web server stopped")
}
