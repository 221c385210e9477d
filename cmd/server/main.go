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

	"codeberg.org/openkombai/client/internal/config"
	"codeberg.org/openkombai/client/internal/logger"
	"codeberg.org/openkombai/client/internal/settings"
)

func main() {
	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	logger.Configure(logger.Options{Environment: cfg.Environment})

	flags, err := config.ParseServerFlags(os.Args[1:], cfg)
	if err != nil {
		logger.Fatal("invalid flags", "error", err)
	}

	logger.Info("starting openkombai browser host")

	initial := config.Merge(cfg.Settings(), settings.Settings{Endpoint: flags.Backend})

	srv, err := NewServer(cfg, initial)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", flags.Port),
		Handler:           srv.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", flags.Port)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// start websocket hub
	go srv.hub.Run()

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// abort any running generation, notify websocket clients and close connections
	srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}
