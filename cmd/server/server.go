package main

import (
	"context"
	"fmt"

	"codeberg.org/openkombai/client/internal/browser"
	"codeberg.org/openkombai/client/internal/config"
	"codeberg.org/openkombai/client/internal/generation"
	"codeberg.org/openkombai/client/internal/logger"
	"codeberg.org/openkombai/client/internal/ratelimit"
	"codeberg.org/openkombai/client/internal/settings"
	ws "codeberg.org/openkombai/client/internal/websocket"
	"github.com/gin-gonic/gin"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config, initial settings.Settings) (*Server, error) {
	store, err := settings.NewStoreWith(initial)
	if err != nil {
		return nil, fmt.Errorf("invalid initial settings: %w", err)
	}

	limiter, err := ratelimit.NewStore(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
	}

	hub := ws.NewHub()
	adapter := browser.NewAdapter(hub)

	// a page that (re)connects renders from the current snapshot
	hub.OnClientRegistered(adapter.OnClientRegistered)

	client := generation.NewClient(generation.WithTimeout(cfg.RequestTimeout))
	generator := generation.NewGenerator(client, store, adapter)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	ctx, cancel := context.WithCancel(context.Background())

	server := &Server{
		config:    cfg,
		store:     store,
		client:    client,
		generator: generator,
		adapter:   adapter,
		hub:       hub,
		limiter:   limiter,
		router:    router,
		ctx:       ctx,
		cancel:    cancel,
	}

	if err := RegisterRoutes(router, server); err != nil {
		cancel()
		limiter.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, err
	}

	current := store.Get()

	logger.Info("browser host configured",
		"endpoint", current.Endpoint,
		"vision_model", current.VisionModel,
		"code_model", current.CodeModel,
		"request_timeout", cfg.RequestTimeout.String(),
		"rate_limit", cfg.RateLimit,
	)

	return server, nil
}

// aborts a running generation and releases the server's resources
func (s *Server) Close() {
	s.cancel()
	s.hub.Shutdown()
	s.limiter.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
}
