package main

import (
	"fmt"

	"codeberg.org/openkombai/client/api/rest/generate"
	"codeberg.org/openkombai/client/api/rest/health"
	"codeberg.org/openkombai/client/api/rest/image"
	"codeberg.org/openkombai/client/api/rest/settings"
	"codeberg.org/openkombai/client/api/websocket"
	"codeberg.org/openkombai/client/internal/ratelimit"
	"codeberg.org/openkombai/client/internal/webui"
	"github.com/gin-gonic/gin"
)

// sets up all routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	router.Use(CORSMiddleware(server.config))

	health.RegisterRoutes(router, server.client, server.store, server.generator.State)

	if err := webui.RegisterRoutes(router, server.store, server.config.MaxUploadBytes); err != nil {
		return err
	}

	limit, err := ratelimit.Middleware(server.config.RateLimit, server.limiter)
	if err != nil {
		return fmt.Errorf("failed to configure rate limit: %w", err)
	}

	v1 := router.Group("/api/v1")

	// the event stream is long-lived; only the request/response routes count
	// against the limit
	websocket.RegisterRoutes(v1, server.hub, server.generator)

	limited := v1.Group("", limit)
	{
		settings.RegisterRoutes(limited, server.store, server.adapter)
		image.RegisterRoutes(limited, server.generator, server.adapter, server.config.MaxUploadBytes)
		generate.RegisterRoutes(limited, server.ctx, server.generator, server.adapter)
	}

	return nil
}
