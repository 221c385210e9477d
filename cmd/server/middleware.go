package main

import (
	"slices"
	"time"

	"codeberg.org/openkombai/client/internal/config"
	"codeberg.org/openkombai/client/internal/errors"
	"codeberg.org/openkombai/client/internal/logger"
	ws "codeberg.org/openkombai/client/internal/websocket"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// the embedded page's own origin always passes. other origins need to be
// listed in ALLOWED_ORIGINS ("*" allows all) and are refused otherwise, in
// every environment.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	}

	var crossOrigin gin.HandlerFunc

	switch {
	case slices.Contains(cfg.AllowedOrigins, ws.AnyOrigin):
		corsConfig.AllowAllOrigins = true
		crossOrigin = cors.New(corsConfig)
	case len(cfg.AllowedOrigins) > 0:
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		crossOrigin = cors.New(corsConfig)
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || ws.SameOrigin(c.Request, origin) {
			c.Next()
			return
		}

		if crossOrigin == nil || !ws.OriginAllowed(origin, cfg.AllowedOrigins) {
			logger.Warn("cross-origin request rejected",
				"origin", origin,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			errors.Forbidden(c, "origin not allowed")

			return
		}

		crossOrigin(c)
	}
}

// logs each request through the shared logger
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// successful reads are frequent; keep them at debug
		level := logger.Info
		if c.Request.Method == "GET" && c.Writer.Status() < 400 {
			level = logger.Debug
		}

		level("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
		)
	}
}
