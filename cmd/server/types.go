package main

import (
	"context"

	"codeberg.org/openkombai/client/internal/browser"
	"codeberg.org/openkombai/client/internal/config"
	"codeberg.org/openkombai/client/internal/generation"
	"codeberg.org/openkombai/client/internal/ratelimit"
	"codeberg.org/openkombai/client/internal/settings"
	ws "codeberg.org/openkombai/client/internal/websocket"
	"github.com/gin-gonic/gin"
)

// holds all dependencies and state for the browser host
type Server struct {
	config    *config.Config
	store     *settings.Store
	client    *generation.Client
	generator *generation.Generator
	adapter   *browser.Adapter
	hub       *ws.Hub
	limiter   *ratelimit.Store
	router    *gin.Engine

	// generations run under this context so they outlive the request that
	// started them and stop when the server does
	ctx    context.Context
	cancel context.CancelFunc
}
