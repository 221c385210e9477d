package health

import (
	"codeberg.org/openkombai/client/internal/generation"
	"codeberg.org/openkombai/client/internal/settings"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router gin.IRoutes, prober BackendProber, store *settings.Store, state func() generation.State) {
	router.GET("/health", Handler(prober, store, state))
	router.GET("/ping", PingHandler)
}
