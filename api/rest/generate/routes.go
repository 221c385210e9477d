package generate

import (
	"context"

	"github.com/gin-gonic/gin"
)

// registers code generation routes
func RegisterRoutes(router *gin.RouterGroup, base context.Context, gen Generator, buffer Buffer) {
	group := router.Group("/generate")
	{
		group.POST("", StartHandler(base, gen))
		group.GET("", StatusHandler(gen, buffer))
		group.DELETE("", CancelHandler(gen))
		group.PUT("/buffer", UpdateBufferHandler(buffer))
	}
}
