package image

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, selector Selector, notifier SelectionNotifier, maxBytes int64) {
	router.POST("/image", UploadHandler(selector, notifier, maxBytes))
	router.GET("/image/preview", PreviewHandler(selector))
}
