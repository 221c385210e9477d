package websocket

import (
	"github.com/gin-gonic/gin"

	ws "codeberg.org/openkombai/client/internal/websocket"
)

func RegisterRoutes(router *gin.RouterGroup, hub *ws.Hub, canceler Canceler) {
	hub.RegisterHandler(ws.TypeCancel, CancelHandler(canceler))

	router.GET("/events", EventsHandler(hub))
}
