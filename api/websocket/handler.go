package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"codeberg.org/openkombai/client/internal/errors"
	"codeberg.org/openkombai/client/internal/logger"
	ws "codeberg.org/openkombai/client/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     ws.CheckOrigin,
}

// handles the page's event stream: generation progress, results, errors and
// selection/settings changes flow out; ping and cancel flow in.
func EventsHandler(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ipAddress := c.ClientIP()

		if ok, reason := hub.CanAcceptConnection(ipAddress); !ok {
			errors.TooManyRequests(c, reason)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// the upgrader already wrote an HTTP error
			logger.Warn("websocket upgrade failed",
				"ip", ipAddress,
				"error", err,
			)
			return
		}

		client := ws.NewClient(ws.GenerateClientID(), ipAddress, conn, hub)

		hub.Register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}

// handles cancel messages sent by the page
func CancelHandler(canceler Canceler) ws.MessageHandler {
	return func(_ *ws.Hub, client *ws.Client, _ *ws.Message) error {
		if !canceler.Cancel() {
			client.SendError("bad_request", "no generation is running", "")
			return nil
		}

		logger.Info("generation canceled by client", "client_id", client.ID)

		return nil
	}
}
