package websocket

import (
	"encoding/json"
	"time"

	"codeberg.org/openkombai/client/internal/errors"
	"codeberg.org/openkombai/client/internal/logger"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// creates a new webSocket client connection
func NewClient(id, ipAddress string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:        id,
		IPAddress: ipAddress,
		conn:      conn,
		hub:       hub,
		send:      make(chan []byte, 256),
		limiter:   rate.NewLimiter(rate.Limit(inboundPerSecond), inboundBurst),
	}
}

// reads messages from the webSocket connection to the hub for processing
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister <- c
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket error",
					"client_id", c.ID,
					"error", err,
				)
			}

			break
		}

		if err := c.checkInbound(); err != nil {
			c.SendError("too_many_requests", "too many messages, slow down", err.Error())
			continue
		}

		var msg Message
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			logger.Debug("failed to unmarshal message",
				"client_id", c.ID,
				"error", err,
			)

			c.SendError("bad_request", "invalid message format", err.Error())
			continue
		}

		msg.ClientID = c.ID
		msg.Timestamp = time.Now()

		// forward to hub for processing
		c.hub.Broadcast <- &msg
	}
}

// writes messages from the hub to the webSocket connection for sending to the client
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing

			if !ok {
				// hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck,gosec // G104: close message
				return
			}

			// one event per frame so the page can JSON.parse each one
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket ping timing

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sends a message to the client
func (c *Client) Send(msg *Message) (err error) {
	// recover from panic if channel is closed
	defer func() {
		if r := recover(); r != nil {
			err = ErrConnectionClosed
		}
	}()

	c.mu.RLock()

	if c.closed {
		c.mu.RUnlock()
		return ErrConnectionClosed
	}

	c.mu.RUnlock()

	messageBytes, marshalErr := json.Marshal(msg)
	if marshalErr != nil {
		return marshalErr
	}

	select {
	case c.send <- messageBytes:
		return nil
	default:
		// a client this far behind has missed state; it reconnects and gets a snapshot
		c.Close()
		return ErrConnectionClosed
	}
}

// sends an error message to the client
func (c *Client) SendError(code, message, details string) {
	sanitizedDetails := details

	if details != "" {
		sanitizedDetails = sanitizeErrorString(details)
	}

	errorMsg, err := NewMessage(TypeError, errors.ErrorResponse{
		Error:   code,
		Message: message,
		Details: sanitizedDetails,
	})
	if err != nil {
		logger.ErrorErr(err, "failed to create error message",
			"client_id", c.ID,
			"error_code", code,
		)
		return
	}

	c.Send(errorMsg) //nolint:errcheck,gosec // G104: best effort error notification
}

// closes the client connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// checks if the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.closed
}

// returns ErrRateLimitExceeded once the client sends faster than its limiter allows
func (c *Client) checkInbound() error {
	if c.limiter == nil || c.limiter.Allow() {
		return nil
	}

	return ErrRateLimitExceeded
}
