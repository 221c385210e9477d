package websocket

import (
	"time"

	"codeberg.org/openkombai/client/internal/logger"
)

func NewHub() *Hub {
	h := &Hub{
		clients:       make(map[string]*Client),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		Broadcast:     make(chan *Message, 256),
		handlers:      make(map[string]MessageHandler),
		shutdown:      make(chan struct{}),
		ipConnections: make(map[string]int),
	}

	h.RegisterHandler(TypePing, pingHandler)

	return h
}

// registers a handler for a specific message type
func (h *Hub) RegisterHandler(messageType string, handler MessageHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[messageType] = handler
}

// sets callback to be called after a client is registered
func (h *Hub) OnClientRegistered(callback func(client *Client)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onClientRegistered = callback
}

// starts the hub's main loop
func (h *Hub) Run() {
	h.running.Store(true)
	defer h.running.Store(false)

	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case message := <-h.Broadcast:
			h.handleMessage(message)

		case <-h.shutdown:
			h.closeAllConnections()
			return
		}
	}
}

// adds a client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()

	h.clients[client.ID] = client

	if client.IPAddress != "" {
		h.ipConnections[client.IPAddress]++
	}

	callback := h.onClientRegistered

	h.mu.Unlock()

	logger.Info("client registered",
		"client_id", client.ID,
		"ip", client.IPAddress,
	)

	if callback != nil {
		callback(client)
	}
}

// removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[client.ID]; !exists {
		return
	}

	delete(h.clients, client.ID)
	client.Close()

	if client.IPAddress != "" {
		h.ipConnections[client.IPAddress]--

		if h.ipConnections[client.IPAddress] <= 0 {
			delete(h.ipConnections, client.IPAddress)
		}
	}

	logger.Info("client unregistered",
		"client_id", client.ID,
	)
}

// processes an incoming message
func (h *Hub) handleMessage(msg *Message) {
	h.mu.RLock()
	sender, exists := h.clients[msg.ClientID]
	handler, handled := h.handlers[msg.Type]
	h.mu.RUnlock()

	if !exists {
		logger.Warn("sender client not found for message",
			"client_id", msg.ClientID,
			"message_type", msg.Type,
		)
		return
	}

	if !handled {
		logger.Warn("unhandled message type received",
			"message_type", msg.Type,
			"client_id", sender.ID,
		)

		sender.SendError("bad_request", "unsupported message type", "message type not recognized")
		return
	}

	// run handler asynchronously to avoid blocking the hub
	go func() {
		if err := handler(h, sender, msg); err != nil {
			logger.ErrorErr(err, "handler error",
				"message_type", msg.Type,
				"client_id", sender.ID,
			)

			sender.SendError("server_error", "failed to process message", err.Error())
		}
	}()
}

// sends an event to every connected client
func (h *Hub) Publish(msgType string, payload any) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		logger.ErrorErr(err, "failed to create event",
			"message_type", msgType,
		)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// assign sequence number to message
	h.sequence++
	msg.Sequence = h.sequence

	for clientID, client := range h.clients {
		if err := client.Send(msg); err != nil {
			logger.Debug("failed to send event to client",
				"client_id", clientID,
				"message_type", msgType,
				"error", err,
			)
		}
	}
}

// returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// returns a connected client by ID
func (h *Hub) GetClient(id string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[id]

	return client, ok
}

func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		close(h.shutdown)
	})
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()

	logger.Info("notifying clients of server shutdown")

	shutdownMsg, err := NewMessage(TypeServerShutdown, ServerShutdownPayload{
		Reason: "server is shutting down",
	})
	if err == nil {
		for _, client := range h.clients {
			client.Send(shutdownMsg) //nolint:errcheck,gosec // G104: best effort notification
		}
	}

	h.mu.Unlock()

	// give clients time to receive the shutdown message
	time.Sleep(200 * time.Millisecond)

	h.mu.Lock()
	defer h.mu.Unlock()

	logger.Info("closing all websocket connections")

	for clientID, client := range h.clients {
		client.Close()
		logger.Debug("closed client", "client_id", clientID)
	}

	h.clients = make(map[string]*Client)
	h.ipConnections = make(map[string]int)
}

// checks if a new connection should be allowed based on limits
func (h *Hub) CanAcceptConnection(ipAddress string) (bool, string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.ipConnections[ipAddress] >= maxConnectionsPerIP {
		return false, "maximum connections per IP address exceeded"
	}

	return true, ""
}

func pingHandler(_ *Hub, client *Client, _ *Message) error {
	pong, err := NewMessage(TypePong, nil)
	if err != nil {
		return err
	}

	return client.Send(pong)
}
