package websocket

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestClient(hub *Hub, id string) *Client {
	return &Client{
		ID:        id,
		IPAddress: "127.0.0.1",
		hub:       hub,
		send:      make(chan []byte, 256),
	}
}

func receive(t *testing.T, client *Client) Message {
	t.Helper()

	select {
	case raw := <-client.send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func TestHubCreation(t *testing.T) {
	hub := NewHub()
	require.NotNil(t, hub)
	assert.NotNil(t, hub.Register)
	assert.NotNil(t, hub.Unregister)
	assert.NotNil(t, hub.Broadcast)
}

func TestHubRegisterAndUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	client := newTestClient(hub, "client-1")

	hub.Register <- client
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 1, hub.ClientCount())

	got, ok := hub.GetClient("client-1")
	require.True(t, ok)
	assert.Same(t, client, got)

	hub.Unregister <- client
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, hub.ClientCount())
	assert.True(t, client.IsClosed())
}

func TestHubOnClientRegistered(t *testing.T) {
	hub := NewHub()
	hub.OnClientRegistered(func(client *Client) {
		msg, err := NewMessage(TypeSnapshot, map[string]bool{"busy": false})
		if err == nil {
			client.Send(msg) //nolint:errcheck
		}
	})

	go hub.Run()
	defer hub.Shutdown()

	client := newTestClient(hub, "client-1")
	hub.Register <- client

	msg := receive(t, client)
	assert.Equal(t, TypeSnapshot, msg.Type)
	assert.JSONEq(t, `{"busy":false}`, string(msg.Payload))
}

func TestHubPublishOrdersEvents(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	client1 := newTestClient(hub, "client-1")
	client2 := newTestClient(hub, "client-2")

	hub.Register <- client1
	hub.Register <- client2
	time.Sleep(50 * time.Millisecond)

	hub.Publish(TypeGenerationStarted, GenerationStartedPayload{Label: "generating"})
	hub.Publish(TypeGenerationFinished, GenerationFinishedPayload{Outcome: "completed"})

	for _, client := range []*Client{client1, client2} {
		first := receive(t, client)
		second := receive(t, client)

		assert.Equal(t, TypeGenerationStarted, first.Type)
		assert.Equal(t, TypeGenerationFinished, second.Type)
		assert.Less(t, first.Sequence, second.Sequence)

		var payload GenerationFinishedPayload
		require.NoError(t, second.UnmarshalPayload(&payload))
		assert.Equal(t, "completed", payload.Outcome)
	}
}

func TestHubPingHandler(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	client := newTestClient(hub, "client-1")
	hub.Register <- client

	hub.Broadcast <- &Message{Type: TypePing, ClientID: client.ID}

	assert.Equal(t, TypePong, receive(t, client).Type)
}

func TestHubUnsupportedMessage(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	client := newTestClient(hub, "client-1")
	hub.Register <- client

	hub.Broadcast <- &Message{Type: "code_update", ClientID: client.ID}

	msg := receive(t, client)
	assert.Equal(t, TypeError, msg.Type)
	assert.Contains(t, string(msg.Payload), "bad_request")
}

func TestHubRegisteredHandler(t *testing.T) {
	hub := NewHub()

	called := make(chan string, 1)
	hub.RegisterHandler(TypeCancel, func(_ *Hub, client *Client, _ *Message) error {
		called <- client.ID
		return nil
	})

	go hub.Run()
	defer hub.Shutdown()

	client := newTestClient(hub, "client-1")
	hub.Register <- client

	hub.Broadcast <- &Message{Type: TypeCancel, ClientID: client.ID}

	select {
	case id := <-called:
		assert.Equal(t, "client-1", id)
	case <-time.After(time.Second):
		t.Fatal("cancel handler not called")
	}
}

func TestHubConnectionLimit(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	for i := 0; i < maxConnectionsPerIP; i++ {
		hub.Register <- newTestClient(hub, fmt.Sprintf("client-%d", i))
	}
	time.Sleep(50 * time.Millisecond)

	ok, reason := hub.CanAcceptConnection("127.0.0.1")
	assert.False(t, ok)
	assert.NotEmpty(t, reason)

	ok, _ = hub.CanAcceptConnection("10.0.0.2")
	assert.True(t, ok)
}

func TestHubShutdownNotifiesClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, "client-1")
	hub.Register <- client
	time.Sleep(50 * time.Millisecond)

	hub.Shutdown()
	hub.Shutdown()

	assert.Equal(t, TypeServerShutdown, receive(t, client).Type)

	assert.Eventually(t, client.IsClosed, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestClientSendAfterClose(t *testing.T) {
	client := newTestClient(nil, "client-1")
	client.Close()
	client.Close()

	msg, err := NewMessage(TypePong, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, client.Send(msg), ErrConnectionClosed)
}

func TestClientInboundLimiter(t *testing.T) {
	client := newTestClient(nil, "client-1")
	client.limiter = rate.NewLimiter(rate.Limit(1), 2)

	assert.NoError(t, client.checkInbound())
	assert.NoError(t, client.checkInbound())
	assert.ErrorIs(t, client.checkInbound(), ErrRateLimitExceeded)
}

func TestMessagePayload(t *testing.T) {
	msg, err := NewMessage(TypeErrorReported, ErrorReportedPayload{Kind: "busy", Message: "a generation is already running"})
	require.NoError(t, err)

	var payload ErrorReportedPayload
	require.NoError(t, msg.UnmarshalPayload(&payload))
	assert.Equal(t, "busy", payload.Kind)

	empty, err := NewMessage(TypePong, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, empty.UnmarshalPayload(&payload), ErrInvalidMessage)
}
