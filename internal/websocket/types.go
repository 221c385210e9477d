package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// message type constants for websocket communication
const (
	// is sent to a connecting client with the current surface state
	TypeSnapshot = "snapshot"

	// is sent when a generation begins
	TypeGenerationStarted = "generation_started"

	// is sent when a generation ends, whatever the outcome
	TypeGenerationFinished = "generation_finished"

	// is sent when generated code is ready to display
	TypeResultDelivered = "result_delivered"

	// is sent when a failure should be shown to the user
	TypeErrorReported = "error_reported"

	// is sent when the current image selection changes
	TypeImageSelected = "image_selected"

	// is sent when generation settings change
	TypeSettingsChanged = "settings_changed"

	// is sent by a client to abort the running generation
	TypeCancel = "cancel"

	// is sent when a client message cannot be processed
	TypeError = "error"

	// is sent by clients to keep the connection alive
	TypePing = "ping"

	// is sent by server in response to ping
	TypePong = "pong"

	// is sent by server before shutdown
	TypeServerShutdown = "server_shutdown"
)

// client connection constants
const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// client messages are tiny commands; generated code only flows outbound
	maxMessageSize = 4 * 1024

	// inbound message rate per client
	inboundPerSecond = 5
	inboundBurst     = 10
)

// hub connection limit constants
const (
	maxConnectionsPerIP = 10
)

// errors
var (
	ErrInvalidMessage    = errors.New("invalid message format")
	ErrConnectionClosed  = errors.New("connection closed")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// represents a websocket message with typed payload
type Message struct {
	Type      string          `json:"type"`
	ClientID  string          `json:"-"` // internal only, not sent to clients
	Timestamp time.Time       `json:"timestamp"`
	Sequence  uint64          `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// contains the progress label of a started generation
type GenerationStartedPayload struct {
	Label string `json:"label"`
}

// contains how a generation ended
type GenerationFinishedPayload struct {
	Outcome string `json:"outcome"` // "completed" | "failed" | "canceled"
}

// contains generated code
type ResultDeliveredPayload struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// contains a user-facing failure
type ErrorReportedPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// contains the newly selected image
type ImageSelectedPayload struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Preview  string `json:"preview,omitempty"`
}

// contains the settings after a change
type SettingsChangedPayload struct {
	VisionModel string `json:"vision_model"`
	CodeModel   string `json:"code_model"`
	Endpoint    string `json:"endpoint"`
}

// contains information about server shutdown
type ServerShutdownPayload struct {
	Reason string `json:"reason"`
}

// represents a websocket client connection
type Client struct {
	// unique identifier for this client
	ID string

	// IP address of the client (for connection tracking)
	IPAddress string

	// websocket connection
	conn *websocket.Conn

	// hub reference for message routing
	hub *Hub

	// buffered channel of outbound messages
	send chan []byte

	// mutex for thread-safe operations
	mu sync.RWMutex

	// flag indicating if client is closed
	closed bool

	// inbound message limiter
	limiter *rate.Limiter
}

// maintains the set of connected browser clients and fans events out to them
type Hub struct {
	// registered clients by client ID
	clients map[string]*Client

	// register requests from clients
	Register chan *Client

	// unregister requests from clients
	Unregister chan *Client

	// inbound messages from clients
	Broadcast chan *Message

	// mutex for thread-safe access to clients
	mu sync.RWMutex

	// message handlers for different inbound message types
	handlers map[string]MessageHandler

	// flag indicating if hub is running
	running atomic.Bool

	// channel to signal shutdown
	shutdown     chan struct{}
	shutdownOnce sync.Once

	// connection tracking: IP address -> count of connections
	ipConnections map[string]int

	// sequence number for outbound event ordering
	sequence uint64

	// callback after a client is registered (e.g., send a snapshot)
	onClientRegistered func(client *Client)
}

// processes a specific message type
type MessageHandler func(hub *Hub, client *Client, msg *Message) error

// creates a new message with the given payload
func NewMessage(msgType string, payload any) (*Message, error) {
	var raw json.RawMessage

	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}

		raw = b
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Payload:   raw,
	}, nil
}

// unmarshals the message payload into v
func (m *Message) UnmarshalPayload(v any) error {
	if len(m.Payload) == 0 {
		return ErrInvalidMessage
	}

	return json.Unmarshal(m.Payload, v)
}
