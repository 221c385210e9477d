package generation

import (
	"time"

	"codeberg.org/openkombai/client/internal/failure"
)

// DefaultTimeout bounds one submission. local inference is slow, so this is
// far longer than a usual HTTP timeout.
const DefaultTimeout = 600 * time.Second

const (
	generatePath = "/generate"
	healthPath   = "/health"

	// multipart field names expected by the backend
	fieldFile        = "file"
	fieldVisionModel = "vision_model"
	fieldCodeModel   = "code_model"

	// upper bound on how much of a response body is read
	maxResponseBytes = 16 << 20

	healthTimeout = 5 * time.Second
)

// Result is produced only by a successful backend response.
type Result struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// lifecycle of a client instance
type State int

const (
	StateIdle State = iota
	StateAwaitingSelection
	StateSubmitting
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingSelection:
		return "awaiting_selection"
	case StateSubmitting:
		return "submitting"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// how a submission ended, as reported to ProgressReporter.End
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeCanceled  Outcome = "canceled"
)

// shows the user that a generation is running
type ProgressReporter interface {
	Begin(label string)
	End(outcome Outcome)
}

// hands the outcome of a generation to a viewable surface
type ResultSink interface {
	DeliverResult(result Result)
	ReportError(err *failure.Error)
}

// what every host adapter provides
type Host interface {
	ProgressReporter
	ResultSink
}

// backend health probe answer
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type generateResponse struct {
	Code        *string `json:"code"`
	Description string  `json:"description"`
}
