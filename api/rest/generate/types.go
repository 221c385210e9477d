package generate

import (
	"context"

	"codeberg.org/openkombai/client/internal/browser"
	"codeberg.org/openkombai/client/internal/generation"
)

// starts and aborts generations for the browser surface
type Generator interface {
	Start(ctx context.Context) (*generation.Task, error)
	Cancel() bool
	State() generation.State
}

// the page's code buffer
type Buffer interface {
	Snapshot() browser.Snapshot
	EditBuffer(code string)
}

type StartResponse struct {
	Status string `json:"status"`
	State  string `json:"state"`
}

type StatusResponse struct {
	browser.Snapshot
	State string `json:"state"`
}

type CancelResponse struct {
	Canceled bool `json:"canceled"`
}

type BufferRequest struct {
	Code string `json:"code"`
}
