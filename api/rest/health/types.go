package health

import (
	"context"

	"codeberg.org/openkombai/client/internal/generation"
)

// probes the generation backend
type BackendProber interface {
	Health(ctx context.Context, endpoint string) (*generation.Health, error)
}

// Response represents the health check response
type Response struct {
	Status  string        `json:"status"`
	Service string        `json:"service"`
	Version string        `json:"version,omitempty"`
	Backend BackendHealth `json:"backend"`
	State   string        `json:"state"`
}

// reports whether the configured backend answered its health probe
type BackendHealth struct {
	Endpoint string `json:"endpoint"`
	Status   string `json:"status"`
	Service  string `json:"service,omitempty"`
	Error    string `json:"error,omitempty"`
}

type PingResponse struct {
	Message string `json:"message"`
}
