package health

import (
	"net/http"

	"codeberg.org/openkombai/client/internal/generation"
	"codeberg.org/openkombai/client/internal/settings"
	"github.com/gin-gonic/gin"
)

const (
	service = "openkombai"
	version = "1.0.0"
)

// returns the server health status together with a probe of the backend the
// current settings point at. the server itself is healthy either way.
func Handler(prober BackendProber, store *settings.Store, state func() generation.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := store.Get().Endpoint

		backend := BackendHealth{Endpoint: endpoint, Status: "unreachable"}

		h, err := prober.Health(c.Request.Context(), endpoint)
		if err != nil {
			backend.Error = err.Error()
		} else {
			backend.Status = h.Status
			backend.Service = h.Service
		}

		c.JSON(http.StatusOK, Response{
			Status:  "healthy",
			Service: service,
			Version: version,
			Backend: backend,
			State:   state().String(),
		})
	}
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong"})
}
