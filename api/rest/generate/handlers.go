package generate

import (
	"context"
	"net/http"

	"codeberg.org/openkombai/client/internal/errors"
	"github.com/gin-gonic/gin"
)

// StartHandler starts a generation for the current selection and returns
// immediately; progress and the result arrive over the event stream.
// base outlives the request so closing the tab does not abort the run.
func StartHandler(base context.Context, gen Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := gen.Start(base); err != nil {
			errors.Failure(c, err)
			return
		}

		c.JSON(http.StatusAccepted, StartResponse{
			Status: "started",
			State:  gen.State().String(),
		})
	}
}

// StatusHandler returns the code buffer, progress and last error
func StatusHandler(gen Generator, buffer Buffer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, StatusResponse{
			Snapshot: buffer.Snapshot(),
			State:    gen.State().String(),
		})
	}
}

// CancelHandler aborts the running generation, if there is one
func CancelHandler(gen Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, CancelResponse{Canceled: gen.Cancel()})
	}
}

// UpdateBufferHandler keeps the server copy of the buffer in step with edits
// made in the page
func UpdateBufferHandler(buffer Buffer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BufferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.BadRequest(c, "invalid buffer update", err)
			return
		}

		buffer.EditBuffer(req.Code)

		c.Status(http.StatusNoContent)
	}
}
