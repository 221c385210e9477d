package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codeberg.org/openkombai/client/internal/failure"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/generate", nil)

	fn(c)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return w, body
}

func TestFailureStatusAndBody(t *testing.T) {
	tests := []struct {
		err    *failure.Error
		status int
	}{
		{failure.NoImageSelected(), http.StatusBadRequest},
		{failure.Busy(), http.StatusConflict},
		{failure.Timeout(nil), http.StatusGatewayTimeout},
		{failure.Transport(stderrors.New("dial tcp: refused")), http.StatusBadGateway},
		{failure.Backend("model not found", `{"detail":"model not found"}`), http.StatusBadGateway},
		{failure.InvalidModel("code", "x"), http.StatusBadRequest},
		{failure.Canceled(nil), http.StatusRequestTimeout},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			w, body := respond(t, func(c *gin.Context) { Failure(c, tt.err) })

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, string(tt.err.Kind), body.Error)
			assert.Equal(t, tt.err.Message, body.Message)
		})
	}
}

func TestFailureUnclassifiedIsInternal(t *testing.T) {
	w, body := respond(t, func(c *gin.Context) { Failure(c, stderrors.New("boom")) })

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, CodeServerError, body.Error)
}

func TestSanitizeInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, body := respond(t, func(c *gin.Context) {
		BadRequest(c, "", stderrors.New("dial tcp 10.0.0.3: connection refused"))
	})
	assert.Equal(t, "invalid request", body.Message)
	assert.Equal(t, "connection error occurred", body.Details)

	_, body = respond(t, func(c *gin.Context) {
		Failure(c, failure.Backend("oops", "<html>stack trace</html>"))
	})
	assert.Empty(t, body.Details)
}

func TestDetailIsTruncated(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	_, body := respond(t, func(c *gin.Context) {
		Failure(c, failure.Backend("oops", strings.Repeat("x", 5000)))
	})
	assert.Len(t, body.Details, 2048)
}
