package errors

import (
	"net/http"
	"os"
	"strings"

	"codeberg.org/openkombai/client/internal/failure"
	"codeberg.org/openkombai/client/internal/logger"
	"github.com/gin-gonic/gin"
)

// Error Handling Guidelines:
//
// For HTTP REST handlers:
//   - Use errors.Failure() for classified generation/settings failures and
//     errors.BadRequest(), errors.InternalError(), etc. for everything else
//   - InternalError logs; the others do not, since the failure was already
//     logged where it was classified
//
// For internal packages:
//   - Return wrapped errors with context using fmt.Errorf("context: %w", err)
//     or a *failure.Error
//   - Let the caller (handler or host adapter) decide how to log and surface

// returns a 400 bad request error
func BadRequest(c *gin.Context, message string, err error) {
	if message == "" {
		message = "invalid request"
	}

	response := ErrorResponse{
		Error:   CodeBadRequest,
		Message: message,
	}

	if err != nil {
		response.Details = sanitizeError(err)
	}

	c.JSON(http.StatusBadRequest, response)
}

// returns a 404 not found error
func NotFound(c *gin.Context, resource string) {
	message := "resource not found"

	if resource != "" {
		message = resource + " not found"
	}

	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   CodeNotFound,
		Message: message,
	})
}

// returns a 403 forbidden error
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "access denied"
	}

	c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
		Error:   CodeForbidden,
		Message: message,
	})
}

// returns a 415 error for images the backend cannot read
func UnsupportedImage(c *gin.Context, err error) {
	c.JSON(http.StatusUnsupportedMediaType, ErrorResponse{
		Error:   CodeUnsupportedImage,
		Message: "only png, jpeg and webp images are supported",
		Details: sanitizeError(err),
	})
}

// returns a 413 error for uploads over the size limit
func ImageTooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
		Error:   CodeImageTooLarge,
		Message: "image exceeds the upload size limit",
	})
}

// returns a 429 too many requests error
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "too many requests"
	}

	c.JSON(http.StatusTooManyRequests, ErrorResponse{
		Error:   CodeTooManyRequests,
		Message: message,
	})
}

// returns a 500 internal server error
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "an error occurred"
	}

	logger.ErrorErr(err, message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   CodeServerError,
		Message: message,
		Details: sanitizeError(err),
	})
}

// answers with the status matching a classified failure. the failure
// message is already meant for users and is passed through.
func Failure(c *gin.Context, err error) {
	fe, ok := failure.As(err)
	if !ok {
		InternalError(c, "", err)
		return
	}

	c.JSON(StatusFor(fe.Kind), ErrorResponse{
		Error:   string(fe.Kind),
		Message: fe.Message,
		Details: sanitizeDetail(fe.RawDetail),
	})
}

// maps a failure kind to an HTTP status
func StatusFor(kind failure.Kind) int {
	switch kind {
	case failure.KindNoImageSelected, failure.KindInvalidModel, failure.KindInvalidEndpoint:
		return http.StatusBadRequest
	case failure.KindBusy:
		return http.StatusConflict
	case failure.KindTimeout:
		return http.StatusGatewayTimeout
	case failure.KindTransport, failure.KindBackend:
		return http.StatusBadGateway
	case failure.KindCanceled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// sanitizes error messages for production
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}

	errMsg := err.Error()

	if os.Getenv("ENVIRONMENT") != "production" {
		return errMsg
	}

	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "network") {
		return "connection error occurred"
	}

	if strings.Contains(errMsg, "timeout") {
		return "request timed out"
	}

	if strings.Contains(errMsg, "not found") {
		return "resource not found"
	}

	return "an error occurred"
}

// backend bodies can be large HTML error pages; keep the head of them
func sanitizeDetail(raw string) string {
	if os.Getenv("ENVIRONMENT") == "production" {
		return ""
	}

	const maxDetail = 2048
	if len(raw) > maxDetail {
		return raw[:maxDetail]
	}

	return raw
}
