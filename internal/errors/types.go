package errors

// represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`             // error code (e.g., "busy", "no_image_selected")
	Message string `json:"message"`           // user-friendly message
	Details string `json:"details,omitempty"` // optional details (sanitized in production)
}

// standard error codes that are not generation failure kinds
const (
	CodeBadRequest       = "bad_request"
	CodeNotFound         = "not_found"
	CodeForbidden        = "forbidden"
	CodeServerError      = "server_error"
	CodeTooManyRequests  = "too_many_requests"
	CodeUnsupportedImage = "unsupported_image"
	CodeImageTooLarge    = "image_too_large"
)
