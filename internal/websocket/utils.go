package websocket

import (
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"

	"codeberg.org/openkombai/client/internal/logger"
	"github.com/google/uuid"
)

// AnyOrigin in ALLOWED_ORIGINS opens the host to every origin.
const AnyOrigin = "*"

func getAllowedWebSocketOrigins() []string {
	if envOrigins := os.Getenv("ALLOWED_ORIGINS"); envOrigins != "" {
		origins := strings.Split(envOrigins, ",")

		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}

		return origins
	}

	return []string{}
}

// reports whether origin names the host r was sent to
func SameOrigin(r *http.Request, origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}

	return strings.EqualFold(u.Host, r.Host)
}

// reports whether origin is listed in allowed, or allowed holds AnyOrigin
func OriginAllowed(origin string, allowed []string) bool {
	return slices.Contains(allowed, AnyOrigin) || slices.Contains(allowed, origin)
}

// accepts the page's own origin and ALLOWED_ORIGINS in every environment.
// requests without an Origin header do not come from a browser page.
func CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if SameOrigin(r, origin) {
		return true
	}

	allowedOrigins := getAllowedWebSocketOrigins()

	if OriginAllowed(origin, allowedOrigins) {
		return true
	}

	logger.Warn("websocket origin rejected - not in allowed origins",
		"origin", origin,
		"allowed_origins", allowedOrigins,
	)

	return false
}

func GenerateClientID() string {
	return uuid.NewString()
}

// sanitizes error details in production
func sanitizeErrorString(details string) string {
	if os.Getenv("ENVIRONMENT") != "production" {
		return details
	}

	return ""
}
