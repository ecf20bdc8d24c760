package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/sagarc03/testbed"
)

const (
	// ServerErrorBody is the body of every fallback 500 response.
	ServerErrorBody = "Server Error"
	// UnauthorizedBody is the body of 401 responses.
	UnauthorizedBody = "Unauthorized Access"
	// DefaultRealm is the basic auth realm used when none is configured.
	DefaultRealm = "Authentication Required"
)

// WriteText writes a plain text response.
func WriteText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	if _, err := io.WriteString(w, body); err != nil && !errors.Is(err, http.ErrBodyNotAllowed) {
		slog.Debug("failed to write response body", "error", err)
	}
}

// WriteServerError writes the fixed 500 response.
func WriteServerError(w http.ResponseWriter) {
	WriteText(w, http.StatusInternalServerError, ServerErrorBody)
}

// WriteUnauthorized writes a 401 response with a basic auth challenge for realm.
func WriteUnauthorized(w http.ResponseWriter, realm string) {
	if realm == "" {
		realm = DefaultRealm
	}
	w.Header().Set("WWW-Authenticate", fmt.Sprintf("Basic realm=%q", realm))
	WriteText(w, http.StatusUnauthorized, UnauthorizedBody)
}

// WriteTooManyRequests writes a 429 response.
func WriteTooManyRequests(w http.ResponseWriter, _ *http.Request) {
	WriteText(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
}

// HandleRateLimited is the limit handler given to ratelimit.Limiter. It reports
// testbed.ErrRateLimited through HandleError.
func HandleRateLimited(w http.ResponseWriter, r *http.Request) {
	HandleError(w, fmt.Errorf("%s %s from %s: %w", r.Method, r.URL.Path, clientIP(r), testbed.ErrRateLimited))
}

// HandleError writes appropriate error response based on error type
func HandleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, testbed.ErrNotFound):
		slog.Debug("not found", "error", err)
		writeDefaultNotFound(w)
	case errors.Is(err, testbed.ErrUnauthorized):
		slog.Debug("unauthorized", "error", err)
		WriteUnauthorized(w, DefaultRealm)
	case errors.Is(err, testbed.ErrRateLimited):
		slog.Debug("rate limited", "error", err)
		WriteTooManyRequests(w, nil)
	case errors.Is(err, testbed.ErrInvalidFailureRequest):
		slog.Debug("invalid failure request", "error", err)
		WriteServerError(w)
	default:
		slog.Error("request error", "error", err)
		WriteServerError(w)
	}
}
