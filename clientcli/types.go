package clientcli

import (
	"io"
	"time"
)

// Result describes a single response from the server.
type Result struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Status      int           `json:"status"`
	Body        string        `json:"body,omitempty"`
	ContentType string        `json:"content_type,omitempty"`
	Size        int64         `json:"size_bytes"`
	Duration    time.Duration `json:"duration_ns"`
	RequestID   string        `json:"request_id,omitempty"`
	RateLimit   *RateLimit    `json:"rate_limit,omitempty"`
}

// OK reports whether the status is 2xx.
func (r *Result) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// RateLimit holds the X-RateLimit-* and Retry-After headers of a response.
type RateLimit struct {
	Limit      string `json:"limit,omitempty"`
	Remaining  string `json:"remaining,omitempty"`
	Reset      string `json:"reset,omitempty"`
	RetryAfter string `json:"retry_after,omitempty"`
}

// GetOptions configures a plain GET.
type GetOptions struct {
	Path string
	// Output receives the body when set. Otherwise up to MaxBodyBytes of it
	// are kept in Result.Body.
	Output io.Writer
}

// FailOptions configures a request to /fail.
type FailOptions struct {
	Status  string
	Message string
	// NoMessage leaves msg out of the query entirely.
	NoMessage bool
}

// BurstOptions configures a burst of identical requests.
type BurstOptions struct {
	Method      string `json:"method,omitempty"` // default GET
	Path        string `json:"path"`
	Count       int    `json:"count"`
	Concurrency int    `json:"concurrency"` // default 1
}

// BurstResult tallies a burst by status code.
type BurstResult struct {
	Method   string        `json:"method"`
	Path     string        `json:"path"`
	Total    int           `json:"total"`
	Statuses map[int]int   `json:"statuses"`
	Errors   int           `json:"errors"`
	Duration time.Duration `json:"duration_ns"`
	// FirstLimited is the 1-based index of the first 429, or 0 if none.
	FirstLimited int `json:"first_limited,omitempty"`
}
