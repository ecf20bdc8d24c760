package testbed

import "time"

// Asset describes a file served from the static root.
type Asset struct {
	Path        string
	ContentType string
	Size        int64
	ModTime     time.Time
}

// FailureRequest is the response a client asked /fail to produce.
type FailureRequest struct {
	Status  int
	Message string
}
