package testbed

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// HitLogTimeFormat is the timestamp layout used for hit log lines.
const HitLogTimeFormat = "2006-01-02 15:04:05.000000"

// HitLog writes "<timestamp> - <message>" lines, one per call.
// It is safe for concurrent use.
type HitLog struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewHitLog creates a HitLog writing to w. A nil now uses time.Now.
func NewHitLog(w io.Writer, now func() time.Time) *HitLog {
	if now == nil {
		now = time.Now
	}
	return &HitLog{w: w, now: now}
}

// Hit writes a single line for msg.
func (l *HitLog) Hit(msg string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := fmt.Fprintf(l.w, "%s - %s\n", l.now().Format(HitLogTimeFormat), msg)
	return err
}
