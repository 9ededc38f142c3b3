// Package applog sets up the process-wide zerolog.Logger and a bounded
// in-memory ring of recent events: the interactive view must never print
// a log line over the alternate screen, so anything logged while the TUI
// owns the terminal lands in this ring instead. The renderer does not
// read the ring; its error overlay shows the connection state and the
// client's last error.
package applog

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Ring is a fixed-capacity, thread-safe buffer of the most recent log
// lines.
type Ring struct {
	mu   sync.Mutex
	buf  []string
	cap  int
	next int
	full bool
}

// NewRing creates a Ring holding at most capacity lines.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([]string, capacity), cap: capacity}
}

func (r *Ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = string(p)
	r.next = (r.next + 1) % r.cap
	if r.next == 0 {
		r.full = true
	}
	return len(p), nil
}

// Last returns the most recently written line, or "" if nothing has
// been logged yet.
func (r *Ring) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.next - 1
	if idx < 0 {
		idx = r.cap - 1
	}
	return r.buf[idx]
}

// Lines returns every buffered line, oldest first.
func (r *Ring) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		out := make([]string, r.next)
		copy(out, r.buf[:r.next])
		return out
	}
	out := make([]string, r.cap)
	copy(out, r.buf[r.next:])
	copy(out[r.cap-r.next:], r.buf[:r.next])
	return out
}

// New builds a zerolog.Logger that writes to w (for non-interactive
// subcommands, typically os.Stderr) and, when ring is non-nil, mirrors
// every event into it too (for the interactive error overlay).
func New(w io.Writer, ring *Ring) zerolog.Logger {
	var out io.Writer = w
	if ring != nil {
		out = io.MultiWriter(w, ring)
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

// Discard builds a logger that only feeds ring, never an external
// writer — used once the TUI has entered the alternate screen and
// --verbose was not requested.
func Discard(ring *Ring) zerolog.Logger {
	return zerolog.New(ring).With().Timestamp().Logger()
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
