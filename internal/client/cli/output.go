package cli

import (
	"io"
	"sync"
)

// lockedWriter serialises writes to the terminal. Delayed navigation prints
// from its own goroutine while the REPL is waiting for input.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newLockedWriter(w io.Writer) *lockedWriter {
	return &lockedWriter{w: w}
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
