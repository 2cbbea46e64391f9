package util

import (
	"sync"

	"github.com/walles/builderbench/internal/builder"
)

// LogWriter collects log output in memory so it can be printed after a run.
// It is safe for concurrent use, unlike the ByteBuilder it writes to.
type LogWriter struct {
	lock   sync.Mutex
	buffer builder.ByteBuilder
}

// Write appends p to the collected logs, it never fails.
func (lw *LogWriter) Write(p []byte) (n int, err error) {
	lw.lock.Lock()
	defer lw.lock.Unlock()

	return lw.buffer.Write(p)
}

// String returns everything written so far.
func (lw *LogWriter) String() string {
	lw.lock.Lock()
	defer lw.lock.Unlock()

	return lw.buffer.String()
}
