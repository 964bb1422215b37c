// Package warnings routes user-facing warnings to a configurable writer.
// The update command swaps in a Collector so warnings are deferred below
// the batch report instead of interleaving with table rows.
package warnings

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

var (
	mu         sync.RWMutex
	warnWriter io.Writer = os.Stderr
)

// Warnf writes a formatted warning message to the configured warning writer.
//
// Parameters:
//   - format: Printf-style format string for the warning message
//   - args: Variadic arguments to format into the string
func Warnf(format string, args ...any) {
	mu.RLock()
	w := warnWriter
	mu.RUnlock()
	_, _ = fmt.Fprintf(w, format, args...)
}

// WarningWriter returns the currently configured warning writer.
//
// Returns:
//   - io.Writer: The currently configured writer for warning messages
func WarningWriter() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return warnWriter
}

// SetWarningWriter swaps the warning writer and returns a restore function.
//
// Parameters:
//   - w: The new io.Writer to use; if nil, defaults to os.Stderr
//
// Returns:
//   - func(): A restore function that sets the writer back to the previous value
func SetWarningWriter(w io.Writer) func() {
	mu.Lock()
	defer mu.Unlock()

	previous := warnWriter
	if w == nil {
		warnWriter = os.Stderr
	} else {
		warnWriter = w
	}

	return func() {
		mu.Lock()
		defer mu.Unlock()
		warnWriter = previous
	}
}

// Collector is an io.Writer that buffers warning lines for later display.
//
// It is safe for concurrent use; batch workers may emit warnings while the
// collector is installed as the warning writer.
type Collector struct {
	mu  sync.Mutex
	buf strings.Builder
}

// Write implements io.Writer by appending to the internal buffer.
//
// Parameters:
//   - p: Bytes to append
//
// Returns:
//   - int: Number of bytes consumed (always len(p))
//   - error: Always nil
func (c *Collector) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf.Write(p)
	return len(p), nil
}

// Messages returns the collected warnings as individual trimmed lines.
//
// Returns:
//   - []string: One entry per non-empty collected line; nil if none
func (c *Collector) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var messages []string
	for _, line := range strings.Split(c.buf.String(), "\n") {
		line = strings.TrimRight(line, " \t")
		if line != "" {
			messages = append(messages, line)
		}
	}
	return messages
}
