// ABOUTME: Fragment buffering policy for streamed generation text
// ABOUTME: Yields only when the buffer reaches the size threshold or contains a newline
package llm

import (
	"strings"
	"unicode/utf8"
)

// flushThreshold is the minimum buffered character count before a
// fragment is yielded downstream. Coalescing fragments keeps the
// number of per-token record updates down without changing final
// content.
const flushThreshold = 50

type fragmentBuffer struct {
	threshold int
	pending   strings.Builder
	hasNL     bool
}

func newFragmentBuffer(threshold int) *fragmentBuffer {
	if threshold <= 0 {
		threshold = flushThreshold
	}
	return &fragmentBuffer{threshold: threshold}
}

// Add appends a raw fragment and returns the coalesced text when the
// buffer is ready to flush.
func (b *fragmentBuffer) Add(fragment string) (string, bool) {
	b.pending.WriteString(fragment)
	if strings.Contains(fragment, "\n") {
		b.hasNL = true
	}
	if b.hasNL || utf8.RuneCountInString(b.pending.String()) >= b.threshold {
		return b.Flush(), true
	}
	return "", false
}

// Flush drains whatever is buffered, empty string when nothing is
func (b *fragmentBuffer) Flush() string {
	out := b.pending.String()
	b.pending.Reset()
	b.hasNL = false
	return out
}
