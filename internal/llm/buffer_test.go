// ABOUTME: Tests for the fragment flush policy, independent of any network stream
// ABOUTME: Flush rule: yield at >= 50 chars or on newline; drain remainder on demand
package llm

import "testing"

func TestFragmentBuffer_HoldsBelowThreshold(t *testing.T) {
	b := newFragmentBuffer(50)

	if out, ready := b.Add("ab"); ready {
		t.Errorf("Add(short) flushed %q, want buffered", out)
	}
	if out, ready := b.Add("cd"); ready {
		t.Errorf("Add(short) flushed %q, want buffered", out)
	}
	if got := b.Flush(); got != "abcd" {
		t.Errorf("Flush() = %q, want %q", got, "abcd")
	}
}

func TestFragmentBuffer_FlushesAtThreshold(t *testing.T) {
	b := newFragmentBuffer(10)

	if _, ready := b.Add("12345"); ready {
		t.Error("flushed below threshold")
	}
	out, ready := b.Add("67890")
	if !ready {
		t.Fatal("did not flush at threshold")
	}
	if out != "1234567890" {
		t.Errorf("flushed %q, want %q", out, "1234567890")
	}
	if got := b.Flush(); got != "" {
		t.Errorf("buffer not drained, Flush() = %q", got)
	}
}

func TestFragmentBuffer_FlushesOnNewline(t *testing.T) {
	b := newFragmentBuffer(50)

	out, ready := b.Add("short\n")
	if !ready {
		t.Fatal("did not flush on newline")
	}
	if out != "short\n" {
		t.Errorf("flushed %q, want %q", out, "short\n")
	}
}

func TestFragmentBuffer_ThresholdCountsCharactersNotBytes(t *testing.T) {
	b := newFragmentBuffer(4)

	// Four multi-byte runes reach the threshold exactly.
	out, ready := b.Add("日本語文")
	if !ready {
		t.Fatal("did not flush at rune threshold")
	}
	if out != "日本語文" {
		t.Errorf("flushed %q", out)
	}
}

func TestFragmentBuffer_EmptyFlush(t *testing.T) {
	b := newFragmentBuffer(50)
	if got := b.Flush(); got != "" {
		t.Errorf("Flush() on empty buffer = %q", got)
	}
}
