// ABOUTME: GenerationSession is the single process-wide generation-in-progress state
// ABOUTME: Tracks kind and progress for one batch; only one session runs at a time
package models

// GenerationKind selects what a generation batch produces
type GenerationKind string

const (
	KindSummary  GenerationKind = "summary"
	KindQA       GenerationKind = "qa"
	KindQuestion GenerationKind = "question"
	KindAnswer   GenerationKind = "answer"
)

// IsValid checks whether the kind is a known batch type
func (k GenerationKind) IsValid() bool {
	switch k {
	case KindSummary, KindQA, KindQuestion, KindAnswer:
		return true
	}
	return false
}

// ParseGenerationKind converts a user-supplied name into a GenerationKind
func ParseGenerationKind(s string) (GenerationKind, bool) {
	k := GenerationKind(s)
	return k, k.IsValid()
}

// SessionState is the lifecycle state of a generation session
type SessionState string

const (
	StateIdle    SessionState = "idle"
	StateRunning SessionState = "running"
)

// Progress reports completed record units out of the batch total.
// Completed only advances when a record's full unit of work finishes
// or is skipped, never for partial token progress.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// GenerationSession describes the active (or last) generation batch
type GenerationSession struct {
	ID       string         `json:"id"`
	Kind     GenerationKind `json:"kind"`
	State    SessionState   `json:"state"`
	Progress Progress       `json:"progress"`
}

// Running reports whether the session is mid-batch
func (s GenerationSession) Running() bool {
	return s.State == StateRunning
}
