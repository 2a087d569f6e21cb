// ABOUTME: GenerationOrchestrator drives question/answer generation across dataset records
// ABOUTME: One session at a time, strictly sequential records, per-record failure isolation
package core

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/NeoVand/synthgen-sub000/internal/dataset"
	"github.com/NeoVand/synthgen-sub000/internal/llm"
	"github.com/NeoVand/synthgen-sub000/internal/models"
)

var (
	// ErrEmptyDataset means there is nothing to generate from; the
	// batch never starts.
	ErrEmptyDataset = errors.New("no records to generate from")

	// ErrCancellationRequested is returned by Start when a batch is
	// already running: the request cancels the active batch instead of
	// queuing a new one.
	ErrCancellationRequested = errors.New("generation already running; cancellation requested")
)

// StreamClient is the backend capability the orchestrator needs
type StreamClient interface {
	Ping(ctx context.Context) error
	Stream(ctx context.Context, prompt string, opts llm.GenerateOptions, onFragment func(string) error) error
}

// Orchestrator sequences generation across the dataset store. The
// backend is a single local resource, so records are processed one at
// a time in collection order; parallel streams are deliberately not
// attempted.
type Orchestrator struct {
	client StreamClient
	store  *dataset.Store
	opts   llm.GenerateOptions

	mu      sync.Mutex
	session models.GenerationSession
	cancel  context.CancelFunc
	summary string

	onProgress func(models.Progress)
}

// NewOrchestrator creates an orchestrator over the given store and backend
func NewOrchestrator(client StreamClient, store *dataset.Store, opts llm.GenerateOptions) *Orchestrator {
	return &Orchestrator{
		client:  client,
		store:   store,
		opts:    opts,
		session: models.GenerationSession{State: models.StateIdle},
	}
}

// SetProgressFunc registers an observer for per-record progress.
// Progress only advances when a record's full unit of work finishes or
// is skipped, never for partial token progress.
func (o *Orchestrator) SetProgressFunc(fn func(models.Progress)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onProgress = fn
}

// Session returns a snapshot of the current session state
func (o *Orchestrator) Session() models.GenerationSession {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

// Summary returns the document summary from the last summary batch
func (o *Orchestrator) Summary() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.summary
}

// Cancel requests cancellation of the active batch, if any
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
	}
}

// Run drives one generation batch to completion. If a batch is already
// running, the call is interpreted as a cancellation request for it
// and returns ErrCancellationRequested without starting anything.
// Returns context.Canceled when the batch itself is cancelled.
func (o *Orchestrator) Run(ctx context.Context, kind models.GenerationKind) error {
	runCtx, cancel, targets, err := o.begin(ctx, kind)
	if err != nil {
		return err
	}
	return o.execute(runCtx, cancel, kind, targets)
}

// Start begins a batch and returns its session snapshot without
// waiting for completion. Input errors are reported synchronously the
// same way Run reports them; errors from the running batch are logged.
func (o *Orchestrator) Start(ctx context.Context, kind models.GenerationKind) (models.GenerationSession, error) {
	runCtx, cancel, targets, err := o.begin(ctx, kind)
	if err != nil {
		return models.GenerationSession{}, err
	}

	session := o.Session()
	go func() {
		if err := o.execute(runCtx, cancel, kind, targets); err != nil && !isCancellation(err) {
			log.Printf("[Orchestrator] batch %s: %v", session.ID, err)
		}
	}()
	return session, nil
}

func (o *Orchestrator) execute(ctx context.Context, cancel context.CancelFunc, kind models.GenerationKind, targets []models.QARecord) error {
	defer func() {
		cancel()
		o.mu.Lock()
		o.session.State = models.StateIdle
		o.cancel = nil
		o.mu.Unlock()
	}()

	// Reachability is probed once per batch, before anything is
	// generated; an unreachable backend aborts the whole batch.
	if err := o.client.Ping(ctx); err != nil {
		return err
	}

	if kind == models.KindSummary {
		return o.runSummary(ctx)
	}
	return o.runRecords(ctx, kind, targets)
}

// begin validates the batch input, resolves the target set, and marks
// the session running, all atomically. Input errors are reported
// immediately and the batch never starts. A Run call while a batch is
// active cancels it instead of queuing.
func (o *Orchestrator) begin(ctx context.Context, kind models.GenerationKind) (context.Context, context.CancelFunc, []models.QARecord, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session.Running() {
		if o.cancel != nil {
			o.cancel()
		}
		return nil, nil, nil, ErrCancellationRequested
	}

	var targets []models.QARecord
	total := 1
	if kind == models.KindSummary {
		if o.store.Len() == 0 {
			return nil, nil, nil, ErrEmptyDataset
		}
	} else {
		// If any record is selected, operate on that subset in its
		// existing relative order; otherwise the whole collection.
		targets = o.store.Selected()
		if len(targets) == 0 {
			targets = o.store.Records()
		}
		if len(targets) == 0 {
			return nil, nil, nil, ErrEmptyDataset
		}
		total = len(targets)
	}

	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.session = models.GenerationSession{
		ID:       uuid.New().String(),
		Kind:     kind,
		State:    models.StateRunning,
		Progress: models.Progress{Total: total},
	}
	return runCtx, cancel, targets, nil
}

func (o *Orchestrator) runRecords(ctx context.Context, kind models.GenerationKind, targets []models.QARecord) error {
	for i, target := range targets {
		// Cancellation is checked before starting each record.
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := o.generateRecord(ctx, kind, target.ID); err != nil {
			if isCancellation(err) {
				return err
			}
			// A failed record is skipped; the batch continues.
			log.Printf("[Orchestrator] record %d: %v", target.ID, err)
		}

		o.setProgress(i+1, len(targets))
	}
	return nil
}

// generateRecord performs one record's full unit of work. For qa, a
// failed question skips the answer step for that record.
func (o *Orchestrator) generateRecord(ctx context.Context, kind models.GenerationKind, id int) error {
	switch kind {
	case models.KindQuestion:
		return o.generateField(ctx, id, models.FieldQuestion)
	case models.KindAnswer:
		return o.generateField(ctx, id, models.FieldAnswer)
	case models.KindQA:
		if err := o.generateField(ctx, id, models.FieldQuestion); err != nil {
			return err
		}
		return o.generateField(ctx, id, models.FieldAnswer)
	default:
		return errors.New("unknown generation kind")
	}
}

func (o *Orchestrator) generateField(ctx context.Context, id int, field models.Field) error {
	// Cancellation is checked before issuing each request.
	if err := ctx.Err(); err != nil {
		return err
	}

	// Re-read the record so the prompt sees the latest stored state
	// (the question may have been generated moments ago).
	record, ok := o.store.Get(id)
	if !ok {
		log.Printf("[Orchestrator] record %d disappeared, skipping", id)
		return nil
	}

	var prompt string
	switch field {
	case models.FieldQuestion:
		prompt = questionPrompt(o.Summary(), record.Context)
		o.store.SetGenerating(id, true, false)
	case models.FieldAnswer:
		if strings.TrimSpace(record.Question) == "" {
			log.Printf("[Orchestrator] record %d has no question, skipping answer", id)
			return nil
		}
		prompt = answerPrompt(o.Summary(), record.Context, record.Question)
		o.store.SetGenerating(id, false, true)
	}
	// Whatever happens, the record must not be left marked in-flight.
	defer o.store.SetGenerating(id, false, false)

	o.store.UpdateField(id, field, "")
	return o.client.Stream(ctx, prompt, o.opts, func(fragment string) error {
		o.store.AppendField(id, field, fragment)
		// Cancellation is checked after each streamed fragment; text
		// already appended stays in place.
		return ctx.Err()
	})
}

func (o *Orchestrator) runSummary(ctx context.Context) error {
	records := o.store.Records()
	parts := make([]string, 0, len(records))
	for _, r := range records {
		parts = append(parts, r.Context)
	}

	var b strings.Builder
	err := o.client.Stream(ctx, summaryPrompt(strings.Join(parts, "\n\n")), o.opts, func(fragment string) error {
		b.WriteString(fragment)
		return ctx.Err()
	})
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.summary = strings.TrimSpace(b.String())
	o.mu.Unlock()
	o.setProgress(1, 1)
	return nil
}

func (o *Orchestrator) setProgress(completed, total int) {
	o.mu.Lock()
	o.session.Progress = models.Progress{Completed: completed, Total: total}
	fn := o.onProgress
	progress := o.session.Progress
	o.mu.Unlock()

	if fn != nil {
		fn(progress)
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
