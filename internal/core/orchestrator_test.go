// ABOUTME: Tests for the generation orchestrator using a fake streaming backend
// ABOUTME: Covers sequencing, failure isolation, cancellation semantics, and target selection
package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/NeoVand/synthgen-sub000/internal/dataset"
	"github.com/NeoVand/synthgen-sub000/internal/llm"
	"github.com/NeoVand/synthgen-sub000/internal/models"
)

type fakeClient struct {
	mu      sync.Mutex
	pingErr error
	calls   int
	prompts []string
	respond func(ctx context.Context, call int, prompt string, onFragment func(string) error) error
}

func (f *fakeClient) Ping(ctx context.Context) error {
	return f.pingErr
}

func (f *fakeClient) Stream(ctx context.Context, prompt string, _ llm.GenerateOptions, onFragment func(string) error) error {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.prompts = append(f.prompts, prompt)
	respond := f.respond
	f.mu.Unlock()

	if respond != nil {
		return respond(ctx, call, prompt, onFragment)
	}
	return onFragment("generated text")
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestStore(chunks ...string) *dataset.Store {
	s := dataset.NewStore()
	s.CreateFrom(chunks)
	return s
}

func TestOrchestrator_QAGeneratesBothFields(t *testing.T) {
	store := newTestStore("chunk one", "chunk two")
	client := &fakeClient{}
	o := NewOrchestrator(client, store, llm.GenerateOptions{})

	var progress []models.Progress
	o.SetProgressFunc(func(p models.Progress) {
		progress = append(progress, p)
	})

	if err := o.Run(context.Background(), models.KindQA); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, r := range store.Records() {
		if r.Question == "" || r.Answer == "" {
			t.Errorf("record %d = {q: %q, a: %q}, want both generated", r.ID, r.Question, r.Answer)
		}
		if r.GeneratingQuestion || r.GeneratingAnswer {
			t.Errorf("record %d still flagged generating", r.ID)
		}
	}

	// Two records, question + answer each.
	if got := client.callCount(); got != 4 {
		t.Errorf("stream calls = %d, want 4", got)
	}
	if len(progress) != 2 || progress[1] != (models.Progress{Completed: 2, Total: 2}) {
		t.Errorf("progress = %v, want final {2 2}", progress)
	}
	if o.Session().Running() {
		t.Error("session still running after batch")
	}
}

func TestOrchestrator_RecordFailureDoesNotStopBatch(t *testing.T) {
	store := newTestStore("a", "b", "c")
	client := &fakeClient{
		respond: func(_ context.Context, call int, _ string, onFragment func(string) error) error {
			if call == 2 {
				return errors.New("backend hiccup")
			}
			return onFragment("text")
		},
	}
	o := NewOrchestrator(client, store, llm.GenerateOptions{})

	var final models.Progress
	o.SetProgressFunc(func(p models.Progress) { final = p })

	if err := o.Run(context.Background(), models.KindQuestion); err != nil {
		t.Fatalf("Run() error = %v, want nil (failures are isolated)", err)
	}

	records := store.Records()
	if records[0].Question == "" || records[2].Question == "" {
		t.Error("records around the failed one were not generated")
	}
	if records[1].Question != "" {
		t.Errorf("failed record question = %q, want empty", records[1].Question)
	}
	if records[1].GeneratingQuestion {
		t.Error("failed record left flagged generating")
	}
	// Completed still reaches total: the failed record counts as done.
	if final != (models.Progress{Completed: 3, Total: 3}) {
		t.Errorf("final progress = %v, want {3 3}", final)
	}
}

func TestOrchestrator_CancelMidBatch(t *testing.T) {
	store := newTestStore("a", "b", "c", "d")
	o := newCancellingSetup(t, store, 2) // cancel while processing record 2

	err := o.Run(context.Background(), models.KindQuestion)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}

	records := store.Records()
	// Record 1 finished; record 2 keeps whatever partial text streamed;
	// records 3 and 4 are untouched.
	if records[0].Question != "partial " {
		t.Errorf("record 1 question = %q", records[0].Question)
	}
	if records[1].Question != "partial " {
		t.Errorf("cancelled record question = %q, want streamed partial kept", records[1].Question)
	}
	for _, r := range records[2:] {
		if r.Question != "" || r.GeneratingQuestion {
			t.Errorf("record %d was touched after cancellation", r.ID)
		}
	}
	if o.Session().Running() {
		t.Error("session still running after cancellation")
	}
}

// newCancellingSetup builds an orchestrator whose client cancels the
// batch after streaming one fragment for the record at cancelOnCall.
func newCancellingSetup(t *testing.T, store *dataset.Store, cancelOnCall int) *Orchestrator {
	t.Helper()
	client := &fakeClient{}
	o := NewOrchestrator(client, store, llm.GenerateOptions{})
	client.respond = func(ctx context.Context, call int, _ string, onFragment func(string) error) error {
		if err := onFragment("partial "); err != nil {
			return err
		}
		if call == cancelOnCall {
			o.Cancel()
			return ctx.Err()
		}
		return nil
	}
	return o
}

func TestOrchestrator_RunWhileRunningIsCancellation(t *testing.T) {
	store := newTestStore("a")
	started := make(chan struct{})
	client := &fakeClient{
		respond: func(ctx context.Context, _ int, _ string, _ func(string) error) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		},
	}
	o := NewOrchestrator(client, store, llm.GenerateOptions{})

	done := make(chan error, 1)
	go func() { done <- o.Run(context.Background(), models.KindQuestion) }()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("first batch never started")
	}

	if err := o.Run(context.Background(), models.KindQuestion); !errors.Is(err, ErrCancellationRequested) {
		t.Fatalf("second Run() error = %v, want ErrCancellationRequested", err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("first Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("first batch did not unwind after cancellation request")
	}
}

func TestOrchestrator_AnswerSkipsRecordsWithoutQuestion(t *testing.T) {
	store := newTestStore("a", "b")
	store.UpdateField(1, models.FieldQuestion, "What is a?")
	client := &fakeClient{}
	o := NewOrchestrator(client, store, llm.GenerateOptions{})

	var final models.Progress
	o.SetProgressFunc(func(p models.Progress) { final = p })

	if err := o.Run(context.Background(), models.KindAnswer); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	records := store.Records()
	if records[0].Answer == "" {
		t.Error("record with question got no answer")
	}
	if records[1].Answer != "" {
		t.Error("record without question got an answer")
	}
	// Only one stream call; the skipped record still counts toward progress.
	if got := client.callCount(); got != 1 {
		t.Errorf("stream calls = %d, want 1", got)
	}
	if final != (models.Progress{Completed: 2, Total: 2}) {
		t.Errorf("final progress = %v, want {2 2}", final)
	}
}

func TestOrchestrator_SelectionLimitsTargets(t *testing.T) {
	store := newTestStore("a", "b", "c")
	store.SetSelected(2, true)
	client := &fakeClient{}
	o := NewOrchestrator(client, store, llm.GenerateOptions{})

	if err := o.Run(context.Background(), models.KindQuestion); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	records := store.Records()
	if records[0].Question != "" || records[2].Question != "" {
		t.Error("unselected records were generated")
	}
	if records[1].Question == "" {
		t.Error("selected record was not generated")
	}
}

func TestOrchestrator_Summary(t *testing.T) {
	store := newTestStore("first chunk", "second chunk")
	client := &fakeClient{
		respond: func(_ context.Context, _ int, prompt string, onFragment func(string) error) error {
			if !strings.Contains(prompt, "first chunk") || !strings.Contains(prompt, "second chunk") {
				t.Errorf("summary prompt missing chunk content")
			}
			return onFragment("a concise summary")
		},
	}
	o := NewOrchestrator(client, store, llm.GenerateOptions{})

	if err := o.Run(context.Background(), models.KindSummary); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := o.Summary(); got != "a concise summary" {
		t.Errorf("Summary() = %q", got)
	}
	if p := o.Session().Progress; p != (models.Progress{Completed: 1, Total: 1}) {
		t.Errorf("progress = %v, want {1 1}", p)
	}
}

func TestOrchestrator_EmptyDataset(t *testing.T) {
	store := dataset.NewStore()
	o := NewOrchestrator(&fakeClient{}, store, llm.GenerateOptions{})

	for _, kind := range []models.GenerationKind{models.KindQA, models.KindSummary} {
		if err := o.Run(context.Background(), kind); !errors.Is(err, ErrEmptyDataset) {
			t.Errorf("Run(%s) error = %v, want ErrEmptyDataset", kind, err)
		}
	}
}

func TestOrchestrator_UnreachableBackendAbortsBeforeGeneration(t *testing.T) {
	store := newTestStore("a", "b")
	client := &fakeClient{pingErr: llm.ErrBackendUnavailable}
	o := NewOrchestrator(client, store, llm.GenerateOptions{})

	err := o.Run(context.Background(), models.KindQA)
	if !errors.Is(err, llm.ErrBackendUnavailable) {
		t.Fatalf("Run() error = %v, want ErrBackendUnavailable", err)
	}
	if client.callCount() != 0 {
		t.Error("stream was issued despite failed probe")
	}
	for _, r := range store.Records() {
		if r.Question != "" || r.Answer != "" {
			t.Error("records were partially generated despite failed probe")
		}
	}
}

func TestOrchestrator_QuestionPromptUsesSummary(t *testing.T) {
	store := newTestStore("the chunk")
	client := &fakeClient{}
	o := NewOrchestrator(client, store, llm.GenerateOptions{})

	if err := o.Run(context.Background(), models.KindSummary); err != nil {
		t.Fatalf("summary Run() error = %v", err)
	}
	if err := o.Run(context.Background(), models.KindQuestion); err != nil {
		t.Fatalf("question Run() error = %v", err)
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	last := client.prompts[len(client.prompts)-1]
	if !strings.Contains(last, "generated text") {
		t.Errorf("question prompt does not carry the document summary: %q", last)
	}
}

func TestOrchestrator_StartReturnsSessionImmediately(t *testing.T) {
	store := newTestStore("a", "b", "c")
	client := &fakeClient{}
	o := NewOrchestrator(client, store, llm.GenerateOptions{})

	session, err := o.Start(context.Background(), models.KindQuestion)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if session.ID == "" {
		t.Error("Start() returned a session without an id")
	}
	if session.Progress.Total != 3 {
		t.Errorf("session total = %d, want 3", session.Progress.Total)
	}

	deadline := time.Now().Add(5 * time.Second)
	for o.Session().Running() {
		if time.Now().After(deadline) {
			t.Fatal("batch did not finish")
		}
		time.Sleep(5 * time.Millisecond)
	}

	for _, r := range store.Records() {
		if r.Question == "" {
			t.Errorf("record %d has no question after batch", r.ID)
		}
	}
}

func TestOrchestrator_StartReportsInputErrors(t *testing.T) {
	store := dataset.NewStore()
	client := &fakeClient{}
	o := NewOrchestrator(client, store, llm.GenerateOptions{})

	if _, err := o.Start(context.Background(), models.KindQA); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("Start() error = %v, want ErrEmptyDataset", err)
	}
}
