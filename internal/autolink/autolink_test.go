package autolink

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"celinker/internal/bridge"
	"celinker/internal/linker"
	"celinker/internal/services"
)

type fakeBridge struct {
	state    bridge.State
	stateErr error
	rows     map[string][]bridge.Row
	rowsErr  error
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{
		state: bridge.State{
			Features: bridge.Features{
				SearchMatchKind:           true,
				NormalizationRulesVersion: "v1",
			},
		},
		rows: map[string][]bridge.Row{},
	}
}

func (f *fakeBridge) State(ctx context.Context, traceID string) (bridge.State, error) {
	if f.stateErr != nil {
		return bridge.State{}, f.stateErr
	}
	return f.state, nil
}

func (f *fakeBridge) Search(ctx context.Context, query bridge.SearchQuery) ([]bridge.Row, error) {
	if f.rowsErr != nil {
		return nil, f.rowsErr
	}
	return f.rows[query.PN], nil
}

type attachLog struct {
	mu    sync.Mutex
	calls []int64
	err   error
}

func (a *attachLog) attach(ctx context.Context, pn string, recordID int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.calls = append(a.calls, recordID)
	return nil
}

type actionLog struct {
	mu      sync.Mutex
	actions []string
}

func (a *actionLog) RecordAction(ctx context.Context, traceID, actor, action string, recordID *int64, note string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, actor+":"+action)
	return nil
}

func newRunner(t *testing.T, fb *fakeBridge, attach AttachFunc, opts ...Option) *Runner {
	t.Helper()
	l, err := linker.New(fb)
	if err != nil {
		t.Fatalf("linker.New: %v", err)
	}
	r, err := New(l, attach, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestRunAttachesUniqueExact(t *testing.T) {
	fb := newFakeBridge()
	fb.rows["SN74HC595"] = []bridge.Row{
		{ID: 42, PN: "SN74HC595", MatchKind: bridge.MatchExactPN},
	}
	attacher := &attachLog{}
	actions := &actionLog{}

	outcome := newRunner(t, fb, attacher.attach, WithActionRecorder(actions)).Run(context.Background(), "SN74HC595")
	if !outcome.Attached {
		t.Fatalf("outcome = %+v, want attached", outcome)
	}
	if outcome.RecordID != 42 {
		t.Fatalf("record id = %d, want 42", outcome.RecordID)
	}
	if outcome.TraceID == "" {
		t.Fatal("outcome should carry the trace id")
	}
	if len(attacher.calls) != 1 || attacher.calls[0] != 42 {
		t.Fatalf("attach calls = %v", attacher.calls)
	}
	if len(actions.actions) != 1 || actions.actions[0] != "autolink:attach" {
		t.Fatalf("recorded actions = %v", actions.actions)
	}
}

func TestRunSkipsReviewDecisions(t *testing.T) {
	fb := newFakeBridge()
	fb.rows["ABC-123"] = []bridge.Row{
		{ID: 7, PN: "ABC-123", MatchKind: bridge.MatchNormalizedPN},
	}
	attacher := &attachLog{}

	outcome := newRunner(t, fb, attacher.attach).Run(context.Background(), "ABC-123-TR")
	if outcome.Attached {
		t.Fatal("review decisions must never attach")
	}
	if len(attacher.calls) != 0 {
		t.Fatalf("attach calls = %v, want none", attacher.calls)
	}
	if outcome.Reason == "" {
		t.Fatal("skip must carry the decision rationale")
	}
}

func TestRunSwallowsEveryErrorKind(t *testing.T) {
	cases := []struct {
		name     string
		pn       string
		prepare  func(fb *fakeBridge)
		wantKind string
	}{
		{
			name:     "input",
			pn:       "***",
			prepare:  func(fb *fakeBridge) {},
			wantKind: "input",
		},
		{
			name: "feature",
			pn:   "SN74HC595",
			prepare: func(fb *fakeBridge) {
				fb.state.Features.SearchMatchKind = false
			},
			wantKind: "feature",
		},
		{
			name: "network",
			pn:   "SN74HC595",
			prepare: func(fb *fakeBridge) {
				fb.rowsErr = services.Wrap(services.ErrNetwork, "bridge", "search", "down", nil)
			},
			wantKind: "network",
		},
		{
			name: "auth",
			pn:   "SN74HC595",
			prepare: func(fb *fakeBridge) {
				fb.stateErr = services.Wrap(services.ErrAuth, "bridge", "/state", "rejected", nil)
			},
			wantKind: "auth",
		},
		{
			name: "internal",
			pn:   "SN74HC595",
			prepare: func(fb *fakeBridge) {
				fb.stateErr = errors.New("untagged failure")
			},
			wantKind: "internal",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fb := newFakeBridge()
			tc.prepare(fb)
			attacher := &attachLog{}

			outcome := newRunner(t, fb, attacher.attach).Run(context.Background(), tc.pn)
			if outcome.Attached {
				t.Fatal("errors must never attach")
			}
			if !strings.Contains(outcome.Reason, tc.wantKind) {
				t.Fatalf("reason %q should name the %s error kind", outcome.Reason, tc.wantKind)
			}
			if len(attacher.calls) != 0 {
				t.Fatalf("attach calls = %v, want none", attacher.calls)
			}
		})
	}
}

func TestRunAttachFailureReported(t *testing.T) {
	fb := newFakeBridge()
	fb.rows["SN74HC595"] = []bridge.Row{
		{ID: 42, PN: "SN74HC595", MatchKind: bridge.MatchExactPN},
	}
	attacher := &attachLog{err: errors.New("downstream rejected")}

	outcome := newRunner(t, fb, attacher.attach).Run(context.Background(), "SN74HC595")
	if outcome.Attached {
		t.Fatal("a failed attach must not report success")
	}
	if !strings.Contains(outcome.Reason, "attach failed") {
		t.Fatalf("reason = %q", outcome.Reason)
	}
}

func TestRunBatchKeepsGoing(t *testing.T) {
	fb := newFakeBridge()
	fb.rows["SN74HC595"] = []bridge.Row{
		{ID: 42, PN: "SN74HC595", MatchKind: bridge.MatchExactPN},
	}
	attacher := &attachLog{}

	outcomes := newRunner(t, fb, attacher.attach).RunBatch(context.Background(), []string{"***", "SN74HC595", "UNKNOWN1"})
	if len(outcomes) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(outcomes))
	}
	if outcomes[0].Attached {
		t.Fatal("invalid input must not attach")
	}
	if !outcomes[1].Attached {
		t.Fatalf("second item should attach: %+v", outcomes[1])
	}
	if outcomes[2].Attached {
		t.Fatal("no-candidate item must not attach")
	}
}

func TestRunBatchHonorsCancellation(t *testing.T) {
	fb := newFakeBridge()
	attacher := &attachLog{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := newRunner(t, fb, attacher.attach).RunBatch(ctx, []string{"SN74HC595", "LM358"})
	if len(outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(outcomes))
	}
	for _, outcome := range outcomes {
		if outcome.Attached {
			t.Fatal("canceled batch must not attach")
		}
		if !strings.Contains(outcome.Reason, "canceled") {
			t.Fatalf("reason = %q, want cancellation notice", outcome.Reason)
		}
	}
}
