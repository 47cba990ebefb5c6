package autolink

import (
	"context"
	"fmt"
	"log/slog"

	"celinker/internal/linker"
	"celinker/internal/logging"
	"celinker/internal/services"
)

// AttachFunc commits one approved link to the downstream system.
type AttachFunc func(ctx context.Context, pn string, recordID int64) error

// Outcome is the per-item result of an unattended linking attempt. It is
// always produced; batch callers inspect Attached and Reason instead of an
// error.
type Outcome struct {
	PN       string `json:"pn"`
	TraceID  string `json:"trace_id,omitempty"`
	Attached bool   `json:"attached"`
	RecordID int64  `json:"record_id,omitempty"`
	Reason   string `json:"reason"`
}

// Runner drives unattended linking for batches of part numbers.
type Runner struct {
	linker *linker.Linker
	attach AttachFunc
	logger *slog.Logger
	audit  ActionRecorder
}

// ActionRecorder records the action taken for an attached item. Recording
// failures do not fail the item.
type ActionRecorder interface {
	RecordAction(ctx context.Context, traceID, actor, action string, recordID *int64, note string) error
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithActionRecorder attaches an audit action recorder.
func WithActionRecorder(recorder ActionRecorder) Option {
	return func(r *Runner) {
		r.audit = recorder
	}
}

// New creates a Runner. attach may be nil for dry runs; decisions are then
// computed and reported but nothing is committed.
func New(l *linker.Linker, attach AttachFunc, opts ...Option) (*Runner, error) {
	if l == nil {
		return nil, services.Wrap(services.ErrInternal, "autolink", "new", "linker required", nil)
	}
	r := &Runner{
		linker: l,
		attach: attach,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run resolves one part number and attaches it when the decision allows
// automatic attachment. Every failure mode, input rejection, capability
// gaps, transport faults, ends up in the outcome rather than an error.
func (r *Runner) Run(ctx context.Context, pn string) Outcome {
	decision, err := r.linker.Run(ctx, pn)
	if err != nil {
		kind := services.KindOf(err)
		r.logger.Warn("autolink skipped",
			logging.String(logging.FieldQuery, pn),
			logging.String("error_kind", string(kind)),
			logging.Error(err))
		return Outcome{
			PN:     pn,
			Reason: fmt.Sprintf("%s error: %v", kind, err),
		}
	}

	outcome := Outcome{PN: pn, TraceID: decision.TraceID}
	if decision.NeedsReview || decision.Best == nil {
		outcome.Reason = decision.Rationale
		return outcome
	}

	best := decision.Best
	if r.attach != nil {
		if err := r.attach(ctx, pn, best.RecordID); err != nil {
			r.logger.Warn("attach failed",
				logging.String(logging.FieldQuery, pn),
				logging.String(logging.FieldTraceID, decision.TraceID),
				logging.Error(err))
			outcome.Reason = fmt.Sprintf("attach failed: %v", err)
			return outcome
		}
	}

	outcome.Attached = true
	outcome.RecordID = best.RecordID
	outcome.Reason = decision.Rationale
	r.logger.Info("autolink attached",
		logging.String(logging.FieldQuery, pn),
		logging.String(logging.FieldTraceID, decision.TraceID),
		logging.Int64("record_id", best.RecordID))
	r.recordAction(ctx, decision.TraceID, best.RecordID)
	return outcome
}

// RunBatch resolves part numbers in order and returns one outcome per item.
func (r *Runner) RunBatch(ctx context.Context, pns []string) []Outcome {
	outcomes := make([]Outcome, 0, len(pns))
	for _, pn := range pns {
		if ctx.Err() != nil {
			outcomes = append(outcomes, Outcome{PN: pn, Reason: fmt.Sprintf("batch canceled: %v", ctx.Err())})
			continue
		}
		outcomes = append(outcomes, r.Run(ctx, pn))
	}
	return outcomes
}

func (r *Runner) recordAction(ctx context.Context, traceID string, recordID int64) {
	if r.audit == nil {
		return
	}
	id := recordID
	if err := r.audit.RecordAction(ctx, traceID, "autolink", "attach", &id, "automatic attachment"); err != nil {
		r.logger.Warn("record action failed",
			logging.String(logging.FieldTraceID, traceID),
			logging.Error(err))
	}
}
