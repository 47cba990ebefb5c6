package linker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"celinker/internal/bridge"
	"celinker/internal/logging"
	"celinker/internal/partnum"
	"celinker/internal/services"
)

const defaultSearchLimit = 20

// Linker resolves raw part numbers into auditable attachment decisions.
type Linker struct {
	client   bridge.Client
	deriver  *partnum.Deriver
	limit    int
	logger   *slog.Logger
	recorder Recorder
}

// Option configures a Linker.
type Option func(*Linker)

// WithDeriver overrides the default key deriver.
func WithDeriver(deriver *partnum.Deriver) Option {
	return func(l *Linker) {
		if deriver != nil {
			l.deriver = deriver
		}
	}
}

// WithSearchLimit sets the per-key result cap sent to the bridge.
func WithSearchLimit(limit int) Option {
	return func(l *Linker) {
		if limit > 0 {
			l.limit = limit
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Linker) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithRecorder attaches an audit recorder. Recording failures are logged
// and never fail the request.
func WithRecorder(recorder Recorder) Option {
	return func(l *Linker) {
		l.recorder = recorder
	}
}

// New creates a Linker bound to a bridge client.
func New(client bridge.Client, opts ...Option) (*Linker, error) {
	if client == nil {
		return nil, services.Wrap(services.ErrInternal, "linker", "new", "bridge client required", nil)
	}
	l := &Linker{
		client:  client,
		deriver: partnum.NewDeriver(nil),
		limit:   defaultSearchLimit,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Run executes the full pipeline for one raw part number and returns the
// decision. Any stage failure aborts the whole request; no partial
// candidate set is ever ranked or recorded.
func (l *Linker) Run(ctx context.Context, rawPN string) (Decision, error) {
	pn, err := partnum.Validate(rawPN)
	if err != nil {
		return Decision{}, err
	}

	traceID := NewTraceID()
	ctx = services.WithTraceID(ctx, traceID)
	logger := logging.WithContext(ctx, l.logger).With(logging.String(logging.FieldQuery, pn))

	if err := l.checkCapabilities(ctx, traceID); err != nil {
		return Decision{}, err
	}

	keys := l.deriver.Derive(pn)
	logger.Debug("derived search keys", logging.Int("keys", len(keys)))

	results, err := l.search(ctx, keys, traceID)
	if err != nil {
		return Decision{}, err
	}

	candidates := rank(merge(results, pn))
	decision := decide(pn, traceID, candidates)

	logger.Info("decision",
		logging.Int("candidates", len(decision.Candidates)),
		logging.Bool("needs_review", decision.NeedsReview),
		logging.String("rationale", decision.Rationale))

	l.record(ctx, logger, AuditRecord{
		TraceID:   traceID,
		Query:     pn,
		Keys:      keys,
		Responses: results,
		Decision:  decision,
	})
	return decision, nil
}

// checkCapabilities gates the pipeline on the bridge advertising match-kind
// search and the exact normalization rules version the deriver was built
// against. Version skew between the two sides would silently change which
// keys match, so it is treated as a hard feature error.
func (l *Linker) checkCapabilities(ctx context.Context, traceID string) error {
	ctx = services.WithStage(ctx, "capability_gate")
	state, err := l.client.State(ctx, traceID)
	if err != nil {
		return err
	}
	if !state.Features.SearchMatchKind {
		return services.Wrap(services.ErrFeature, "linker", "capability gate",
			"bridge does not support match-kind search", nil)
	}
	wantVersion := l.deriver.Rules().Version()
	if state.Features.NormalizationRulesVersion != wantVersion {
		return services.Wrap(services.ErrFeature, "linker", "capability gate",
			fmt.Sprintf("bridge normalization rules version %q, need %q",
				state.Features.NormalizationRulesVersion, wantVersion), nil)
	}
	return nil
}

// search fans out one bridge query per derived key and joins at a single
// barrier. The first failure cancels the remaining queries and fails the
// request; results keep key order regardless of completion order.
func (l *Linker) search(ctx context.Context, keys []partnum.SearchKey, traceID string) ([]KeyResult, error) {
	ctx = services.WithStage(ctx, "search")
	group, groupCtx := errgroup.WithContext(ctx)
	results := make([]KeyResult, len(keys))

	for i, key := range keys {
		i, key := i, key
		group.Go(func() error {
			start := time.Now()
			rows, err := l.client.Search(groupCtx, bridge.SearchQuery{
				PN:      key.Value,
				Limit:   l.limit,
				Analyze: true,
				TraceID: traceID,
			})
			if err != nil {
				return err
			}
			logging.WithContext(groupCtx, l.logger).Debug("key searched",
				logging.String(logging.FieldKey, key.Value),
				logging.String(logging.FieldKeyOrigin, string(key.Origin)),
				logging.Int("rows", len(rows)),
				logging.Duration("elapsed", time.Since(start)))
			results[i] = KeyResult{Key: key, Rows: rows}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (l *Linker) record(ctx context.Context, logger *slog.Logger, record AuditRecord) {
	if l.recorder == nil {
		return
	}
	if err := l.recorder.RecordDecision(ctx, record); err != nil {
		logger.Warn("audit record failed", logging.Error(err))
	}
}
