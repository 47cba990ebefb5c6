package linker

import (
	"context"
	"strconv"

	"celinker/internal/bridge"
	"celinker/internal/partnum"
)

// Tier is the locally computed confidence band for a candidate. Lower is
// stronger.
type Tier int

const (
	// Tier0 is the same canonical identity: an exact hit on the direct key.
	Tier0 Tier = iota
	// Tier1 is the same silicon in a different package, grade, or shipping
	// form.
	Tier1
	// Tier2 is a cross-manufacturer equivalent reached through the family
	// core whitelist.
	Tier2
	// Tier3 is a loose, investigation-only suggestion.
	Tier3
)

func (t Tier) String() string {
	return "tier" + strconv.Itoa(int(t))
}

// Candidate is one merged record candidate with its local classification.
type Candidate struct {
	RecordID          int64            `json:"record_id"`
	CanonicalPN       string           `json:"canonical_pn"`
	Aliases           []string         `json:"aliases"`
	MatchKind         bridge.MatchKind `json:"match_kind"`
	Tier              Tier             `json:"tier"`
	Via               string           `json:"via"`
	Reason            string           `json:"reason,omitempty"`
	NormalizedInput   string           `json:"normalized_input,omitempty"`
	NormalizedTargets []string         `json:"normalized_targets,omitempty"`
	RuleIDs           []string         `json:"rule_ids,omitempty"`
	OriginKeys        []partnum.Origin `json:"origin_keys"`
}

// Decision is the final, auditable outcome for one request. Candidates
// always contains every distinct record discovered, regardless of tier;
// Best is nil when no candidate exists or the top rank is ambiguous.
type Decision struct {
	Query       string      `json:"query"`
	TraceID     string      `json:"trace_id"`
	Candidates  []Candidate `json:"candidates"`
	Best        *Candidate  `json:"best"`
	NeedsReview bool        `json:"needs_review"`
	Rationale   string      `json:"rationale"`
}

// KeyResult pairs a derived search key with the raw rows the bridge
// returned for it.
type KeyResult struct {
	Key  partnum.SearchKey `json:"key"`
	Rows []bridge.Row      `json:"rows"`
}

// AuditRecord captures everything needed to replay one request.
type AuditRecord struct {
	TraceID   string              `json:"trace_id"`
	Query     string              `json:"query"`
	Keys      []partnum.SearchKey `json:"keys"`
	Responses []KeyResult         `json:"responses"`
	Decision  Decision            `json:"decision"`
}

// Recorder receives the audit record for a completed request. Recording is
// best-effort from the pipeline's point of view; failures are logged, not
// propagated.
type Recorder interface {
	RecordDecision(ctx context.Context, record AuditRecord) error
}
