package bridge

// MatchKind is the bridge-reported reason a row matched a search key.
type MatchKind string

const (
	MatchExactPN         MatchKind = "exact_pn"
	MatchExactAlias      MatchKind = "exact_alias"
	MatchNormalizedPN    MatchKind = "normalized_pn"
	MatchNormalizedAlias MatchKind = "normalized_alias"
	MatchLike            MatchKind = "like"
)

// unknownPriority ranks rows whose match kind the bridge did not annotate
// (or annotated with something this client does not know) below every
// recognized kind.
const unknownPriority = 99

// Priority returns the fixed ranking weight of a match kind; lower is
// stronger.
func (k MatchKind) Priority() int {
	switch k {
	case MatchExactPN:
		return 0
	case MatchExactAlias:
		return 1
	case MatchNormalizedPN:
		return 2
	case MatchNormalizedAlias:
		return 3
	case MatchLike:
		return 4
	default:
		return unknownPriority
	}
}

// IsExact reports whether the kind asserts canonical identity.
func (k MatchKind) IsExact() bool {
	return k == MatchExactPN || k == MatchExactAlias
}

// IsNormalized reports whether the kind asserts identity after
// normalization.
func (k MatchKind) IsNormalized() bool {
	return k == MatchNormalizedPN || k == MatchNormalizedAlias
}

// Known reports whether the kind is part of the annotation contract.
func (k MatchKind) Known() bool {
	return k.Priority() != unknownPriority
}

// Row is one raw candidate row returned by the bridge for a single search
// key.
type Row struct {
	ID                int64     `json:"id"`
	PN                string    `json:"pn"`
	Aliases           []string  `json:"aliases"`
	MatchKind         MatchKind `json:"match_kind"`
	Reason            string    `json:"reason"`
	NormalizedInput   string    `json:"normalized_input"`
	NormalizedTargets []string  `json:"normalized_targets"`
	RuleIDs           []string  `json:"rule_ids"`
}

// Features is the capability block of the bridge state payload.
type Features struct {
	SearchMatchKind           bool   `json:"search_match_kind"`
	NormalizationRulesVersion string `json:"normalization_rules_version"`
}

// State is the bridge state payload consumed by the pre-flight gate.
type State struct {
	Features Features `json:"features"`
}
