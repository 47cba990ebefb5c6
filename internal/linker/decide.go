package linker

import "fmt"

// decide applies the review policy to ranked candidates. Automatic
// attachment requires a unique top-ranked tier-0 exact match; every other
// shape routes to an operator with a rationale naming why.
func decide(query, traceID string, ranked []Candidate) Decision {
	decision := Decision{
		Query:      query,
		TraceID:    traceID,
		Candidates: ranked,
	}

	if len(ranked) == 0 {
		decision.NeedsReview = true
		decision.Rationale = "no candidates found for any derived key"
		return decision
	}

	if topRankCount(ranked) > 1 {
		decision.NeedsReview = true
		decision.Rationale = fmt.Sprintf(
			"ambiguous top rank: %d candidates share match kind %s",
			topRankCount(ranked), ranked[0].MatchKind)
		return decision
	}

	top := ranked[0]
	decision.Best = &top

	switch {
	case top.Tier == Tier0 && top.MatchKind.IsExact():
		decision.NeedsReview = false
		decision.Rationale = fmt.Sprintf(
			"unique exact match on record %d; automatic attachment allowed", top.RecordID)
	case top.Tier == Tier1:
		decision.NeedsReview = true
		decision.Rationale = fmt.Sprintf(
			"record %d matched as an ordering variant of the same silicon (%s); confirm before attaching",
			top.RecordID, top.MatchKind)
	case top.Tier == Tier2:
		decision.NeedsReview = true
		decision.Rationale = fmt.Sprintf(
			"record %d is a cross-manufacturer equivalent (%s); confirm before attaching",
			top.RecordID, top.MatchKind)
	default:
		decision.NeedsReview = true
		decision.Rationale = fmt.Sprintf(
			"record %d is only a loose suggestion (%s, %s); confirm before attaching",
			top.RecordID, top.MatchKind, top.Tier)
	}
	return decision
}
