package linker

import (
	"celinker/internal/bridge"
	"celinker/internal/partnum"
)

// tierFor maps one (match kind, key origin) observation to a confidence
// tier. The mapping is total: every combination yields exactly one tier.
func tierFor(kind bridge.MatchKind, origin partnum.Origin) Tier {
	switch origin {
	case partnum.OriginDirect:
		switch {
		case kind.IsExact():
			return Tier0
		case kind.IsNormalized():
			return Tier1
		default:
			return Tier3
		}
	case partnum.OriginPrimaryCore:
		if kind.IsExact() || kind.IsNormalized() {
			return Tier1
		}
		return Tier3
	case partnum.OriginFamilyCore:
		if kind == bridge.MatchLike {
			return Tier3
		}
		return Tier2
	default:
		return Tier3
	}
}

// classify resolves the merged tier for a candidate. Only origins that
// achieved the merged best match-kind priority participate, so a weaker row
// from a stronger key (say, a like hit on the direct key next to an exact
// alias hit on the family core) cannot promote the candidate. When several
// origins share the best priority the lowest tier wins.
func classify(kind bridge.MatchKind, bestPriority int, priorityByOrigin map[partnum.Origin]int) Tier {
	best := Tier3
	found := false
	for origin, priority := range priorityByOrigin {
		if priority != bestPriority {
			continue
		}
		tier := tierFor(kind, origin)
		if !found || tier < best {
			best = tier
			found = true
		}
	}
	return best
}

func describeVia(tier Tier) string {
	switch tier {
	case Tier0:
		return "exact match on direct key"
	case Tier1:
		return "same silicon via primary core"
	case Tier2:
		return "cross-manufacturer equivalent via family core"
	default:
		return "suggested via derived like search"
	}
}
