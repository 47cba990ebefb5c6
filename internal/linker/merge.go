package linker

import (
	"strings"

	"celinker/internal/bridge"
	"celinker/internal/partnum"
)

// accumulator collects everything observed for one record identifier while
// key results are folded in.
type accumulator struct {
	recordID          int64
	canonicalPN       string
	aliases           []string
	normalizedTargets []string
	ruleIDs           []string

	bestPriority     int
	bestKind         bridge.MatchKind
	bestReason       string
	bestNormalized   string
	priorityByOrigin map[partnum.Origin]int
}

// merge folds per-key results, in key order, into one candidate per record
// identifier. The merged match kind is the highest-priority kind observed
// across keys; aliases and normalized targets are unioned; every
// contributing key origin is recorded together with the best priority that
// origin achieved, which classification later uses to resolve tiers.
func merge(results []KeyResult, fallbackPN string) []Candidate {
	byID := map[int64]*accumulator{}
	order := make([]*accumulator, 0)

	for _, result := range results {
		for _, row := range result.Rows {
			if row.ID == 0 {
				continue
			}
			priority := row.MatchKind.Priority()

			entry, ok := byID[row.ID]
			if !ok {
				entry = &accumulator{
					recordID:         row.ID,
					canonicalPN:      canonicalPN(row, fallbackPN),
					bestPriority:     priority,
					bestKind:         row.MatchKind,
					bestReason:       row.Reason,
					bestNormalized:   row.NormalizedInput,
					priorityByOrigin: map[partnum.Origin]int{},
				}
				byID[row.ID] = entry
				order = append(order, entry)
			}

			entry.aliases = appendUnique(entry.aliases, row.Aliases)
			entry.normalizedTargets = appendUnique(entry.normalizedTargets, row.NormalizedTargets)
			entry.ruleIDs = appendUnique(entry.ruleIDs, row.RuleIDs)

			origin := result.Key.Origin
			if existing, seen := entry.priorityByOrigin[origin]; !seen || priority < existing {
				entry.priorityByOrigin[origin] = priority
			}
			if priority < entry.bestPriority {
				entry.bestPriority = priority
				entry.bestKind = row.MatchKind
				entry.bestReason = row.Reason
				entry.bestNormalized = row.NormalizedInput
			}
		}
	}

	candidates := make([]Candidate, 0, len(order))
	for _, entry := range order {
		tier := classify(entry.bestKind, entry.bestPriority, entry.priorityByOrigin)
		candidates = append(candidates, Candidate{
			RecordID:          entry.recordID,
			CanonicalPN:       entry.canonicalPN,
			Aliases:           entry.aliases,
			MatchKind:         entry.bestKind,
			Tier:              tier,
			Via:               describeVia(tier),
			Reason:            entry.bestReason,
			NormalizedInput:   entry.bestNormalized,
			NormalizedTargets: entry.normalizedTargets,
			RuleIDs:           entry.ruleIDs,
			OriginKeys:        sortedOrigins(entry.priorityByOrigin),
		})
	}
	return candidates
}

func canonicalPN(row bridge.Row, fallback string) string {
	if pn := strings.TrimSpace(row.PN); pn != "" {
		return pn
	}
	return fallback
}

func appendUnique(dst []string, values []string) []string {
	for _, v := range values {
		if v == "" {
			continue
		}
		exists := false
		for _, existing := range dst {
			if existing == v {
				exists = true
				break
			}
		}
		if !exists {
			dst = append(dst, v)
		}
	}
	return dst
}

var originOrder = []partnum.Origin{partnum.OriginDirect, partnum.OriginPrimaryCore, partnum.OriginFamilyCore}

func sortedOrigins(priorities map[partnum.Origin]int) []partnum.Origin {
	out := make([]partnum.Origin, 0, len(priorities))
	for _, origin := range originOrder {
		if _, ok := priorities[origin]; ok {
			out = append(out, origin)
		}
	}
	return out
}
