package linker

import "sort"

// rank orders candidates by match-kind priority, then tier, then the order
// they were first merged in. The input arrives in first-merged order, so a
// stable sort on the first two keys preserves the third.
func rank(candidates []Candidate) []Candidate {
	sort.SliceStable(candidates, func(a, b int) bool {
		pa, pb := candidates[a].MatchKind.Priority(), candidates[b].MatchKind.Priority()
		if pa != pb {
			return pa < pb
		}
		return candidates[a].Tier < candidates[b].Tier
	})
	return candidates
}

// topRankCount reports how many candidates share the highest match-kind
// priority. A count above one makes the top rank ambiguous.
func topRankCount(candidates []Candidate) int {
	if len(candidates) == 0 {
		return 0
	}
	best := candidates[0].MatchKind.Priority()
	count := 0
	for _, cand := range candidates {
		if cand.MatchKind.Priority() == best {
			count++
		}
	}
	return count
}
