package evaluation

import "sort"

// RejectionReason is one risk factor with its occurrence count among
// rejected candidates.
type RejectionReason struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// TopRejectionReasons counts risk factors across the provided lists and
// returns the n most common. Ties are broken by first appearance, so the
// result is stable for identical input.
func TopRejectionReasons(riskLists [][]string, n int) []RejectionReason {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	for _, risks := range riskLists {
		for _, risk := range risks {
			if _, ok := counts[risk]; !ok {
				firstSeen[risk] = order
				order++
			}
			counts[risk]++
		}
	}

	reasons := make([]RejectionReason, 0, len(counts))
	for reason, count := range counts {
		reasons = append(reasons, RejectionReason{Reason: reason, Count: count})
	}

	sort.SliceStable(reasons, func(i, j int) bool {
		if reasons[i].Count != reasons[j].Count {
			return reasons[i].Count > reasons[j].Count
		}
		return firstSeen[reasons[i].Reason] < firstSeen[reasons[j].Reason]
	})

	if n > 0 && len(reasons) > n {
		reasons = reasons[:n]
	}

	return reasons
}
