package ga

import "sort"

// FittestIndex returns the index of the highest score. Ties go to the
// earliest index.
func FittestIndex(scores []float64) int {
	if len(scores) == 0 {
		panic("ga: cannot select from an empty population")
	}
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}

// TopIndices returns the indices of the k highest scores, best first, ties in
// index order
func TopIndices(scores []float64, k int) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	if k > len(idx) {
		k = len(idx)
	}
	if k < 0 {
		k = 0
	}
	return idx[:k]
}
