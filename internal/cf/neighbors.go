package cf

import "sort"

// Candidate is another item or user that rated the target cell's
// counterpart, with its similarity to the target.
type Candidate struct {
	Index      int
	Similarity float64
	Rating     float64
}

// Filter decides whether a ranked candidate may be used as a neighbour.
type Filter func(Candidate) bool

// itemFilter requires a positive similarity and a positive rating.
func itemFilter(c Candidate) bool {
	return c.Similarity > 0 && c.Rating > 0
}

// userFilter requires a positive similarity only; zero and negative
// ratings still count.
func userFilter(c Candidate) bool {
	return c.Similarity > 0
}

// RankCandidates sorts candidates by similarity, highest first.
// Ties keep their input order.
func RankCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Similarity > cands[j].Similarity
	})
}

// SelectNeighbors walks ranked candidates and returns up to k that pass accept.
func SelectNeighbors(ranked []Candidate, k int, accept Filter) []Candidate {
	var selected []Candidate
	for _, c := range ranked {
		if len(selected) == k {
			break
		}
		if accept(c) {
			selected = append(selected, c)
		}
	}
	return selected
}

// weightedAverage returns Σ sim·rating / Σ sim and whether the denominator
// was non-zero.
func weightedAverage(neighbors []Candidate) (float64, bool) {
	var num, den float64
	for _, n := range neighbors {
		num += n.Similarity * n.Rating
		den += n.Similarity
	}
	if den == 0 {
		return 0, false
	}
	return num / den, true
}
