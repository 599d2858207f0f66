package cf

import (
	"fmt"

	"cfpredict/internal/ratings"
	"cfpredict/internal/vecmath"
)

// FallbackRating is predicted when no neighbour qualifies.
const FallbackRating = 3.0

// Mode selects item-based or user-based filtering.
type Mode int

const (
	ItemBased Mode = iota
	UserBased
)

func (m Mode) String() string {
	switch m {
	case ItemBased:
		return "item"
	case UserBased:
		return "user"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Query asks for the rating of Item by User, using at most K neighbours.
// Indices are 0-based.
type Query struct {
	Item int
	User int
	Mode Mode
	K    int
}

// Prediction is the outcome of one query.
type Prediction struct {
	Value     float64
	Neighbors []Candidate
	Fallback  bool
}

// Predictor answers queries against a fixed matrix and its averages.
// It keeps no per-query state; every call recomputes vectors and similarities.
type Predictor struct {
	matrix *ratings.Matrix
	avgs   ratings.Averages
}

// NewPredictor creates a predictor over m. avgs must come from
// ratings.ComputeAverages(m).
func NewPredictor(m *ratings.Matrix, avgs ratings.Averages) *Predictor {
	return &Predictor{matrix: m, avgs: avgs}
}

// Predict estimates the rating for q.
func (p *Predictor) Predict(q Query) (Prediction, error) {
	if err := p.validate(q); err != nil {
		return Prediction{}, WrapError("Predict", err)
	}

	var (
		cands  []Candidate
		accept Filter
	)
	switch q.Mode {
	case ItemBased:
		cands = p.itemCandidates(q.Item, q.User)
		accept = itemFilter
	case UserBased:
		cands = p.userCandidates(q.Item, q.User)
		accept = userFilter
	}

	RankCandidates(cands)
	selected := SelectNeighbors(cands, q.K, accept)

	value, ok := weightedAverage(selected)
	if !ok {
		return Prediction{Value: FallbackRating, Neighbors: selected, Fallback: true}, nil
	}
	return Prediction{Value: value, Neighbors: selected}, nil
}

func (p *Predictor) validate(q Query) error {
	if q.Item < 0 || q.Item >= p.matrix.Items() {
		return fmt.Errorf("%w: item %d not in [0,%d)", ErrIndexOutOfRange, q.Item, p.matrix.Items())
	}
	if q.User < 0 || q.User >= p.matrix.Users() {
		return fmt.Errorf("%w: user %d not in [0,%d)", ErrIndexOutOfRange, q.User, p.matrix.Users())
	}
	if q.K < 0 {
		return fmt.Errorf("%w: negative neighbour count %d", ErrInvalidArgument, q.K)
	}
	if q.Mode != ItemBased && q.Mode != UserBased {
		return fmt.Errorf("%w: unknown mode %v", ErrInvalidArgument, q.Mode)
	}
	return nil
}

// itemCandidates compares the target item with every other item that the
// target user rated.
func (p *Predictor) itemCandidates(item, user int) []Candidate {
	vectors := CenteredVectors(p.matrix, p.avgs, ItemAxis)

	var cands []Candidate
	for i := range vectors {
		if i == item {
			continue
		}
		sim := vecmath.CosineSimilarity(vectors[item], vectors[i])
		if r, ok := p.matrix.At(i, user).Value(); ok {
			cands = append(cands, Candidate{Index: i, Similarity: sim, Rating: r})
		}
	}
	return cands
}

// userCandidates compares the target user with every other user that
// rated the target item.
func (p *Predictor) userCandidates(item, user int) []Candidate {
	vectors := CenteredVectors(p.matrix, p.avgs, UserAxis)

	var cands []Candidate
	for j := range vectors {
		if j == user {
			continue
		}
		r, ok := p.matrix.At(item, j).Value()
		if !ok {
			continue
		}
		sim := vecmath.CosineSimilarity(vectors[user], vectors[j])
		cands = append(cands, Candidate{Index: j, Similarity: sim, Rating: r})
	}
	return cands
}
