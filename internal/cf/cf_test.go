package cf

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"cfpredict/internal/ratings"
)

// grid builds a matrix from rows where NaN marks a missing rating.
func grid(t *testing.T, rows ...[]float64) *ratings.Matrix {
	t.Helper()
	out := make([][]ratings.Rating, len(rows))
	for i, r := range rows {
		out[i] = make([]ratings.Rating, len(r))
		for j, v := range r {
			if !math.IsNaN(v) {
				out[i][j] = ratings.Known(v)
			}
		}
	}
	m, err := ratings.NewMatrix(out)
	require.NoError(t, err)
	return m
}

var x = math.NaN()

func newPredictor(m *ratings.Matrix) *Predictor {
	return NewPredictor(m, ratings.ComputeAverages(m))
}

func indexes(cands []Candidate) []int {
	out := make([]int, len(cands))
	for i, c := range cands {
		out[i] = c.Index
	}
	return out
}

func TestCenteredVectors(t *testing.T) {
	m := grid(t,
		[]float64{5, x},
		[]float64{3, 4},
	)
	avgs := ratings.ComputeAverages(m)

	items := CenteredVectors(m, avgs, ItemAxis)
	assert.Equal(t, [][]float64{{0, 0}, {-0.5, 0.5}}, items)

	// Users are centred by their own averages (4 and 4), not by item averages.
	users := CenteredVectors(m, avgs, UserAxis)
	assert.Equal(t, [][]float64{{1, -1}, {0, 0}}, users)
}

func TestCenteredVectors_MissingIsZeroNotMean(t *testing.T) {
	m := grid(t, []float64{2, x, 4})
	vecs := CenteredVectors(m, ratings.ComputeAverages(m), ItemAxis)
	assert.Equal(t, []float64{-1, 0, 1}, vecs[0])
}

func TestRankCandidates_StableTies(t *testing.T) {
	cands := []Candidate{
		{Index: 0, Similarity: 0.5},
		{Index: 1, Similarity: 0.9},
		{Index: 2, Similarity: 0.5},
		{Index: 3, Similarity: -0.1},
		{Index: 4, Similarity: 0.9},
		{Index: 5, Similarity: 0.5},
	}
	RankCandidates(cands)
	assert.Equal(t, []int{1, 4, 0, 2, 5, 3}, indexes(cands))
}

func TestSelectNeighbors(t *testing.T) {
	ranked := []Candidate{
		{Index: 0, Similarity: 0.9, Rating: 0},
		{Index: 1, Similarity: 0.8, Rating: 4},
		{Index: 2, Similarity: 0.7, Rating: 2},
		{Index: 3, Similarity: 0, Rating: 5},
		{Index: 4, Similarity: -0.4, Rating: 1},
	}

	assert.Equal(t, []int{1, 2}, indexes(SelectNeighbors(ranked, 5, itemFilter)))
	assert.Equal(t, []int{1}, indexes(SelectNeighbors(ranked, 1, itemFilter)))
	assert.Equal(t, []int{0, 1, 2}, indexes(SelectNeighbors(ranked, 10, userFilter)))
	assert.Equal(t, []int{0, 1}, indexes(SelectNeighbors(ranked, 2, userFilter)))
	assert.Empty(t, SelectNeighbors(ranked, 0, userFilter))
}

func TestPredict_ZeroNormTargetFallsBack(t *testing.T) {
	m := grid(t,
		[]float64{5, x},
		[]float64{3, 4},
	)
	pred, err := newPredictor(m).Predict(Query{Item: 0, User: 1, Mode: ItemBased, K: 1})
	require.NoError(t, err)

	assert.True(t, pred.Fallback)
	assert.Equal(t, FallbackRating, pred.Value)
	assert.Empty(t, pred.Neighbors)
}

func TestPredict_ItemBasedRatingFilter(t *testing.T) {
	m := grid(t,
		[]float64{1, 5, x},
		[]float64{0, 4, 0},
		[]float64{2, 6, 5},
	)
	p := newPredictor(m)

	for _, k := range []int{1, 2, 5} {
		pred, err := p.Predict(Query{Item: 0, User: 2, Mode: ItemBased, K: k})
		require.NoError(t, err)
		assert.Equal(t, []int{2}, indexes(pred.Neighbors), "k=%d", k)
		assert.InDelta(t, 5.0, pred.Value, 1e-12)
		assert.False(t, pred.Fallback)
	}
}

func TestPredict_UserBasedAllowsZeroRatings(t *testing.T) {
	m := grid(t,
		[]float64{x, 0},
		[]float64{1, 1},
		[]float64{5, 5},
	)
	p := newPredictor(m)

	pred, err := p.Predict(Query{Item: 0, User: 0, Mode: UserBased, K: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, indexes(pred.Neighbors))
	assert.Equal(t, 0.0, pred.Value)
	assert.False(t, pred.Fallback)

	// Item-based on the same cell sees only zero-norm items.
	pred, err = p.Predict(Query{Item: 0, User: 0, Mode: ItemBased, K: 1})
	require.NoError(t, err)
	assert.True(t, pred.Fallback)
	assert.Equal(t, 3.0, pred.Value)
}

func TestPredict_KZeroFallsBack(t *testing.T) {
	m := grid(t,
		[]float64{5, 3, 4},
		[]float64{4, 2, 5},
		[]float64{1, 5, 2},
	)
	pred, err := newPredictor(m).Predict(Query{Item: 0, User: 0, Mode: ItemBased, K: 0})
	require.NoError(t, err)
	assert.True(t, pred.Fallback)
	assert.Equal(t, 3.0, pred.Value)
}

func TestPredict_TargetNeverItsOwnNeighbor(t *testing.T) {
	m := grid(t,
		[]float64{5, 1, 4, 2},
		[]float64{5, 1, 4, 2},
		[]float64{4, 2, 5, 1},
		[]float64{1, 5, 2, 4},
	)
	p := newPredictor(m)

	for item := 0; item < m.Items(); item++ {
		for user := 0; user < m.Users(); user++ {
			for _, c := range p.itemCandidates(item, user) {
				assert.NotEqual(t, item, c.Index)
			}
			for _, c := range p.userCandidates(item, user) {
				assert.NotEqual(t, user, c.Index)
			}
		}
	}
}

func TestPredict_Idempotent(t *testing.T) {
	m := grid(t,
		[]float64{5, 3, x, 1},
		[]float64{4, x, x, 1},
		[]float64{1, 1, x, 5},
		[]float64{1, x, 5, 4},
	)
	p := newPredictor(m)

	for _, mode := range []Mode{ItemBased, UserBased} {
		q := Query{Item: 1, User: 2, Mode: mode, K: 3}
		first, err := p.Predict(q)
		require.NoError(t, err)
		second, err := p.Predict(q)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestPredict_Errors(t *testing.T) {
	m := grid(t,
		[]float64{5, x},
		[]float64{3, 4},
	)
	p := newPredictor(m)

	tests := []struct {
		name string
		q    Query
		want error
	}{
		{"item too large", Query{Item: 2, User: 0, K: 1}, ErrIndexOutOfRange},
		{"item negative", Query{Item: -1, User: 0, K: 1}, ErrIndexOutOfRange},
		{"user too large", Query{Item: 0, User: 2, Mode: UserBased, K: 1}, ErrIndexOutOfRange},
		{"negative k", Query{Item: 0, User: 0, K: -1}, ErrInvalidArgument},
		{"unknown mode", Query{Item: 0, User: 0, Mode: Mode(7), K: 1}, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Predict(tt.q)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var cfErr *Error
			require.True(t, errors.As(err, &cfErr))
			assert.Equal(t, "Predict", cfErr.Op)
		})
	}
}

// reference recomputes a prediction directly from the formulas, using gonum
// for the vector arithmetic.
func reference(m *ratings.Matrix, q Query) float64 {
	along := func(k int) []ratings.Rating {
		if q.Mode == UserBased {
			return m.Column(k)
		}
		return m.Row(k)
	}
	count, target := m.Items(), q.Item
	if q.Mode == UserBased {
		count, target = m.Users(), q.User
	}

	centred := make([][]float64, count)
	for k := range centred {
		cells := along(k)
		var present []float64
		for _, r := range cells {
			if v, ok := r.Value(); ok {
				present = append(present, v)
			}
		}
		mean := 0.0
		if len(present) > 0 {
			mean = floats.Sum(present) / float64(len(present))
		}
		centred[k] = make([]float64, len(cells))
		for i, r := range cells {
			if v, ok := r.Value(); ok {
				centred[k][i] = v - mean
			}
		}
	}

	var sims, vals []float64
	for k := 0; k < count; k++ {
		if k == target {
			continue
		}
		cell := m.At(k, q.User)
		if q.Mode == UserBased {
			cell = m.At(q.Item, k)
		}
		r, ok := cell.Value()
		if !ok {
			continue
		}
		na := math.Sqrt(floats.Dot(centred[target], centred[target]))
		nb := math.Sqrt(floats.Dot(centred[k], centred[k]))
		if na == 0 || nb == 0 {
			continue
		}
		s := floats.Dot(centred[target], centred[k]) / (na * nb)
		if s <= 0 || (q.Mode == ItemBased && r <= 0) {
			continue
		}
		sims = append(sims, s)
		vals = append(vals, r)
	}

	if len(sims) == 0 {
		return FallbackRating
	}
	return floats.Dot(sims, vals) / floats.Sum(sims)
}

func TestPredict_DenseMatchesDirectFormula(t *testing.T) {
	m := grid(t,
		[]float64{5, 3, 4},
		[]float64{4, 2, 5},
		[]float64{1, 5, 2},
	)
	p := newPredictor(m)

	for item := 0; item < 3; item++ {
		for user := 0; user < 3; user++ {
			for _, mode := range []Mode{ItemBased, UserBased} {
				q := Query{Item: item, User: user, Mode: mode, K: 2}
				pred, err := p.Predict(q)
				require.NoError(t, err)
				assert.InDelta(t, reference(m, q), pred.Value, 1e-9, "query %+v", q)
			}
		}
	}
}

func TestPredict_DenseItemBasedByHand(t *testing.T) {
	m := grid(t,
		[]float64{5, 3, 4},
		[]float64{4, 2, 5},
		[]float64{1, 5, 2},
	)
	// Centred items: [1,-1,0], [1/3,-5/3,4/3], [-5/3,7/3,-2/3].
	// Only item 1 is positively similar, and it rated user 0 with 4.
	pred, err := newPredictor(m).Predict(Query{Item: 0, User: 0, Mode: ItemBased, K: 2})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, indexes(pred.Neighbors))
	assert.InDelta(t, 6/math.Sqrt(84), pred.Neighbors[0].Similarity, 1e-12)
	assert.InDelta(t, 4.0, pred.Value, 1e-12)
}

func TestPredict_SparseMatchesDirectFormula(t *testing.T) {
	m := grid(t,
		[]float64{5, 3, x, 1, 4},
		[]float64{4, x, x, 1, 2},
		[]float64{1, 1, x, 5, x},
		[]float64{1, x, 5, 4, 3},
		[]float64{x, 1, 5, 4, 0},
	)
	p := newPredictor(m)

	for item := 0; item < m.Items(); item++ {
		for user := 0; user < m.Users(); user++ {
			for _, mode := range []Mode{ItemBased, UserBased} {
				q := Query{Item: item, User: user, Mode: mode, K: 10}
				pred, err := p.Predict(q)
				require.NoError(t, err)
				assert.InDelta(t, reference(m, q), pred.Value, 1e-9, "query %+v", q)
			}
		}
	}
}
