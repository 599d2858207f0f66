package cf

import "cfpredict/internal/ratings"

// Axis selects whether vectors run along items (rows) or users (columns).
type Axis int

const (
	ItemAxis Axis = iota
	UserAxis
)

func (a Axis) String() string {
	switch a {
	case ItemAxis:
		return "item"
	case UserAxis:
		return "user"
	default:
		return "unknown"
	}
}

// CenteredVectors returns one mean-centred vector per item (ItemAxis) or per
// user (UserAxis). A present cell becomes rating minus the average of its own
// row or column; a missing cell becomes exactly 0.
func CenteredVectors(m *ratings.Matrix, avgs ratings.Averages, axis Axis) [][]float64 {
	var (
		count  int
		means  []float64
		source func(int) []ratings.Rating
	)
	if axis == UserAxis {
		count, means, source = m.Users(), avgs.Users, m.Column
	} else {
		count, means, source = m.Items(), avgs.Items, m.Row
	}

	vectors := make([][]float64, count)
	for k := 0; k < count; k++ {
		cells := source(k)
		vec := make([]float64, len(cells))
		for x, r := range cells {
			if v, ok := r.Value(); ok {
				vec[x] = v - means[k]
			}
		}
		vectors[k] = vec
	}
	return vectors
}
