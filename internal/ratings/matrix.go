package ratings

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrEmptyMatrix = errors.New("ratings: matrix needs at least one item and one user")
	ErrRaggedRows  = errors.New("ratings: rows have different lengths")
)

// Rating is a single cell of the matrix: either a known value or missing.
// The zero value is missing.
type Rating struct {
	value   float64
	present bool
}

// Known returns a present rating holding v.
func Known(v float64) Rating {
	return Rating{value: v, present: true}
}

// Missing returns the missing rating.
func Missing() Rating {
	return Rating{}
}

// Value returns the rating and whether it is present.
func (r Rating) Value() (float64, bool) {
	return r.value, r.present
}

// IsMissing reports whether no rating was given.
func (r Rating) IsMissing() bool {
	return !r.present
}

func (r Rating) String() string {
	if !r.present {
		return "X"
	}
	return fmt.Sprintf("%g", r.value)
}

// Matrix holds ratings for N items (rows) by M users (columns).
// It is immutable once built.
type Matrix struct {
	cells []Rating
	items int
	users int
}

// NewMatrix builds a matrix from rows of ratings. The rows are copied.
func NewMatrix(rows [][]Rating) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMatrix
	}

	users := len(rows[0])
	cells := make([]Rating, 0, len(rows)*users)
	for i, row := range rows {
		if len(row) != users {
			return nil, fmt.Errorf("%w: row %d has %d ratings, want %d", ErrRaggedRows, i, len(row), users)
		}
		cells = append(cells, row...)
	}

	return &Matrix{cells: cells, items: len(rows), users: users}, nil
}

// Items returns the number of rows.
func (m *Matrix) Items() int { return m.items }

// Users returns the number of columns.
func (m *Matrix) Users() int { return m.users }

// At returns the rating of item for user. It panics on out-of-range indices,
// like slice indexing; callers validate query indices first.
func (m *Matrix) At(item, user int) Rating {
	if item < 0 || item >= m.items || user < 0 || user >= m.users {
		panic(fmt.Sprintf("ratings: index (%d,%d) out of range [%d,%d)", item, user, m.items, m.users))
	}
	return m.cells[item*m.users+user]
}

// Row returns a copy of the ratings for one item.
func (m *Matrix) Row(item int) []Rating {
	row := make([]Rating, m.users)
	copy(row, m.cells[item*m.users:(item+1)*m.users])
	return row
}

// Column returns a copy of the ratings given by one user.
func (m *Matrix) Column(user int) []Rating {
	col := make([]Rating, m.items)
	for i := range col {
		col[i] = m.cells[i*m.users+user]
	}
	return col
}
