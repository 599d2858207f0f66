// Package input reads the line-oriented ratings format: a "N M" header,
// N rows of M rating tokens, a query count Q and Q lines of "I J T K".
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cfpredict/internal/cf"
	"cfpredict/internal/ratings"
)

// DefaultMissingMarker is the token that stands for a missing rating.
const DefaultMissingMarker = "X"

// Common errors
var (
	ErrMalformed     = errors.New("input: malformed input")
	ErrUnexpectedEOF = errors.New("input: unexpected end of input")
)

// ParseError reports where parsing failed.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Msg, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Options controls parsing.
type Options struct {
	MissingMarker string
}

// Problem is a parsed matrix and its queries, in input order.
type Problem struct {
	Matrix  *ratings.Matrix
	Queries []cf.Query
}

type lineReader struct {
	r    *bufio.Reader
	line int
}

// next returns the fields of the next line.
func (lr *lineReader) next(what string) ([]string, error) {
	s, err := lr.r.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		lr.line++
		if err == io.EOF {
			return nil, &ParseError{Line: lr.line, Msg: "reading " + what, Err: ErrUnexpectedEOF}
		}
		return nil, &ParseError{Line: lr.line, Msg: "reading " + what, Err: err}
	}
	lr.line++
	return strings.Fields(s), nil
}

func (lr *lineReader) fail(msg string, args ...any) error {
	return &ParseError{Line: lr.line, Msg: fmt.Sprintf(msg, args...), Err: ErrMalformed}
}

// ints reads a line of exactly n integers.
func (lr *lineReader) ints(what string, n int) ([]int, error) {
	fields, err := lr.next(what)
	if err != nil {
		return nil, err
	}
	if len(fields) != n {
		return nil, lr.fail("%s: got %d values, want %d", what, len(fields), n)
	}

	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, lr.fail("%s: %q is not an integer", what, f)
		}
		out[i] = v
	}
	return out, nil
}

// Parse reads a problem from r.
func Parse(r io.Reader, opts Options) (*Problem, error) {
	marker := opts.MissingMarker
	if marker == "" {
		marker = DefaultMissingMarker
	}
	lr := &lineReader{r: bufio.NewReader(r)}

	dims, err := lr.ints("dimensions", 2)
	if err != nil {
		return nil, err
	}
	items, users := dims[0], dims[1]
	if items < 1 || users < 1 {
		return nil, lr.fail("dimensions must be positive, got %d x %d", items, users)
	}

	rows := make([][]ratings.Rating, items)
	for i := range rows {
		fields, err := lr.next(fmt.Sprintf("ratings of item %d", i+1))
		if err != nil {
			return nil, err
		}
		if len(fields) != users {
			return nil, lr.fail("item %d: got %d ratings, want %d", i+1, len(fields), users)
		}

		row := make([]ratings.Rating, users)
		for j, tok := range fields {
			if tok == marker {
				row[j] = ratings.Missing()
				continue
			}
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, lr.fail("item %d user %d: %q is neither a rating nor %q", i+1, j+1, tok, marker)
			}
			row[j] = ratings.Known(v)
		}
		rows[i] = row
	}

	m, err := ratings.NewMatrix(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build matrix: %w", err)
	}

	count, err := lr.ints("query count", 1)
	if err != nil {
		return nil, err
	}
	if count[0] < 0 {
		return nil, lr.fail("query count must not be negative, got %d", count[0])
	}

	queries := make([]cf.Query, count[0])
	for q := range queries {
		v, err := lr.ints(fmt.Sprintf("query %d", q+1), 4)
		if err != nil {
			return nil, err
		}
		queries[q] = NewQuery(v[0], v[1], v[2], v[3])
	}

	return &Problem{Matrix: m, Queries: queries}, nil
}

// NewQuery converts the external 1-based "I J T K" form into a query.
// T == 0 selects item-based filtering, anything else user-based.
func NewQuery(i, j, t, k int) cf.Query {
	mode := cf.UserBased
	if t == 0 {
		mode = cf.ItemBased
	}
	return cf.Query{Item: i - 1, User: j - 1, Mode: mode, K: k}
}
