// Package batch drives a parsed problem through the predictor and writes
// one formatted prediction per query.
package batch

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"cfpredict/internal/cf"
	"cfpredict/internal/format"
	"cfpredict/internal/input"
	"cfpredict/internal/ratings"
)

// Stats summarises one run.
type Stats struct {
	Items     int
	Users     int
	Queries   int
	Fallbacks int
	Elapsed   time.Duration
}

// Runner reads problems and answers their queries in order.
type Runner struct {
	Logger *log.Logger
	Input  input.Options
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(logger *log.Logger, opts input.Options) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Logger: logger, Input: opts}
}

// Run parses in and writes one line per query to out. The first failing
// query stops the run; lines for earlier queries are still written.
func (r *Runner) Run(in io.Reader, out io.Writer) (Stats, error) {
	start := time.Now()

	problem, err := input.Parse(in, r.Input)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to parse input: %w", err)
	}

	stats := Stats{Items: problem.Matrix.Items(), Users: problem.Matrix.Users()}
	r.Logger.Debug("loaded matrix", "items", stats.Items, "users", stats.Users, "queries", len(problem.Queries))

	predictor := cf.NewPredictor(problem.Matrix, ratings.ComputeAverages(problem.Matrix))

	w := bufio.NewWriter(out)
	for n, q := range problem.Queries {
		pred, err := predictor.Predict(q)
		if err != nil {
			w.Flush()
			return stats, fmt.Errorf("query %d: %w", n+1, err)
		}

		line, err := format.Rating3(pred.Value)
		if err != nil {
			w.Flush()
			return stats, fmt.Errorf("query %d: %w", n+1, err)
		}

		r.Logger.Debug("predicted",
			"query", n+1, "item", q.Item+1, "user", q.User+1, "mode", q.Mode,
			"k", q.K, "neighbors", len(pred.Neighbors), "fallback", pred.Fallback, "value", line)

		stats.Queries++
		if pred.Fallback {
			stats.Fallbacks++
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return stats, fmt.Errorf("failed to write prediction: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return stats, fmt.Errorf("failed to write prediction: %w", err)
	}

	stats.Elapsed = time.Since(start)
	return stats, nil
}
