// Package fixtures runs paired NAME.in / NAME.out files through the predictor
// and compares the produced output with the expected one.
package fixtures

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Status is the outcome of a single fixture.
type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusMissing Status = "MISSING"
	StatusError   Status = "ERROR"
	StatusTimeout Status = "TIMEOUT"
)

// Case is one input file and the file holding its expected output.
type Case struct {
	Name         string
	InputPath    string
	ExpectedPath string
}

// Result records how a case went.
type Result struct {
	Case     Case
	Status   Status
	Expected string
	Actual   string
	Err      error
	Elapsed  time.Duration
}

// Report collects the results of one check run.
type Report struct {
	RunID   string
	Results []Result
	Passed  int
	Failed  int
}

// RunFunc produces output for one input.
type RunFunc func(in io.Reader, out io.Writer) error

// Checker runs fixture cases.
type Checker struct {
	Run     RunFunc
	Timeout time.Duration
	Logger  *log.Logger
}

// Discover lists every *.in file in dir, sorted by name.
func Discover(dir string) ([]Case, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures directory: %w", err)
	}

	var cases []Case
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".in") {
			continue
		}
		base := strings.TrimSuffix(e.Name(), ".in")
		cases = append(cases, Case{
			Name:         e.Name(),
			InputPath:    filepath.Join(dir, e.Name()),
			ExpectedPath: filepath.Join(dir, base+".out"),
		})
	}

	sort.Slice(cases, func(i, j int) bool { return cases[i].Name < cases[j].Name })
	return cases, nil
}

// Check runs every case in order. Cancelling ctx stops before the next case.
func (c *Checker) Check(ctx context.Context, cases []Case) (*Report, error) {
	logger := c.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	report := &Report{RunID: uuid.NewString()}
	logger = logger.With("run", report.RunID)
	logger.Debug("checking fixtures", "cases", len(cases))

	for _, tc := range cases {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := c.checkOne(ctx, tc)
		if res.Status == StatusPass {
			report.Passed++
		} else {
			report.Failed++
			logger.Warn("fixture failed", "case", tc.Name, "status", res.Status, "err", res.Err)
		}
		logger.Debug("fixture done", "case", tc.Name, "status", res.Status, "elapsed", res.Elapsed)
		report.Results = append(report.Results, res)
	}

	return report, nil
}

func (c *Checker) checkOne(ctx context.Context, tc Case) (res Result) {
	res.Case = tc
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	in, err := os.ReadFile(tc.InputPath)
	if err != nil {
		res.Status, res.Err = StatusError, err
		return res
	}

	expected, err := os.ReadFile(tc.ExpectedPath)
	if os.IsNotExist(err) {
		res.Status = StatusMissing
		res.Err = fmt.Errorf("missing expected output file: %s", filepath.Base(tc.ExpectedPath))
		return res
	}
	if err != nil {
		res.Status, res.Err = StatusError, err
		return res
	}
	res.Expected = strings.TrimSpace(string(expected))

	actual, err := c.runWithTimeout(ctx, in)
	res.Actual = strings.TrimSpace(actual)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		res.Status, res.Err = StatusTimeout, err
	case err != nil:
		res.Status, res.Err = StatusError, err
	case res.Actual == res.Expected:
		res.Status = StatusPass
	default:
		res.Status = StatusFail
	}
	return res
}

type runOutcome struct {
	out string
	err error
}

// runWithTimeout runs the case on its own goroutine. A run that outlives the
// timeout is abandoned, not interrupted.
func (c *Checker) runWithTimeout(ctx context.Context, in []byte) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 50 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan runOutcome, 1)
	go func() {
		var out bytes.Buffer
		err := c.Run(bytes.NewReader(in), &out)
		done <- runOutcome{out: out.String(), err: err}
	}()

	select {
	case o := <-done:
		return o.out, o.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
