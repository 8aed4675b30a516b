// SPDX-License-Identifier: MIT

// Package report renders PageRank progress: a plain-text console log and a
// convergence chart. Reporters are installed with pagerank.WithReporter and
// are driven from the root member only.
package report

import (
	"fmt"
	"io"

	"github.com/katalvlaran/distrank/pagerank"
)

// ---------- Formatting literals ----------
const (
	_fmtBegin  = "Beginning Computation\n\n%4s %8s %8s\n"
	_fmtIter   = "%3d: %8.2e %8.2e\n"
	_fmtHeader = "\nPAGE RANKS\n"
	_fmtRank   = "%.8f\n"
)

// Text writes the per-iteration table, the verdict and the final ranks.
// Write errors are sticky: the first one is kept and later output skipped.
type Text struct {
	w   io.Writer
	err error
}

var _ pagerank.Reporter = (*Text)(nil)

// NewText returns a Text reporter writing to w.
func NewText(w io.Writer) *Text { return &Text{w: w} }

// Err returns the first write error, if any.
func (t *Text) Err() error { return t.err }

func (t *Text) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

// Begin prints the table header.
func (t *Text) Begin(int) { t.printf(_fmtBegin, "ITER", "DIFF", "NORM") }

// Iteration prints one (iteration, change, norm) row.
func (t *Text) Iteration(st pagerank.IterationState) {
	t.printf(_fmtIter, st.Iteration, st.Change, st.Norm)
}

// Finish prints the verdict and one rank per line with 8 decimals.
func (t *Text) Finish(res *pagerank.Result) {
	t.printf("%s\n", res.Status)
	t.printf(_fmtHeader)
	for _, r := range res.Ranks {
		t.printf(_fmtRank, r)
	}
}

// Multi fans every callback out to each reporter in order.
type Multi []pagerank.Reporter

var _ pagerank.Reporter = Multi(nil)

// Begin forwards to every reporter.
func (m Multi) Begin(n int) {
	for _, r := range m {
		r.Begin(n)
	}
}

// Iteration forwards to every reporter.
func (m Multi) Iteration(st pagerank.IterationState) {
	for _, r := range m {
		r.Iteration(st)
	}
}

// Finish forwards to every reporter.
func (m Multi) Finish(res *pagerank.Result) {
	for _, r := range m {
		r.Finish(res)
	}
}
