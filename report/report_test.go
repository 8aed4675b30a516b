package report_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/distrank/matrix"
	"github.com/katalvlaran/distrank/pagerank"
	"github.com/katalvlaran/distrank/report"
)

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	r := report.NewText(&buf)

	r.Begin(2)
	r.Iteration(pagerank.IterationState{Iteration: 1, Change: 0.85, Norm: 1})
	r.Iteration(pagerank.IterationState{Iteration: 2, Change: 0, Norm: 1})
	r.Finish(&pagerank.Result{Status: pagerank.StatusConverged, Ranks: []float64{0.075, 0.925}})
	require.NoError(t, r.Err())

	want := "Beginning Computation\n\n" +
		"ITER     DIFF     NORM\n" +
		"  1: 8.50e-01 1.00e+00\n" +
		"  2: 0.00e+00 1.00e+00\n" +
		"CONVERGED\n" +
		"\nPAGE RANKS\n" +
		"0.07500000\n" +
		"0.92500000\n"
	require.Equal(t, want, buf.String())
}

type failWriter struct{ n int }

func (f *failWriter) Write(p []byte) (int, error) {
	f.n++
	return 0, errors.New("disk full")
}

func TestTextStickyError(t *testing.T) {
	fw := &failWriter{}
	r := report.NewText(fw)

	r.Begin(1)
	r.Iteration(pagerank.IterationState{Iteration: 1})
	require.EqualError(t, r.Err(), "disk full")
	require.Equal(t, 1, fw.n)
}

// TestPlotFromRun wires both reporters into a real run.
func TestPlotFromRun(t *testing.T) {
	m, err := matrix.NewDenseFrom(3, 3, []float64{
		0, 1, 1,
		1, 0, 0,
		0, 1, 0,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "conv.png")
	text, chart := report.NewText(&buf), report.NewPlot(path)

	res, err := pagerank.Compute(context.Background(), m, 2,
		pagerank.WithTolerance(1e-8), pagerank.WithReporter(report.Multi{text, chart}))
	require.NoError(t, err)
	require.NoError(t, text.Err())
	require.NoError(t, chart.Err())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, info.Size())
	require.Contains(t, buf.String(), res.Status.String())
}

func TestPlotNoData(t *testing.T) {
	chart := report.NewPlot(filepath.Join(t.TempDir(), "empty.png"))
	chart.Begin(3)
	chart.Iteration(pagerank.IterationState{Iteration: 1, Change: 0})
	chart.Finish(&pagerank.Result{Status: pagerank.StatusConverged, Iterations: 1})

	require.ErrorIs(t, chart.Err(), report.ErrNoData)
}
