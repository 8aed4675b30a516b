// SPDX-License-Identifier: MIT

package report

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/katalvlaran/distrank/pagerank"
)

// ErrNoData indicates a chart with no plottable (positive) change values.
var ErrNoData = errors.New("report: no positive change values to plot")

// Default chart size.
const (
	DefaultPlotWidth  = 6 * vg.Inch
	DefaultPlotHeight = 4 * vg.Inch
)

// Plot collects the L1 change of every iteration and, on Finish, saves a
// log-scale convergence chart to Path. The format follows Path's extension
// (png, svg, pdf, ...). Zero changes cannot sit on a log axis and are left out.
type Plot struct {
	Path          string
	Width, Height vg.Length

	pts plotter.XYs
	err error
}

var _ pagerank.Reporter = (*Plot)(nil)

// NewPlot returns a Plot reporter saving to path at the default size.
func NewPlot(path string) *Plot {
	return &Plot{Path: path, Width: DefaultPlotWidth, Height: DefaultPlotHeight}
}

// Err returns the error from the last save, if any.
func (p *Plot) Err() error { return p.err }

// Begin resets collected points.
func (p *Plot) Begin(int) { p.pts = p.pts[:0] }

// Iteration records one point.
func (p *Plot) Iteration(st pagerank.IterationState) {
	if st.Change > 0 {
		p.pts = append(p.pts, plotter.XY{X: float64(st.Iteration), Y: st.Change})
	}
}

// Finish renders and saves the chart; the outcome is available from Err.
func (p *Plot) Finish(res *pagerank.Result) { p.err = p.save(res) }

func (p *Plot) save(res *pagerank.Result) error {
	if len(p.pts) == 0 {
		return ErrNoData
	}
	c := plot.New()
	c.Title.Text = fmt.Sprintf("PageRank convergence (%s after %d)", res.Status, res.Iterations)
	c.X.Label.Text = "iteration"
	c.Y.Label.Text = "L1 change"
	c.Y.Scale = plot.LogScale{}
	c.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	line, points, err := plotter.NewLinePoints(p.pts)
	if err != nil {
		return fmt.Errorf("Plot: %w", err)
	}
	c.Add(plotter.NewGrid(), line, points)

	if err = c.Save(p.Width, p.Height, p.Path); err != nil {
		return fmt.Errorf("Plot: save %s: %w", p.Path, err)
	}

	return nil
}
