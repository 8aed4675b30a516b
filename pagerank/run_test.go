package pagerank_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/distrank/collective"
	"github.com/katalvlaran/distrank/matrix"
	"github.com/katalvlaran/distrank/pagerank"
	"github.com/katalvlaran/distrank/partition"
)

// TestCycleIsUniform: 0→1→2→0 with d=0.85 on one worker converges to 1/3 each.
func TestCycleIsUniform(t *testing.T) {
	full := mustGraph(t, 3, edge{0, 1}, edge{1, 2}, edge{2, 0})

	res, err := pagerank.Compute(context.Background(), full, 1, pagerank.WithDamping(0.85))
	require.NoError(t, err)

	require.Equal(t, pagerank.StatusConverged, res.Status)
	require.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, res.Ranks, 1e-9)
}

// TestSinkWithSelfLoop: 0→1 with node 1 a sink given a self-loop.
func TestSinkWithSelfLoop(t *testing.T) {
	full := mustGraph(t, 2, edge{0, 1})

	res, err := pagerank.Compute(context.Background(), full, 2,
		pagerank.WithDamping(0.85),
		pagerank.WithDanglingPolicy(pagerank.DanglingSelfLoop),
	)
	require.NoError(t, err)

	require.Equal(t, pagerank.StatusConverged, res.Status)
	require.Greater(t, res.Ranks[1], res.Ranks[0])
	require.InDelta(t, 0.075, res.Ranks[0], 1e-9)
	require.InDelta(t, 0.925, res.Ranks[1], 1e-9)
	require.Equal(t, 2, res.Iterations)
}

func TestDanglingErrorAbortsRun(t *testing.T) {
	full := mustGraph(t, 2, edge{0, 1})

	_, err := pagerank.Compute(context.Background(), full, 3)
	require.ErrorIs(t, err, pagerank.ErrDanglingNode)
}

// TestWorkerCountInvariance: the decomposition must not change the answer.
func TestWorkerCountInvariance(t *testing.T) {
	full := randomGraph(t, 23, 42)
	opts := []pagerank.Option{pagerank.WithDamping(0.85), pagerank.WithTolerance(1e-12)}

	base, err := pagerank.Compute(context.Background(), full, 1, opts...)
	require.NoError(t, err)
	for _, w := range []int{2, 4, 7, 23, 30} {
		t.Run(fmt.Sprintf("w=%d", w), func(t *testing.T) {
			res, err := pagerank.Compute(context.Background(), full, w, opts...)
			require.NoError(t, err)
			require.Equal(t, pagerank.StatusConverged, res.Status)
			require.InDeltaSlice(t, base.Ranks, res.Ranks, 1e-9)
		})
	}
}

// TestMatchesSerialReference compares against a single-process gonum run.
func TestMatchesSerialReference(t *testing.T) {
	const d, tol = 0.85, 1e-12
	full := randomGraph(t, 17, 3)
	want := serialRanks(t, full, d, tol)

	res, err := pagerank.Compute(context.Background(), full, 4,
		pagerank.WithDamping(d), pagerank.WithTolerance(tol))
	require.NoError(t, err)
	require.InDeltaSlice(t, want, res.Ranks, 1e-9)
}

// TestRanksStayStochastic: every iteration's vector sums to ≈1.
func TestRanksStayStochastic(t *testing.T) {
	full := randomGraph(t, 12, 5)
	rec := &recorder{}

	res, err := pagerank.Compute(context.Background(), full, 5,
		pagerank.WithTolerance(1e-10), pagerank.WithReporter(rec))
	require.NoError(t, err)

	require.Equal(t, 12, rec.begun)
	require.Same(t, res, rec.finished)
	require.Equal(t, res.History, rec.states)
	require.Len(t, res.History, res.Iterations)
	for _, st := range res.History {
		require.InDelta(t, 1.0, st.Norm, 1e-9, "iteration %d", st.Iteration)
	}
	sum := 0.0
	for _, v := range res.Ranks {
		sum += v
	}
	require.InDelta(t, 1.0, sum, 1e-9)
}

// TestMoreWorkersThanRows: idle members take part in every collective.
func TestMoreWorkersThanRows(t *testing.T) {
	full := mustGraph(t, 3, edge{0, 1}, edge{1, 2}, edge{2, 0}, edge{0, 2})

	one, err := pagerank.Compute(context.Background(), full, 1)
	require.NoError(t, err)
	many, err := pagerank.Compute(context.Background(), full, 8)
	require.NoError(t, err)

	require.Equal(t, one.Iterations, many.Iterations)
	require.InDeltaSlice(t, one.Ranks, many.Ranks, 1e-12)
}

func TestMaxIterationsReached(t *testing.T) {
	full := randomGraph(t, 10, 9)

	res, err := pagerank.Compute(context.Background(), full, 3,
		pagerank.WithTolerance(0), pagerank.WithMaxIterations(4))
	require.NoError(t, err)

	require.Equal(t, pagerank.StatusMaxIterations, res.Status)
	require.Equal(t, "MAX ITERATION REACHED", res.Status.String())
	require.Equal(t, 4, res.Iterations)
	require.Len(t, res.Ranks, 10)
}

// TestFixedPoint: seeding the stationary vector yields ≈0 change and leaves
// the vector unchanged.
func TestFixedPoint(t *testing.T) {
	const n, w, d = 11, 3, 0.85
	full := randomGraph(t, n, 21)
	stationary := serialRanks(t, full, d, 1e-15)

	part, err := partition.Plan(n, w)
	require.NoError(t, err)
	g, err := collective.NewGroup(w)
	require.NoError(t, err)

	var after []float64
	var change float64
	err = g.Run(context.Background(), func(ctx context.Context, c collective.Comm) error {
		var src *matrix.Dense
		if c.Rank() == 0 {
			src = full
		}
		s, err := pagerank.Distribute(ctx, c, src, part, 0)
		if err != nil {
			return err
		}
		if err = pagerank.Normalize(ctx, c, s, part, d, pagerank.DanglingError); err != nil {
			return err
		}
		st := pagerank.IterationState{Continue: true}
		if c.Rank() != 0 {
			wk, err := pagerank.NewWorker(c, s, part, 0, 1e-3, 10)
			if err != nil {
				return err
			}
			_, err = wk.Step(ctx, st)
			return err
		}
		co, err := pagerank.NewCoordinator(c, s, part, 1e-3, 10)
		if err != nil {
			return err
		}
		if err = co.Seed(stationary); err != nil {
			return err
		}
		next, err := co.Step(ctx, st)
		if err != nil {
			return err
		}
		after, change = co.Assemble(), next.Change
		if next.Continue {
			return errors.New("fixed point should stop the loop")
		}
		return nil
	})
	require.NoError(t, err)
	require.InDelta(t, 0, change, 1e-12)
	require.InDeltaSlice(t, stationary, after, 1e-12)
}

func TestSourceErrorAbortsGroup(t *testing.T) {
	g, err := collective.NewGroup(4)
	require.NoError(t, err)

	boom := errors.New("unreadable graph")
	err = g.Run(context.Background(), func(ctx context.Context, c collective.Comm) error {
		_, err := pagerank.Run(ctx, c, func(context.Context) (*matrix.Dense, error) {
			return nil, boom
		})
		return err
	})
	require.ErrorIs(t, err, boom)
}

// TestRootSettingsWin: non-root members iterate under the root's settings.
func TestRootSettingsWin(t *testing.T) {
	full := randomGraph(t, 6, 1)
	g, err := collective.NewGroup(3)
	require.NoError(t, err)

	results := make([]*pagerank.Result, 3)
	err = g.Run(context.Background(), func(ctx context.Context, c collective.Comm) error {
		opts := []pagerank.Option{pagerank.WithRoot(1)}
		if c.Rank() == 1 {
			opts = append(opts, pagerank.WithMaxIterations(2), pagerank.WithTolerance(0))
		} else {
			opts = append(opts, pagerank.WithMaxIterations(500), pagerank.WithDamping(7))
		}
		res, err := pagerank.Run(ctx, c, func(context.Context) (*matrix.Dense, error) { return full, nil }, opts...)
		results[c.Rank()] = res
		return err
	})
	require.NoError(t, err)

	for rank, res := range results {
		require.Equal(t, 2, res.Iterations, "rank %d", rank)
		require.Equal(t, pagerank.StatusMaxIterations, res.Status, "rank %d", rank)
		require.Equal(t, results[1].Change, res.Change, "rank %d", rank)
	}
	require.Len(t, results[1].Ranks, 6)
	require.Nil(t, results[0].Ranks)
}

func TestInvalidOptionsRejected(t *testing.T) {
	full := randomGraph(t, 4, 2)

	_, err := pagerank.Compute(context.Background(), full, 2, pagerank.WithDamping(0))
	require.ErrorIs(t, err, pagerank.ErrInvalidDamping)

	_, err = pagerank.Compute(context.Background(), full, 2, pagerank.WithRoot(2))
	require.ErrorIs(t, err, pagerank.ErrInvalidRoot)

	_, err = pagerank.Compute(context.Background(), full, 0)
	require.ErrorIs(t, err, collective.ErrInvalidSize)
}
