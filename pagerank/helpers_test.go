// SPDX-License-Identifier: MIT
// Package pagerank_test contains test helpers
//
// Purpose:
//   - Build small deterministic transition matrices from edge lists.
//   - Provide a serial gonum reference to check the distributed result against.

package pagerank_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/distrank/collective"
	"github.com/katalvlaran/distrank/matrix"
	"github.com/katalvlaran/distrank/pagerank"
	"github.com/katalvlaran/distrank/partition"
)

// edge is a directed edge from → to.
type edge struct{ from, to int }

// mustGraph builds the N×N matrix with entry (to, from) = 1 for every edge.
func mustGraph(t testing.TB, n int, edges ...edge) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(n, n)
	require.NoError(t, err)
	for _, e := range edges {
		require.NoError(t, m.Set(e.to, e.from, 1))
	}

	return m
}

// randomGraph builds a reproducible graph where every node has at least one
// out-edge, so no dangling policy is needed.
func randomGraph(t testing.TB, n int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	var edges []edge
	for from := 0; from < n; from++ {
		edges = append(edges, edge{from, rng.Intn(n)})
		for to := 0; to < n; to++ {
			if rng.Float64() < 0.3 {
				edges = append(edges, edge{from, to})
			}
		}
	}

	return mustGraph(t, n, edges...)
}

// serialRanks is the single-process reference: column-normalize, damp,
// then power-iterate with gonum until the L1 change is at most tol.
func serialRanks(t testing.TB, m *matrix.Dense, d, tol float64) []float64 {
	t.Helper()
	n := m.Rows()
	g := mat.NewDense(n, n, append([]float64(nil), m.RawData()...))
	for j := 0; j < n; j++ {
		col := mat.Sum(g.ColView(j))
		require.NotZero(t, col, "reference needs no dangling columns")
		for i := 0; i < n; i++ {
			v := g.At(i, j) / col
			if v != 0 {
				v *= d
			}
			g.Set(i, j, v+(1-d)/float64(n))
		}
	}

	cur := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		cur.SetVec(i, 1/float64(n))
	}
	next := mat.NewVecDense(n, nil)
	for iter := 0; iter < 100000; iter++ {
		next.MulVec(g, cur)
		change := 0.0
		for i := 0; i < n; i++ {
			change += math.Abs(next.AtVec(i) - cur.AtVec(i))
		}
		cur.CopyVec(next)
		if change <= tol {
			break
		}
	}

	return mat.Col(nil, 0, cur)
}

// normalizedRows runs Distribute+Normalize on a group of w members and
// reassembles the normalized matrix row by row.
func normalizedRows(t testing.TB, full *matrix.Dense, w int, d float64, policy pagerank.DanglingPolicy) [][]float64 {
	t.Helper()
	n := full.Rows()
	part, err := partition.Plan(n, w)
	require.NoError(t, err)
	g, err := collective.NewGroup(w)
	require.NoError(t, err)

	slices := make([]*matrix.Dense, w)
	err = g.Run(context.Background(), func(ctx context.Context, c collective.Comm) error {
		var src *matrix.Dense
		if c.Rank() == 0 {
			src = full
		}
		s, err := pagerank.Distribute(ctx, c, src, part, 0)
		if err != nil {
			return err
		}
		if err = pagerank.Normalize(ctx, c, s, part, d, policy); err != nil {
			return err
		}
		slices[c.Rank()] = s
		return nil
	})
	require.NoError(t, err)

	rows := make([][]float64, 0, n)
	for rank, s := range slices {
		require.Equal(t, part.Counts[rank], s.Rows())
		for i := 0; i < s.Rows(); i++ {
			r, err := s.Row(i)
			require.NoError(t, err)
			rows = append(rows, r)
		}
	}
	require.Len(t, rows, n)

	return rows
}

// recorder is a Reporter that keeps every callback.
type recorder struct {
	begun    int
	states   []pagerank.IterationState
	finished *pagerank.Result
}

func (r *recorder) Begin(n int)                          { r.begun = n }
func (r *recorder) Iteration(st pagerank.IterationState) { r.states = append(r.states, st) }
func (r *recorder) Finish(res *pagerank.Result)          { r.finished = res }
