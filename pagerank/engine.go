// SPDX-License-Identifier: MIT

package pagerank

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/distrank/collective"
	"github.com/katalvlaran/distrank/matrix"
	"github.com/katalvlaran/distrank/partition"
)

// Stepper runs one power iteration. Worker and Coordinator both implement
// it; every member of the group must call Step the same number of times.
type Stepper interface {
	Step(ctx context.Context, st IterationState) (IterationState, error)
}

// Worker is a non-root member of the power iteration. Each Step:
//
//	AWAIT_BROADCAST  receive the previous rank vector from the root
//	COMPUTE          local = slice · previous  (no communication)
//	AWAIT_GATHER     send local to the root
//	CHECK            receive the root's change and apply the shared predicate
type Worker struct {
	comm    collective.Comm
	slice   *matrix.Dense
	part    partition.Partition
	root    int
	tol     float64
	maxIter int

	prev   []float64 // N, filled by broadcast
	local  []float64 // Counts[rank], this member's share of the next vector
	signal []float64 // 1, the broadcast change
}

var (
	_ Stepper = (*Worker)(nil)
	_ Stepper = (*Coordinator)(nil)
)

// NewWorker binds a normalized row slice to the group.
func NewWorker(c collective.Comm, slice *matrix.Dense, part partition.Partition, root int, tol float64, maxIter int) (*Worker, error) {
	if part.Workers() != c.Size() || slice == nil ||
		slice.Rows() != part.Counts[c.Rank()] || slice.Cols() != part.Size() {
		return nil, fmt.Errorf("NewWorker: %w", ErrPartitionMismatch)
	}

	return &Worker{
		comm:    c,
		slice:   slice,
		part:    part,
		root:    root,
		tol:     tol,
		maxIter: maxIter,
		prev:    make([]float64, part.Size()),
		local:   make([]float64, slice.Rows()),
		signal:  make([]float64, 1),
	}, nil
}

// Step runs one iteration on a non-root member.
func (w *Worker) Step(ctx context.Context, st IterationState) (IterationState, error) {
	if err := w.exchange(ctx, nil); err != nil {
		return st, err
	}
	if err := w.comm.Bcast(ctx, w.signal, w.root); err != nil {
		return st, fmt.Errorf("Step %d: change: %w", st.Iteration+1, err)
	}

	return advance(st, w.signal[0], 0, w.tol, w.maxIter), nil
}

// exchange performs AWAIT_BROADCAST, COMPUTE and AWAIT_GATHER. dst is the
// full-length gather target on the root and nil elsewhere.
func (w *Worker) exchange(ctx context.Context, dst []float64) error {
	if err := w.comm.Bcast(ctx, w.prev, w.root); err != nil {
		return fmt.Errorf("exchange: previous ranks: %w", err)
	}
	if err := matrix.MatVecInto(w.local, w.slice, w.prev); err != nil {
		return fmt.Errorf("exchange: %w", err)
	}
	if err := w.comm.Gatherv(ctx, w.local, dst, w.part.Counts, w.part.Offsets, w.root); err != nil {
		return fmt.Errorf("exchange: gather: %w", err)
	}

	return nil
}

// Coordinator is the root member. It runs the same exchange as a Worker and
// additionally owns the assembled rank vector and the continue/stop decision.
type Coordinator struct {
	Worker
	cur []float64 // N, assembled current rank vector
}

// NewCoordinator binds the root's row slice and seeds the uniform 1/N vector.
func NewCoordinator(c collective.Comm, slice *matrix.Dense, part partition.Partition, tol float64, maxIter int) (*Coordinator, error) {
	w, err := NewWorker(c, slice, part, c.Rank(), tol, maxIter)
	if err != nil {
		return nil, err
	}
	n := part.Size()
	cur := make([]float64, n)
	for i := range cur {
		cur[i] = 1 / float64(n)
	}

	return &Coordinator{Worker: *w, cur: cur}, nil
}

// Step runs one iteration on the root: snapshot current into previous,
// exchange, decide, then broadcast the change so every member stops together.
func (c *Coordinator) Step(ctx context.Context, st IterationState) (IterationState, error) {
	copy(c.prev, c.cur)
	if err := c.exchange(ctx, c.cur); err != nil {
		return st, err
	}
	next := c.Decide(st)
	c.signal[0] = next.Change
	if err := c.comm.Bcast(ctx, c.signal, c.root); err != nil {
		return st, fmt.Errorf("Step %d: change: %w", next.Iteration, err)
	}

	return next, nil
}

// Assemble returns a copy of the current rank vector.
func (c *Coordinator) Assemble() []float64 {
	out := make([]float64, len(c.cur))
	copy(out, c.cur)

	return out
}

// Decide computes the L1 change between the previous and current vectors
// and the current vector's sum, and returns the advanced state.
func (c *Coordinator) Decide(st IterationState) IterationState {
	change := floats.Distance(c.cur, c.prev, 1)
	norm := floats.Sum(c.cur)

	return advance(st, change, norm, c.tol, c.maxIter)
}

// Seed replaces the current rank vector, e.g. to resume from a known
// distribution. len(ranks) must equal N.
func (c *Coordinator) Seed(ranks []float64) error {
	if err := matrix.ValidateVecLen(ranks, len(c.cur)); err != nil {
		return fmt.Errorf("Seed: %w", err)
	}
	copy(c.cur, ranks)

	return nil
}
