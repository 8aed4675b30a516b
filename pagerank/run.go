// SPDX-License-Identifier: MIT

package pagerank

import (
	"context"
	"fmt"

	"github.com/katalvlaran/distrank/collective"
	"github.com/katalvlaran/distrank/matrix"
	"github.com/katalvlaran/distrank/partition"
)

// Source produces the full transition matrix. Run calls it on the root only.
// Entry (i, j) is the weight of the edge from node j to node i.
type Source func(ctx context.Context) (*matrix.Dense, error)

// header layout broadcast from the root before planning.
const (
	hdrN = iota
	hdrDamping
	hdrTol
	hdrMaxIter
	hdrDangling
	hdrLen
)

// Run drives one member through the whole pipeline:
// load (root) → broadcast settings → Plan → Distribute → Normalize → iterate.
//
// Every member of the group calls Run with the same root. The root's
// damping, tolerance, iteration cap and dangling policy are broadcast and
// used everywhere. A root that fails before the first collective (bad input,
// invalid options) returns its error; peers are released through ctx, which
// collective.Group.Run cancels on the first failure.
func Run(ctx context.Context, c collective.Comm, src Source, opts ...Option) (*Result, error) {
	o := NewOptions(opts...)
	isRoot := c.Rank() == o.root

	hdr := make([]float64, hdrLen)
	var full *matrix.Dense
	if isRoot {
		if err := o.Validate(c.Size()); err != nil {
			return nil, fmt.Errorf("Run: %w", err)
		}
		var err error
		if full, err = src(ctx); err != nil {
			return nil, fmt.Errorf("Run: load: %w", err)
		}
		if full == nil {
			return nil, fmt.Errorf("Run: %w", ErrNoMatrix)
		}
		hdr[hdrN] = float64(full.Rows())
		hdr[hdrDamping] = o.damping
		hdr[hdrTol] = o.tol
		hdr[hdrMaxIter] = float64(o.maxIter)
		hdr[hdrDangling] = float64(o.dangling)
	} else if o.root < 0 || o.root >= c.Size() {
		return nil, fmt.Errorf("Run: root %d of %d: %w", o.root, c.Size(), ErrInvalidRoot)
	}

	if err := c.Bcast(ctx, hdr, o.root); err != nil {
		return nil, fmt.Errorf("Run: settings: %w", err)
	}
	n := int(hdr[hdrN])
	damping, tol := hdr[hdrDamping], hdr[hdrTol]
	maxIter, policy := int(hdr[hdrMaxIter]), DanglingPolicy(hdr[hdrDangling])

	part, err := partition.Plan(n, c.Size())
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	slice, err := Distribute(ctx, c, full, part, o.root)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	if err = Normalize(ctx, c, slice, part, damping, policy); err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}

	if !isRoot {
		w, err := NewWorker(c, slice, part, o.root, tol, maxIter)
		if err != nil {
			return nil, fmt.Errorf("Run: %w", err)
		}
		st, err := iterate(ctx, w, nil)
		if err != nil {
			return nil, fmt.Errorf("Run: %w", err)
		}
		return &Result{Status: status(st, tol), Iterations: st.Iteration, Change: st.Change}, nil
	}

	coord, err := NewCoordinator(c, slice, part, tol, maxIter)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	o.reporter.Begin(n)
	var history []IterationState
	st, err := iterate(ctx, coord, func(st IterationState) {
		history = append(history, st)
		o.reporter.Iteration(st)
	})
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	res := &Result{
		Ranks:      coord.Assemble(),
		Status:     status(st, tol),
		Iterations: st.Iteration,
		Change:     st.Change,
		Norm:       st.Norm,
		History:    history,
	}
	o.reporter.Finish(res)

	return res, nil
}

// iterate steps s from the initial state until the shared predicate says stop.
func iterate(ctx context.Context, s Stepper, observe func(IterationState)) (IterationState, error) {
	st := initialState()
	var err error
	for st.Continue {
		if st, err = s.Step(ctx, st); err != nil {
			return st, err
		}
		if observe != nil {
			observe(st)
		}
	}

	return st, nil
}

// Compute runs the full pipeline on an in-process group of the given size
// and returns the root's result. m is read by the root member only.
func Compute(ctx context.Context, m *matrix.Dense, workers int, opts ...Option) (*Result, error) {
	g, err := collective.NewGroup(workers)
	if err != nil {
		return nil, fmt.Errorf("Compute: %w", err)
	}
	root := NewOptions(opts...).root
	src := func(context.Context) (*matrix.Dense, error) { return m, nil }

	var res *Result
	err = g.Run(ctx, func(ctx context.Context, c collective.Comm) error {
		r, err := Run(ctx, c, src, opts...)
		if err != nil {
			return err
		}
		if c.Rank() == root {
			res = r
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Compute: %w", err)
	}

	return res, nil
}
