// SPDX-License-Identifier: MIT

package pagerank

import (
	"context"
	"fmt"

	"github.com/katalvlaran/distrank/collective"
	"github.com/katalvlaran/distrank/matrix"
	"github.com/katalvlaran/distrank/partition"
)

// Normalize turns every member's row slice into its part of the damped,
// column-stochastic transition matrix, in place. It runs once, before the
// first iteration, and every member must call it.
//
// Implementation:
//   - Stage 1: local column sums, then AllreduceSum so every member holds the
//     identical global sums.
//   - Stage 2: resolve zero columns according to policy. Every member sees the
//     same sums, so under DanglingError all members fail together and none is
//     left waiting in a collective.
//   - Stage 3: a[i,j] /= sums[j]; nonzero entries *= d; every entry += (1-d)/N.
//
// Summation order in Stage 1 depends on the group size, so results agree
// across group sizes only up to floating-point rounding.
func Normalize(ctx context.Context, c collective.Comm, slice *matrix.Dense, part partition.Partition, damping float64, policy DanglingPolicy) error {
	n := part.Size()
	if slice == nil || slice.Cols() != n || part.Workers() != c.Size() || slice.Rows() != part.Counts[c.Rank()] {
		return fmt.Errorf("Normalize: %w", ErrPartitionMismatch)
	}
	lo, _, err := part.Range(c.Rank())
	if err != nil {
		return fmt.Errorf("Normalize: %w", err)
	}

	// Stage 1: global column sums.
	sums := make([]float64, n)
	if err = matrix.ColSumsInto(sums, slice); err != nil {
		return fmt.Errorf("Normalize: %w", err)
	}
	if err = c.AllreduceSum(ctx, sums); err != nil {
		return fmt.Errorf("Normalize: %w", err)
	}

	// Stage 2: dangling columns.
	var uniform []bool
	for j, s := range sums {
		if s != 0 {
			continue
		}
		switch policy {
		case DanglingSelfLoop:
			if j >= lo && j < lo+slice.Rows() {
				if err = slice.Set(j-lo, j, 1); err != nil {
					return fmt.Errorf("Normalize: %w", err)
				}
			}
			sums[j] = 1
		case DanglingUniform:
			if uniform == nil {
				uniform = make([]bool, n)
			}
			uniform[j] = true
		default:
			return fmt.Errorf("Normalize: column %d: %w", j, ErrDanglingNode)
		}
	}

	// Stage 3: normalize and damp.
	fn := float64(n)
	teleport := (1 - damping) / fn
	err = slice.Apply(func(_, j int, v float64) float64 {
		if uniform != nil && uniform[j] {
			return damping/fn + teleport
		}
		v /= sums[j]
		if v != 0 {
			v *= damping
		}
		return v + teleport
	})
	if err != nil {
		return fmt.Errorf("Normalize: %w", err)
	}

	return nil
}
