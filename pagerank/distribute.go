// SPDX-License-Identifier: MIT

package pagerank

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/distrank/collective"
	"github.com/katalvlaran/distrank/matrix"
	"github.com/katalvlaran/distrank/partition"
)

// Distribute scatters the rows of full (read on root only) so that each
// member ends up with its own Counts[rank]×N row slice, rows in global order.
// Non-root members may pass a nil full matrix.
//
// Implementation:
//   - Stage 1: check that part matches the group and allocate the local slice.
//   - Stage 2 (root): check full is N×N with non-negative finite entries.
//   - Stage 3: one Scatterv of Counts[i]*N contiguous elements per member.
//
// Complexity: O(N²) on root, O(Counts[rank]*N) elsewhere.
func Distribute(ctx context.Context, c collective.Comm, full *matrix.Dense, part partition.Partition, root int) (*matrix.Dense, error) {
	if part.Workers() != c.Size() {
		return nil, fmt.Errorf("Distribute: %d workers in partition, group of %d: %w",
			part.Workers(), c.Size(), ErrPartitionMismatch)
	}
	n := part.Size()
	slice, err := matrix.NewDense(part.Counts[c.Rank()], n)
	if err != nil {
		return nil, fmt.Errorf("Distribute: %w", err)
	}

	var src []float64
	if c.Rank() == root {
		if err = checkTransition(full, n); err != nil {
			return nil, fmt.Errorf("Distribute: %w", err)
		}
		src = full.RawData()
	}

	counts, offsets := part.Scaled(n)
	if err = c.Scatterv(ctx, src, counts, offsets, slice.RawData(), root); err != nil {
		return nil, fmt.Errorf("Distribute: %w", err)
	}

	return slice, nil
}

// checkTransition validates the root's full matrix before it leaves the root.
func checkTransition(full *matrix.Dense, n int) error {
	if full == nil {
		return ErrNoMatrix
	}
	if err := matrix.ValidateSquare(full); err != nil {
		return err
	}
	if full.Rows() != n {
		return fmt.Errorf("matrix is %d×%d, partition for %d: %w", full.Rows(), full.Cols(), n, ErrPartitionMismatch)
	}
	for idx, v := range full.RawData() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("entry (%d,%d): %w", idx/n, idx%n, matrix.ErrNaNInf)
		}
		if v < 0 {
			return fmt.Errorf("entry (%d,%d)=%v: %w", idx/n, idx%n, v, ErrNegativeWeight)
		}
	}

	return nil
}
