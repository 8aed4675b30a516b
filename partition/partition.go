// SPDX-License-Identifier: MIT

// Package partition splits the rows of an N×N matrix across W workers.
//
// Purpose:
//   - Give every worker n/w rows and one extra row to each of the first
//     n%w workers, so counts differ by at most one and the surplus sits on
//     low ranks.
//   - Be a pure function of (n, w): every worker recomputes the same
//     Partition locally, so it never has to be exchanged.
//
// Complexity: Plan is O(w) time and space.
package partition

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize indicates a matrix dimension below 1.
	ErrInvalidSize = errors.New("partition: size must be >= 1")

	// ErrInvalidWorkers indicates a worker count below 1.
	ErrInvalidWorkers = errors.New("partition: workers must be >= 1")

	// ErrRankOutOfRange indicates a rank outside [0, workers).
	ErrRankOutOfRange = errors.New("partition: rank out of range")
)

// Partition is the row assignment for one (n, w) pair.
//   - Counts[i] rows belong to worker i.
//   - Offsets[i] is the first global row of worker i.
//
// Invariants: Σ Counts == n; Offsets[0] == 0; Offsets[i] == Offsets[i-1] + Counts[i-1].
type Partition struct {
	Counts  []int
	Offsets []int
	n       int
}

// Plan computes the Partition of n rows over w workers.
// w > n is legal: workers past the first n receive zero rows.
func Plan(n, w int) (Partition, error) {
	if n < 1 {
		return Partition{}, fmt.Errorf("Plan(%d,%d): %w", n, w, ErrInvalidSize)
	}
	if w < 1 {
		return Partition{}, fmt.Errorf("Plan(%d,%d): %w", n, w, ErrInvalidWorkers)
	}

	base, surplus := n/w, n%w
	p := Partition{
		Counts:  make([]int, w),
		Offsets: make([]int, w),
		n:       n,
	}
	for i := 0; i < w; i++ {
		p.Counts[i] = base
		if i < surplus {
			p.Counts[i]++
		}
		if i > 0 {
			p.Offsets[i] = p.Offsets[i-1] + p.Counts[i-1]
		}
	}

	return p, nil
}

// Size returns n, the number of rows partitioned.
func (p Partition) Size() int { return p.n }

// Workers returns w, the number of workers.
func (p Partition) Workers() int { return len(p.Counts) }

// Range returns the half-open global row interval [lo, hi) owned by rank.
func (p Partition) Range(rank int) (lo, hi int, err error) {
	if rank < 0 || rank >= len(p.Counts) {
		return 0, 0, fmt.Errorf("Range(%d): %w", rank, ErrRankOutOfRange)
	}

	return p.Offsets[rank], p.Offsets[rank] + p.Counts[rank], nil
}

// Owner returns the rank that owns global row.
// Zero-count ranks never own a row.
func (p Partition) Owner(row int) (int, error) {
	if row < 0 || row >= p.n {
		return 0, fmt.Errorf("Owner(%d): %w", row, ErrRankOutOfRange)
	}
	// Ranks below surplus hold base+1 rows; the rest hold base.
	w := len(p.Counts)
	base, surplus := p.n/w, p.n%w
	big := surplus * (base + 1)
	if row < big {
		return row / (base + 1), nil
	}

	return surplus + (row-big)/base, nil
}

// Scaled returns element counts and offsets for rows of width k, i.e. the
// arguments a variable-length scatter of whole rows needs.
func (p Partition) Scaled(k int) (counts, offsets []int) {
	counts = make([]int, len(p.Counts))
	offsets = make([]int, len(p.Offsets))
	for i := range p.Counts {
		counts[i] = p.Counts[i] * k
		offsets[i] = p.Offsets[i] * k
	}

	return counts, offsets
}
