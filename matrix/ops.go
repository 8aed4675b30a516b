// SPDX-License-Identifier: MIT
// Package matrix - allocation-free kernels over *Dense.
//
// Determinism & Policy:
//   - Fixed i→j loop order; no map iteration, no goroutines.
//   - Kernels write into caller-owned destination slices so hot loops can
//     reuse buffers across iterations.

package matrix

import "fmt"

// ZeroSum is the initial accumulator value for dot products and sums.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping.
const (
	opMatVecInto  = "MatVecInto"
	opColSumsInto = "ColSumsInto"
)

// matrixErrorf wraps an underlying error with the given tag.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// MatVecInto computes dst = m·x.
//
// Implementation:
//   - Stage 1: validate m non-nil, len(x)==Cols, len(dst)==Rows.
//   - Stage 2: one dot product per row over the flat buffer.
//
// A 0×c matrix yields an empty dst and is not an error.
// Complexity: O(r*c) time, O(1) extra space.
func MatVecInto(dst []float64, m *Dense, x []float64) error {
	if err := ValidateNotNil(m); err != nil {
		return matrixErrorf(opMatVecInto, err)
	}
	if err := ValidateVecLen(x, m.c); err != nil {
		return matrixErrorf(opMatVecInto, err)
	}
	if len(dst) != m.r {
		return matrixErrorf(opMatVecInto, ErrDimensionMismatch)
	}

	var i, j, base int
	var acc float64
	for i = 0; i < m.r; i++ {
		acc = ZeroSum
		base = i * m.c
		for j = 0; j < m.c; j++ {
			acc += m.data[base+j] * x[j]
		}
		dst[i] = acc
	}

	return nil
}

// ColSumsInto overwrites dst with the column sums of m: dst[j] = Σ_i m[i,j].
// For a 0×c matrix dst is zeroed.
// Complexity: O(r*c).
func ColSumsInto(dst []float64, m *Dense) error {
	if err := ValidateNotNil(m); err != nil {
		return matrixErrorf(opColSumsInto, err)
	}
	if len(dst) != m.c {
		return matrixErrorf(opColSumsInto, ErrDimensionMismatch)
	}

	var i, j, base int
	for j = range dst {
		dst[j] = ZeroSum
	}
	for i = 0; i < m.r; i++ {
		base = i * m.c
		for j = 0; j < m.c; j++ {
			dst[j] += m.data[base+j]
		}
	}

	return nil
}
