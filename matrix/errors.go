// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All functions in this package return these sentinels (possibly wrapped with
// call-site context) and tests match them via errors.Is. Nothing here panics
// on user-triggered conditions.

package matrix

import "errors"

// Every message is prefixed with "matrix: " so it greps cleanly in logs.
var (
	// ErrInvalidDimensions indicates a negative row or column count, or a
	// backing buffer whose length disagrees with rows*cols.
	ErrInvalidDimensions = errors.New("matrix: invalid dimensions")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible operand shapes,
	// e.g. a vector whose length differs from the matrix column count.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNilMatrix indicates that a nil *Dense or nil vector was passed.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")
)
