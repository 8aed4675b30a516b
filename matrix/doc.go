// SPDX-License-Identifier: MIT

// Package matrix provides the dense storage used by the distributed PageRank
// pipeline.
//
// The matrix package provides:
//
//   - Dense: a row-major matrix backed by one flat slice, with a stride row
//     accessor instead of a row-pointer table.
//   - MatVecInto / ColSumsInto: allocation-free kernels writing into
//     caller-owned slices, the two products the pipeline needs per worker.
//   - Validators and sentinel errors shared by the kernels.
//
// A full N×N transition matrix and a worker's k×N row slice are the same
// type; a row slice with k == 0 is legal.
package matrix
