// SPDX-License-Identifier: MIT

// Package pagerank computes the stationary distribution of a random walk over
// a directed graph by power-iterating a dense transition matrix whose rows
// are partitioned across the members of a collective.Group.
//
// Pipeline (every member runs the same code; the root additionally loads,
// assembles and decides):
//
//	Source (root) ─► Bcast settings ─► partition.Plan (local, every member)
//	  ─► Distribute (Scatterv rows) ─► Normalize (AllreduceSum column sums)
//	  ─► loop { Bcast prev ─► local MatVec ─► Gatherv ─► Decide (root) ─► Bcast change }
//
// Matrix convention: entry (i, j) is the weight of the edge j → i, so column
// j holds node j's out-edges and normalization makes every column sum to 1.
//
// Dangling nodes (all-zero columns) are rejected with ErrDanglingNode unless
// a DanglingPolicy says otherwise.
//
// Compute wraps the whole pipeline for an in-process group:
//
//	res, err := pagerank.Compute(ctx, m, 4, pagerank.WithDamping(0.85))
package pagerank
