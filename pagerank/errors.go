// SPDX-License-Identifier: MIT
// Package pagerank: sentinel error set.
// Every message is prefixed with "pagerank: "; call sites wrap with
// fmt.Errorf("Op: %w", ErrX) and callers match with errors.Is.

package pagerank

import "errors"

var (
	// ErrDanglingNode is returned by Normalize under DanglingError when a
	// column sums to zero, i.e. the node has no outgoing edges.
	ErrDanglingNode = errors.New("pagerank: dangling node (zero column)")

	// ErrInvalidDamping indicates a damping factor outside (0, 1].
	ErrInvalidDamping = errors.New("pagerank: damping must be in (0, 1]")

	// ErrInvalidTolerance indicates a tolerance that is negative or not finite.
	ErrInvalidTolerance = errors.New("pagerank: tolerance must be finite and >= 0")

	// ErrInvalidMaxIterations indicates an iteration cap below 1.
	ErrInvalidMaxIterations = errors.New("pagerank: max iterations must be >= 1")

	// ErrInvalidRoot indicates a root rank outside the group.
	ErrInvalidRoot = errors.New("pagerank: root rank out of range")

	// ErrUnknownPolicy indicates an unrecognised dangling-node policy name.
	ErrUnknownPolicy = errors.New("pagerank: unknown dangling policy")

	// ErrNegativeWeight indicates a transition matrix entry below zero.
	ErrNegativeWeight = errors.New("pagerank: negative edge weight")

	// ErrPartitionMismatch indicates a Partition built for a different
	// group size or matrix dimension than the one it is used with.
	ErrPartitionMismatch = errors.New("pagerank: partition does not match group or matrix")

	// ErrNoMatrix indicates that the root's Source returned no matrix.
	ErrNoMatrix = errors.New("pagerank: source returned nil matrix")
)
