// SPDX-License-Identifier: MIT

// Package collective provides the message-passing substrate the PageRank
// pipeline runs on: a fixed group of members that share no memory and
// exchange data only through blocking collective operations.
//
// Contract (every implementation):
//   - Every member of the group issues the same collectives in the same
//     order. A member that skips one blocks the whole group.
//   - Buffers are copied on every transfer; no member ever observes another
//     member's memory.
//   - Collectives block until the local part of the exchange is complete and
//     return early only when ctx is done.
package collective

import (
	"context"
	"errors"
)

var (
	// ErrInvalidSize indicates a group size below 1.
	ErrInvalidSize = errors.New("collective: group size must be >= 1")

	// ErrInvalidRank indicates a rank (member or root) outside [0, size).
	ErrInvalidRank = errors.New("collective: rank out of range")

	// ErrInvalidCounts indicates counts/offsets that do not describe the
	// participating buffers.
	ErrInvalidCounts = errors.New("collective: invalid counts or offsets")

	// ErrMismatch indicates that peers issued different collectives, or the
	// same collective with disagreeing lengths.
	ErrMismatch = errors.New("collective: mismatched collective call")
)

// Comm is one member's handle on the group. A Comm is used by exactly one
// goroutine; it is not safe for concurrent use.
type Comm interface {
	// Size returns the number of members in the group.
	Size() int

	// Rank returns this member's zero-based identity.
	Rank() int

	// Bcast copies root's buf into buf on every other member.
	Bcast(ctx context.Context, buf []float64, root int) error

	// Scatterv sends send[offsets[i] : offsets[i]+counts[i]] from root to
	// member i, which receives it into recv (len(recv) == counts[i]).
	// send, counts and offsets are read only on root.
	Scatterv(ctx context.Context, send []float64, counts, offsets []int, recv []float64, root int) error

	// Gatherv is the inverse of Scatterv: member i's send lands in
	// recv[offsets[i] : offsets[i]+counts[i]] on root. recv, counts and
	// offsets are read only on root.
	Gatherv(ctx context.Context, send []float64, recv []float64, counts, offsets []int, root int) error

	// AllreduceSum replaces buf on every member with the element-wise sum of
	// all members' buf.
	AllreduceSum(ctx context.Context, buf []float64) error
}
