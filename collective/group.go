// SPDX-License-Identifier: MIT

package collective

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// opKind tags a message with the collective that produced it so receivers
// can detect peers that diverged.
type opKind uint8

const (
	opBcast opKind = iota + 1
	opScatterv
	opGatherv
	opAllreduce
)

func (k opKind) String() string {
	switch k {
	case opBcast:
		return "Bcast"
	case opScatterv:
		return "Scatterv"
	case opGatherv:
		return "Gatherv"
	case opAllreduce:
		return "AllreduceSum"
	default:
		return fmt.Sprintf("op(%d)", uint8(k))
	}
}

// linkBuffer is the per-link channel capacity. One slot lets a root fan out
// a broadcast without waiting on each receiver in turn.
const linkBuffer = 1

// message is the only thing that crosses a member boundary.
type message struct {
	op   opKind
	seq  uint64 // collective sequence number at the sender
	src  int
	data []float64 // always a private copy
}

// Group is an in-process group of members connected by one FIFO channel per
// ordered (src, dst) pair. Members run as goroutines; nothing but copied
// messages passes between them.
type Group struct {
	size  int
	links [][]chan message // links[dst][src]

	mu sync.Mutex // one Run at a time
}

// NewGroup builds a fully connected group of size members.
// Complexity: O(size²) channels.
func NewGroup(size int) (*Group, error) {
	if size < 1 {
		return nil, fmt.Errorf("NewGroup(%d): %w", size, ErrInvalidSize)
	}
	links := make([][]chan message, size)
	for dst := range links {
		links[dst] = make([]chan message, size)
		for src := range links[dst] {
			if src != dst {
				links[dst][src] = make(chan message, linkBuffer)
			}
		}
	}

	return &Group{size: size, links: links}, nil
}

// Size returns the number of members.
func (g *Group) Size() int { return g.size }

// Member returns the handle for rank. Each rank's handle must be driven by
// exactly one goroutine.
func (g *Group) Member(rank int) (*Member, error) {
	if rank < 0 || rank >= g.size {
		return nil, fmt.Errorf("Member(%d): %w", rank, ErrInvalidRank)
	}

	return &Member{g: g, rank: rank}, nil
}

// Run starts one goroutine per member and calls fn on each with its Comm.
// The first member to fail cancels the shared context, which releases every
// peer blocked in a collective; Run returns that first error.
//
// Runs on the same Group are serialized. Messages left in the links by an
// aborted run are discarded before the new members start, so a reused
// Group never delivers them to a fresh sequence of collectives.
func (g *Group) Run(ctx context.Context, fn func(ctx context.Context, c Comm) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.drain()

	eg, gctx := errgroup.WithContext(ctx)
	for rank := 0; rank < g.size; rank++ {
		m, err := g.Member(rank)
		if err != nil {
			return err
		}
		eg.Go(func() error { return fn(gctx, m) })
	}

	return eg.Wait()
}

// drain empties every link without blocking.
func (g *Group) drain() {
	for dst := range g.links {
		for _, link := range g.links[dst] {
			if link == nil {
				continue
			}
			for len(link) > 0 {
				<-link
			}
		}
	}
}

// Stats counts the traffic a member originated.
type Stats struct {
	Messages int64 // messages sent
	Elements int64 // float64 values sent
}

// Member is one rank's endpoint in a Group. It implements Comm.
type Member struct {
	g    *Group
	rank int
	seq  uint64 // collectives issued so far; agrees across members

	messages atomic.Int64
	elements atomic.Int64
}

var _ Comm = (*Member)(nil)

// Size returns the group size.
func (m *Member) Size() int { return m.g.size }

// Rank returns this member's rank.
func (m *Member) Rank() int { return m.rank }

// Stats returns the traffic this member has sent so far.
func (m *Member) Stats() Stats {
	return Stats{Messages: m.messages.Load(), Elements: m.elements.Load()}
}

// begin advances the sequence number for a new collective and validates root.
func (m *Member) begin(op opKind, root int) (uint64, error) {
	if root < 0 || root >= m.g.size {
		return 0, fmt.Errorf("%s(root=%d): %w", op, root, ErrInvalidRank)
	}
	m.seq++

	return m.seq, nil
}

// send copies data and delivers it to dst.
func (m *Member) send(ctx context.Context, dst int, op opKind, seq uint64, data []float64) error {
	cp := make([]float64, len(data))
	copy(cp, data)
	select {
	case m.g.links[dst][m.rank] <- message{op: op, seq: seq, src: m.rank, data: cp}:
		m.messages.Add(1)
		m.elements.Add(int64(len(cp)))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: send %d→%d: %w", op, m.rank, dst, ctx.Err())
	}
}

// recv takes the next message from src and checks that it belongs to the
// same collective and carries exactly want elements.
func (m *Member) recv(ctx context.Context, src int, op opKind, seq uint64, want int) ([]float64, error) {
	select {
	case msg := <-m.g.links[m.rank][src]:
		if msg.op != op || msg.seq != seq {
			return nil, fmt.Errorf("%s#%d on rank %d: got %s#%d from rank %d: %w",
				op, seq, m.rank, msg.op, msg.seq, src, ErrMismatch)
		}
		if len(msg.data) != want {
			return nil, fmt.Errorf("%s#%d on rank %d: got %d elements from rank %d, want %d: %w",
				op, seq, m.rank, len(msg.data), src, want, ErrMismatch)
		}
		return msg.data, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: recv %d←%d: %w", op, m.rank, src, ctx.Err())
	}
}
