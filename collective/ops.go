// SPDX-License-Identifier: MIT

package collective

import (
	"context"
	"fmt"
)

// Bcast copies root's buf into buf on every member.
// Root sends one message per peer; every peer receives exactly one.
func (m *Member) Bcast(ctx context.Context, buf []float64, root int) error {
	seq, err := m.begin(opBcast, root)
	if err != nil {
		return err
	}
	if m.rank == root {
		for dst := 0; dst < m.g.size; dst++ {
			if dst == root {
				continue
			}
			if err = m.send(ctx, dst, opBcast, seq, buf); err != nil {
				return err
			}
		}
		return nil
	}
	data, err := m.recv(ctx, root, opBcast, seq, len(buf))
	if err != nil {
		return err
	}
	copy(buf, data)

	return nil
}

// Scatterv hands member i its block send[offsets[i]:offsets[i]+counts[i]].
func (m *Member) Scatterv(ctx context.Context, send []float64, counts, offsets []int, recv []float64, root int) error {
	seq, err := m.begin(opScatterv, root)
	if err != nil {
		return err
	}
	if m.rank != root {
		data, err := m.recv(ctx, root, opScatterv, seq, len(recv))
		if err != nil {
			return err
		}
		copy(recv, data)
		return nil
	}

	if err = validateLayout(opScatterv, m.g.size, len(send), counts, offsets); err != nil {
		return err
	}
	if len(recv) != counts[root] {
		return fmt.Errorf("%s: root recv has %d elements, counts[%d]=%d: %w",
			opScatterv, len(recv), root, counts[root], ErrInvalidCounts)
	}
	for dst := 0; dst < m.g.size; dst++ {
		block := send[offsets[dst] : offsets[dst]+counts[dst]]
		if dst == root {
			copy(recv, block)
			continue
		}
		if err = m.send(ctx, dst, opScatterv, seq, block); err != nil {
			return err
		}
	}

	return nil
}

// Gatherv collects every member's send into recv on root, in rank order.
func (m *Member) Gatherv(ctx context.Context, send []float64, recv []float64, counts, offsets []int, root int) error {
	seq, err := m.begin(opGatherv, root)
	if err != nil {
		return err
	}
	if m.rank != root {
		return m.send(ctx, root, opGatherv, seq, send)
	}

	if err = validateLayout(opGatherv, m.g.size, len(recv), counts, offsets); err != nil {
		return err
	}
	if len(send) != counts[root] {
		return fmt.Errorf("%s: root send has %d elements, counts[%d]=%d: %w",
			opGatherv, len(send), root, counts[root], ErrInvalidCounts)
	}
	for src := 0; src < m.g.size; src++ {
		block := recv[offsets[src] : offsets[src]+counts[src]]
		if src == root {
			copy(block, send)
			continue
		}
		data, err := m.recv(ctx, src, opGatherv, seq, counts[src])
		if err != nil {
			return err
		}
		copy(block, data)
	}

	return nil
}

// AllreduceSum sums buf element-wise across the group and leaves the result
// in buf on every member. Implemented as reduce-to-rank-0 followed by a
// broadcast back out, both under one sequence number.
//
// Summation order is fixed (rank 0, 1, ..., size-1) for a given group size,
// but differs between group sizes.
func (m *Member) AllreduceSum(ctx context.Context, buf []float64) error {
	const hub = 0
	seq, err := m.begin(opAllreduce, hub)
	if err != nil {
		return err
	}
	if m.rank != hub {
		if err = m.send(ctx, hub, opAllreduce, seq, buf); err != nil {
			return err
		}
		data, err := m.recv(ctx, hub, opAllreduce, seq, len(buf))
		if err != nil {
			return err
		}
		copy(buf, data)
		return nil
	}

	for src := 1; src < m.g.size; src++ {
		data, err := m.recv(ctx, src, opAllreduce, seq, len(buf))
		if err != nil {
			return err
		}
		for i, v := range data {
			buf[i] += v
		}
	}
	for dst := 1; dst < m.g.size; dst++ {
		if err = m.send(ctx, dst, opAllreduce, seq, buf); err != nil {
			return err
		}
	}

	return nil
}

// validateLayout checks that counts/offsets have one entry per member and
// every block lies within a buffer of length total.
func validateLayout(op opKind, size, total int, counts, offsets []int) error {
	if len(counts) != size || len(offsets) != size {
		return fmt.Errorf("%s: %d counts, %d offsets for %d members: %w",
			op, len(counts), len(offsets), size, ErrInvalidCounts)
	}
	for i := 0; i < size; i++ {
		if counts[i] < 0 || offsets[i] < 0 || offsets[i]+counts[i] > total {
			return fmt.Errorf("%s: block %d [%d:+%d] outside buffer of %d: %w",
				op, i, offsets[i], counts[i], total, ErrInvalidCounts)
		}
	}

	return nil
}
