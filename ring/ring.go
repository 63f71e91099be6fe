// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package ring provides fixed-capacity single-producer/single-consumer
// ring buffers with a latched end-of-stream flag and straight-run
// accounting.
//
// Each buffer is shared by exactly two goroutines: one exclusively
// advances the write sequence (and may latch EOS), the other
// exclusively advances the read sequence. There is no locking; the
// two sides synchronize purely through the published sequence
// counters, following the same counter algebra as a classic SPSC ring
// buffer (e.g. github.com/drgolem/ringbuffer), generalized here to
// carry an EOS flag and to expose the "straight run" (the contiguous
// unwrapped span) separately from total availability, since every
// consumer of this package operates directly on that span for
// zero-copy bulk transfer.
package ring

import "sync/atomic"

// counters is the shared sequence-counter core embedded by every
// concrete ring type in this package. capacity is fixed at
// construction; readSeq and writeSeq are monotonically non-decreasing
// and never wrap — physical storage positions are seq mod capacity.
type counters struct {
	capacity uint64
	readSeq  atomic.Uint64
	writeSeq atomic.Uint64
	eos      atomic.Bool
}

func (c *counters) init(capacity uint64) {
	c.capacity = capacity
}

// Capacity returns the fixed capacity of the ring.
func (c *counters) Capacity() uint64 { return c.capacity }

// AvailableToRead returns write_seq - read_seq.
func (c *counters) AvailableToRead() uint64 {
	return c.writeSeq.Load() - c.readSeq.Load()
}

// AvailableToWrite returns capacity - available_to_read.
func (c *counters) AvailableToWrite() uint64 {
	return c.capacity - c.AvailableToRead()
}

// AvailableToReadStraight returns the contiguous span available for a
// zero-copy read starting at the current read position.
func (c *counters) AvailableToReadStraight() uint64 {
	avail := c.AvailableToRead()
	straight := c.capacity - (c.readSeq.Load() % c.capacity)
	return min(avail, straight)
}

// AvailableToWriteStraight returns the contiguous span available for a
// zero-copy write starting at the current write position.
func (c *counters) AvailableToWriteStraight() uint64 {
	avail := c.AvailableToWrite()
	straight := c.capacity - (c.writeSeq.Load() % c.capacity)
	return min(avail, straight)
}

// SetEOS latches end-of-stream. Idempotent: later calls have no effect.
func (c *counters) SetEOS() { c.eos.Store(true) }

// EOS reports whether end-of-stream has been latched.
func (c *counters) EOS() bool { return c.eos.Load() }

// ReadSeq returns the current read sequence counter.
func (c *counters) ReadSeq() uint64 { return c.readSeq.Load() }

// WriteSeq returns the current write sequence counter.
func (c *counters) WriteSeq() uint64 { return c.writeSeq.Load() }

// advanceRead clamps delta to AvailableToRead and publishes the new
// read sequence, returning the amount actually advanced.
func (c *counters) advanceRead(delta uint64) uint64 {
	avail := c.AvailableToRead()
	if delta > avail {
		delta = avail
	}
	c.readSeq.Store(c.readSeq.Load() + delta)
	return delta
}

// advanceWrite clamps delta to AvailableToWrite and publishes the new
// write sequence, returning the amount actually advanced. A no-op
// (returns 0) once EOS is latched, per the ring's write-after-EOS rule.
func (c *counters) advanceWrite(delta uint64) uint64 {
	if c.eos.Load() {
		return 0
	}
	avail := c.AvailableToWrite()
	if delta > avail {
		delta = avail
	}
	c.writeSeq.Store(c.writeSeq.Load() + delta)
	return delta
}
