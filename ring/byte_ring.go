// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ring

// ByteSentinel is returned by Peek/Read on a ByteRing when no element
// is available at the requested position.
const ByteSentinel = -1

// ByteRing is a fixed-capacity SPSC ring buffer of bytes.
type ByteRing struct {
	counters
	storage []byte
}

// NewByteRing constructs an empty ByteRing with the given capacity.
// Panics if capacity is zero, matching the teacher's posture of
// treating a degenerate construction as a programmer error rather
// than a runtime condition to check on every hot-path call.
func NewByteRing(capacity uint64) *ByteRing {
	if capacity == 0 {
		panic("ring: capacity must be positive")
	}
	r := &ByteRing{storage: make([]byte, capacity)}
	r.init(capacity)
	return r
}

// Peek returns the byte delta positions ahead of the read cursor
// without advancing it. Returns ByteSentinel, false if delta is at or
// beyond AvailableToRead.
func (r *ByteRing) Peek(delta uint64) (int, bool) {
	if delta >= r.AvailableToRead() {
		return ByteSentinel, false
	}
	pos := (r.ReadSeq() + delta) % r.capacity
	return int(r.storage[pos]), true
}

// Read returns and consumes the next byte, equivalent to Peek(0)
// followed by AdvanceRead(1).
func (r *ByteRing) Read() (int, bool) {
	v, ok := r.Peek(0)
	if !ok {
		return ByteSentinel, false
	}
	r.advanceRead(1)
	return v, true
}

// Write stores b at the write cursor and advances it by one. Returns
// false without effect if the ring is full or EOS has been latched.
func (r *ByteRing) Write(b byte) bool {
	if r.AvailableToWrite() == 0 {
		return false
	}
	pos := r.WriteSeq() % r.capacity
	r.storage[pos] = b
	return r.advanceWrite(1) == 1
}

// AdvanceRead advances the read cursor by delta, clamped to
// AvailableToRead, and returns the amount actually advanced.
func (r *ByteRing) AdvanceRead(delta uint64) uint64 { return r.advanceRead(delta) }

// AdvanceWrite advances the write cursor by delta, clamped to
// AvailableToWrite, and returns the amount actually advanced. A no-op
// once EOS is latched.
func (r *ByteRing) AdvanceWrite(delta uint64) uint64 { return r.advanceWrite(delta) }

// ReadSlice returns a zero-copy view of the contiguous (unwrapped)
// span of bytes available to read, starting at the read cursor.
// Callers that consume from this slice must follow up with
// AdvanceRead.
func (r *ByteRing) ReadSlice() []byte {
	n := r.AvailableToReadStraight()
	if n == 0 {
		return nil
	}
	start := r.ReadSeq() % r.capacity
	return r.storage[start : start+n]
}

// WriteSlice returns a zero-copy view of the contiguous (unwrapped)
// span available to write, starting at the write cursor. Callers that
// populate this slice must follow up with AdvanceWrite.
func (r *ByteRing) WriteSlice() []byte {
	n := r.AvailableToWriteStraight()
	if n == 0 {
		return nil
	}
	start := r.WriteSeq() % r.capacity
	return r.storage[start : start+n]
}
