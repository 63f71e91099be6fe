// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ring

// CharSentinel is returned by Peek/Read on a CharRing when no element
// is available at the requested position. It is distinct from
// utf8.RuneError (0xFFFD), which is itself a valid decoded character
// that must round-trip through the ring unharmed.
const CharSentinel rune = -1

// CharRing is a fixed-capacity SPSC ring buffer of decoded characters
// (runes). It is the byte-ring's twin, used between the character
// decoder/encoder and the line splitter/joiner.
type CharRing struct {
	counters
	storage []rune
}

// NewCharRing constructs an empty CharRing with the given capacity.
func NewCharRing(capacity uint64) *CharRing {
	if capacity == 0 {
		panic("ring: capacity must be positive")
	}
	r := &CharRing{storage: make([]rune, capacity)}
	r.init(capacity)
	return r
}

// Peek returns the rune delta positions ahead of the read cursor
// without advancing it.
func (r *CharRing) Peek(delta uint64) (rune, bool) {
	if delta >= r.AvailableToRead() {
		return CharSentinel, false
	}
	pos := (r.ReadSeq() + delta) % r.capacity
	return r.storage[pos], true
}

// Read returns and consumes the next rune.
func (r *CharRing) Read() (rune, bool) {
	v, ok := r.Peek(0)
	if !ok {
		return CharSentinel, false
	}
	r.advanceRead(1)
	return v, true
}

// Write stores c at the write cursor and advances it by one.
func (r *CharRing) Write(c rune) bool {
	if r.AvailableToWrite() == 0 {
		return false
	}
	pos := r.WriteSeq() % r.capacity
	r.storage[pos] = c
	return r.advanceWrite(1) == 1
}

// AdvanceRead advances the read cursor by delta, clamped to
// AvailableToRead.
func (r *CharRing) AdvanceRead(delta uint64) uint64 { return r.advanceRead(delta) }

// AdvanceWrite advances the write cursor by delta, clamped to
// AvailableToWrite. A no-op once EOS is latched.
func (r *CharRing) AdvanceWrite(delta uint64) uint64 { return r.advanceWrite(delta) }

// ReadSlice returns a zero-copy view of the contiguous span of runes
// available to read.
func (r *CharRing) ReadSlice() []rune {
	n := r.AvailableToReadStraight()
	if n == 0 {
		return nil
	}
	start := r.ReadSeq() % r.capacity
	return r.storage[start : start+n]
}

// WriteSlice returns a zero-copy view of the contiguous span of runes
// available to write.
func (r *CharRing) WriteSlice() []rune {
	n := r.AvailableToWriteStraight()
	if n == 0 {
		return nil
	}
	start := r.WriteSeq() % r.capacity
	return r.storage[start : start+n]
}
