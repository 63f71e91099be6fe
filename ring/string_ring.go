// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ring

// StringRing is a fixed-capacity SPSC ring buffer of strings, used
// between the line splitter/joiner and their consumer/producer. Unlike
// ByteRing/CharRing, "absent" is expressed with the idiomatic Go
// comma-ok pattern rather than a magic sentinel value, since there is
// no string value that can't legitimately appear in the stream (the
// empty string is a valid line).
type StringRing struct {
	counters
	storage []string
}

// NewStringRing constructs an empty StringRing with the given capacity.
func NewStringRing(capacity uint64) *StringRing {
	if capacity == 0 {
		panic("ring: capacity must be positive")
	}
	r := &StringRing{storage: make([]string, capacity)}
	r.init(capacity)
	return r
}

// Peek returns the string delta positions ahead of the read cursor
// without advancing it.
func (r *StringRing) Peek(delta uint64) (string, bool) {
	if delta >= r.AvailableToRead() {
		return "", false
	}
	pos := (r.ReadSeq() + delta) % r.capacity
	return r.storage[pos], true
}

// Read returns and consumes the next string.
func (r *StringRing) Read() (string, bool) {
	v, ok := r.Peek(0)
	if !ok {
		return "", false
	}
	r.advanceRead(1)
	return v, true
}

// Write stores s at the write cursor and advances it by one.
func (r *StringRing) Write(s string) bool {
	if r.AvailableToWrite() == 0 {
		return false
	}
	pos := r.WriteSeq() % r.capacity
	r.storage[pos] = s
	return r.advanceWrite(1) == 1
}

// AdvanceRead advances the read cursor by delta, clamped to
// AvailableToRead.
func (r *StringRing) AdvanceRead(delta uint64) uint64 { return r.advanceRead(delta) }

// AdvanceWrite advances the write cursor by delta, clamped to
// AvailableToWrite. A no-op once EOS is latched.
func (r *StringRing) AdvanceWrite(delta uint64) uint64 { return r.advanceWrite(delta) }
