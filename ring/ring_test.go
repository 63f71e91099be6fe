// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hybscloud-labs/streampipe/ring"
)

func TestByteRingBasics(t *testing.T) {
	r := ring.NewByteRing(4)
	require.Equal(t, uint64(4), r.Capacity())
	require.Equal(t, uint64(0), r.AvailableToRead())
	require.Equal(t, uint64(4), r.AvailableToWrite())

	assert.True(t, r.Write('a'))
	assert.True(t, r.Write('b'))
	assert.Equal(t, uint64(2), r.AvailableToRead())
	assert.Equal(t, uint64(2), r.AvailableToWrite())

	v, ok := r.Peek(0)
	require.True(t, ok)
	assert.Equal(t, int('a'), v)
	assert.Equal(t, uint64(2), r.AvailableToRead(), "peek must not advance")

	v, ok = r.Read()
	require.True(t, ok)
	assert.Equal(t, int('a'), v)
	assert.Equal(t, uint64(1), r.AvailableToRead())
}

func TestByteRingSentinelPastEnd(t *testing.T) {
	r := ring.NewByteRing(2)
	v, ok := r.Read()
	assert.False(t, ok)
	assert.Equal(t, ring.ByteSentinel, v)
	assert.Equal(t, uint64(0), r.ReadSeq(), "a failed read must not advance read_seq")
}

func TestByteRingFullWriteRejected(t *testing.T) {
	r := ring.NewByteRing(2)
	require.True(t, r.Write(1))
	require.True(t, r.Write(2))
	assert.False(t, r.Write(3))
	assert.Equal(t, uint64(2), r.WriteSeq())
}

func TestByteRingStraightRunWrap(t *testing.T) {
	r := ring.NewByteRing(4)
	for i := 0; i < 3; i++ {
		require.True(t, r.Write(byte(i)))
	}
	// Drain 3, then write 2 more: write cursor wraps around the tail.
	for i := 0; i < 3; i++ {
		_, _ = r.Read()
	}
	require.True(t, r.Write(10))
	require.True(t, r.Write(11))
	assert.Equal(t, uint64(2), r.AvailableToRead())
	// Write position is now at 5 mod 4 = 1 and the two free slots
	// (positions 1 and 2) are contiguous, so the write straight run is
	// 2 bytes; the read side, at 3 mod 4 = 3, is the one split by the
	// wrap (straight run 1 of 2 readable).
	ws := r.WriteSlice()
	assert.LessOrEqual(t, len(ws), int(r.AvailableToWrite()))
}

func TestByteRingEOSLatchesOnce(t *testing.T) {
	r := ring.NewByteRing(4)
	require.True(t, r.Write(1))
	r.SetEOS()
	assert.True(t, r.EOS())
	assert.False(t, r.Write(2), "writes after EOS must have no effect")
	assert.Equal(t, uint64(1), r.WriteSeq())
	r.SetEOS() // idempotent
	assert.True(t, r.EOS())
}

func TestByteRingAdvanceClampsToAvailability(t *testing.T) {
	r := ring.NewByteRing(4)
	require.True(t, r.Write(1))
	require.True(t, r.Write(2))
	n := r.AdvanceRead(100)
	assert.Equal(t, uint64(2), n)
	assert.Equal(t, uint64(0), r.AvailableToRead())

	n = r.AdvanceWrite(100)
	assert.Equal(t, uint64(4), n, "both written items were read, so all 4 slots are free")
}

func TestCharRingSentinelDistinctFromReplacementChar(t *testing.T) {
	r := ring.NewCharRing(2)
	// RuneError is a legitimate payload value that must survive the ring.
	require.True(t, r.Write('�'))
	v, ok := r.Read()
	require.True(t, ok)
	assert.Equal(t, rune('�'), v)

	v, ok = r.Read()
	assert.False(t, ok)
	assert.Equal(t, ring.CharSentinel, v)
}

func TestStringRingEmptyStringIsNotAbsent(t *testing.T) {
	r := ring.NewStringRing(2)
	require.True(t, r.Write(""))
	s, ok := r.Read()
	require.True(t, ok)
	assert.Equal(t, "", s)

	s, ok = r.Read()
	assert.False(t, ok)
	assert.Equal(t, "", s)
}

// invariant: 0 <= available_to_read <= capacity and
// available_to_read + available_to_write == capacity, at every
// quiescent observation (spec §8 invariant 1).
func TestByteRingCapacityInvariant(t *testing.T) {
	r := ring.NewByteRing(8)
	for i := 0; i < 20; i++ {
		if i%3 == 0 && r.AvailableToRead() > 0 {
			r.Read()
		} else {
			r.Write(byte(i))
		}
		ar, aw := r.AvailableToRead(), r.AvailableToWrite()
		assert.LessOrEqual(t, ar, r.Capacity())
		assert.Equal(t, r.Capacity(), ar+aw)
	}
}
