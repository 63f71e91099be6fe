// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hybscloud-labs/streampipe/codec"
	"github.com/hybscloud-labs/streampipe/ring"
	"github.com/hybscloud-labs/streampipe/sched"
)

func feedChars(t *testing.T, c *ring.CharRing, text string) {
	t.Helper()
	runes := []rune(text)
	go func() {
		for len(runes) > 0 {
			if c.AvailableToWrite() == 0 {
				time.Sleep(time.Millisecond)
				continue
			}
			if c.Write(runes[0]) {
				runes = runes[1:]
			}
		}
		c.SetEOS()
	}()
}

func drainBytes(b *ring.ByteRing, done <-chan struct{}) []byte {
	var out []byte
	for {
		if v, ok := b.Read(); ok {
			out = append(out, byte(v))
			continue
		}
		select {
		case <-done:
			if v, ok := b.Read(); ok {
				out = append(out, byte(v))
				continue
			}
			return out
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestEncoderUTF8RoundTripsThroughNarrowRing(t *testing.T) {
	charRing := ring.NewCharRing(16)
	byteRing := ring.NewByteRing(3) // narrower than some encoded runes
	enc, err := codec.NewEncoder(codec.UTF8, charRing, byteRing)
	require.NoError(t, err)

	const text = "héllo wörld"
	feedChars(t, charRing, text)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	fut := enc.Agent().StartApplyLoopAsync(ctx, sched.WithTimeout(5*time.Second))
	gotCh := make(chan []byte, 1)
	go func() { gotCh <- drainBytes(byteRing, fut.Done()) }()
	_, ferr := fut.Wait(ctx)
	require.NoError(t, ferr)

	got := <-gotCh
	assert.Equal(t, []byte(text), got)
}

func TestEncoderASCIIRejectsNonASCIIRune(t *testing.T) {
	charRing := ring.NewCharRing(4)
	byteRing := ring.NewByteRing(4)
	enc, err := codec.NewEncoder(codec.ASCII, charRing, byteRing)
	require.NoError(t, err)

	charRing.Write('é')
	charRing.SetEOS()

	fut := enc.Agent().ApplyAsync(context.Background())
	_, ferr := fut.Wait(context.Background())
	assert.ErrorIs(t, ferr, codec.ErrEncode)
}
