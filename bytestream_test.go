// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package streampipe_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"code.hybscloud.com/iox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	streampipe "github.com/hybscloud-labs/streampipe"
	"github.com/hybscloud-labs/streampipe/ring"
	"github.com/hybscloud-labs/streampipe/sched"
)

// chunkedSource delivers its data in fixed-size chunks separated by a
// fixed inter-chunk delay, the shape of spec §8 scenario 1.
type chunkedSource struct {
	data      []byte
	chunkSize int
	delay     time.Duration
	last      time.Time
}

func (s *chunkedSource) Available() (int, error) {
	if len(s.data) == 0 {
		return 0, nil
	}
	if time.Since(s.last) < s.delay {
		return 0, nil
	}
	n := s.chunkSize
	if n > len(s.data) {
		n = len(s.data)
	}
	return n, nil
}

func (s *chunkedSource) Read(buf []byte) (int, error) {
	if len(s.data) == 0 {
		return -1, nil
	}
	if time.Since(s.last) < s.delay {
		return 0, nil
	}
	n := copy(buf, s.data[:min(len(s.data), s.chunkSize, len(buf))])
	s.data = s.data[n:]
	s.last = time.Now()
	return n, nil
}

// TestByteReaderChunkedSource implements spec §8 scenario 1 (scaled
// down in timing for test speed): a source producing 100 bytes in
// 7-byte chunks must be delivered in full and in order through a
// 19-byte ring, so chunks straddle the ring's wrap point.
func TestByteReaderChunkedSource(t *testing.T) {
	want := bytes.Repeat([]byte("0123456789"), 10) // 100 bytes
	src := &chunkedSource{data: append([]byte(nil), want...), chunkSize: 7, delay: 5 * time.Millisecond}
	// chunkedSource's Available() permanently reports 0 once exhausted
	// without ever distinguishing "later" from "never" (§6); wrap it
	// in the file-attached EOS source of §4.I so the reader can tell
	// the two apart.
	wrapped := streampipe.NewFileEOSSource(src, int64(len(want)))

	byteRing := ring.NewByteRing(19)
	reader, err := streampipe.NewByteReader(wrapped, byteRing)
	require.NoError(t, err)

	var got []byte
	done := make(chan struct{})
	go func() {
		for {
			if v, ok := byteRing.Read(); ok {
				got = append(got, byte(v))
				continue
			}
			if byteRing.EOS() {
				close(done)
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, ferr := reader.Agent().StartApplyLoopAsync(ctx, sched.WithTimeout(5*time.Second)).Wait(ctx)
	require.NoError(t, ferr)
	<-done

	assert.Equal(t, want, got)
	assert.Equal(t, uint64(100), byteRing.ReadSeq())
	assert.Equal(t, uint64(100), byteRing.WriteSeq())
}

type recordingSink struct {
	buf bytes.Buffer
}

func (s *recordingSink) Write(p []byte) (int, error) { return s.buf.Write(p) }

func TestByteWriterDrainsRing(t *testing.T) {
	b := ring.NewByteRing(8)
	sink := &recordingSink{}
	writer, err := streampipe.NewByteWriter(b, sink)
	require.NoError(t, err)

	for _, c := range []byte("hello") {
		b.Write(c)
	}
	b.SetEOS()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, ferr := writer.Agent().StartApplyLoopAsync(ctx).Wait(ctx)
	require.NoError(t, ferr)

	assert.Equal(t, "hello", sink.buf.String())
}

func TestByteReaderSurfacesIoError(t *testing.T) {
	b := ring.NewByteRing(4)
	src := erroringSource{}
	reader, err := streampipe.NewByteReader(src, b)
	require.NoError(t, err)

	_, ferr := reader.Agent().ApplyAsync(context.Background()).Wait(context.Background())
	assert.ErrorIs(t, ferr, streampipe.ErrIoError)
	assert.True(t, b.EOS(), "a failed read must latch EOS on the ring")
}

type erroringSource struct{}

func (erroringSource) Available() (int, error) { return 1, nil }
func (erroringSource) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

// wouldBlockSource always reports itself as having bytes available but
// returns iox.ErrWouldBlock from Read, the non-blocking transport
// contract framer.go treats as "try again" rather than failure.
type wouldBlockSource struct{ calls int }

func (s *wouldBlockSource) Available() (int, error) { return 1, nil }
func (s *wouldBlockSource) Read(buf []byte) (int, error) {
	s.calls++
	if s.calls < 3 {
		return 0, iox.ErrWouldBlock
	}
	return -1, nil
}

func TestByteReaderTreatsWouldBlockAsNotYet(t *testing.T) {
	b := ring.NewByteRing(4)
	src := &wouldBlockSource{}
	reader, err := streampipe.NewByteReader(src, b)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, ferr := reader.Agent().ApplyAsync(context.Background()).Wait(context.Background())
		require.NoError(t, ferr)
	}
	assert.Equal(t, 3, src.calls, "two would-block calls before the eventual -1 sentinel")
	assert.True(t, b.EOS())
}
