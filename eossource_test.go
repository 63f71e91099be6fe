// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package streampipe_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	streampipe "github.com/hybscloud-labs/streampipe"
)

type fakeSource struct {
	data []byte
	off  int
}

func (f *fakeSource) Available() (int, error) { return len(f.data) - f.off, nil }
func (f *fakeSource) Read(buf []byte) (int, error) {
	if f.off >= len(f.data) {
		return 0, io.EOF
	}
	n := copy(buf, f.data[f.off:])
	f.off += n
	return n, nil
}

func TestProcessEOSSourceLatchesWhenProcessDead(t *testing.T) {
	src := &fakeSource{data: []byte("hi")}
	alive := true
	eos := streampipe.NewProcessEOSSource(src, func() bool { return alive })

	buf := make([]byte, 2)
	n, err := eos.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, eos.EOS(), "process still alive: not EOS yet")

	alive = false
	assert.True(t, eos.EOS())
	assert.True(t, eos.EOS(), "latched: stays true even if queried again")
}

func TestFileEOSSourceLatchesAtFileLength(t *testing.T) {
	src := &fakeSource{data: []byte("hello")}
	eos := streampipe.NewFileEOSSource(src, 5)

	buf := make([]byte, 5)
	n, err := eos.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.True(t, eos.EOS())
}
