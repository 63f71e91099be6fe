// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package streampipe

// EOSSource wraps an opaque ByteSource with a caller-supplied
// predicate that distinguishes "waiting" from "done" — the §4.I
// abstraction a bare ByteSource cannot express on its own. eos
// latches true once it first observes the wrapped source is
// exhausted; it is consulted by ByteReader (§4.D) instead of relying
// on a -1 read sentinel, so it also works with sources that never
// return one.
type EOSSource struct {
	src       ByteSource
	eosFn     func() bool
	availFn   func() (int, error)
	bytesRead int64
	latched   bool
}

// NewEOSSource wraps src with a caller-supplied eos predicate.
// available, if non-nil, overrides the wrapped source's Available.
func NewEOSSource(src ByteSource, eos func() bool, available func() (int, error)) *EOSSource {
	return &EOSSource{src: src, eosFn: eos, availFn: available}
}

// NewProcessEOSSource implements §4.I's process-attached factory:
// EOS is reported once the source has nothing buffered and the
// process is no longer alive.
func NewProcessEOSSource(src ByteSource, alive func() bool) *EOSSource {
	s := &EOSSource{src: src}
	s.eosFn = func() bool {
		n, err := s.src.Available()
		return err == nil && n == 0 && !alive()
	}
	return s
}

// NewFileEOSSource implements §4.I's file-attached factory: EOS is
// reported once the source has nothing buffered and the running
// count of bytes delivered by Read equals fileLength.
func NewFileEOSSource(src ByteSource, fileLength int64) *EOSSource {
	s := &EOSSource{src: src}
	s.eosFn = func() bool {
		n, err := s.src.Available()
		return err == nil && n == 0 && s.bytesRead >= fileLength
	}
	return s
}

// Available reports the underlying source's availability, or the
// override if one was supplied at construction.
func (s *EOSSource) Available() (int, error) {
	if s.availFn != nil {
		return s.availFn()
	}
	return s.src.Available()
}

// Read delegates to the wrapped source, tracking the running byte
// count NewFileEOSSource's predicate depends on.
func (s *EOSSource) Read(buf []byte) (int, error) {
	n, err := s.src.Read(buf)
	if n > 0 {
		s.bytesRead += int64(n)
	}
	return n, err
}

// EOS reports whether the wrapped source is exhausted, latching true
// once the predicate first succeeds (§4.I: "eos(ctx) -> bool ...
// latches true once").
func (s *EOSSource) EOS() bool {
	if s.latched {
		return true
	}
	if s.eosFn != nil && s.eosFn() {
		s.latched = true
	}
	return s.latched
}
