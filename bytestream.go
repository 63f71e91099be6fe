// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package streampipe

import (
	"errors"
	"fmt"
	"io"

	"code.hybscloud.com/iox"
	"go.uber.org/zap"

	"github.com/hybscloud-labs/streampipe/ring"
	"github.com/hybscloud-labs/streampipe/sched"
)

// ByteStreamOption configures a ByteReader or ByteWriter at
// construction; see WithByteStreamLogger.
type ByteStreamOption func(*byteStreamConfig)

type byteStreamConfig struct {
	log *zap.Logger
}

func defaultByteStreamConfig() byteStreamConfig {
	return byteStreamConfig{log: zap.NewNop()}
}

// WithByteStreamLogger attaches a structured logger for IO-error
// reporting on a ByteReader/ByteWriter. Defaults to zap.NewNop(),
// matching Watcher's WithWatcherLogger and §1's "logging sink is an
// external collaborator, silent unless supplied" stance.
func WithByteStreamLogger(l *zap.Logger) ByteStreamOption {
	return func(c *byteStreamConfig) { c.log = l }
}

// ByteSource is the external byte source contract of §6: an opaque
// handle that can report how many bytes are currently available and
// read up to a count without blocking for longer than the underlying
// transport already would. Read follows io.Reader's contract (0, nil
// means "not yet"; io.EOF is the §6 "-1 sentinel").
type ByteSource interface {
	Available() (int, error)
	Read(buf []byte) (int, error)
}

// ByteSink is the external byte sink contract of §6: write must
// eventually accept all of buf, but per §4.E's caveat is not presumed
// to report availability and may therefore block briefly.
type ByteSink interface {
	Write(buf []byte) (int, error)
}

// ByteReader pulls from an opaque ByteSource into a byte ring
// whenever non-blocking progress is possible, implementing §4.D.
type ByteReader struct {
	src    ByteSource
	ring   *ring.ByteRing
	log    *zap.Logger
	failed bool
	err    error
}

// Ring returns the byte ring the reader writes into.
func (r *ByteReader) Ring() *ring.ByteRing { return r.ring }

// NewByteReader constructs a ByteReader over src and b. src may be
// wrapped in an EOSSource (see eossource.go) to supply the done
// predicate's EOS signal for sources that cannot express it
// natively.
func NewByteReader(src ByteSource, b *ring.ByteRing, opts ...ByteStreamOption) (*ByteReader, error) {
	if src == nil || b == nil {
		return nil, ErrInvalidArgument
	}
	cfg := defaultByteStreamConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &ByteReader{src: src, ring: b, log: cfg.log}, nil
}

// Agent wraps the reader in an sched.Agent, state fixed to the
// reader itself.
func (r *ByteReader) Agent() *sched.Agent[*ByteReader, int] {
	return sched.NewAgent(r, byteReaderHooks{})
}

type byteReaderHooks struct{}

func (byteReaderHooks) Ready(r *ByteReader) bool { return r.ready() }
func (byteReaderHooks) Done(r *ByteReader) bool  { return r.done() }
func (byteReaderHooks) Action(r *ByteReader) (int, error) { return r.step() }

// eosAware is implemented by an EOSSource-wrapped source; ByteReader
// consults it in preference to a -1 read sentinel, per §4.I's "the
// wrapper is registered with byte stream reader D; D must consult eos
// before scheduling another poll".
type eosAware interface {
	EOS() bool
}

func (r *ByteReader) upstreamEOS() bool {
	ec, ok := r.src.(eosAware)
	return ok && ec.EOS()
}

func (r *ByteReader) ready() bool {
	if r.failed || r.ring.EOS() || r.upstreamEOS() {
		return false
	}
	n, err := r.src.Available()
	if err != nil {
		return true // let the next Action call surface it
	}
	return n > 0 && r.ring.AvailableToWriteStraight() > 0
}

func (r *ByteReader) done() bool {
	if r.upstreamEOS() {
		r.ring.SetEOS()
		return true
	}
	return r.failed || r.ring.EOS()
}

// step implements §4.D's action: read up to
// min(Available(), AvailableToWriteStraight()) bytes directly into
// the ring's write-side straight run.
func (r *ByteReader) step() (int, error) {
	avail, err := r.src.Available()
	if err != nil {
		return r.fail(err)
	}
	dst := r.ring.WriteSlice()
	if len(dst) > avail {
		dst = dst[:avail]
	}
	if len(dst) == 0 {
		return 0, nil
	}

	n, err := r.src.Read(dst)
	if err == io.EOF || n < 0 {
		if n > 0 {
			r.ring.AdvanceWrite(uint64(n))
		} else {
			n = 0
		}
		r.ring.SetEOS()
		return n, nil
	}
	// A source backed by the teacher's non-blocking transport contract
	// (code.hybscloud.com/iox) reports partial or absent progress as
	// iox.ErrWouldBlock/iox.ErrMore rather than (0, nil); treat both as
	// "try again next poll" instead of a hard failure, same as
	// framer.go's WriteTo/ReadFrom do for these two sentinels.
	if errors.Is(err, iox.ErrWouldBlock) || errors.Is(err, iox.ErrMore) {
		if n > 0 {
			r.ring.AdvanceWrite(uint64(n))
		}
		return n, nil
	}
	if err != nil {
		return r.fail(err)
	}
	r.ring.AdvanceWrite(uint64(n))
	return n, nil
}

func (r *ByteReader) fail(cause error) (int, error) {
	r.failed = true
	r.ring.SetEOS()
	r.log.Error("byte stream reader failed", zap.Error(cause))
	return 0, fmt.Errorf("%w: %w", ErrIoError, cause)
}

// ByteWriter drains a byte ring into an opaque ByteSink, implementing
// §4.E.
type ByteWriter struct {
	sink   ByteSink
	ring   *ring.ByteRing
	log    *zap.Logger
	failed bool
}

// Ring returns the byte ring the writer drains.
func (w *ByteWriter) Ring() *ring.ByteRing { return w.ring }

// NewByteWriter constructs a ByteWriter over b and sink.
func NewByteWriter(b *ring.ByteRing, sink ByteSink, opts ...ByteStreamOption) (*ByteWriter, error) {
	if b == nil || sink == nil {
		return nil, ErrInvalidArgument
	}
	cfg := defaultByteStreamConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &ByteWriter{sink: sink, ring: b, log: cfg.log}, nil
}

// Agent wraps the writer in an sched.Agent, state fixed to the
// writer itself.
func (w *ByteWriter) Agent() *sched.Agent[*ByteWriter, int] {
	return sched.NewAgent(w, byteWriterHooks{})
}

type byteWriterHooks struct{}

func (byteWriterHooks) Ready(w *ByteWriter) bool { return w.ready() }
func (byteWriterHooks) Done(w *ByteWriter) bool  { return w.done() }
func (byteWriterHooks) Action(w *ByteWriter) (int, error) { return w.step() }

func (w *ByteWriter) ready() bool {
	return !w.failed && w.ring.AvailableToRead() > 0
}

func (w *ByteWriter) done() bool {
	return w.failed || (w.ring.EOS() && w.ring.AvailableToRead() == 0)
}

// step implements §4.E's action: write the ring's read-side straight
// run directly to the sink. The sink call is not presumed
// non-blocking (§4.E's documented caveat); callers wanting hard
// non-blocking writes must supply a sink with bounded blocking.
func (w *ByteWriter) step() (int, error) {
	src := w.ring.ReadSlice()
	if len(src) == 0 {
		return 0, nil
	}
	n, err := w.sink.Write(src)
	// Same non-blocking contract as ByteReader.step: a sink backed by
	// code.hybscloud.com/iox reports "not yet"/"partial" through these
	// two sentinels instead of (n, nil), never as a hard error.
	if errors.Is(err, iox.ErrWouldBlock) || errors.Is(err, iox.ErrMore) {
		if n > 0 {
			w.ring.AdvanceRead(uint64(n))
		}
		return n, nil
	}
	if err != nil {
		w.failed = true
		w.log.Error("byte stream writer failed", zap.Error(err))
		return 0, fmt.Errorf("%w: %w", ErrIoError, err)
	}
	w.ring.AdvanceRead(uint64(n))
	return n, nil
}
