// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package streampipe

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hybscloud-labs/streampipe/codec"
	"github.com/hybscloud-labs/streampipe/ring"
	"github.com/hybscloud-labs/streampipe/sched"
)

// TextReader is the composite of §4.J and §3's pipeline composition
// paragraph: it owns three rings (byte, character, string) and the
// three sub-agents (ByteReader, codec.Decoder, LineSplitter) wired
// D→F→G, with implicit ring allocation sized from Options. EOS
// propagates exclusively along this chain: each stage sets EOS on its
// output only after observing EOS and no remaining input on its
// input ring — exactly what ByteReader, Decoder, and LineSplitter
// already do independently; TextReader only wires them together.
type TextReader struct {
	opts     Options
	bytes    *ring.ByteRing
	chars    *ring.CharRing
	lines    *ring.StringRing
	reader   *ByteReader
	decoder  *codec.Decoder
	splitter *LineSplitter
}

// NewTextReader constructs a TextReader pulling from src.
func NewTextReader(src ByteSource, opts ...Option) (*TextReader, error) {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}

	bytes := ring.NewByteRing(o.ByteRingCapacity)
	chars := ring.NewCharRing(o.CharacterRingCapacity)
	lines := ring.NewStringRing(o.StringRingCapacity)

	reader, err := NewByteReader(src, bytes)
	if err != nil {
		return nil, err
	}
	decoder, err := codec.NewDecoder(o.CharacterSet, bytes, chars)
	if err != nil {
		return nil, err
	}
	splitter, err := NewLineSplitter(chars, lines, o.EstimatedLineLength)
	if err != nil {
		return nil, err
	}

	return &TextReader{
		opts: o, bytes: bytes, chars: chars, lines: lines,
		reader: reader, decoder: decoder, splitter: splitter,
	}, nil
}

// Lines returns the string ring lines are delivered on.
func (t *TextReader) Lines() *ring.StringRing { return t.lines }

// Start launches all three sub-agents as loops and returns once every
// stage's future has resolved (normally via EOS propagating through to
// the string ring). If a stage fails, the others are cancelled and
// Start returns the first error any stage surfaced.
// Mirrors the teacher's fan-in-and-wait shape using
// golang.org/x/sync/errgroup, the same library sakateka-yanet2's
// pdump controlplane fans worker errors through.
func (t *TextReader) Start(ctx context.Context) error {
	opts := t.runOptions()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { _, err := t.reader.Agent().StartApplyLoopAsync(gctx, opts...).Wait(gctx); return err })
	g.Go(func() error { _, err := t.decoder.Agent().StartApplyLoopAsync(gctx, opts...).Wait(gctx); return err })
	g.Go(func() error { _, err := t.splitter.Agent().StartApplyLoopAsync(gctx, opts...).Wait(gctx); return err })
	return g.Wait()
}

func (t *TextReader) runOptions() []sched.RunOption {
	if t.opts.Timeout > 0 {
		return []sched.RunOption{sched.WithTimeout(t.opts.Timeout)}
	}
	return nil
}

// TextWriter is the write-side mirror of TextReader: LineJoiner→
// codec.Encoder→ByteWriter (G→F→E reversed), owning the same three
// ring types.
type TextWriter struct {
	opts   Options
	lines  *ring.StringRing
	chars  *ring.CharRing
	bytes  *ring.ByteRing
	joiner *LineJoiner
	encode *codec.Encoder
	writer *ByteWriter
}

// NewTextWriter constructs a TextWriter draining to sink.
func NewTextWriter(sink ByteSink, opts ...Option) (*TextWriter, error) {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}

	lines := ring.NewStringRing(o.StringRingCapacity)
	chars := ring.NewCharRing(o.CharacterRingCapacity)
	bytes := ring.NewByteRing(o.ByteRingCapacity)

	joiner, err := NewLineJoiner(lines, chars, o.LineBreak)
	if err != nil {
		return nil, err
	}
	encoder, err := codec.NewEncoder(o.CharacterSet, chars, bytes)
	if err != nil {
		return nil, err
	}
	writer, err := NewByteWriter(bytes, sink)
	if err != nil {
		return nil, err
	}

	return &TextWriter{
		opts: o, lines: lines, chars: chars, bytes: bytes,
		joiner: joiner, encode: encoder, writer: writer,
	}, nil
}

// Lines returns the string ring callers write lines onto.
func (t *TextWriter) Lines() *ring.StringRing { return t.lines }

// Start launches all three sub-agents as loops; see TextReader.Start.
func (t *TextWriter) Start(ctx context.Context) error {
	opts := t.runOptions()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { _, err := t.joiner.Agent().StartApplyLoopAsync(gctx, opts...).Wait(gctx); return err })
	g.Go(func() error { _, err := t.encode.Agent().StartApplyLoopAsync(gctx, opts...).Wait(gctx); return err })
	g.Go(func() error { _, err := t.writer.Agent().StartApplyLoopAsync(gctx, opts...).Wait(gctx); return err })
	return g.Wait()
}

func (t *TextWriter) runOptions() []sched.RunOption {
	if t.opts.Timeout > 0 {
		return []sched.RunOption{sched.WithTimeout(t.opts.Timeout)}
	}
	return nil
}

// NewLinePipe returns an in-memory LineJoiner/LineSplitter pair
// sharing one character ring, mirroring the teacher's NewPipe
// composite constructor (framer.go) for round-trip testing: writing
// lines into the joiner and reading from the splitter exercises the
// split(join(x)) = x identity (§8 scenario 4) without needing a
// byte-level source or sink at all.
func NewLinePipe(lineBreak string, charCapacity, stringCapacity uint64, estimatedLineLength int) (*LineJoiner, *LineSplitter, error) {
	chars := ring.NewCharRing(charCapacity)
	inLines := ring.NewStringRing(stringCapacity)
	outLines := ring.NewStringRing(stringCapacity)

	joiner, err := NewLineJoiner(inLines, chars, lineBreak)
	if err != nil {
		return nil, nil, err
	}
	splitter, err := NewLineSplitter(chars, outLines, estimatedLineLength)
	if err != nil {
		return nil, nil, err
	}
	return joiner, splitter, nil
}
