// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package streampipe

import (
	"time"

	"github.com/hybscloud-labs/streampipe/codec"
)

// Options configures a composite text-stream reader/writer (§6).
// Built with the same functional-options pattern as the teacher's
// options.go/netopts.go.
type Options struct {
	// Timeout bounds every driver operation the text stream issues.
	// Zero or negative means infinite, the default.
	Timeout time.Duration

	// CharacterSet selects the decoder/encoder's character set.
	// Defaults to codec.ASCII per §6's table.
	CharacterSet codec.CharacterSet

	// LineBreak is the terminator the line joiner appends after every
	// line. Defaults to "\n".
	LineBreak string

	// EstimatedLineLength seeds the line splitter's accumulator
	// capacity. Defaults to 1024.
	EstimatedLineLength int

	// ByteRingCapacity sizes an implicitly allocated byte ring.
	// Defaults to 2048.
	ByteRingCapacity uint64

	// CharacterRingCapacity sizes an implicitly allocated character
	// ring. Defaults to 1024.
	CharacterRingCapacity uint64

	// StringRingCapacity sizes an implicitly allocated string ring.
	// Defaults to 64.
	StringRingCapacity uint64
}

var defaultOptions = Options{
	CharacterSet:          codec.ASCII,
	LineBreak:             "\n",
	EstimatedLineLength:   1024,
	ByteRingCapacity:      2048,
	CharacterRingCapacity: 1024,
	StringRingCapacity:    64,
}

// Option configures Options.
type Option func(*Options)

// WithTimeout sets the max wall time for every driver operation the
// text stream issues.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// WithCharacterSet selects the character set the decoder/encoder use.
func WithCharacterSet(cs codec.CharacterSet) Option {
	return func(o *Options) { o.CharacterSet = cs }
}

// WithLineBreak sets the terminator the line joiner appends.
func WithLineBreak(lb string) Option {
	return func(o *Options) { o.LineBreak = lb }
}

// WithEstimatedLineLength seeds the line splitter's accumulator
// capacity.
func WithEstimatedLineLength(n int) Option {
	return func(o *Options) { o.EstimatedLineLength = n }
}

// WithByteRingCapacity sizes the implicitly allocated byte ring.
func WithByteRingCapacity(n uint64) Option {
	return func(o *Options) { o.ByteRingCapacity = n }
}

// WithCharacterRingCapacity sizes the implicitly allocated character
// ring.
func WithCharacterRingCapacity(n uint64) Option {
	return func(o *Options) { o.CharacterRingCapacity = n }
}

// WithStringRingCapacity sizes the implicitly allocated string ring.
func WithStringRingCapacity(n uint64) Option {
	return func(o *Options) { o.StringRingCapacity = n }
}
