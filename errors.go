// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package streampipe composes the ring, sched, and codec packages into
// the stream-processing agents of §4: the byte stream reader/writer,
// the line splitter/joiner, the ring-buffer watcher, the EOS-capable
// byte source wrapper, and the composite text-stream reader/writer
// that wires them all into a single non-blocking byte → character →
// line pipeline.
package streampipe

import (
	"errors"

	"github.com/hybscloud-labs/streampipe/codec"
	"github.com/hybscloud-labs/streampipe/sched"
)

var (
	// ErrInvalidArgument reports an invalid configuration or a
	// collaborator handle (source/sink) that was required but missing.
	ErrInvalidArgument = errors.New("streampipe: invalid argument")

	// ErrAlreadyBusy reports that an agent operation was started while
	// the agent was already running one. Re-exported from sched so
	// callers of this package need not import sched directly.
	ErrAlreadyBusy = sched.ErrAlreadyBusy

	// ErrIoError reports a failure from an underlying byte source or
	// sink. Always wraps the originating cause via %w.
	ErrIoError = errors.New("streampipe: io error")

	// ErrDecode reports a terminal malformed byte sequence that is not
	// recoverable via the decoder's scratch-buffer wrap-around path.
	// Re-exported from codec so callers of this package need not import
	// codec directly, and so errors.Is against a TextReader failure
	// actually matches (codec.Decoder wraps this exact sentinel).
	ErrDecode = codec.ErrDecode

	// ErrEncode reports a character that cannot be represented in the
	// configured character set. Re-exported from codec.
	ErrEncode = codec.ErrEncode

	// ErrTimeout reports that a driver operation's configured timeout
	// elapsed. Re-exported from sched.
	ErrTimeout = sched.ErrTimeout

	// ErrInternal reports that a ready/done/action hook panicked.
	// Re-exported from sched.
	ErrInternal = sched.ErrInternal
)
