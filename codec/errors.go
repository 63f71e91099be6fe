// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

import "errors"

var (
	errNilRing = errors.New("nil ring")

	// ErrDecode reports a terminal malformed byte sequence that is not
	// recoverable via the decoder's scratch-buffer wrap-around path.
	// Exported so the root package's streampipe.ErrDecode can alias it
	// directly, the same way it aliases sched's sentinels.
	ErrDecode = errors.New("codec: decode error")

	// ErrEncode is the encoder's counterpart to ErrDecode.
	ErrEncode = errors.New("codec: encode error")
)
