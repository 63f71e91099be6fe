// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sched

import "errors"

var (
	// ErrAlreadyBusy reports that an agent operation was started while
	// the agent was not Idle.
	ErrAlreadyBusy = errors.New("sched: agent already busy")

	// ErrTimeout reports that a driver operation's configured timeout
	// elapsed before its ready/done predicate succeeded.
	ErrTimeout = errors.New("sched: timeout")

	// ErrInternal reports that a ready, done, or action hook panicked.
	// The original panic value is available via errors.Unwrap-style
	// formatting (%w is not used here since panic values aren't
	// necessarily errors; the recovered value is rendered into the
	// message instead).
	ErrInternal = errors.New("sched: internal hook failure")
)
