// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"time"

	"go.uber.org/zap"
)

// runConfig holds a single driver operation's tunables, assembled via
// functional options exactly in the style of the teacher's
// options.go/netopts.go.
type runConfig struct {
	timeout time.Duration // <= 0 means infinite
	pool    *Pool
	k       int
	unit    time.Duration
	max     time.Duration
	log     *zap.Logger
}

func defaultRunConfig() runConfig {
	return runConfig{
		k:    4,
		unit: 10 * time.Millisecond,
		max:  200 * time.Millisecond,
		log:  zap.NewNop(),
	}
}

// RunOption configures a single ReadyRunner driver operation.
type RunOption func(*runConfig)

// WithTimeout sets the max wall time for the operation. A
// non-positive duration means infinite (no deadline), the default.
func WithTimeout(d time.Duration) RunOption {
	return func(c *runConfig) { c.timeout = d }
}

// WithPool overrides the work pool the operation dispatches re-entries
// onto. Defaults to DefaultPool().
func WithPool(p *Pool) RunOption {
	return func(c *runConfig) { c.pool = p }
}

// WithThrottle overrides the retry cadence of §4.B step 3: the first
// k consecutive negative polls reschedule immediately; thereafter a
// delay of min(retry_count*unit, max) is applied.
func WithThrottle(k int, unit, max time.Duration) RunOption {
	return func(c *runConfig) { c.k = k; c.unit = unit; c.max = max }
}

// WithLogger attaches a structured logger for a single driver
// operation; it is consulted only when a ready/done/action hook
// panics (§9's "no exception may escape ReadyRunner's poll loop").
// Defaults to zap.NewNop().
func WithLogger(l *zap.Logger) RunOption {
	return func(c *runConfig) { c.log = l }
}
