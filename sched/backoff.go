// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sched

import "time"

// throttlePolicy implements github.com/cenkalti/backoff/v5's BackOff
// interface, the same interface sakateka-yanet2's bird-adapter drives
// via backoff.NewTicker for its stream-reconnect loop. Where that
// caller wants exponential growth, a ReadyRunner wants the linear,
// capped cadence of spec §4.B step 3: min(retry_count * unit_delay,
// max_delay).
type throttlePolicy struct {
	retry int
	unit  time.Duration
	max   time.Duration
}

// NextBackOff returns the delay for the current retry count,
// min(retry*unit, max), and then advances the count. The driver keeps
// one ticker across a run of consecutive negative polls, so each
// successive delay is one unit longer than the last until max caps it.
func (p *throttlePolicy) NextBackOff() time.Duration {
	d := time.Duration(p.retry) * p.unit
	if d > p.max {
		d = p.max
	}
	p.retry++
	return d
}

// Reset leaves retry unchanged: a throttlePolicy is created with the
// negative-poll count reached so far and counts on from there.
func (p *throttlePolicy) Reset() {}
