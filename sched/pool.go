// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Pool is the shared work pool driver operations dispatch onto. It is
// a bounded fan-out over golang.org/x/sync/errgroup, following the
// same errgroup.Group usage as the worker fan-out in
// sakateka-yanet2's pdump controlplane ring reader. Unlike a typical
// errgroup use, this Pool's Wait is never called in production: tasks
// are fire-and-forget re-entries of a ReadyRunner driver, and the
// pool lives for the lifetime of the process, matching §5's
// "process-wide singletons with lazy, thread-safe initialization and
// no teardown".
type Pool struct {
	g *errgroup.Group
}

// NewPool constructs a work pool bounded to limit concurrent tasks.
// A non-positive limit means unbounded.
func NewPool(limit int) *Pool {
	g := &errgroup.Group{}
	if limit > 0 {
		g.SetLimit(limit)
	}
	return &Pool{g: g}
}

// Go schedules fn to run on the pool. It may block briefly if the
// pool is at its concurrency limit.
func (p *Pool) Go(fn func()) {
	p.g.Go(func() error {
		fn()
		return nil
	})
}

var (
	defaultPoolOnce sync.Once
	defaultPool     *Pool
)

// DefaultPool returns the process-wide default work pool, sized to
// 2x GOMAXPROCS per §5's recommendation. Initialized lazily, once.
func DefaultPool() *Pool {
	defaultPoolOnce.Do(func() {
		defaultPool = NewPool(2 * runtime.GOMAXPROCS(0))
	})
	return defaultPool
}
