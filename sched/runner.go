// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package sched implements the generalized cooperative polling driver
// (ReadyRunner) and the Agent base contract built on top of it. It
// generalizes the teacher's per-call retry-on-iox.ErrWouldBlock loop
// (the old framer.go readOnce/writeOnce helpers) into a single driver
// that advances an arbitrary state toward completion using a ready
// predicate, an optional done predicate, and an action function, with
// throttled backoff to avoid spinning.
package sched

import (
	"context"
	"fmt"
	"runtime"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

type shapeKind uint8

const (
	shapeComplete shapeKind = iota
	shapeApply
	shapeLoop
)

// RunComplete completes the returned future with result as soon as
// ready(state) first returns true.
func RunComplete[S any, R any](ctx context.Context, state S, ready func(S) bool, result R, opts ...RunOption) *Future[R] {
	return drive[S, R](ctx, state, ready, nil, nil, shapeComplete, result, opts...)
}

// RunApply completes the returned future with the result of
// action(state), invoked once immediately after ready(state) first
// returns true.
func RunApply[S any, R any](ctx context.Context, state S, ready func(S) bool, action func(S) (R, error), opts ...RunOption) *Future[R] {
	return drive[S, R](ctx, state, ready, nil, action, shapeApply, *new(R), opts...)
}

// RunLoop completes the returned future with the result of the last
// action invocation, issued immediately before done(state) first
// returns true.
func RunLoop[S any, R any](ctx context.Context, state S, ready, done func(S) bool, action func(S) (R, error), opts ...RunOption) *Future[R] {
	return drive[S, R](ctx, state, ready, done, action, shapeLoop, *new(R), opts...)
}

func drive[S any, R any](parent context.Context, state S, ready, done func(S) bool, action func(S) (R, error), shape shapeKind, fixed R, opts ...RunOption) *Future[R] {
	cfg := defaultRunConfig()
	for _, o := range opts {
		o(&cfg)
	}
	pool := cfg.pool
	if pool == nil {
		pool = DefaultPool()
	}
	if done == nil {
		done = func(S) bool { return false }
	}

	fut := newFuture[R]()
	pool.Go(func() { runLoopBody(parent, cfg, state, ready, done, action, shape, fixed, fut) })
	return fut
}

// runLoopBody is the single re-entrant driver loop for one operation.
// It owns the operation's timeout context and throttle state for its
// entire lifetime; every suspension point (the Gosched continue, the
// ticker select) is a ReadyRunner re-entry boundary per §5, but all of
// them execute within this one goroutine, so there is nothing else to
// cancel or hand off mid-operation.
func runLoopBody[S any, R any](parent context.Context, cfg runConfig, state S, ready, done func(S) bool, action func(S) (R, error), shape shapeKind, fixed R, fut *Future[R]) {
	ctx := parent
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, cfg.timeout)
		defer cancel()
	}

	var zero R
	last := zero // Loop shape: result of the most recent action, persists across re-polls
	retry := 0
	var ticker *backoff.Ticker
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
		}
	}
	defer stopTicker()

	for {
		select {
		case <-ctx.Done():
			fut.complete(zero, timeoutOrCancelErr(parent, ctx))
			return
		default:
		}

		rdy, err := safeCall(cfg.log, ready, state)
		if err != nil {
			fut.complete(zero, err)
			return
		}
		dn, err := safeCall(cfg.log, done, state)
		if err != nil {
			fut.complete(zero, err)
			return
		}

		if !rdy && !dn {
			retry++
			if retry <= cfg.k {
				runtime.Gosched()
				continue
			}
			if ticker == nil {
				ticker = backoff.NewTicker(&throttlePolicy{retry: retry, unit: cfg.unit, max: cfg.max})
			}
			select {
			case <-ctx.Done():
				fut.complete(zero, timeoutOrCancelErr(parent, ctx))
				return
			case <-ticker.C:
			}
			continue
		}

		retry = 0
		stopTicker()

		switch shape {
		case shapeComplete:
			fut.complete(fixed, nil)
			return
		case shapeApply:
			r, aerr := safeAction(cfg.log, action, state)
			fut.complete(r, aerr)
			return
		case shapeLoop:
			// Tight inner loop (§4.B step 5): rdy/dn already hold the
			// values from the poll above, so the first iteration below
			// reuses them instead of re-evaluating ready/done.
			for rdy && !dn {
				r, aerr := safeAction(cfg.log, action, state)
				if aerr != nil {
					fut.complete(r, aerr)
					return
				}
				last = r

				select {
				case <-ctx.Done():
					fut.complete(last, timeoutOrCancelErr(parent, ctx))
					return
				default:
				}

				rdy, err = safeCall(cfg.log, ready, state)
				if err != nil {
					fut.complete(last, err)
					return
				}
				dn, err = safeCall(cfg.log, done, state)
				if err != nil {
					fut.complete(last, err)
					return
				}
			}
			if dn {
				fut.complete(last, nil)
				return
			}
			// ready(state) went false without done(state) going true:
			// fall through to the outer poll again; last is retained
			// across the re-poll in case done(state) later succeeds
			// without any further action invocation in between.
		}
	}
}

func timeoutOrCancelErr(parent, ctx context.Context) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	_ = ctx
	return fmt.Errorf("%w", ErrTimeout)
}

func safeCall[S any](log *zap.Logger, fn func(S) bool, state S) (v bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("ready/done hook panicked", zap.Any("recovered", r))
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()
	v = fn(state)
	return v, nil
}

func safeAction[S any, R any](log *zap.Logger, fn func(S) (R, error), state S) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("action hook panicked", zap.Any("recovered", r))
			var zero R
			result = zero
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()
	return fn(state)
}
