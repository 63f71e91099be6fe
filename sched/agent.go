// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"context"
	"sync/atomic"
)

// Mode is an agent's current operation state.
type Mode int32

const (
	// Idle means no operation is in flight; a new one may be started.
	Idle Mode = iota
	// Once means an ApplyAsync operation is in flight.
	Once
	// Loop means a StartApplyLoopAsync operation is in flight.
	Loop
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "Idle"
	case Once:
		return "Once"
	case Loop:
		return "Loop"
	default:
		return "Unknown"
	}
}

// Hooks is the base contract every agent implements: ready/done
// predicates and an action over a shared state S, producing a result
// R. Implementations may close over their own fields in S, or be
// stateless and carry everything in S — both satisfy the contract.
type Hooks[S any, R any] interface {
	Ready(state S) bool
	Done(state S) bool
	Action(state S) (R, error)
}

// Agent wraps a ReadyRunner driver with the Idle/Once/Loop mode guard
// of §4.C: only an Idle agent may start a new operation, and the
// agent returns to Idle when that operation completes (successfully
// or not).
type Agent[S any, R any] struct {
	mode  atomic.Int32
	state S
	hooks Hooks[S, R]
}

// NewAgent constructs an Idle agent over the given state and hooks.
func NewAgent[S any, R any](state S, hooks Hooks[S, R]) *Agent[S, R] {
	return &Agent[S, R]{state: state, hooks: hooks}
}

// State returns the agent's shared state value.
func (a *Agent[S, R]) State() S { return a.state }

// IsIdle reports whether the agent currently has no operation in
// flight.
func (a *Agent[S, R]) IsIdle() bool { return Mode(a.mode.Load()) == Idle }

// Mode returns the agent's current mode.
func (a *Agent[S, R]) Mode() Mode { return Mode(a.mode.Load()) }

// ApplyAsync starts a single ready→action operation. Fails immediately
// with ErrAlreadyBusy if the agent is not Idle.
func (a *Agent[S, R]) ApplyAsync(ctx context.Context, opts ...RunOption) *Future[R] {
	if !a.mode.CompareAndSwap(int32(Idle), int32(Once)) {
		return alreadyBusy[R]()
	}
	fut := RunApply(ctx, a.state, a.hooks.Ready, a.hooks.Action, opts...)
	fut.OnComplete(func(R, error) { a.mode.Store(int32(Idle)) })
	return fut
}

// StartApplyLoopAsync starts a ready→action loop that runs until
// done(state) is true or a failure latches. Fails immediately with
// ErrAlreadyBusy if the agent is not Idle.
func (a *Agent[S, R]) StartApplyLoopAsync(ctx context.Context, opts ...RunOption) *Future[R] {
	if !a.mode.CompareAndSwap(int32(Idle), int32(Loop)) {
		return alreadyBusy[R]()
	}
	fut := RunLoop(ctx, a.state, a.hooks.Ready, a.hooks.Done, a.hooks.Action, opts...)
	fut.OnComplete(func(R, error) { a.mode.Store(int32(Idle)) })
	return fut
}

func alreadyBusy[R any]() *Future[R] {
	fut := newFuture[R]()
	var zero R
	fut.complete(zero, ErrAlreadyBusy)
	return fut
}
