// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sched_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hybscloud-labs/streampipe/sched"
)

// loopSimulator implements spec §8 scenario 6: ready becomes true
// after readyAfter polls and done becomes true once doneAfter actions
// have run. Actions return immediately (no per-action delay).
type loopSimulator struct {
	readyAfter int
	doneAfter  int
	polls      atomic.Int64
	actions    atomic.Int64
}

func (s *loopSimulator) ready() bool {
	n := s.polls.Add(1)
	return int(n) > s.readyAfter
}

func (s *loopSimulator) done() bool {
	return int(s.actions.Load()) >= s.doneAfter
}

func (s *loopSimulator) action() (int, error) {
	n := s.actions.Add(1)
	return int(n), nil
}

func TestRunLoopReadyDoneAccounting(t *testing.T) {
	sim := &loopSimulator{readyAfter: 3, doneAfter: 5}
	fut := sched.RunLoop(context.Background(), sim,
		func(*loopSimulator) bool { return sim.ready() },
		func(*loopSimulator) bool { return sim.done() },
		func(*loopSimulator) (int, error) { return sim.action() },
	)
	result, err := fut.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, result, "future completes with the last action's result")
	assert.Equal(t, int64(5), sim.actions.Load())
	// ready is polled 3 times before it first succeeds, then once more
	// per action (5), then once more to observe done: 3 + 5 + 1 = 9.
	assert.Equal(t, int64(9), sim.polls.Load())
}

func TestRunApplyInvokesActionOnceAfterReady(t *testing.T) {
	var polls, actions atomic.Int64
	ready := func(int) bool { return polls.Add(1) > 2 }
	action := func(int) (string, error) {
		actions.Add(1)
		return "done", nil
	}
	fut := sched.RunApply(context.Background(), 0, ready, action)
	result, err := fut.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Equal(t, int64(1), actions.Load())
}

func TestRunCompleteResolvesOnceReadyTrue(t *testing.T) {
	var polls atomic.Int64
	ready := func(int) bool { return polls.Add(1) > 5 }
	fut := sched.RunComplete(context.Background(), 0, ready, "result")
	result, err := fut.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "result", result)
}

func TestRunApplyTimeout(t *testing.T) {
	ready := func(int) bool { return false } // never ready
	action := func(int) (int, error) { return 0, nil }
	start := time.Now()
	fut := sched.RunApply(context.Background(), 0, ready, action, sched.WithTimeout(100*time.Millisecond))
	_, err := fut.Wait(context.Background())
	elapsed := time.Since(start)
	assert.ErrorIs(t, err, sched.ErrTimeout)
	assert.Less(t, elapsed, 500*time.Millisecond, "must resolve within timeout + one poll interval")
}

func TestRunApplyPropagatesHookPanicAsInternal(t *testing.T) {
	ready := func(int) bool { return true }
	action := func(int) (int, error) { panic("boom") }
	fut := sched.RunApply(context.Background(), 0, ready, action)
	_, err := fut.Wait(context.Background())
	assert.ErrorIs(t, err, sched.ErrInternal)
}

func TestRunApplyPropagatesHookError(t *testing.T) {
	sentinel := errors.New("source failed")
	ready := func(int) bool { return true }
	action := func(int) (int, error) { return 0, sentinel }
	fut := sched.RunApply(context.Background(), 0, ready, action)
	_, err := fut.Wait(context.Background())
	assert.ErrorIs(t, err, sentinel)
}

func TestFutureCompletesAtMostOnce(t *testing.T) {
	var calls atomic.Int64
	ready := func(int) bool { return true }
	fut := sched.RunApply(context.Background(), 0, ready, func(int) (int, error) { return 1, nil })
	fut.OnComplete(func(int, error) { calls.Add(1) })
	_, _ = fut.Wait(context.Background())
	fut.OnComplete(func(int, error) { calls.Add(1) })
	assert.Equal(t, int64(2), calls.Load())
}
