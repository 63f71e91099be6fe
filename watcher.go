// Copyright 2026 The streampipe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package streampipe

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hybscloud-labs/streampipe/sched"
)

// Readable is the minimal surface a ring-buffer watcher needs: how
// much is available to read, and whether the ring has latched EOS.
// Satisfied by *ring.ByteRing, *ring.CharRing, and *ring.StringRing
// without any of them needing to know about watcher at all.
type Readable interface {
	AvailableToRead() uint64
	EOS() bool
}

// Watcher is the terminator agent of §4.H: it invokes a caller
// callback whenever the watched ring has items available, without
// consuming them itself — draining is the callback's responsibility.
// Grounded on sakateka-yanet2's pdump controlplane spawnWakers
// ticker+notify shape, reimplemented here as an sched.Agent loop so
// it shares the same throttled polling and Idle/Once/Loop discipline
// as every other agent instead of a bespoke goroutine+ticker.
type Watcher struct {
	ring     Readable
	callback func(available uint64)
	log      *zap.Logger
	lastSeen uint64
	failed   bool
}

// WatcherOption configures a Watcher at construction.
type WatcherOption func(*Watcher)

// WithWatcherLogger attaches a structured logger for callback panics.
// Defaults to zap.NewNop(), matching §1's "logging sink" being an
// external collaborator that is silent unless supplied.
func WithWatcherLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) { w.log = l }
}

// NewWatcher constructs a Watcher over r, invoking cb on every pass in
// which AvailableToRead() is non-zero.
func NewWatcher(r Readable, cb func(available uint64), opts ...WatcherOption) (*Watcher, error) {
	if r == nil || cb == nil {
		return nil, ErrInvalidArgument
	}
	w := &Watcher{ring: r, callback: cb, log: zap.NewNop()}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// Agent wraps the watcher in an sched.Agent, state fixed to the
// watcher itself.
func (w *Watcher) Agent() *sched.Agent[*Watcher, struct{}] {
	return sched.NewAgent(w, watcherHooks{})
}

type watcherHooks struct{}

func (watcherHooks) Ready(w *Watcher) bool              { return w.ready() }
func (watcherHooks) Done(w *Watcher) bool               { return w.done() }
func (watcherHooks) Action(w *Watcher) (struct{}, error) { return w.notify() }

func (w *Watcher) ready() bool {
	return !w.failed && w.ring.AvailableToRead() > 0
}

func (w *Watcher) done() bool {
	return w.failed || (w.ring.EOS() && w.ring.AvailableToRead() == 0)
}

// notify invokes the callback once per pass in which items are
// available; a panicking callback terminates the watcher per §4.H.
func (w *Watcher) notify() (result struct{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			w.failed = true
			w.log.Error("watcher callback panicked", zap.Any("recovered", r))
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()
	n := w.ring.AvailableToRead()
	w.callback(n)
	w.lastSeen = n
	return struct{}{}, nil
}
