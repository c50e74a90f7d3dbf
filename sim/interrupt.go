// Copyright 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sim

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ZaparooProject/go-wifi"
	"github.com/ZaparooProject/go-wifi/internal/syncutil"
)

// ErrDispatcherRunning is returned by Run when another dispatcher is active.
var ErrDispatcherRunning = errors.New("interrupt dispatcher already running")

// InterruptController queues work that a real modem would perform from an
// interrupt service routine. Scheduling never runs anything; events are
// dispatched in FIFO order by Step, Drain, or a background Run loop, so a test
// chooses exactly when simulated interrupts fire.
//
// Only one event runs at a time, whichever goroutine dispatches it, so
// deliveries keep their scheduling order even when Step or Drain is called
// while Run is active.
type InterruptController struct {
	wake     chan struct{}
	pending  []func()
	mu       syncutil.Mutex // guards pending
	dispatch syncutil.Mutex // held from dequeue until the event returns
	running  atomic.Bool
	fired    atomic.Uint64
}

// NewInterruptController creates an idle controller.
func NewInterruptController() *InterruptController {
	return &InterruptController{
		wake: make(chan struct{}, 1),
	}
}

// Schedule queues fn to run from interrupt context.
func (c *InterruptController) Schedule(fn func()) {
	c.mu.Lock()
	c.pending = append(c.pending, fn)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued events.
func (c *InterruptController) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Fired returns how many events have finished running.
func (c *InterruptController) Fired() uint64 {
	return c.fired.Load()
}

// Step dispatches the oldest queued event on the calling goroutine and
// reports whether there was one. A contract violation raised by the event
// propagates to the caller. Events must not call Step or Drain themselves.
func (c *InterruptController) Step() bool {
	c.dispatch.Lock()
	defer c.dispatch.Unlock()

	c.mu.Lock()
	if len(c.pending) == 0 {
		c.mu.Unlock()
		return false
	}
	fn := c.pending[0]
	c.pending[0] = nil
	c.pending = c.pending[1:]
	c.mu.Unlock()

	defer c.fired.Add(1)
	fn()
	return true
}

// Drain dispatches events until the queue is empty, including events
// scheduled while draining, and returns how many ran.
func (c *InterruptController) Drain() int {
	n := 0
	for c.Step() {
		n++
	}
	return n
}

// Clear discards every queued event and returns how many were dropped.
func (c *InterruptController) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.pending)
	c.pending = nil
	return n
}

// Run dispatches events as they are scheduled until ctx is done. A contract
// violation raised by an event stops the loop and is returned wrapped; it
// matches wifi.ErrContractViolation.
func (c *InterruptController) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrDispatcherRunning
	}
	defer c.running.Store(false)

	for {
		if err := wifi.Recover(func() { c.Drain() }); err != nil {
			return fmt.Errorf("interrupt dispatch: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.wake:
		}
	}
}

// Running reports whether a Run loop is active.
func (c *InterruptController) Running() bool {
	return c.running.Load()
}
