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

// Package receiver implements a wifi.ReceiveHandler that buffers inbound
// bytes per link and wakes the task waiting on each link.
package receiver

import (
	"context"
	"errors"
	"fmt"

	wifi "github.com/ZaparooProject/go-wifi"
	"github.com/ZaparooProject/go-wifi/internal/syncutil"
	"github.com/ZaparooProject/go-wifi/task"
)

// DefaultCapacity is the per-link buffer size used when none is configured.
const DefaultCapacity = 1024

// ErrNoTask is returned by Wait when no task is attached to the link.
var ErrNoTask = errors.New("no task attached to link")

var _ wifi.ReceiveHandler = (*Receiver)(nil)

type linkBuffer struct {
	buf      []byte
	count    uint64
	dropped  uint64
	task     task.ID
	attached bool
}

// Receiver buffers received bytes for each link. The zero value is not
// usable; create one with New.
type Receiver struct {
	registry *task.Registry
	links    []*linkBuffer
	capacity int
	mu       syncutil.Mutex
}

// Option configures a Receiver.
type Option func(*Receiver)

// WithCapacity bounds each link buffer to n bytes. Bytes arriving while a
// buffer is full are dropped and counted.
func WithCapacity(n int) Option {
	return func(r *Receiver) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// New creates a receiver for links link slots, resolving attached tasks
// through registry.
func New(links int, registry *task.Registry, opts ...Option) *Receiver {
	r := &Receiver{
		registry: registry,
		capacity: DefaultCapacity,
		links:    make([]*linkBuffer, links),
	}
	for _, opt := range opts {
		opt(r)
	}
	for i := range r.links {
		r.links[i] = &linkBuffer{buf: make([]byte, 0, r.capacity)}
	}
	return r
}

// Links returns the number of link slots.
func (r *Receiver) Links() int {
	return len(r.links)
}

// OnReceive stores one byte and wakes the task attached to the link.
func (r *Receiver) OnReceive(link wifi.LinkID, data byte) {
	r.mu.Lock()
	if !link.Valid(len(r.links)) {
		r.mu.Unlock()
		wifi.Assert(false, "OnReceive", link, "link outside [0, %d)", len(r.links))
		return
	}
	lb := r.links[link]
	if len(lb.buf) < r.capacity {
		lb.buf = append(lb.buf, data)
	} else {
		lb.dropped++
	}
	lb.count++
	id, attached := lb.task, lb.attached
	r.mu.Unlock()

	if attached {
		r.registry.Give(id)
	}
}

// Attach makes id the task woken by bytes arriving on link, replacing any
// previous attachment.
func (r *Receiver) Attach(link wifi.LinkID, id task.ID) {
	r.withLink("Attach", link, func(lb *linkBuffer) {
		lb.task = id
		lb.attached = true
	})
}

// Detach clears the task attached to link.
func (r *Receiver) Detach(link wifi.LinkID) {
	r.withLink("Detach", link, func(lb *linkBuffer) {
		lb.task = 0
		lb.attached = false
	})
}

// Read moves up to len(p) buffered bytes of link into p.
func (r *Receiver) Read(link wifi.LinkID, p []byte) int {
	var n int
	r.withLink("Read", link, func(lb *linkBuffer) {
		n = copy(p, lb.buf)
		lb.buf = append(lb.buf[:0], lb.buf[n:]...)
	})
	return n
}

// Buffered returns the number of bytes waiting to be read on link.
func (r *Receiver) Buffered(link wifi.LinkID) int {
	var n int
	r.withLink("Buffered", link, func(lb *linkBuffer) {
		n = len(lb.buf)
	})
	return n
}

// Count returns the number of bytes received on link, dropped ones
// included.
func (r *Receiver) Count(link wifi.LinkID) uint64 {
	var n uint64
	r.withLink("Count", link, func(lb *linkBuffer) {
		n = lb.count
	})
	return n
}

// Dropped returns the number of bytes discarded on link because its buffer
// was full.
func (r *Receiver) Dropped(link wifi.LinkID) uint64 {
	var n uint64
	r.withLink("Dropped", link, func(lb *linkBuffer) {
		n = lb.dropped
	})
	return n
}

// Registry returns the registry used to resolve attached tasks.
func (r *Receiver) Registry() *task.Registry {
	return r.registry
}

// Attached returns the task attached to link, if any.
func (r *Receiver) Attached(link wifi.LinkID) (task.ID, bool) {
	var (
		id       task.ID
		attached bool
	)
	r.withLink("Attached", link, func(lb *linkBuffer) {
		id, attached = lb.task, lb.attached
	})
	return id, attached
}

// Wait blocks until at least n bytes in total have arrived on link. The
// link must have an attached task.
func (r *Receiver) Wait(ctx context.Context, link wifi.LinkID, n uint64) error {
	return r.wait(ctx, "Wait", link, func(lb *linkBuffer) bool {
		return lb.count >= n
	})
}

// WaitBuffered blocks until at least n bytes are buffered on link. The link
// must have an attached task.
func (r *Receiver) WaitBuffered(ctx context.Context, link wifi.LinkID, n int) error {
	return r.wait(ctx, "WaitBuffered", link, func(lb *linkBuffer) bool {
		return len(lb.buf) >= n
	})
}

func (r *Receiver) wait(ctx context.Context, op string, link wifi.LinkID, done func(*linkBuffer) bool) error {
	for {
		var (
			ready    bool
			id       task.ID
			attached bool
		)
		r.withLink(op, link, func(lb *linkBuffer) {
			ready, id, attached = done(lb), lb.task, lb.attached
		})
		if ready {
			return nil
		}
		if !attached {
			return fmt.Errorf("wait on link %d: %w", link, ErrNoTask)
		}
		if err := r.registry.Take(ctx, id); err != nil {
			return fmt.Errorf("wait on link %d: %w", link, err)
		}
	}
}

// Reset discards all buffered bytes and counters. Attachments are kept.
func (r *Receiver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lb := range r.links {
		lb.buf = lb.buf[:0]
		lb.count = 0
		lb.dropped = 0
	}
}

func (r *Receiver) withLink(op string, link wifi.LinkID, fn func(*linkBuffer)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wifi.Assert(link.Valid(len(r.links)), op, link, "link outside [0, %d)", len(r.links))
	fn(r.links[link])
}
