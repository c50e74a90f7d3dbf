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

// Package task provides the wake-up primitive that links interrupt-context
// producers to waiting task-level consumers.
//
// Consumers register to obtain an opaque ID. Producers hold only the ID and
// resolve it through the Registry on every Give, so they never own or keep
// alive the waiting task: giving to an unregistered ID is a harmless no-op.
// Each task has a one-shot, binary notification. Several gives before a
// Take coalesce into a single wake-up, so a consumer must re-check its
// condition after every Take.
package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZaparooProject/go-wifi/internal/syncutil"
)

// ErrUnknownTask is returned by Take for IDs that are not registered.
var ErrUnknownTask = errors.New("unknown task")

// ID identifies a registered task. The zero ID is never issued.
type ID uint32

// Registry is the table resolving task IDs to their notification slots.
// It is safe for concurrent use.
type Registry struct {
	tasks map[ID]chan struct{}
	next  ID
	mu    syncutil.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[ID]chan struct{})}
}

// Register adds a task and returns its ID.
func (r *Registry) Register() ID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	id := r.next
	r.tasks[id] = make(chan struct{}, 1)
	return id
}

// Unregister removes a task. Pending notifications are discarded and a Take
// already blocked on the task keeps waiting until its context ends.
func (r *Registry) Unregister(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
}

// Registered reports whether id is currently registered.
func (r *Registry) Registered(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tasks[id]
	return ok
}

// Give notifies the task without blocking and reports whether the task was
// registered. It is safe to call from interrupt context.
func (r *Registry) Give(id ID) bool {
	r.mu.RLock()
	slot, ok := r.tasks[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	select {
	case slot <- struct{}{}:
	default:
	}
	return true
}

// Take blocks until the task is notified or ctx is done, consuming the
// notification.
func (r *Registry) Take(ctx context.Context, id ID) error {
	r.mu.RLock()
	slot, ok := r.tasks[id]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("take %d: %w", id, ErrUnknownTask)
	}

	select {
	case <-slot:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryTake consumes a pending notification without blocking and reports
// whether there was one.
func (r *Registry) TryTake(id ID) bool {
	r.mu.RLock()
	slot, ok := r.tasks[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	select {
	case <-slot:
		return true
	default:
		return false
	}
}
