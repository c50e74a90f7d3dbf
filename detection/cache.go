// go-wifi
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-wifi.
//
// go-wifi is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-wifi is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-wifi; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package detection

import (
	"time"

	"github.com/ZaparooProject/go-wifi/internal/syncutil"
)

type cacheEntry struct {
	stored     time.Time
	candidates []Candidate
}

// resultCache keeps the last detection result per transport.
type resultCache struct {
	entries map[string]cacheEntry
	mu      syncutil.RWMutex
}

func newResultCache() *resultCache {
	return &resultCache{entries: make(map[string]cacheEntry)}
}

// get returns a copy of the cached result if it is younger than ttl.
func (c *resultCache) get(transport string, ttl time.Duration) ([]Candidate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[transport]
	if !ok || time.Since(entry.stored) > ttl {
		return nil, false
	}
	return append([]Candidate(nil), entry.candidates...), true
}

func (c *resultCache) set(transport string, candidates []Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[transport] = cacheEntry{
		candidates: append([]Candidate(nil), candidates...),
		stored:     time.Now(),
	}
}

func (c *resultCache) clear(transports ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(transports) == 0 {
		c.entries = make(map[string]cacheEntry)
		return
	}
	for _, t := range transports {
		delete(c.entries, t)
	}
}
