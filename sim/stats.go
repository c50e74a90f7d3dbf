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

// adapterCounters are the adapter-wide totals. Guarded by Adapter.mu.
type adapterCounters struct {
	initFailures   uint64
	networkJoins   uint64
	networkRejects uint64
	violations     uint64
}

// linkCounters are the per-link totals. Guarded by Adapter.mu.
type linkCounters struct {
	connects        uint64
	connectRejects  uint64
	transmits       uint64
	transmitBytes   uint64
	transmitRejects uint64
	receivedBytes   uint64
}

// LinkStats is a point-in-time view of one link.
type LinkStats struct {
	Connects          uint64 // Successful ServerConnect calls
	ConnectRejects    uint64 // ServerConnect calls without a programmed server
	Transmits         uint64 // Verified Transmit calls
	TransmitBytes     uint64 // Bytes matched by verified transmits
	TransmitRejects   uint64 // Transmit calls with nothing expected
	ReceivedBytes     uint64 // Bytes handed to the receive handler
	ExpectedRemaining int    // Queued transmit bytes not yet matched
	Connected         bool
}

// Stats is a point-in-time view of the adapter.
type Stats struct {
	Links             []LinkStats
	InitFailures      uint64
	NetworkJoins      uint64
	NetworkRejects    uint64
	Violations        uint64 // Contract violations detected by this adapter
	PendingInterrupts int
	Active            bool
	NetworkConnected  bool
}

// Stats returns a snapshot of the adapter counters.
func (a *Adapter) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Stats{
		Active:            a.active,
		NetworkConnected:  a.networkConnected,
		InitFailures:      a.stats.initFailures,
		NetworkJoins:      a.stats.networkJoins,
		NetworkRejects:    a.stats.networkRejects,
		Violations:        a.stats.violations,
		PendingInterrupts: a.interrupts.Pending(),
		Links:             make([]LinkStats, len(a.links)),
	}
	for i, l := range a.links {
		s.Links[i] = LinkStats{
			Connects:          l.counters.connects,
			ConnectRejects:    l.counters.connectRejects,
			Transmits:         l.counters.transmits,
			TransmitBytes:     l.counters.transmitBytes,
			TransmitRejects:   l.counters.transmitRejects,
			ReceivedBytes:     l.counters.receivedBytes,
			ExpectedRemaining: l.expected.Len(),
			Connected:         l.connected,
		}
	}
	return s
}
