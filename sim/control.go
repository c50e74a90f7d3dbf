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
	"github.com/ZaparooProject/go-wifi"
)

// The methods in this file form the simulation control surface. Production
// code never calls them; tests use them to describe the environment the
// simulated module lives in.

// SetInitFailure makes every following Init report failure.
func (a *Adapter) SetInitFailure() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failInit = true
}

// SetVersion programs the firmware versions reported by GetVersion.
func (a *Adapter) SetVersion(at, sdk uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.version = &wifi.Version{AT: at, SDK: sdk}
}

// SetNetwork programs the only ssid/password pair the module will join.
func (a *Adapter) SetNetwork(ssid, password string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.network = &credentials{ssid: ssid, password: password}
}

// SetServer programs the only endpoint the link will connect to.
func (a *Adapter) SetServer(id wifi.LinkID, host, service string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	l := a.checkLink("SetServer", id)
	l.server = &endpoint{host: host, service: service}
}

// QueueExpectedTransmit appends bytes that future transmits on the link must
// match, in order.
func (a *Adapter) QueueExpectedTransmit(id wifi.LinkID, data []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	l := a.checkLink("QueueExpectedTransmit", id)
	l.expected.Push(data)
}

// ExpectedRemaining returns how many queued transmit bytes have not been
// matched yet.
func (a *Adapter) ExpectedRemaining(id wifi.LinkID) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	l := a.checkLink("ExpectedRemaining", id)
	return l.expected.Len()
}

// SetReceiveHandler installs the consumer callback for received bytes.
// A nil handler discards deliveries.
func (a *Adapter) SetReceiveHandler(h wifi.ReceiveHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = h
}

// InjectReceive schedules data to arrive on the link. Nothing is delivered
// before the interrupt controller dispatches the event; at that point the
// adapter must be initialized, on the network and the link connected.
func (a *Adapter) InjectReceive(id wifi.LinkID, data []byte) {
	var generation uint64
	a.locked(func() {
		a.checkLink("InjectReceive", id)
		generation = a.generation
	})

	payload := append([]byte(nil), data...)
	a.interrupts.Schedule(func() {
		a.deliver(generation, id, payload)
	})
	wifi.Debugf("sim: link %d scheduled %d received bytes", id, len(payload))
}

// deliver runs from interrupt context and feeds payload to the handler one
// byte at a time. Events scheduled before the last Reset are dropped.
func (a *Adapter) deliver(generation uint64, id wifi.LinkID, payload []byte) {
	var handler wifi.ReceiveHandler
	stale := false
	a.locked(func() {
		if generation != a.generation {
			stale = true
			return
		}
		a.check(a.active, "Receive", id, "not initialized")
		a.check(a.networkConnected, "Receive", id, "network not connected")
		a.check(a.links[id].connected, "Receive", id, "not connected")
		handler = a.handler
	})
	if stale {
		return
	}

	if handler != nil {
		for _, b := range payload {
			handler.OnReceive(id, b)
		}
	}

	a.locked(func() {
		a.links[id].counters.receivedBytes += uint64(len(payload))
	})
	wifi.Debugf("sim: link %d delivered % X", id, payload)
}

// Reset returns the adapter to its initial, unprogrammed state and drops
// receive events that have not been dispatched yet. The receive handler and
// link count are kept.
func (a *Adapter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.active = false
	a.failInit = false
	a.version = nil
	a.network = nil
	a.networkConnected = false
	a.stats = adapterCounters{}
	a.generation++
	a.links = newLinks(len(a.links))
	if a.ownsInterrupts {
		a.interrupts.Clear()
	}
}
