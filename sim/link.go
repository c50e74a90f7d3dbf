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
	"github.com/ZaparooProject/go-wifi/internal/expect"
)

// endpoint is the remote host/service a link slot accepts.
type endpoint struct {
	host    string
	service string
}

// link is one slot of the multiplexed modem. The server and expected bytes
// survive disconnects so a test can script several connect cycles.
type link struct {
	server    *endpoint
	expected  expect.Queue
	counters  linkCounters
	connected bool
}

func newLinks(n int) []*link {
	links := make([]*link, n)
	for i := range links {
		links[i] = &link{}
	}
	return links
}

// ServerConnect opens the link to the programmed endpoint. Without a
// programmed endpoint the connect is rejected; a host or service that differs
// from the programmed one is a contract violation.
func (a *Adapter) ServerConnect(id wifi.LinkID, host, service string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	l := a.checkLink("ServerConnect", id)
	a.check(a.active, "ServerConnect", id, "not initialized")
	a.check(a.networkConnected, "ServerConnect", id, "network not connected")
	a.check(!l.connected, "ServerConnect", id, "already connected")
	if l.server == nil {
		l.counters.connectRejects++
		wifi.Debugf("sim: link %d connect to %s:%s rejected (no server programmed)", id, host, service)
		return false
	}
	a.check(host == l.server.host, "ServerConnect", id,
		"host %q does not match programmed %q", host, l.server.host)
	a.check(service == l.server.service, "ServerConnect", id,
		"service %q does not match programmed %q", service, l.server.service)

	l.connected = true
	l.counters.connects++
	wifi.Debugf("sim: link %d connected to %s:%s", id, host, service)
	return true
}

// ServerDisconnect closes a connected link.
func (a *Adapter) ServerDisconnect(id wifi.LinkID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	l := a.checkLink("ServerDisconnect", id)
	a.check(l.connected, "ServerDisconnect", id, "not connected")
	l.connected = false
	wifi.Debugf("sim: link %d disconnected", id)
}

// IsServerConnected reports whether the link is connected. Out of range
// links are reported as disconnected.
func (a *Adapter) IsServerConnected(id wifi.LinkID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !id.Valid(len(a.links)) {
		return false
	}
	return a.links[id].connected
}

// Transmit verifies data against the bytes queued for the link. It returns
// false when nothing is queued. Any divergence from the queue, including
// running out of queued bytes part way, is a contract violation and leaves
// the queue untouched.
func (a *Adapter) Transmit(id wifi.LinkID, data []byte) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	l := a.checkLink("Transmit", id)
	a.check(a.active, "Transmit", id, "not initialized")
	a.check(a.networkConnected, "Transmit", id, "network not connected")
	a.check(l.connected, "Transmit", id, "not connected")
	a.check(len(data) > 0 && len(data) <= wifi.MaxTransmitSize, "Transmit", id,
		"size %d outside [1, %d]", len(data), wifi.MaxTransmitSize)

	if l.expected.Empty() {
		l.counters.transmitRejects++
		wifi.Debugf("sim: link %d transmit of %d bytes rejected (nothing expected)", id, len(data))
		return false
	}

	offset, ok := l.expected.Compare(data)
	if !ok {
		if offset >= l.expected.Len() {
			a.check(false, "Transmit", id,
				"expected data exhausted at byte %d of %d", offset, len(data))
		}
		want := l.expected.Peek(offset + 1)[offset]
		a.check(false, "Transmit", id,
			"byte %d is 0x%02X, expected 0x%02X", offset, data[offset], want)
	}

	l.expected.Consume(len(data))
	l.counters.transmits++
	l.counters.transmitBytes += uint64(len(data))
	wifi.Debugf("sim: link %d transmitted % X", id, data)
	return true
}
