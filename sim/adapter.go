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

// Package sim is a deterministic stand-in for a multi-link Wi-Fi modem.
//
// An Adapter implements wifi.Driver without any radio hardware. Tests program
// it through the control surface (SetNetwork, SetServer,
// QueueExpectedTransmit, InjectReceive, ...) and then drive it through the
// production contract. Transmits are verified byte for byte against the
// queued expectations, and injected receive data is delivered later from a
// simulated interrupt context owned by an InterruptController.
//
// Misuse of the contract panics with a *wifi.ContractError. Each Adapter is
// an independent value, so parallel tests never share modem state.
package sim

import (
	"github.com/ZaparooProject/go-wifi"
	"github.com/ZaparooProject/go-wifi/internal/syncutil"
)

var _ wifi.Driver = (*Adapter)(nil)

// credentials is the single ssid/password pair the simulated module accepts.
type credentials struct {
	ssid     string
	password string
}

// Adapter is the simulated modem. Create one with New.
type Adapter struct {
	handler    wifi.ReceiveHandler
	version    *wifi.Version
	network    *credentials
	interrupts *InterruptController
	links      []*link
	stats      adapterCounters
	generation uint64
	mu         syncutil.Mutex

	active           bool
	failInit         bool
	networkConnected bool
	ownsInterrupts   bool
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLinkCount sets the number of link slots. The single-link modem variant
// is WithLinkCount(1). Values below one are ignored.
func WithLinkCount(n int) Option {
	return func(a *Adapter) {
		if n >= 1 {
			a.links = newLinks(n)
		}
	}
}

// WithReceiveHandler installs the consumer callback for received bytes.
func WithReceiveHandler(h wifi.ReceiveHandler) Option {
	return func(a *Adapter) {
		a.handler = h
	}
}

// WithInterrupts shares an interrupt controller between several simulated
// peripherals. By default each Adapter owns a private controller.
func WithInterrupts(c *InterruptController) Option {
	return func(a *Adapter) {
		if c != nil {
			a.interrupts = c
			a.ownsInterrupts = false
		}
	}
}

// New creates an uninitialized, unprogrammed adapter with wifi.LinkCount links.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		links:          newLinks(wifi.LinkCount),
		interrupts:     NewInterruptController(),
		ownsInterrupts: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LinkCount returns the number of link slots.
func (a *Adapter) LinkCount() int {
	return len(a.links)
}

// Interrupts returns the controller that dispatches receive deliveries.
func (a *Adapter) Interrupts() *InterruptController {
	return a.interrupts
}

// locked runs fn with a.mu held, releasing it even if fn panics.
func (a *Adapter) locked(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn()
}

// check raises a contract violation when cond is false.
// The caller must hold a.mu.
func (a *Adapter) check(cond bool, op string, link wifi.LinkID, format string, args ...any) {
	if !cond {
		a.stats.violations++
	}
	wifi.Assert(cond, op, link, format, args...)
}

// checkLink validates the link range and returns the slot.
// The caller must hold a.mu.
func (a *Adapter) checkLink(op string, id wifi.LinkID) *link {
	a.check(id.Valid(len(a.links)), op, id, "link out of range [0, %d)", len(a.links))
	return a.links[id]
}

// Init brings the simulated module up.
func (a *Adapter) Init() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.check(!a.active, "Init", wifi.NoLink, "already initialized")
	if a.failInit {
		a.stats.initFailures++
		wifi.Debugf("sim: init failed (programmed failure)")
		return false
	}
	a.active = true
	wifi.Debugf("sim: initialized")
	return true
}

// Deinit shuts the module down. The network and every link are dropped;
// programmed servers and pending transmit expectations are kept.
func (a *Adapter) Deinit() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.check(a.active, "Deinit", wifi.NoLink, "not initialized")
	a.active = false
	a.dropNetwork()
	wifi.Debugf("sim: deinitialized")
}

// IsInit reports whether the module is initialized.
func (a *Adapter) IsInit() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// GetVersion returns the programmed firmware versions. It reports false when
// no version has been programmed.
func (a *Adapter) GetVersion() (wifi.Version, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.check(a.active, "GetVersion", wifi.NoLink, "not initialized")
	if a.version == nil {
		return wifi.Version{}, false
	}
	return *a.version, true
}

// NetworkConnect joins the programmed network. Without programmed credentials
// the join is rejected; credentials that differ from the programmed pair are a
// contract violation.
func (a *Adapter) NetworkConnect(ssid, password string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.check(a.active, "NetworkConnect", wifi.NoLink, "not initialized")
	a.check(!a.networkConnected, "NetworkConnect", wifi.NoLink, "network already connected")
	if a.network == nil {
		a.stats.networkRejects++
		wifi.Debugf("sim: network join rejected for ssid %q (no network programmed)", ssid)
		return false
	}
	a.check(ssid == a.network.ssid, "NetworkConnect", wifi.NoLink,
		"ssid %q does not match programmed %q", ssid, a.network.ssid)
	a.check(password == a.network.password, "NetworkConnect", wifi.NoLink,
		"password does not match programmed password")

	a.networkConnected = true
	a.stats.networkJoins++
	wifi.Debugf("sim: joined network %q", ssid)
	return true
}

// NetworkDisconnect leaves the network and drops every link.
func (a *Adapter) NetworkDisconnect() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.check(a.networkConnected, "NetworkDisconnect", wifi.NoLink, "network not connected")
	a.dropNetwork()
	wifi.Debugf("sim: left network")
}

// IsNetworkConnected reports whether a network is joined.
func (a *Adapter) IsNetworkConnected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.networkConnected
}

// dropNetwork clears the joined flag and disconnects every link.
// The caller must hold a.mu.
func (a *Adapter) dropNetwork() {
	a.networkConnected = false
	for id, l := range a.links {
		if l.connected {
			wifi.Debugf("sim: link %d dropped with network", id)
		}
		l.connected = false
	}
}
