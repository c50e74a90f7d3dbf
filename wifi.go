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

// Package wifi defines the link-state and I/O contract of a multi-link Wi-Fi
// modem driver.
//
// A modem exposes one adapter that joins a single network and multiplexes up
// to LinkCount transport links over it. Operations that can fail for reasons
// outside the caller's control (no credentials configured, module refused the
// join, nothing ready to transmit) report false. Operations called out of
// sequence or with arguments that contradict the environment are contract
// violations and panic with a *ContractError; see Assert and Recover.
//
// The deterministic simulator in the sim package implements Driver for tests.
package wifi

// LinkCount is the number of independent links a multi-link modem supports.
const LinkCount = 5

// MaxTransmitSize is the largest payload a single Transmit call accepts.
const MaxTransmitSize = 1024

// LinkID selects a link slot in [0, LinkCount).
type LinkID int

// Valid reports whether the link lies in [0, count).
func (id LinkID) Valid(count int) bool {
	return id >= 0 && int(id) < count
}

// Version holds the firmware versions reported by the modem.
type Version struct {
	AT  uint32
	SDK uint32
}

//go:generate mockgen -destination=internal/mocks/driver.go -package=mocks github.com/ZaparooProject/go-wifi Driver

// Driver is the production-facing modem contract.
//
// All methods are synchronous and non-blocking. They are meant to be driven
// from a single task-level context.
type Driver interface {
	// Init brings the adapter up. Calling it while already initialized is a
	// contract violation. It returns false if the module failed to start.
	Init() bool
	// Deinit shuts the adapter down, dropping the network and every link.
	Deinit()
	// IsInit reports whether the adapter is initialized.
	IsInit() bool
	// GetVersion returns the firmware versions if the module reported them.
	GetVersion() (Version, bool)

	// NetworkConnect joins the given network. It returns false if the module
	// rejected the join.
	NetworkConnect(ssid, password string) bool
	// NetworkDisconnect leaves the network, dropping every link.
	NetworkDisconnect()
	// IsNetworkConnected reports whether a network is joined.
	IsNetworkConnected() bool

	// ServerConnect opens a link to host:service. It returns false if the
	// remote endpoint could not be reached.
	ServerConnect(link LinkID, host, service string) bool
	// ServerDisconnect closes a connected link.
	ServerDisconnect(link LinkID)
	// IsServerConnected reports whether the link is connected. It never
	// panics, including for out of range links.
	IsServerConnected(link LinkID) bool

	// Transmit sends 1..MaxTransmitSize bytes on a connected link. It returns
	// false if the modem could not accept the data right now.
	Transmit(link LinkID, data []byte) bool
}

// ReceiveHandler consumes bytes arriving on a link.
//
// OnReceive is invoked from interrupt context, once per byte and in arrival
// order within a link. Implementations must not block.
type ReceiveHandler interface {
	OnReceive(link LinkID, data byte)
}

// ReceiveFunc adapts a plain function to ReceiveHandler.
type ReceiveFunc func(link LinkID, data byte)

// OnReceive calls f(link, data).
func (f ReceiveFunc) OnReceive(link LinkID, data byte) {
	f(link, data)
}

// Transport is the byte stream to a physical modem. The AT command set
// spoken over it is owned by the hardware-facing driver.
type Transport interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}
