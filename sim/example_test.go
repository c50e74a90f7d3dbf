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

package sim_test

import (
	"fmt"

	"github.com/ZaparooProject/go-wifi"
	"github.com/ZaparooProject/go-wifi/sim"
)

func Example() {
	modem := sim.New()
	modem.SetNetwork("office", "hunter2")
	modem.SetServer(0, "example.com", "443")
	modem.QueueExpectedTransmit(0, []byte("PING"))

	var received []byte
	modem.SetReceiveHandler(wifi.ReceiveFunc(func(_ wifi.LinkID, b byte) {
		received = append(received, b)
	}))
	modem.InjectReceive(0, []byte("PONG"))

	fmt.Println(modem.Init())
	fmt.Println(modem.NetworkConnect("office", "hunter2"))
	fmt.Println(modem.ServerConnect(0, "example.com", "443"))
	fmt.Println(modem.Transmit(0, []byte("PING")))
	fmt.Println(modem.Transmit(0, []byte("PING")))

	modem.Interrupts().Drain()
	fmt.Println(string(received))
	// Output:
	// true
	// true
	// true
	// true
	// false
	// PONG
}

func ExampleAdapter_Transmit_violation() {
	modem := sim.New()
	modem.SetNetwork("office", "hunter2")
	modem.SetServer(0, "example.com", "443")
	modem.QueueExpectedTransmit(0, []byte("PING"))
	modem.Init()
	modem.NetworkConnect("office", "hunter2")
	modem.ServerConnect(0, "example.com", "443")

	err := wifi.Recover(func() { modem.Transmit(0, []byte("PANG")) })
	fmt.Println(err)
	// Output:
	// Transmit link 0: byte 1 is 0x41, expected 0x49
}
