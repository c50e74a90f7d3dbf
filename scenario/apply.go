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

package scenario

import (
	"fmt"

	wifi "github.com/ZaparooProject/go-wifi"
	"github.com/ZaparooProject/go-wifi/sim"
)

// Apply resets the adapter and programs it with the scenario setup. Bytes
// listed under a link's inject are scheduled for delivery; they are
// dispatched by the first dispatch or receive step, or by a running
// dispatcher.
func (s *Scenario) Apply(a *sim.Adapter) error {
	if err := s.Validate(a.LinkCount()); err != nil {
		return err
	}

	err := wifi.Recover(func() {
		a.Reset()
		if s.InitFailure {
			a.SetInitFailure()
		}
		if s.Version != nil {
			a.SetVersion(s.Version.AT, s.Version.SDK)
		}
		if s.Network != nil {
			a.SetNetwork(s.Network.SSID, s.Network.Password)
		}
		for i := range s.Links {
			l := &s.Links[i]
			id := wifi.LinkID(l.ID)
			if l.Host != "" || l.Service != "" {
				a.SetServer(id, l.Host, l.Service)
			}
			if expected := l.expected(); len(expected) > 0 {
				a.QueueExpectedTransmit(id, expected)
			}
			for _, in := range l.Inject {
				a.InjectReceive(id, []byte(in))
			}
		}
	})
	if err != nil {
		return fmt.Errorf("failed to apply scenario %q: %w", s.Name, err)
	}

	wifi.Debugf("scenario %q applied: %d links, %d steps", s.Name, len(s.Links), len(s.Steps))
	return nil
}
