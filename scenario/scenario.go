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

// Package scenario loads YAML scripts that program the simulator and replay
// a sequence of driver operations with their expected outcomes.
//
// A scenario has two parts. The setup (init_failure, version, network,
// links) is written to the simulation control surface by Apply. The steps
// are then executed in order by Run, which records one Result per step.
//
// A link lists its expected transmit bytes either as text (expect) or as hex
// (expect_hex), never both.
//
//	name: echo
//	network: {ssid: lab, password: secret}
//	links:
//	  - id: 0
//	    host: echo.local
//	    service: "7"
//	    expect: ["PING"]
//	steps:
//	  - op: init
//	  - op: network_connect
//	    ssid: lab
//	    password: secret
//	  - op: server_connect
//	    host: echo.local
//	    service: "7"
//	  - op: transmit
//	    data: PING
package scenario

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidScenario = errors.New("invalid scenario")
	ErrStepFailed      = errors.New("step failed")
)

// Op names a driver or simulator operation.
type Op string

const (
	OpInit              Op = "init"
	OpDeinit            Op = "deinit"
	OpVersion           Op = "version"
	OpNetworkConnect    Op = "network_connect"
	OpNetworkDisconnect Op = "network_disconnect"
	OpServerConnect     Op = "server_connect"
	OpServerDisconnect  Op = "server_disconnect"
	OpTransmit          Op = "transmit"
	OpInject            Op = "inject"
	OpDispatch          Op = "dispatch"
	OpReceive           Op = "receive"
)

// returnsBool reports whether the driver operation reports success with a
// boolean, so that an expected false outcome is meaningful.
func (o Op) returnsBool() bool {
	switch o {
	case OpInit, OpVersion, OpNetworkConnect, OpServerConnect, OpTransmit:
		return true
	}
	return false
}

func (o Op) known() bool {
	switch o {
	case OpInit, OpDeinit, OpVersion, OpNetworkConnect, OpNetworkDisconnect,
		OpServerConnect, OpServerDisconnect, OpTransmit, OpInject, OpDispatch, OpReceive:
		return true
	}
	return false
}

func (o Op) usesLink() bool {
	switch o {
	case OpServerConnect, OpServerDisconnect, OpTransmit, OpInject, OpReceive:
		return true
	}
	return false
}

// Expect is the expected outcome of a step.
type Expect string

const (
	// ExpectSuccess is the default: true for boolean operations, no
	// violation otherwise.
	ExpectSuccess   Expect = ""
	ExpectTrue      Expect = "true"
	ExpectFalse     Expect = "false"
	ExpectViolation Expect = "violation"
)

// UnmarshalYAML accepts both the YAML booleans and the violation keyword.
func (e *Expect) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expect must be a scalar", value.Line)
	}
	switch v := Expect(strings.ToLower(value.Value)); v {
	case ExpectSuccess, ExpectTrue, ExpectFalse, ExpectViolation:
		*e = v
		return nil
	default:
		return fmt.Errorf("line %d: unknown expect %q", value.Line, value.Value)
	}
}

// Version is a firmware version pair.
type Version struct {
	AT  uint32 `yaml:"at"`
	SDK uint32 `yaml:"sdk"`
}

// Network holds access point credentials.
type Network struct {
	SSID     string `yaml:"ssid"`
	Password string `yaml:"password"`
}

// Link programs one link slot.
type Link struct {
	Host      string   `yaml:"host"`
	Service   string   `yaml:"service"`
	Expect    []string `yaml:"expect"`
	ExpectHex []string `yaml:"expect_hex"`
	Inject    []string `yaml:"inject"`
	ID        int      `yaml:"id"`
}

// Step is one scripted operation.
type Step struct {
	Version  *Version      `yaml:"version"`
	Op       Op            `yaml:"op"`
	SSID     string        `yaml:"ssid"`
	Password string        `yaml:"password"`
	Host     string        `yaml:"host"`
	Service  string        `yaml:"service"`
	Data     string        `yaml:"data"`
	Hex      string        `yaml:"hex"`
	Expect   Expect        `yaml:"expect"`
	Link     int           `yaml:"link"`
	Repeat   int           `yaml:"repeat"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Scenario is a complete script.
type Scenario struct {
	Version     *Version `yaml:"version"`
	Network     *Network `yaml:"network"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Links       []Link   `yaml:"links"`
	Steps       []Step   `yaml:"steps"`
	InitFailure bool     `yaml:"init_failure"`
	// RequireConsumed fails the run if expected transmit bytes are left
	// over after the last step.
	RequireConsumed bool `yaml:"require_consumed"`
}

// Load decodes a scenario from r. Unknown fields are rejected.
func Load(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	return &s, nil
}

// LoadFile reads a scenario from path. The scenario name defaults to the
// file path.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user supplied scenario path
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	s, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Validate checks the scenario against an adapter with linkCount links.
// All problems are reported together.
func (s *Scenario) Validate(linkCount int) error {
	var errs []error
	problem := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	seen := make(map[int]bool)
	for i, l := range s.Links {
		if l.ID < 0 || l.ID >= linkCount {
			problem("links[%d]: id %d outside [0, %d)", i, l.ID, linkCount)
		}
		if seen[l.ID] {
			problem("links[%d]: duplicate id %d", i, l.ID)
		}
		seen[l.ID] = true
		if len(l.Expect) > 0 && len(l.ExpectHex) > 0 {
			problem("links[%d]: expect and expect_hex are mutually exclusive", i)
		}
		for j, h := range l.ExpectHex {
			if _, err := decodeHex(h); err != nil {
				problem("links[%d].expect_hex[%d]: %v", i, j, err)
			}
		}
	}

	for i, st := range s.Steps {
		switch {
		case !st.Op.known():
			problem("steps[%d]: unknown op %q", i, st.Op)
			continue
		case st.Op.usesLink() && (st.Link < 0 || st.Link >= linkCount) && st.Expect != ExpectViolation:
			problem("steps[%d]: link %d outside [0, %d)", i, st.Link, linkCount)
		case st.Expect == ExpectFalse && !st.Op.returnsBool():
			problem("steps[%d]: %s cannot return false", i, st.Op)
		case st.Repeat < 0:
			problem("steps[%d]: negative repeat", i)
		}
		if st.Data != "" && st.Hex != "" {
			problem("steps[%d]: data and hex are mutually exclusive", i)
		}
		if _, err := decodeHex(st.Hex); err != nil {
			problem("steps[%d].hex: %v", i, err)
		}
		if st.Op == OpReceive && st.Expect == ExpectViolation {
			problem("steps[%d]: receive cannot expect a violation", i)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, errors.Join(errs...))
	}
	return nil
}

// payload returns the step data, repeated Repeat times when set.
func (st *Step) payload() []byte {
	data := []byte(st.Data)
	if st.Hex != "" {
		data, _ = decodeHex(st.Hex)
	}
	if st.Repeat > 1 {
		data = bytes.Repeat(data, st.Repeat)
	}
	return data
}

// decodeHex decodes hex with optional whitespace between bytes.
func decodeHex(s string) ([]byte, error) {
	clean := strings.Join(strings.Fields(s), "")
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("bad hex %q: %w", s, err)
	}
	return b, nil
}

// expected concatenates the link's expected transmit bytes. Validate allows
// only one of Expect and ExpectHex per link.
func (l *Link) expected() []byte {
	var out []byte
	for _, e := range l.Expect {
		out = append(out, e...)
	}
	for _, h := range l.ExpectHex {
		b, _ := decodeHex(h)
		out = append(out, b...)
	}
	return out
}
