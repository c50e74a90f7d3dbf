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

// Package uart detects USB-serial bridges and native USB ports that commonly
// carry an AT modem. Importing the package registers the detector with
// detection.Default.
package uart

import (
	"context"
	"fmt"
	"strings"

	wifi "github.com/ZaparooProject/go-wifi"
	"github.com/ZaparooProject/go-wifi/detection"
	"go.bug.st/serial/enumerator"
)

// bridge describes a known USB device in front of a modem.
type bridge struct {
	name       string
	confidence detection.Confidence
}

// knownBridges maps VID:PID to the bridges fitted to ESP development
// boards. Espressif native USB reports itself and ranks highest.
var knownBridges = map[string]bridge{
	"10C4:EA60": {name: "Silicon Labs CP210x", confidence: detection.Medium},
	"1A86:7523": {name: "QinHeng CH340", confidence: detection.Medium},
	"1A86:55D4": {name: "QinHeng CH9102", confidence: detection.Medium},
	"0403:6001": {name: "FTDI FT232R", confidence: detection.Medium},
	"0403:6010": {name: "FTDI FT2232", confidence: detection.Medium},
	"303A:1001": {name: "Espressif USB JTAG/serial", confidence: detection.High},
	"303A:0002": {name: "Espressif USB CDC", confidence: detection.High},
}

// listPorts and accessible are replaced in tests.
var (
	listPorts  = enumerator.GetDetailedPortsList
	accessible = canOpen
)

type detector struct{}

// New creates a serial port detector.
func New() detection.Detector {
	return &detector{}
}

func init() {
	detection.RegisterDetector(New())
}

func (*detector) Transport() string {
	return "uart"
}

// Detect lists serial ports and classifies them.
func (*detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.Candidate, error) {
	ports, err := listPorts()
	if err != nil || len(ports) == 0 {
		// enumeration is not supported everywhere; fall back to device nodes
		ports = append(ports, fallbackPorts()...)
	}
	if len(ports) == 0 {
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
		}
		return nil, detection.ErrNoDevicesFound
	}

	var found []detection.Candidate
	for _, p := range ports {
		if ctx.Err() != nil {
			return found, ctx.Err()
		}
		found = append(found, classify(p))
	}

	found = detection.Filter(found, opts)
	wifi.Debugf("uart detection: %d ports, %d candidates", len(ports), len(found))
	if len(found) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return found, nil
}

// classify turns an enumerated port into a candidate.
func classify(p *enumerator.PortDetails) detection.Candidate {
	c := detection.Candidate{
		Transport:  "uart",
		Path:       p.Name,
		Name:       "serial port",
		Confidence: detection.Low,
		Accessible: accessible(p.Name),
	}
	if !p.IsUSB {
		return c
	}

	c.VIDPID = detection.FormatVIDPID(p.VID, p.PID)
	c.SerialNumber = p.SerialNumber
	c.Name = "USB serial"
	if p.Product != "" {
		c.Name = p.Product
	}
	if b, ok := knownBridges[c.VIDPID]; ok {
		c.Name = b.name
		c.Confidence = b.confidence
	} else if strings.Contains(strings.ToLower(p.Product), "esp") {
		c.Confidence = detection.Medium
	}
	return c
}
