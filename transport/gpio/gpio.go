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

// Package gpio drives the enable and reset lines of a physical modem.
//
// The enable line is active high and the reset line active low, matching
// the CH_PD/EN and RST pins of ESP modules.
package gpio

import (
	"context"
	"errors"
	"fmt"
	"time"

	wifi "github.com/ZaparooProject/go-wifi"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

const (
	// DefaultResetWidth is how long reset is held low.
	DefaultResetWidth = 10 * time.Millisecond
	// DefaultBootDelay is how long the module needs after reset release
	// before it accepts commands.
	DefaultBootDelay = 300 * time.Millisecond
)

var (
	ErrNoPin      = errors.New("pin not configured")
	ErrPinUnknown = errors.New("unknown GPIO pin")
)

// hostInit initializes the periph host drivers; tests replace it.
var hostInit = func() error {
	_, err := host.Init()
	return err
}

// Config names the control pins. Empty names leave a line unused.
type Config struct {
	EnablePin  string
	ResetPin   string
	ResetWidth time.Duration
	BootDelay  time.Duration
}

// PowerControl toggles the module control lines.
type PowerControl struct {
	enable     gpio.PinIO
	reset      gpio.PinIO
	resetWidth time.Duration
	bootDelay  time.Duration
}

// New wraps already resolved pins. Either may be nil.
func New(enable, reset gpio.PinIO) *PowerControl {
	return &PowerControl{
		enable:     enable,
		reset:      reset,
		resetWidth: DefaultResetWidth,
		bootDelay:  DefaultBootDelay,
	}
}

// Open initializes the host and resolves the configured pins by name.
func Open(cfg Config) (*PowerControl, error) {
	if err := hostInit(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	enable, err := lookup(cfg.EnablePin)
	if err != nil {
		return nil, err
	}
	reset, err := lookup(cfg.ResetPin)
	if err != nil {
		return nil, err
	}

	pc := New(enable, reset)
	if cfg.ResetWidth > 0 {
		pc.resetWidth = cfg.ResetWidth
	}
	if cfg.BootDelay > 0 {
		pc.bootDelay = cfg.BootDelay
	}
	return pc, nil
}

func lookup(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, nil //nolint:nilnil // unused line
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("%w: %s", ErrPinUnknown, name)
	}
	return pin, nil
}

// PowerOn drives the enable line high.
func (pc *PowerControl) PowerOn() error {
	return pc.drive(pc.enable, "enable", gpio.High)
}

// PowerOff drives the enable line low.
func (pc *PowerControl) PowerOff() error {
	return pc.drive(pc.enable, "enable", gpio.Low)
}

// Reset pulses the reset line low and waits for the module to boot.
// The line is released even when ctx ends during the pulse.
func (pc *PowerControl) Reset(ctx context.Context) error {
	if err := pc.drive(pc.reset, "reset", gpio.Low); err != nil {
		return err
	}

	waitErr := sleep(ctx, pc.resetWidth)
	if err := pc.drive(pc.reset, "reset", gpio.High); err != nil {
		return err
	}
	if waitErr != nil {
		return waitErr
	}
	return sleep(ctx, pc.bootDelay)
}

func (*PowerControl) drive(pin gpio.PinIO, line string, level gpio.Level) error {
	if pin == nil {
		return fmt.Errorf("%s line: %w", line, ErrNoPin)
	}
	if err := pin.Out(level); err != nil {
		return fmt.Errorf("failed to drive %s pin %s %s: %w", line, pin.Name(), level, err)
	}
	wifi.Debugf("gpio: %s pin %s -> %s", line, pin.Name(), level)
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
