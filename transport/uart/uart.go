// go-wifi
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-wifi.
//
// go-wifi is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-wifi is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-wifi; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package uart provides the serial byte stream to a physical AT modem.
package uart

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	wifi "github.com/ZaparooProject/go-wifi"
	"go.bug.st/serial"
)

// DefaultBaudRate is the factory rate of ESP AT firmware.
const DefaultBaudRate = 115200

// ErrPortClosed is returned by operations on a closed port.
var ErrPortClosed = errors.New("serial port closed")

// openPort opens the underlying serial port; tests replace it.
var openPort = serial.Open

// Config describes the serial line. Zero fields take defaults.
type Config struct {
	BaudRate    int
	DataBits    int
	Parity      serial.Parity
	StopBits    serial.StopBits
	ReadTimeout time.Duration
}

func (c *Config) setDefaults() {
	if c.BaudRate == 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.DataBits == 0 {
		c.DataBits = 8
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = defaultReadTimeout()
	}
}

// Port is an open serial line to the modem.
type Port struct {
	port   serial.Port
	name   string
	mu     sync.Mutex
	closed bool
}

var _ wifi.Transport = (*Port)(nil)

// defaultReadTimeout returns the platform read timeout. Windows serial
// drivers need a longer window than Linux and macOS.
func defaultReadTimeout() time.Duration {
	if runtime.GOOS == "windows" {
		return 100 * time.Millisecond
	}
	return 50 * time.Millisecond
}

// Open opens the serial port name. Parity and stop bits default to the
// zero values of go.bug.st/serial, which are none and one.
func Open(name string, cfg Config) (*Port, error) {
	cfg.setDefaults()

	port, err := openPort(name, &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		Parity:   cfg.Parity,
		StopBits: cfg.StopBits,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open UART port %s: %w", name, err)
	}

	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set UART read timeout: %w", err)
	}

	wifi.Debugf("uart: opened %s at %d baud", name, cfg.BaudRate)
	return &Port{port: port, name: name}, nil
}

// Name returns the port path.
func (p *Port) Name() string {
	return p.name
}

// Read reads whatever is available, returning 0 bytes with a nil error
// when the read timeout expires first.
func (p *Port) Read(buf []byte) (int, error) {
	port, err := p.get()
	if err != nil {
		return 0, err
	}
	n, err := port.Read(buf)
	if err != nil {
		return n, fmt.Errorf("UART read failed: %w", err)
	}
	return n, nil
}

// Write writes buf and waits until it has been transmitted.
func (p *Port) Write(buf []byte) (int, error) {
	port, err := p.get()
	if err != nil {
		return 0, err
	}
	n, err := port.Write(buf)
	if err != nil {
		return n, fmt.Errorf("UART write failed: %w", err)
	}
	if n != len(buf) {
		return n, fmt.Errorf("UART short write on %s: %d of %d bytes", p.name, n, len(buf))
	}
	return n, p.drainWithRetry(port, "write")
}

// SetReadTimeout changes the read timeout.
func (p *Port) SetReadTimeout(timeout time.Duration) error {
	port, err := p.get()
	if err != nil {
		return err
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		return fmt.Errorf("UART set timeout failed: %w", err)
	}
	return nil
}

// ResetBuffers discards unread input and unsent output.
func (p *Port) ResetBuffers() error {
	port, err := p.get()
	if err != nil {
		return err
	}
	if err := port.ResetInputBuffer(); err != nil {
		return fmt.Errorf("UART input reset failed: %w", err)
	}
	if err := port.ResetOutputBuffer(); err != nil {
		return fmt.Errorf("UART output reset failed: %w", err)
	}
	return nil
}

// Close closes the port. Closing twice is a no-op.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.port.Close(); err != nil {
		return fmt.Errorf("UART close failed: %w", err)
	}
	wifi.Debugf("uart: closed %s", p.name)
	return nil
}

func (p *Port) get() (serial.Port, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, fmt.Errorf("%s: %w", p.name, ErrPortClosed)
	}
	return p.port, nil
}

// isInterruptedSystemCall checks if an error is caused by an interrupted system call
func isInterruptedSystemCall(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "interrupted system call") ||
		strings.Contains(errStr, "eintr")
}

// drainWithRetry drains the port, retrying interrupted system calls.
func (p *Port) drainWithRetry(port serial.Port, operation string) error {
	const maxRetries = 3
	baseDelay := 2 * time.Millisecond

	for attempt := range maxRetries {
		err := port.Drain()
		if err == nil {
			return nil
		}
		if isInterruptedSystemCall(err) && attempt < maxRetries-1 {
			time.Sleep(baseDelay * time.Duration(1<<attempt)) // 2ms, 4ms
			continue
		}
		return fmt.Errorf("UART %s drain on %s failed: %w", operation, p.name, err)
	}
	return fmt.Errorf("UART %s drain failed after %d retries", operation, maxRetries)
}
