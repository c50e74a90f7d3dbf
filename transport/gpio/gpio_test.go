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

package gpio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// recordingPin remembers every level driven on it.
type recordingPin struct {
	gpiotest.Pin
	levels []gpio.Level
}

func (p *recordingPin) Out(l gpio.Level) error {
	p.levels = append(p.levels, l)
	return p.Pin.Out(l)
}

func newPins() (*recordingPin, *recordingPin) {
	return &recordingPin{Pin: gpiotest.Pin{N: "EN", Num: 1}},
		&recordingPin{Pin: gpiotest.Pin{N: "RST", Num: 2, L: gpio.High}}
}

func TestPowerControl_PowerOnOff(t *testing.T) {
	t.Parallel()

	enable, reset := newPins()
	pc := New(enable, reset)

	require.NoError(t, pc.PowerOn())
	assert.Equal(t, gpio.High, enable.Read())
	require.NoError(t, pc.PowerOff())
	assert.Equal(t, gpio.Low, enable.Read())
	assert.Empty(t, reset.levels)
}

func TestPowerControl_ResetPulse(t *testing.T) {
	t.Parallel()

	enable, reset := newPins()
	pc := New(enable, reset)
	pc.resetWidth = time.Millisecond
	pc.bootDelay = time.Millisecond

	require.NoError(t, pc.Reset(context.Background()))
	assert.Equal(t, []gpio.Level{gpio.Low, gpio.High}, reset.levels)
	assert.Equal(t, gpio.High, reset.Read())
}

func TestPowerControl_ResetReleasesOnCancel(t *testing.T) {
	t.Parallel()

	_, reset := newPins()
	pc := New(nil, reset)
	pc.resetWidth = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := pc.Reset(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, gpio.High, reset.Read(), "reset is released after cancellation")
}

func TestPowerControl_MissingPins(t *testing.T) {
	t.Parallel()

	pc := New(nil, nil)
	require.ErrorIs(t, pc.PowerOn(), ErrNoPin)
	require.ErrorIs(t, pc.PowerOff(), ErrNoPin)
	require.ErrorIs(t, pc.Reset(context.Background()), ErrNoPin)
}

type failingPin struct {
	gpiotest.Pin
}

func (*failingPin) Out(gpio.Level) error {
	return errors.New("permission denied")
}

func TestPowerControl_DriveError(t *testing.T) {
	t.Parallel()

	pc := New(&failingPin{Pin: gpiotest.Pin{N: "EN"}}, nil)
	err := pc.PowerOn()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EN")
}

//nolint:paralleltest // swaps the host initializer and uses the global pin registry
func TestOpen(t *testing.T) {
	prev := hostInit
	hostInit = func() error { return nil }
	t.Cleanup(func() { hostInit = prev })

	enable := &gpiotest.Pin{N: "WIFI_TEST_EN", Num: 901}
	reset := &gpiotest.Pin{N: "WIFI_TEST_RST", Num: 902}
	require.NoError(t, gpioreg.Register(enable))
	require.NoError(t, gpioreg.Register(reset))
	t.Cleanup(func() {
		_ = gpioreg.Unregister(enable.Name())
		_ = gpioreg.Unregister(reset.Name())
	})

	pc, err := Open(Config{EnablePin: "WIFI_TEST_EN", ResetPin: "WIFI_TEST_RST", BootDelay: time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, pc.PowerOn())
	assert.Equal(t, gpio.High, enable.Read())
	assert.Equal(t, time.Millisecond, pc.bootDelay)
	assert.Equal(t, DefaultResetWidth, pc.resetWidth)

	_, err = Open(Config{EnablePin: "WIFI_TEST_MISSING"})
	require.ErrorIs(t, err, ErrPinUnknown)

	hostInit = func() error { return errors.New("no drivers") }
	_, err = Open(Config{})
	require.Error(t, err)
}
