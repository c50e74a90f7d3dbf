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
	"errors"
	"testing"

	"github.com/ZaparooProject/go-wifi"
	"github.com/ZaparooProject/go-wifi/internal/syncutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSSID     = "test-ssid"
	testPassword = "test-password"
	testHost     = "test-server"
	testService  = "test-service"
)

// requireViolation runs fn and requires it to raise a contract violation
// whose message contains substr.
func requireViolation(t *testing.T, substr string, fn func()) {
	t.Helper()

	err := wifi.Recover(fn)
	require.Error(t, err, "expected a contract violation")
	var ce *wifi.ContractError
	require.True(t, errors.As(err, &ce), "expected *wifi.ContractError, got %T", err)
	if substr != "" {
		assert.Contains(t, ce.Error(), substr)
	}
}

// newConnectedAdapter returns an adapter with link 0 connected to the test
// server and the given bytes queued for transmit.
func newConnectedAdapter(t *testing.T, expected string, opts ...Option) *Adapter {
	t.Helper()

	a := New(opts...)
	a.SetNetwork(testSSID, testPassword)
	a.SetServer(0, testHost, testService)
	if expected != "" {
		a.QueueExpectedTransmit(0, []byte(expected))
	}
	require.True(t, a.Init())
	require.True(t, a.NetworkConnect(testSSID, testPassword))
	require.True(t, a.ServerConnect(0, testHost, testService))
	return a
}

// recorder collects received bytes per link.
type recorder struct {
	data map[wifi.LinkID][]byte
	mu   syncutil.Mutex
}

func newRecorder() *recorder {
	return &recorder{data: make(map[wifi.LinkID][]byte)}
}

func (r *recorder) OnReceive(link wifi.LinkID, b byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[link] = append(r.data[link], b)
}

func (r *recorder) get(link wifi.LinkID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return string(r.data[link])
}
