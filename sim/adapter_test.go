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
	"testing"

	"github.com/ZaparooProject/go-wifi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	a := New()
	assert.Equal(t, wifi.LinkCount, a.LinkCount())
	assert.False(t, a.IsInit())
	assert.False(t, a.IsNetworkConnected())
	assert.NotNil(t, a.Interrupts())
}

func TestNew_LinkCountOption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		count int
		want  int
	}{
		{name: "Single_Link", count: 1, want: 1},
		{name: "Eight_Links", count: 8, want: 8},
		{name: "Zero_Ignored", count: 0, want: wifi.LinkCount},
		{name: "Negative_Ignored", count: -3, want: wifi.LinkCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, New(WithLinkCount(tt.count)).LinkCount())
		})
	}
}

func TestAdapter_Init(t *testing.T) {
	t.Parallel()

	t.Run("Happy_Case", func(t *testing.T) {
		t.Parallel()
		a := New()
		assert.False(t, a.IsInit())
		assert.True(t, a.Init())
		assert.True(t, a.IsInit())
	})

	t.Run("Programmed_Failure", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.SetInitFailure()
		assert.False(t, a.Init())
		assert.False(t, a.IsInit())
		assert.Equal(t, uint64(1), a.Stats().InitFailures)
	})

	t.Run("Duplicate_Init", func(t *testing.T) {
		t.Parallel()
		a := New()
		require.True(t, a.Init())
		requireViolation(t, "already initialized", func() { a.Init() })
	})

	t.Run("Duplicate_Init_Ignores_Failure_Flag", func(t *testing.T) {
		t.Parallel()
		a := New()
		require.True(t, a.Init())
		a.SetInitFailure()
		requireViolation(t, "already initialized", func() { a.Init() })
		assert.True(t, a.IsInit())
	})
}

func TestAdapter_Deinit(t *testing.T) {
	t.Parallel()

	t.Run("Happy_Case", func(t *testing.T) {
		t.Parallel()
		a := New()
		require.True(t, a.Init())
		a.Deinit()
		assert.False(t, a.IsInit())
	})

	t.Run("Not_Initialized", func(t *testing.T) {
		t.Parallel()
		requireViolation(t, "not initialized", func() { New().Deinit() })
	})

	t.Run("Reinit_After_Deinit", func(t *testing.T) {
		t.Parallel()
		a := New()
		require.True(t, a.Init())
		a.Deinit()
		assert.True(t, a.Init())
	})
}

func TestAdapter_GetVersion(t *testing.T) {
	t.Parallel()

	t.Run("Happy_Case", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.SetVersion(0x12345678, 0x13579BDF)
		require.True(t, a.Init())

		v, ok := a.GetVersion()
		require.True(t, ok)
		assert.Equal(t, wifi.Version{AT: 0x12345678, SDK: 0x13579BDF}, v)
	})

	t.Run("Last_Programmed_Wins", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.SetVersion(1, 2)
		a.SetVersion(3, 4)
		require.True(t, a.Init())

		v, ok := a.GetVersion()
		require.True(t, ok)
		assert.Equal(t, wifi.Version{AT: 3, SDK: 4}, v)
	})

	t.Run("Not_Initialized", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.SetVersion(0x12345678, 0x13579BDF)
		requireViolation(t, "GetVersion", func() { a.GetVersion() })
	})

	t.Run("Not_Set", func(t *testing.T) {
		t.Parallel()
		a := New()
		require.True(t, a.Init())
		v, ok := a.GetVersion()
		assert.False(t, ok)
		assert.Equal(t, wifi.Version{}, v)
	})
}

func TestAdapter_NetworkConnect(t *testing.T) {
	t.Parallel()

	t.Run("Happy_Case", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.SetNetwork(testSSID, testPassword)
		require.True(t, a.Init())

		assert.False(t, a.IsNetworkConnected())
		assert.True(t, a.NetworkConnect(testSSID, testPassword))
		assert.True(t, a.IsNetworkConnected())
	})

	t.Run("Not_Initialized", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.SetNetwork(testSSID, testPassword)
		requireViolation(t, "not initialized", func() { a.NetworkConnect(testSSID, testPassword) })
	})

	t.Run("Not_Set", func(t *testing.T) {
		t.Parallel()
		a := New()
		require.True(t, a.Init())
		assert.False(t, a.NetworkConnect(testSSID, testPassword))
		assert.False(t, a.IsNetworkConnected())
		assert.Equal(t, uint64(1), a.Stats().NetworkRejects)
	})

	t.Run("Wrong_SSID", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.SetNetwork(testSSID, testPassword)
		require.True(t, a.Init())
		requireViolation(t, "ssid", func() { a.NetworkConnect("test-ssid-wrong", testPassword) })
		assert.False(t, a.IsNetworkConnected())
	})

	t.Run("Wrong_Password", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.SetNetwork(testSSID, testPassword)
		require.True(t, a.Init())
		requireViolation(t, "password", func() { a.NetworkConnect(testSSID, "test-password-wrong") })
	})

	t.Run("Already_Connected", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.SetNetwork(testSSID, testPassword)
		require.True(t, a.Init())
		require.True(t, a.NetworkConnect(testSSID, testPassword))
		requireViolation(t, "already connected", func() { a.NetworkConnect(testSSID, testPassword) })
	})

	t.Run("Deinit_Drops_Network", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.SetNetwork(testSSID, testPassword)
		require.True(t, a.Init())
		require.True(t, a.NetworkConnect(testSSID, testPassword))
		a.Deinit()
		assert.False(t, a.IsNetworkConnected())
	})
}

func TestAdapter_NetworkDisconnect(t *testing.T) {
	t.Parallel()

	t.Run("Happy_Case", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.SetNetwork(testSSID, testPassword)
		require.True(t, a.Init())
		require.True(t, a.NetworkConnect(testSSID, testPassword))
		a.NetworkDisconnect()
		assert.False(t, a.IsNetworkConnected())
		assert.True(t, a.IsInit())
	})

	t.Run("Not_Connected", func(t *testing.T) {
		t.Parallel()
		a := New()
		require.True(t, a.Init())
		requireViolation(t, "network not connected", a.NetworkDisconnect)
	})

	t.Run("Not_Initialized", func(t *testing.T) {
		t.Parallel()
		requireViolation(t, "network not connected", New().NetworkDisconnect)
	})

	t.Run("Rejoin_After_Disconnect", func(t *testing.T) {
		t.Parallel()
		a := New()
		a.SetNetwork(testSSID, testPassword)
		require.True(t, a.Init())
		require.True(t, a.NetworkConnect(testSSID, testPassword))
		a.NetworkDisconnect()
		assert.True(t, a.NetworkConnect(testSSID, testPassword))
	})
}

func TestAdapter_ViolationsAreCounted(t *testing.T) {
	t.Parallel()

	a := New()
	requireViolation(t, "", a.Deinit)
	requireViolation(t, "", func() { a.GetVersion() })
	assert.Equal(t, uint64(2), a.Stats().Violations)
}

func TestAdapter_IndependentInstances(t *testing.T) {
	t.Parallel()

	first := New()
	second := New()
	require.True(t, first.Init())
	assert.False(t, second.IsInit())
	assert.True(t, second.Init())
}
