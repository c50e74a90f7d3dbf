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

package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	wifi "github.com/ZaparooProject/go-wifi"
	"github.com/ZaparooProject/go-wifi/scenario"
	"github.com/ZaparooProject/go-wifi/sim"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectedAdapter(t *testing.T) *sim.Adapter {
	t.Helper()
	a := sim.New(sim.WithLinkCount(2))
	a.SetNetwork("net", "pw")
	a.SetServer(1, "h", "s")
	a.QueueExpectedTransmit(1, []byte("abcdef"))
	require.True(t, a.Init())
	require.True(t, a.NetworkConnect("net", "pw"))
	require.True(t, a.ServerConnect(1, "h", "s"))
	require.True(t, a.Transmit(1, []byte("abc")))
	return a
}

func TestCollector_ExportsStats(t *testing.T) {
	t.Parallel()

	a := connectedAdapter(t)
	_ = wifi.Recover(func() { a.ServerDisconnect(0) })
	c := NewCollector(a)

	expected := `
# HELP wifi_sim_link_transmit_bytes_total Bytes accepted by transmit per link.
# TYPE wifi_sim_link_transmit_bytes_total counter
wifi_sim_link_transmit_bytes_total{link="0"} 0
wifi_sim_link_transmit_bytes_total{link="1"} 3
# HELP wifi_sim_link_expected_bytes Expected transmit bytes not yet consumed.
# TYPE wifi_sim_link_expected_bytes gauge
wifi_sim_link_expected_bytes{link="0"} 0
wifi_sim_link_expected_bytes{link="1"} 3
# HELP wifi_sim_contract_violations_total Contract violations raised by the adapter.
# TYPE wifi_sim_contract_violations_total counter
wifi_sim_contract_violations_total 1
# HELP wifi_sim_network_connected Whether a network is joined.
# TYPE wifi_sim_network_connected gauge
wifi_sim_network_connected 1
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"wifi_sim_link_transmit_bytes_total",
		"wifi_sim_link_expected_bytes",
		"wifi_sim_contract_violations_total",
		"wifi_sim_network_connected",
	)
	require.NoError(t, err)

	// 8 per-link series for each of 2 links plus 7 adapter series.
	assert.Equal(t, 23, testutil.CollectAndCount(c))
}

func TestCollector_TracksLiveState(t *testing.T) {
	t.Parallel()

	a := connectedAdapter(t)
	c := NewCollector(a)
	assert.Equal(t, 1, testutil.CollectAndCount(c, "wifi_sim_adapter_active"))

	a.NetworkDisconnect()
	expected := `
# HELP wifi_sim_link_connected Whether the link is connected (1) or not (0).
# TYPE wifi_sim_link_connected gauge
wifi_sim_link_connected{link="0"} 0
wifi_sim_link_connected{link="1"} 0
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "wifi_sim_link_connected"))
}

func TestRegister_ScenarioCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := sim.New()
	e, err := Register(reg, a)
	require.NoError(t, err)

	s, err := scenario.Load(strings.NewReader("steps:\n  - op: init\n  - op: deinit\n"))
	require.NoError(t, err)
	report, err := s.Run(context.Background(), a, nil)
	require.NoError(t, err)
	report.Name = "lifecycle"

	e.ObserveReport(report)
	e.ObserveReport(nil)

	assert.InDelta(t, 1, testutil.ToFloat64(e.ScenarioRuns.WithLabelValues("lifecycle", "pass")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(e.ScenarioSteps.WithLabelValues("init", "true")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(e.ScenarioSteps.WithLabelValues("deinit", "ok")), 0)
}

func TestRegister_Duplicate(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := Register(reg, sim.New())
	require.NoError(t, err)

	_, err = Register(reg, sim.New())
	require.Error(t, err, "a second simulator collector conflicts with the first")
}

func TestExporter_Handler(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	e, err := Register(reg, connectedAdapter(t))
	require.NoError(t, err)

	srv := httptest.NewServer(e.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL) //nolint:noctx // test server
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `wifi_sim_link_transmit_bytes_total{link="1"} 3`)
}
