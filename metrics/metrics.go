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

// Package metrics exports simulator statistics to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ZaparooProject/go-wifi/scenario"
	"github.com/ZaparooProject/go-wifi/sim"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wifi_sim"

// StatsSource provides statistics snapshots. *sim.Adapter implements it.
type StatsSource interface {
	Stats() sim.Stats
}

var (
	linkConnectsDesc = prometheus.NewDesc(namespace+"_link_connects_total",
		"Accepted server connects per link.", []string{"link"}, nil)
	linkConnectRejectsDesc = prometheus.NewDesc(namespace+"_link_connect_rejects_total",
		"Server connects refused because no endpoint was programmed.", []string{"link"}, nil)
	linkTransmitsDesc = prometheus.NewDesc(namespace+"_link_transmits_total",
		"Accepted transmits per link.", []string{"link"}, nil)
	linkTransmitBytesDesc = prometheus.NewDesc(namespace+"_link_transmit_bytes_total",
		"Bytes accepted by transmit per link.", []string{"link"}, nil)
	linkTransmitRejectsDesc = prometheus.NewDesc(namespace+"_link_transmit_rejects_total",
		"Transmits refused because nothing was expected.", []string{"link"}, nil)
	linkReceivedBytesDesc = prometheus.NewDesc(namespace+"_link_received_bytes_total",
		"Bytes delivered to the receive handler per link.", []string{"link"}, nil)
	linkExpectedDesc = prometheus.NewDesc(namespace+"_link_expected_bytes",
		"Expected transmit bytes not yet consumed.", []string{"link"}, nil)
	linkConnectedDesc = prometheus.NewDesc(namespace+"_link_connected",
		"Whether the link is connected (1) or not (0).", []string{"link"}, nil)

	activeDesc = prometheus.NewDesc(namespace+"_adapter_active",
		"Whether the adapter is initialized.", nil, nil)
	networkDesc = prometheus.NewDesc(namespace+"_network_connected",
		"Whether a network is joined.", nil, nil)
	initFailuresDesc = prometheus.NewDesc(namespace+"_init_failures_total",
		"Init calls that failed as programmed.", nil, nil)
	networkJoinsDesc = prometheus.NewDesc(namespace+"_network_joins_total",
		"Successful network joins.", nil, nil)
	networkRejectsDesc = prometheus.NewDesc(namespace+"_network_rejects_total",
		"Network joins refused because no credentials were programmed.", nil, nil)
	violationsDesc = prometheus.NewDesc(namespace+"_contract_violations_total",
		"Contract violations raised by the adapter.", nil, nil)
	pendingDesc = prometheus.NewDesc(namespace+"_pending_interrupts",
		"Receive events scheduled but not yet dispatched.", nil, nil)
)

// Collector reads a StatsSource on every scrape.
type Collector struct {
	source StatsSource
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector over source.
func NewCollector(source StatsSource) *Collector {
	return &Collector{source: source}
}

// Describe implements prometheus.Collector.
func (*Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		linkConnectsDesc, linkConnectRejectsDesc, linkTransmitsDesc, linkTransmitBytesDesc,
		linkTransmitRejectsDesc, linkReceivedBytesDesc, linkExpectedDesc, linkConnectedDesc,
		activeDesc, networkDesc, initFailuresDesc, networkJoinsDesc, networkRejectsDesc,
		violationsDesc, pendingDesc,
	} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()

	for i, l := range s.Links {
		link := strconv.Itoa(i)
		counter := func(d *prometheus.Desc, v uint64) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), link)
		}
		counter(linkConnectsDesc, l.Connects)
		counter(linkConnectRejectsDesc, l.ConnectRejects)
		counter(linkTransmitsDesc, l.Transmits)
		counter(linkTransmitBytesDesc, l.TransmitBytes)
		counter(linkTransmitRejectsDesc, l.TransmitRejects)
		counter(linkReceivedBytesDesc, l.ReceivedBytes)
		ch <- prometheus.MustNewConstMetric(linkExpectedDesc, prometheus.GaugeValue,
			float64(l.ExpectedRemaining), link)
		ch <- prometheus.MustNewConstMetric(linkConnectedDesc, prometheus.GaugeValue,
			boolValue(l.Connected), link)
	}

	ch <- prometheus.MustNewConstMetric(activeDesc, prometheus.GaugeValue, boolValue(s.Active))
	ch <- prometheus.MustNewConstMetric(networkDesc, prometheus.GaugeValue, boolValue(s.NetworkConnected))
	ch <- prometheus.MustNewConstMetric(initFailuresDesc, prometheus.CounterValue, float64(s.InitFailures))
	ch <- prometheus.MustNewConstMetric(networkJoinsDesc, prometheus.CounterValue, float64(s.NetworkJoins))
	ch <- prometheus.MustNewConstMetric(networkRejectsDesc, prometheus.CounterValue, float64(s.NetworkRejects))
	ch <- prometheus.MustNewConstMetric(violationsDesc, prometheus.CounterValue, float64(s.Violations))
	ch <- prometheus.MustNewConstMetric(pendingDesc, prometheus.GaugeValue, float64(s.PendingInterrupts))
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Exporter bundles the simulator collector with the scenario run counters
// and serves them over HTTP.
type Exporter struct {
	gatherer prometheus.Gatherer

	ScenarioRuns  *prometheus.CounterVec
	ScenarioSteps *prometheus.CounterVec
}

// Register registers a collector over source and the scenario counters
// against reg, defaulting to the global Prometheus registry when nil.
func Register(reg prometheus.Registerer, source StatsSource) (*Exporter, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	if err := reg.Register(NewCollector(source)); err != nil {
		return nil, fmt.Errorf("failed to register simulator collector: %w", err)
	}

	runs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scenario_runs_total",
		Help:      "Scenario runs, labeled by scenario name and result.",
	}, []string{"scenario", "result"}))
	if err != nil {
		return nil, err
	}
	steps, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scenario_steps_total",
		Help:      "Executed scenario steps, labeled by operation and outcome.",
	}, []string{"op", "outcome"}))
	if err != nil {
		return nil, err
	}

	return &Exporter{gatherer: gatherer, ScenarioRuns: runs, ScenarioSteps: steps}, nil
}

// ObserveReport records a finished scenario run with its step outcomes.
func (e *Exporter) ObserveReport(r *scenario.Report) {
	if e == nil || r == nil {
		return
	}
	result := "fail"
	if r.Passed() {
		result = "pass"
	}
	e.ScenarioRuns.WithLabelValues(r.Name, result).Inc()
	for _, res := range r.Results {
		e.ScenarioSteps.WithLabelValues(string(res.Op), string(res.Outcome)).Inc()
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("failed to register counter: %w", err)
	}
	return vec, nil
}
