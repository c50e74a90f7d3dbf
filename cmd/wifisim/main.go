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

// Command wifisim replays scenario files against the modem simulator and
// offers a few helpers for attached hardware.
//
//	wifisim [flags] scenario.yaml...
//	wifisim --list-ports
//	wifisim --port /dev/ttyUSB0 --enable-pin GPIO17 --reset-pin GPIO27
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	wifi "github.com/ZaparooProject/go-wifi"
	"github.com/ZaparooProject/go-wifi/detection"
	_ "github.com/ZaparooProject/go-wifi/detection/uart"
	"github.com/ZaparooProject/go-wifi/metrics"
	"github.com/ZaparooProject/go-wifi/receiver"
	"github.com/ZaparooProject/go-wifi/scenario"
	"github.com/ZaparooProject/go-wifi/sim"
	"github.com/ZaparooProject/go-wifi/task"
	"github.com/ZaparooProject/go-wifi/transport/gpio"
	"github.com/ZaparooProject/go-wifi/transport/uart"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
)

type config struct {
	scenarios   []string
	metricsAddr string
	logDir      string
	port        string
	enablePin   string
	resetPin    string
	links       int
	baud        int
	debug       bool
	listPorts   bool
	dispatcher  bool
}

var errUsage = errors.New("nothing to do")

func parseConfig(args []string, output io.Writer) (*config, error) {
	cfg := &config{}
	fs := pflag.NewFlagSet("wifisim", pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringSliceVarP(&cfg.scenarios, "scenario", "s", nil, "Scenario file to run (repeatable, positional arguments also accepted)")
	fs.IntVar(&cfg.links, "links", wifi.LinkCount, "Number of simulated links")
	fs.BoolVar(&cfg.dispatcher, "dispatcher", false, "Deliver receive events from a background dispatcher")
	fs.StringVar(&cfg.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address and keep running")
	fs.BoolVarP(&cfg.debug, "debug", "d", false, "Enable debug output")
	fs.StringVar(&cfg.logDir, "log-dir", "", "Write a rotated session log into this directory")
	fs.BoolVarP(&cfg.listPorts, "list-ports", "l", false, "List serial ports that may carry a modem")
	fs.StringVarP(&cfg.port, "port", "p", "", "Serial port of a physical modem to open and flush")
	fs.IntVar(&cfg.baud, "baud", uart.DefaultBaudRate, "Serial baud rate")
	fs.StringVar(&cfg.enablePin, "enable-pin", "", "GPIO driving the module enable line")
	fs.StringVar(&cfg.resetPin, "reset-pin", "", "GPIO driving the module reset line")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(output, "Usage: wifisim [flags] [scenario.yaml...]\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err //nolint:wrapcheck // pflag already explains the problem
	}
	cfg.scenarios = append(cfg.scenarios, fs.Args()...)

	if cfg.links < 1 {
		return nil, fmt.Errorf("--links must be at least 1, got %d", cfg.links)
	}
	if len(cfg.scenarios) == 0 && !cfg.listPorts && cfg.port == "" &&
		cfg.enablePin == "" && cfg.resetPin == "" && cfg.metricsAddr == "" {
		fs.Usage()
		return nil, errUsage
	}
	return cfg, nil
}

// simulator bundles the adapter with its receive side.
type simulator struct {
	adapter  *sim.Adapter
	receiver *receiver.Receiver
}

func newSimulator(links int) *simulator {
	rcv := receiver.New(links, task.NewRegistry())
	return &simulator{
		adapter:  sim.New(sim.WithLinkCount(links), sim.WithReceiveHandler(rcv)),
		receiver: rcv,
	}
}

// runScenarios runs every file and reports whether all passed.
func runScenarios(ctx context.Context, s *simulator, exp *metrics.Exporter, files []string, out io.Writer) bool {
	passed := true
	for _, file := range files {
		sc, err := scenario.LoadFile(file)
		if err != nil {
			_, _ = fmt.Fprintf(out, "ERROR %v\n", err)
			passed = false
			continue
		}

		report, err := sc.Run(ctx, s.adapter, s.receiver)
		if report != nil {
			for _, res := range report.Results {
				_, _ = fmt.Fprintf(out, "  %s\n", res)
			}
			for link, n := range report.Unconsumed {
				_, _ = fmt.Fprintf(out, "  FAIL link %d: %d expected bytes never transmitted\n", link, n)
			}
			exp.ObserveReport(report)
		}
		if err != nil {
			_, _ = fmt.Fprintf(out, "FAIL %s: %v\n", sc.Name, err)
			passed = false
			continue
		}
		_, _ = fmt.Fprintf(out, "PASS %s (%d steps)\n", sc.Name, len(report.Results))
	}
	return passed
}

func listPorts(ctx context.Context, out io.Writer) error {
	opts := detection.DefaultOptions()
	opts.MinConfidence = detection.Low
	candidates, err := detection.Detect(ctx, &opts)
	if errors.Is(err, detection.ErrNoDevicesFound) {
		_, _ = fmt.Fprintln(out, "No serial ports found.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to list ports: %w", err)
	}
	for _, c := range candidates {
		_, _ = fmt.Fprintln(out, c)
	}
	return nil
}

func prepareHardware(ctx context.Context, cfg *config, out io.Writer) error {
	if cfg.enablePin != "" || cfg.resetPin != "" {
		pc, err := gpio.Open(gpio.Config{EnablePin: cfg.enablePin, ResetPin: cfg.resetPin})
		if err != nil {
			return fmt.Errorf("failed to open control pins: %w", err)
		}
		if cfg.enablePin != "" {
			if err := pc.PowerOn(); err != nil {
				return fmt.Errorf("failed to power on module: %w", err)
			}
		}
		if cfg.resetPin != "" {
			if err := pc.Reset(ctx); err != nil {
				return fmt.Errorf("failed to reset module: %w", err)
			}
		}
		_, _ = fmt.Fprintln(out, "Module powered and reset.")
	}

	if cfg.port != "" {
		port, err := uart.Open(cfg.port, uart.Config{BaudRate: cfg.baud})
		if err != nil {
			return fmt.Errorf("failed to open modem port: %w", err)
		}
		defer func() { _ = port.Close() }()
		if err := port.ResetBuffers(); err != nil {
			return fmt.Errorf("failed to flush modem port: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Opened %s at %d baud.\n", port.Name(), cfg.baud)
	}
	return nil
}

func serveMetrics(ctx context.Context, addr string, handler http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	log.Info("serving metrics", "addr", lis.Addr().String())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server failed: %w", err)
	}
	return nil
}

func run(ctx context.Context, cfg *config, out io.Writer) error {
	if cfg.debug {
		wifi.SetDebugEnabled(true)
	}
	if cfg.logDir != "" {
		path, err := wifi.InitSessionLog(cfg.logDir)
		if err != nil {
			return fmt.Errorf("failed to open session log: %w", err)
		}
		defer func() { _ = wifi.CloseSessionLog() }()
		_, _ = fmt.Fprintf(out, "Session log: %s\n", path)
	}

	if cfg.listPorts {
		if err := listPorts(ctx, out); err != nil {
			return err
		}
	}
	if err := prepareHardware(ctx, cfg, out); err != nil {
		return err
	}

	s := newSimulator(cfg.links)
	var exp *metrics.Exporter
	if cfg.metricsAddr != "" {
		var err error
		if exp, err = metrics.Register(prometheus.NewRegistry(), s.adapter); err != nil {
			return fmt.Errorf("failed to set up metrics: %w", err)
		}
	}

	if cfg.dispatcher {
		dispatchCtx, stop := context.WithCancel(ctx)
		defer stop()
		go func() {
			for dispatchCtx.Err() == nil {
				err := s.adapter.Interrupts().Run(dispatchCtx)
				if err != nil && !errors.Is(err, context.Canceled) {
					// the scenario runner reports the failing step
					wifi.Debugf("dispatcher stopped: %v", err)
				}
			}
		}()
	}

	var scenarioErr error
	if len(cfg.scenarios) > 0 && !runScenarios(ctx, s, exp, cfg.scenarios, out) {
		scenarioErr = errors.New("one or more scenarios failed")
	}

	if exp != nil {
		if err := serveMetrics(ctx, cfg.metricsAddr, exp.Handler()); err != nil {
			return err
		}
	}
	return scenarioErr
}

func main() {
	os.Exit(mainWithExitCode(os.Args[1:]))
}

func mainWithExitCode(args []string) int {
	cfg, err := parseConfig(args, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		if !errors.Is(err, errUsage) {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		_, _ = fmt.Print("\nShutting down gracefully...\n")
		cancel()
	}()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		log.Error("wifisim failed", "err", err)
		return 1
	}
	return 0
}
