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

package scenario

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	wifi "github.com/ZaparooProject/go-wifi"
	"github.com/ZaparooProject/go-wifi/receiver"
	"github.com/ZaparooProject/go-wifi/sim"
)

// DefaultReceiveTimeout bounds a receive step without an explicit timeout.
const DefaultReceiveTimeout = time.Second

// Outcome is what a step actually did.
type Outcome string

const (
	OutcomeTrue      Outcome = "true"
	OutcomeFalse     Outcome = "false"
	OutcomeOK        Outcome = "ok"
	OutcomeViolation Outcome = "violation"
	OutcomeMismatch  Outcome = "mismatch"
	OutcomeTimeout   Outcome = "timeout"
)

// Result records one executed step.
type Result struct {
	Err      error
	Op       Op
	Expect   Expect
	Outcome  Outcome
	Detail   string
	Index    int
	Link     int
	Duration time.Duration
	Passed   bool
}

func (r Result) String() string {
	status := "PASS"
	if !r.Passed {
		status = "FAIL"
	}
	s := fmt.Sprintf("%s step %d %s", status, r.Index, r.Op)
	if r.Op.usesLink() {
		s += fmt.Sprintf(" link %d", r.Link)
	}
	s += fmt.Sprintf(": %s", r.Outcome)
	if r.Detail != "" {
		s += " (" + r.Detail + ")"
	}
	return s
}

// Report collects the results of a run.
type Report struct {
	Unconsumed map[wifi.LinkID]int
	Name       string
	Results    []Result
	Stats      sim.Stats
}

// Passed reports whether every step passed and, when required, every
// expected transmit byte was consumed.
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return len(r.Unconsumed) == 0
}

// Failures returns the failed steps.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// Run applies the scenario to a and executes its steps, stopping at the
// first failing step. rcv must be the receive handler of a; it may be nil
// for scenarios without receive steps. The returned error wraps
// ErrStepFailed when a step did not produce its expected outcome.
func (s *Scenario) Run(ctx context.Context, a *sim.Adapter, rcv *receiver.Receiver) (*Report, error) {
	if err := s.Apply(a); err != nil {
		return nil, err
	}
	if rcv != nil {
		rcv.Reset()
	}

	report := &Report{Name: s.Name}
	for i := range s.Steps {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("scenario %q interrupted: %w", s.Name, err)
		}

		st := &s.Steps[i]
		start := time.Now()
		res := runStep(ctx, a, rcv, st)
		res.Index = i
		res.Op = st.Op
		res.Link = st.Link
		res.Expect = st.Expect
		res.Duration = time.Since(start)
		res.Passed = res.Err == nil && matches(st, res.Outcome)
		report.Results = append(report.Results, res)

		wifi.Debugf("scenario %q: %s", s.Name, res)
		if !res.Passed {
			report.Stats = a.Stats()
			return report, fmt.Errorf("scenario %q step %d: %w", s.Name, i, ErrStepFailed)
		}
	}

	report.Stats = a.Stats()
	if s.RequireConsumed {
		for id, ls := range report.Stats.Links {
			if ls.ExpectedRemaining > 0 {
				if report.Unconsumed == nil {
					report.Unconsumed = make(map[wifi.LinkID]int)
				}
				report.Unconsumed[wifi.LinkID(id)] = ls.ExpectedRemaining
			}
		}
		if len(report.Unconsumed) > 0 {
			return report, fmt.Errorf("scenario %q: expected transmit bytes left on %d links: %w",
				s.Name, len(report.Unconsumed), ErrStepFailed)
		}
	}
	return report, nil
}

func matches(st *Step, got Outcome) bool {
	switch st.Expect {
	case ExpectViolation:
		return got == OutcomeViolation
	case ExpectFalse:
		return got == OutcomeFalse
	case ExpectTrue:
		return got == OutcomeTrue || got == OutcomeOK
	default:
		if st.Op.returnsBool() {
			return got == OutcomeTrue
		}
		return got == OutcomeOK
	}
}

func boolOutcome(ok bool) Outcome {
	if ok {
		return OutcomeTrue
	}
	return OutcomeFalse
}

func runStep(ctx context.Context, a *sim.Adapter, rcv *receiver.Receiver, st *Step) Result {
	if st.Op == OpReceive {
		return receive(ctx, a, rcv, st)
	}

	var res Result
	link := wifi.LinkID(st.Link)
	err := wifi.Recover(func() {
		switch st.Op {
		case OpInit:
			res.Outcome = boolOutcome(a.Init())
		case OpDeinit:
			a.Deinit()
			res.Outcome = OutcomeOK
		case OpVersion:
			v, ok := a.GetVersion()
			res.Outcome = boolOutcome(ok)
			if ok {
				res.Detail = fmt.Sprintf("at=%d sdk=%d", v.AT, v.SDK)
				if st.Version != nil && (v.AT != st.Version.AT || v.SDK != st.Version.SDK) {
					res.Outcome = OutcomeMismatch
				}
			}
		case OpNetworkConnect:
			res.Outcome = boolOutcome(a.NetworkConnect(st.SSID, st.Password))
		case OpNetworkDisconnect:
			a.NetworkDisconnect()
			res.Outcome = OutcomeOK
		case OpServerConnect:
			res.Outcome = boolOutcome(a.ServerConnect(link, st.Host, st.Service))
		case OpServerDisconnect:
			a.ServerDisconnect(link)
			res.Outcome = OutcomeOK
		case OpTransmit:
			data := st.payload()
			res.Detail = fmt.Sprintf("%d bytes", len(data))
			res.Outcome = boolOutcome(a.Transmit(link, data))
		case OpInject:
			a.InjectReceive(link, st.payload())
			res.Outcome = OutcomeOK
		case OpDispatch:
			res.Outcome = OutcomeOK
			if a.Interrupts().Running() {
				res.Detail = "dispatcher running"
				return
			}
			res.Detail = fmt.Sprintf("%d events", a.Interrupts().Drain())
		}
	})
	if err != nil {
		res.Outcome = OutcomeViolation
		res.Detail = err.Error()
	}
	return res
}

// receive dispatches pending events unless a dispatcher is running, then
// waits until the link buffer holds the step payload and compares it.
func receive(ctx context.Context, a *sim.Adapter, rcv *receiver.Receiver, st *Step) Result {
	var res Result
	if rcv == nil {
		res.Err = errors.New("receive step requires a receiver")
		return res
	}
	if !a.Interrupts().Running() {
		if err := wifi.Recover(func() { a.Interrupts().Drain() }); err != nil {
			res.Outcome = OutcomeViolation
			res.Detail = err.Error()
			return res
		}
	}

	want := st.payload()
	link := wifi.LinkID(st.Link)
	timeout := st.Timeout
	if timeout <= 0 {
		timeout = DefaultReceiveTimeout
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	registry := rcv.Registry()
	prev, hadPrev := rcv.Attached(link)
	id := registry.Register()
	rcv.Attach(link, id)
	defer func() {
		registry.Unregister(id)
		if hadPrev {
			rcv.Attach(link, prev)
		} else {
			rcv.Detach(link)
		}
	}()

	if err := rcv.WaitBuffered(waitCtx, link, len(want)); err != nil {
		res.Outcome = OutcomeTimeout
		res.Detail = fmt.Sprintf("%d of %d bytes buffered", rcv.Buffered(link), len(want))
		return res
	}

	got := make([]byte, len(want))
	n := rcv.Read(link, got)
	if !bytes.Equal(got[:n], want) {
		res.Outcome = OutcomeMismatch
		res.Detail = fmt.Sprintf("got % X, want % X", got[:n], want)
		return res
	}
	res.Outcome = OutcomeOK
	return res
}
