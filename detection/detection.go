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

// Package detection discovers candidate modem attachments.
//
// Detectors for each transport register with a Registry, usually the
// Default one from an init function in their package. A Registry runs
// every detector in parallel and caches the results per transport.
package detection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-wifi/internal/syncutil"
)

// Confidence tells how likely a candidate is a supported modem.
type Confidence int

const (
	// Low: a serial port with no known modem bridge behind it.
	Low Confidence = iota
	// Medium: a USB-serial bridge commonly fitted to modem boards.
	Medium
	// High: a modem with native USB that identifies itself.
	High
)

func (c Confidence) String() string {
	switch c {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// Candidate is a detected attachment point.
type Candidate struct {
	// Transport type, e.g. "uart".
	Transport string
	// Connection path, e.g. "/dev/ttyUSB0" or "COM3".
	Path string
	// Human readable bridge or product name.
	Name string
	// USB VID:PID in upper case hex, empty for non-USB ports.
	VIDPID string
	// USB serial number when reported.
	SerialNumber string
	Confidence   Confidence
	// Accessible is false when the current user cannot open the port.
	Accessible bool
}

func (c Candidate) String() string {
	s := fmt.Sprintf("%s %s at %s (confidence: %s)", c.Transport, c.Name, c.Path, c.Confidence)
	if !c.Accessible {
		s += " [no permission]"
	}
	return s
}

// Options configures detection.
type Options struct {
	// USB VID:PID pairs to skip, e.g. "1234:5678".
	Blocklist []string
	// Device paths to skip, e.g. "/dev/ttyUSB0" or "COM2".
	IgnorePaths []string
	// Transports to run; empty runs all.
	Transports []string
	CacheTTL   time.Duration
	Timeout    time.Duration
	// MinConfidence drops candidates below this level.
	MinConfidence Confidence
	EnableCache   bool
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{
		Timeout:       5 * time.Second,
		Blocklist:     DefaultBlocklist(),
		EnableCache:   true,
		CacheTTL:      30 * time.Second,
		MinConfidence: Medium,
	}
}

// Detector finds candidates on one transport.
type Detector interface {
	Detect(ctx context.Context, opts *Options) ([]Candidate, error)
	Transport() string
}

var (
	ErrNoDevicesFound   = errors.New("no modem candidates found")
	ErrDetectionTimeout = errors.New("detection timeout")
	ErrNoDetectors      = errors.New("no detectors available for specified transports")
)

// Registry holds detectors and their cached results.
type Registry struct {
	cache     *resultCache
	detectors []Detector
	mu        syncutil.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{cache: newResultCache()}
}

// Default is the registry detector packages register with.
var Default = NewRegistry()

// RegisterDetector adds d to the Default registry.
func RegisterDetector(d Detector) {
	Default.Register(d)
}

// Detect runs the Default registry.
func Detect(ctx context.Context, opts *Options) ([]Candidate, error) {
	return Default.Detect(ctx, opts)
}

// Register adds a detector.
func (r *Registry) Register(d Detector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detectors = append(r.detectors, d)
}

// ClearCache drops cached results for the given transports, or all when
// none are given.
func (r *Registry) ClearCache(transports ...string) {
	r.cache.clear(transports...)
}

func (r *Registry) selected(transports []string) []Detector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(transports) == 0 {
		return append([]Detector(nil), r.detectors...)
	}
	var out []Detector
	for _, d := range r.detectors {
		for _, t := range transports {
			if d.Transport() == t {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

type result struct {
	err        error
	candidates []Candidate
}

// Detect runs the selected detectors in parallel. Candidates are returned
// when at least one detector found some, even if others failed.
func (r *Registry) Detect(ctx context.Context, opts *Options) ([]Candidate, error) {
	detectors := r.selected(opts.Transports)
	if len(detectors) == 0 {
		return nil, ErrNoDetectors
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	results := make(chan result, len(detectors))
	for _, d := range detectors {
		go func() {
			results <- r.run(ctx, d, opts)
		}()
	}

	var (
		all  []Candidate
		errs []error
	)
	for range detectors {
		select {
		case res := <-results:
			if res.err != nil {
				errs = append(errs, res.err)
				continue
			}
			all = append(all, res.candidates...)
		case <-ctx.Done():
			return nil, ErrDetectionTimeout
		}
	}

	switch {
	case len(all) > 0:
		return all, nil
	case len(errs) > 0:
		return nil, errors.Join(errs...)
	default:
		return nil, ErrNoDevicesFound
	}
}

func (r *Registry) run(ctx context.Context, d Detector, opts *Options) result {
	if opts.EnableCache {
		if cached, ok := r.cache.get(d.Transport(), opts.CacheTTL); ok {
			// cached results predate the current filters
			return result{candidates: Filter(cached, opts)}
		}
	}

	found, err := d.Detect(ctx, opts)
	if err != nil && !errors.Is(err, ErrNoDevicesFound) {
		return result{err: fmt.Errorf("%s detection: %w", d.Transport(), err)}
	}

	if opts.EnableCache {
		if len(found) > 0 {
			r.cache.set(d.Transport(), found)
		} else {
			// a device that went away must not linger until the TTL expires
			r.cache.clear(d.Transport())
		}
	}
	return result{candidates: found}
}

// Filter applies the ignore list, blocklist and minimum confidence.
func Filter(candidates []Candidate, opts *Options) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if IsPathIgnored(c.Path, opts.IgnorePaths) {
			continue
		}
		if c.VIDPID != "" && IsBlocked(c.VIDPID, opts.Blocklist) {
			continue
		}
		if c.Confidence < opts.MinConfidence {
			continue
		}
		out = append(out, c)
	}
	return out
}
