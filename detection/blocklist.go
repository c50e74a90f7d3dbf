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

package detection

import (
	"path/filepath"
	"strings"
)

// DefaultBlocklist returns USB devices that must never be opened during
// detection: serial adapters that reset or reflash the attached board when
// the port is opened.
func DefaultBlocklist() []string {
	return []string{
		"2341:0043", // Arduino Uno: opening the port resets the sketch
		"2341:0001", // Arduino Uno (early revision)
	}
}

// FormatVIDPID renders USB identifiers in the VID:PID form used by the
// blocklist.
func FormatVIDPID(vid, pid string) string {
	vid, pid = hexID(vid), hexID(pid)
	if vid == "" || pid == "" {
		return ""
	}
	return vid + ":" + pid
}

// hexID upper-cases a USB identifier and pads it to four digits.
func hexID(id string) string {
	id = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(id)), "0X")
	if id == "" || len(id) >= 4 {
		return id
	}
	return strings.Repeat("0", 4-len(id)) + id
}

// IsBlocked reports whether vidpid is in blocklist, ignoring case and
// surrounding spaces.
func IsBlocked(vidpid string, blocklist []string) bool {
	vidpid = strings.TrimSpace(vidpid)
	for _, blocked := range blocklist {
		if strings.EqualFold(vidpid, strings.TrimSpace(blocked)) {
			return true
		}
	}
	return false
}

// IsPathIgnored reports whether devicePath matches an entry of ignorePaths.
// Paths are compared cleaned and case-insensitively so that Windows COM
// names match regardless of case.
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" {
		return false
	}
	device := normalizedPath(devicePath)
	for _, p := range ignorePaths {
		if p != "" && normalizedPath(p) == device {
			return true
		}
	}
	return false
}

func normalizedPath(path string) string {
	return strings.ToLower(filepath.Clean(path))
}
