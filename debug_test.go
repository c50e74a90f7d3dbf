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

package wifi

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSession routes the session log into a buffer for the test.
func captureSession(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevWriter := setSessionWriter(&buf)
	prevEnabled := DebugEnabled()
	t.Cleanup(func() {
		setSessionWriter(prevWriter)
		SetDebugEnabled(prevEnabled)
	})
	return &buf
}

var linePattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{3} DEBUG: (.*)$`)

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

//nolint:paralleltest // shares the session writer
func TestDebugf_WritesTimestampedLine(t *testing.T) {
	buf := captureSession(t)
	SetDebugEnabled(false)

	Debugf("link %d: %s", 2, "connected")

	got := lines(buf)
	require.Len(t, got, 1)
	m := linePattern.FindStringSubmatch(got[0])
	require.NotNil(t, m, "unexpected line %q", got[0])
	assert.Equal(t, "link 2: connected", m[1])
}

//nolint:paralleltest // shares the session writer
func TestDebugln_JoinsArgs(t *testing.T) {
	buf := captureSession(t)

	Debugln("link", 1, 2)
	Debugln("done")

	got := lines(buf)
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "DEBUG: link1 2")
	assert.Contains(t, got[1], "DEBUG: done")
}

//nolint:paralleltest // shares the session writer
func TestDebugf_NoSessionWriter(t *testing.T) {
	captureSession(t)
	setSessionWriter(nil)

	assert.NotPanics(t, func() { Debugf("dropped %v", true) })
}

//nolint:paralleltest // shares the session writer
func TestDebugf_ConsoleFollowsDebugFlag(t *testing.T) {
	captureSession(t)
	var console bytes.Buffer
	restore := redirectConsole(&console)
	t.Cleanup(restore)

	SetDebugEnabled(false)
	Debugf("quiet")
	assert.Empty(t, console.String())

	SetDebugEnabled(true)
	assert.True(t, DebugEnabled())
	Debugf("loud %d", 1)
	assert.Contains(t, console.String(), "loud 1")
}

func redirectConsole(w io.Writer) func() {
	console.SetOutput(w)
	return func() { console.SetOutput(os.Stderr) }
}
