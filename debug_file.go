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

package wifi

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ZaparooProject/go-wifi/internal/syncutil"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Session log rotation limits
const (
	sessionLogMaxSizeMB  = 10
	sessionLogMaxBackups = 3
)

// Session log state
var (
	sessionMu        syncutil.Mutex
	sessionLogger    *lumberjack.Logger
	sessionLogPath   string
	sessionLogWriter io.Writer
)

// InitSessionLog opens a new session log file in dir (the current directory
// when empty). The file is rotated once it grows past sessionLogMaxSizeMB.
// Returns the log file path for display to the user.
func InitSessionLog(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create session log directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(dir, fmt.Sprintf("wifi_%s.log", timestamp))

	logger := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    sessionLogMaxSizeMB,
		MaxBackups: sessionLogMaxBackups,
	}

	sessionMu.Lock()
	defer sessionMu.Unlock()

	if sessionLogger != nil {
		_ = sessionLogger.Close()
	}
	sessionLogger = logger
	sessionLogPath = filename
	sessionLogWriter = logger

	writeSessionHeader(logger)

	return filename, nil
}

// CloseSessionLog closes the current session log file.
func CloseSessionLog() error {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if sessionLogWriter == nil {
		return nil
	}

	timestamp := time.Now().Format("15:04:05.000")
	_, _ = fmt.Fprintf(sessionLogWriter, "\n%s === Session ended ===\n", timestamp)

	var err error
	if sessionLogger != nil {
		err = sessionLogger.Close()
	}
	sessionLogger = nil
	sessionLogPath = ""
	sessionLogWriter = nil
	if err != nil {
		return fmt.Errorf("failed to close session log: %w", err)
	}
	return nil
}

// GetSessionLogPath returns the current session log file path.
func GetSessionLogPath() string {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	return sessionLogPath
}

// setSessionWriter swaps the session writer and returns the previous one.
func setSessionWriter(w io.Writer) io.Writer {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	prev := sessionLogWriter
	sessionLogWriter = w
	return prev
}

// writeSession calls fn with the session writer while holding the lock.
func writeSession(fn func(w io.Writer)) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if sessionLogWriter != nil {
		fn(sessionLogWriter)
	}
}

// writeSessionHeader writes metadata about the session to the log file.
func writeSessionHeader(writer io.Writer) {
	_, _ = fmt.Fprint(writer, "=== Wi-Fi Modem Debug Session Log ===\n")
	_, _ = fmt.Fprintf(writer, "Started: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(writer, "PID: %d\n", os.Getpid())
	_, _ = fmt.Fprintf(writer, "OS: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	_, _ = fmt.Fprintf(writer, "Go Version: %s\n", runtime.Version())
	_, _ = fmt.Fprintf(writer, "Command Line: %s\n", strings.Join(os.Args, " "))
	_, _ = fmt.Fprint(writer, "=====================================\n\n")
}
