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
	"errors"
	"fmt"
)

// ErrContractViolation matches every *ContractError with errors.Is.
var ErrContractViolation = errors.New("contract violation")

// NoLink marks a ContractError that is not tied to a particular link.
const NoLink LinkID = -1

// ContractError describes a caller-contract violation: an operation issued
// out of sequence, an out of range link, or arguments that contradict the
// configured environment. It is raised with panic and is never returned by
// the Driver methods themselves.
type ContractError struct {
	Op     string // Operation that detected the violation
	Reason string // Human readable description
	Link   LinkID // Link involved, or NoLink
}

func (e *ContractError) Error() string {
	if e.Link != NoLink {
		return fmt.Sprintf("%s link %d: %s", e.Op, e.Link, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Is reports whether target is ErrContractViolation.
func (*ContractError) Is(target error) bool {
	return target == ErrContractViolation
}

// Assert panics with a *ContractError when cond is false.
func Assert(cond bool, op string, link LinkID, format string, args ...any) {
	if cond {
		return
	}
	err := &ContractError{
		Op:     op,
		Link:   link,
		Reason: fmt.Sprintf(format, args...),
	}
	Debugf("contract violation: %v", err)
	panic(err)
}

// Recover runs fn and converts a contract violation panic into an error.
// Any other panic is propagated unchanged.
func Recover(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var ce *ContractError
		if e, ok := r.(error); ok && errors.As(e, &ce) {
			err = ce
			return
		}
		panic(r)
	}()
	fn()
	return nil
}

// IsContractViolation reports whether err carries a *ContractError.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrContractViolation)
}
