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

// Package expect implements the byte expectation queue that stands in for
// a real transmitter: tests append the bytes a link must send and each
// transmit is checked against, then consumes, the front of the queue.
package expect

// compactThreshold is how many consumed bytes may accumulate at the front
// of the buffer before it is compacted.
const compactThreshold = 4096

// Queue is an ordered FIFO of expected bytes. It is only ever appended to at
// the back and consumed from the front. The zero value is an empty queue.
type Queue struct {
	buf  []byte
	head int
}

// Push appends data to the back of the queue.
func (q *Queue) Push(data []byte) {
	q.buf = append(q.buf, data...)
}

// Len returns the number of bytes still expected.
func (q *Queue) Len() int {
	return len(q.buf) - q.head
}

// Empty reports whether nothing is expected.
func (q *Queue) Empty() bool {
	return q.Len() == 0
}

// Peek returns a copy of up to n bytes from the front of the queue.
func (q *Queue) Peek(n int) []byte {
	if n > q.Len() {
		n = q.Len()
	}
	if n <= 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, q.buf[q.head:q.head+n])
	return out
}

// Compare checks data against the front of the queue without consuming it.
// It returns the offset of the first byte that differs and false, or
// len(data) and true when every byte matches. When the queue runs out before
// data does, the offset equals Len().
func (q *Queue) Compare(data []byte) (int, bool) {
	pending := q.buf[q.head:]
	for i, b := range data {
		if i >= len(pending) || pending[i] != b {
			return i, false
		}
	}
	return len(data), true
}

// Consume drops n bytes from the front of the queue.
func (q *Queue) Consume(n int) {
	if n > q.Len() {
		n = q.Len()
	}
	q.head += n
	if q.head == len(q.buf) {
		q.buf = q.buf[:0]
		q.head = 0
		return
	}
	if q.head >= compactThreshold {
		q.buf = append(q.buf[:0], q.buf[q.head:]...)
		q.head = 0
	}
}

// Reset discards every expected byte.
func (q *Queue) Reset() {
	q.buf = nil
	q.head = 0
}
