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

package expect

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestQueue_ZeroValueIsEmpty(t *testing.T) {
	t.Parallel()

	var q Queue
	assert.True(t, q.Empty())
	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.Peek(4))
}

func TestQueue_PushAccumulatesInOrder(t *testing.T) {
	t.Parallel()

	var q Queue
	q.Push([]byte("abcd"))
	q.Push([]byte("ef"))

	assert.Equal(t, 6, q.Len())
	assert.Equal(t, []byte("abcdef"), q.Peek(6))
	assert.Equal(t, []byte("abc"), q.Peek(3))
}

func TestQueue_Compare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		queued     string
		data       string
		wantOffset int
		wantOK     bool
	}{
		{name: "Exact_Match", queued: "abcd", data: "abcd", wantOffset: 4, wantOK: true},
		{name: "Prefix_Match", queued: "abcdef", data: "abc", wantOffset: 3, wantOK: true},
		{name: "Substitution", queued: "abcd", data: "abce", wantOffset: 3, wantOK: false},
		{name: "First_Byte", queued: "abcd", data: "xbcd", wantOffset: 0, wantOK: false},
		{name: "Runs_Out", queued: "abcd", data: "abcde", wantOffset: 4, wantOK: false},
		{name: "Empty_Queue", queued: "", data: "a", wantOffset: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var q Queue
			q.Push([]byte(tt.queued))

			offset, ok := q.Compare([]byte(tt.data))
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, len(tt.queued), q.Len(), "Compare must not consume")
		})
	}
}

func TestQueue_ConsumeAndReset(t *testing.T) {
	t.Parallel()

	var q Queue
	q.Push([]byte("abcdef"))

	q.Consume(4)
	assert.Equal(t, []byte("ef"), q.Peek(10))

	q.Consume(10)
	assert.True(t, q.Empty())

	q.Push([]byte("xyz"))
	q.Reset()
	assert.True(t, q.Empty())
}

func TestQueue_CompactsLongRuns(t *testing.T) {
	t.Parallel()

	var q Queue
	block := bytes.Repeat([]byte{'a'}, compactThreshold)
	q.Push(block)
	q.Push([]byte("tail"))

	q.Consume(compactThreshold)
	require.Equal(t, 4, q.Len())
	assert.Equal(t, 0, q.head)
	assert.Equal(t, []byte("tail"), q.Peek(4))
}

// TestQueue_FIFOProperty checks that any split of pushes and consumes sees
// the concatenation of everything pushed, in order.
func TestQueue_FIFOProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		chunks := rapid.SliceOf(rapid.SliceOfN(rapid.Byte(), 1, 64)).Draw(t, "chunks")

		var q Queue
		var want []byte
		for _, c := range chunks {
			q.Push(c)
			want = append(want, c...)
		}

		var got []byte
		for !q.Empty() {
			n := rapid.IntRange(1, q.Len()).Draw(t, "n")
			front := q.Peek(n)
			offset, ok := q.Compare(front)
			if !ok || offset != n {
				t.Fatalf("Compare(Peek(%d)) = %d, %v", n, offset, ok)
			}
			got = append(got, front...)
			q.Consume(n)
		}

		if !bytes.Equal(want, got) {
			t.Fatalf("drained %q, pushed %q", got, want)
		}
	})
}
