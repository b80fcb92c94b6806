// Copyright 2025 Agentic World, LLC (Sherin Thomas)
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

package graph

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDeduplicatesEdges(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.AddEdge("a", "b"))
	require.NoError(t, m.AddEdge("a", "b"))
	require.NoError(t, m.AddEdge("a", "c"))

	assert.Equal(t, 2, m.EdgeCount())
	assert.True(t, m.HasEdge("a", "b"))
	assert.True(t, m.HasEdge("a", "c"))
	assert.False(t, m.HasEdge("b", "a"))
}

func TestMemoryWriteDOTIsDeterministic(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.AddEdge("http://x/b", "http://x/c"))
	require.NoError(t, m.AddEdge("http://x/a", "http://x/c"))
	require.NoError(t, m.AddEdge("http://x/a", "http://x/b"))

	want := `digraph crawl {
  "http://x/a" -> "http://x/b";
  "http://x/a" -> "http://x/c";
  "http://x/b" -> "http://x/c";
}
`
	var first, second strings.Builder
	require.NoError(t, m.WriteDOT(&first))
	require.NoError(t, m.WriteDOT(&second))
	assert.Equal(t, want, first.String())
	assert.Equal(t, want, second.String())
}

func TestMemoryWriteDOTEscapesQuotes(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.AddEdge(`http://x/?q="hi"`, "http://x/a"))

	var out strings.Builder
	require.NoError(t, m.WriteDOT(&out))
	assert.Contains(t, out.String(), `"http://x/?q=\"hi\""`)
}

type failingObserver struct {
	err   error
	calls int
}

func (f *failingObserver) AddEdge(parentURL, childURL string) error {
	f.calls++
	return f.err
}

func TestMultiNotifiesAllObservers(t *testing.T) {
	first := &failingObserver{err: errors.New("boom")}
	second := &failingObserver{}
	multi := Multi(first, second)

	err := multi.AddEdge("a", "b")
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls, "an observer error must not stop the fan-out")
}
