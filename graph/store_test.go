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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "edges.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreAddEdgeIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.AddEdge("http://x/", "http://x/a"))
	require.NoError(t, store.AddEdge("http://x/", "http://x/a"))
	require.NoError(t, store.AddEdge("http://x/", "http://x/b"))

	count, err := store.EdgeCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestStoreEdgesPreserveInsertionOrder(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.AddEdge("http://x/", "http://x/b"))
	require.NoError(t, store.AddEdge("http://x/", "http://x/a"))

	edges, err := store.Edges()
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "http://x/b", edges[0].ChildURL)
	assert.Equal(t, "http://x/a", edges[1].ChildURL)
}

func TestStoreCreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "deeper", "edges.db")
	store, err := NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.AddEdge("http://x/", "http://x/a"))
	count, err := store.EdgeCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
