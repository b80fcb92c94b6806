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

// Package graph receives parent->child link notifications from a crawl and
// turns them into something a human can look at. It is a side channel: the
// crawl is correct with no observer attached.
package graph

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Observer receives one notification per discovered hyperlink edge
type Observer interface {
	// AddEdge records a hyperlink from the parent page to the child URL
	AddEdge(parentURL, childURL string) error
}

// Multi fans every edge out to several observers. The first error wins but
// all observers are still notified.
func Multi(observers ...Observer) Observer {
	return multiObserver(observers)
}

type multiObserver []Observer

func (m multiObserver) AddEdge(parentURL, childURL string) error {
	var firstErr error
	for _, o := range m {
		if err := o.AddEdge(parentURL, childURL); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Memory is an in-process Observer that accumulates the link graph as an
// adjacency map and can render it as Graphviz DOT.
type Memory struct {
	adjacency map[string]map[string]bool
	lock      sync.Mutex
}

// NewMemory creates an empty in-memory graph observer
func NewMemory() *Memory {
	return &Memory{adjacency: make(map[string]map[string]bool)}
}

// AddEdge implements Observer
func (m *Memory) AddEdge(parentURL, childURL string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	children := m.adjacency[parentURL]
	if children == nil {
		children = make(map[string]bool)
		m.adjacency[parentURL] = children
	}
	children[childURL] = true
	return nil
}

// EdgeCount returns the number of distinct edges recorded
func (m *Memory) EdgeCount() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	n := 0
	for _, children := range m.adjacency {
		n += len(children)
	}
	return n
}

// HasEdge reports whether the edge has been recorded
func (m *Memory) HasEdge(parentURL, childURL string) bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.adjacency[parentURL][childURL]
}

// WriteDOT renders the graph in Graphviz DOT format. Nodes and edges are
// emitted in sorted order so the output is reproducible across runs.
func (m *Memory) WriteDOT(w io.Writer) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	parents := make([]string, 0, len(m.adjacency))
	for parent := range m.adjacency {
		parents = append(parents, parent)
	}
	sort.Strings(parents)

	if _, err := io.WriteString(w, "digraph crawl {\n"); err != nil {
		return err
	}
	for _, parent := range parents {
		children := make([]string, 0, len(m.adjacency[parent]))
		for child := range m.adjacency[parent] {
			children = append(children, child)
		}
		sort.Strings(children)
		for _, child := range children {
			if _, err := fmt.Fprintf(w, "  %s -> %s;\n", quoteDOT(parent), quoteDOT(child)); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(w, "}\n")
	return err
}

func quoteDOT(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
