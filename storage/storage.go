// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// This file includes modifications to code originally developed by Adam Tauber,
// licensed under the Apache License, Version 2.0.
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

package storage

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// URLHash computes the dedup key for a canonical URL string. Callers must
// normalize the URL first; the hash has no opinion about equivalence.
func URLHash(u string) uint64 {
	return xxhash.Sum64String(u)
}

// Storage holds a crawl session's frontier state: the URLs ever discovered
// (seen), the URLs queued for fetching (scheduled) and the URLs already
// fetched and processed (crawled). Per URL the state only moves forward:
// unseen -> seen -> scheduled -> crawled. The default Storage is the
// InMemoryStorage; a session's state is discarded when the session ends.
//
// Invariants the implementation must keep:
//   - scheduled and crawled are disjoint at all times
//   - a URL enters crawled exactly once
//   - seen never shrinks for the lifetime of the session
type Storage interface {
	// Init initializes the storage
	Init() error
	// MarkSeen atomically checks whether a URL has been discovered before
	// and records it. Returns true if the URL was newly seen.
	MarkSeen(url string) (bool, error)
	// ScheduleIfNew appends a URL to the fetch queue unless it was ever
	// scheduled or crawled before. Returns true if the URL was enqueued.
	ScheduleIfNew(url string) (bool, error)
	// PopScheduled dequeues the oldest pending URL (FIFO). The second
	// return value is false when the queue is empty.
	PopScheduled() (string, bool, error)
	// MarkCrawled records that a URL has been fetched and processed
	MarkCrawled(url string) error
	// IsCrawled reports whether a URL has been fetched and processed
	IsCrawled(url string) (bool, error)
	// Counts returns the number of seen, pending and crawled URLs
	Counts() (seen, pending, crawled int, err error)
}

// InMemoryStorage is the default session state backend. It keeps the seen,
// scheduled and crawled sets as URL-hash maps plus an ordered queue of the
// pending URL strings, without persisting anything to disk.
//
// The frontier loop is the only mutator today, but every method is
// lock-guarded so that a parallelized frontier inherits a safe boundary
// instead of a data race.
type InMemoryStorage struct {
	seen      map[uint64]bool
	scheduled map[uint64]bool // every URL ever enqueued, popped or not
	crawled   map[uint64]bool
	queue     []string
	lock      *sync.RWMutex
}

// Init initializes InMemoryStorage
func (s *InMemoryStorage) Init() error {
	if s.seen == nil {
		s.seen = make(map[uint64]bool)
	}
	if s.scheduled == nil {
		s.scheduled = make(map[uint64]bool)
	}
	if s.crawled == nil {
		s.crawled = make(map[uint64]bool)
	}
	if s.lock == nil {
		s.lock = &sync.RWMutex{}
	}
	return nil
}

// MarkSeen implements Storage.MarkSeen
func (s *InMemoryStorage) MarkSeen(url string) (bool, error) {
	h := URLHash(url)
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.seen[h] {
		return false, nil
	}
	s.seen[h] = true
	return true, nil
}

// ScheduleIfNew implements Storage.ScheduleIfNew
func (s *InMemoryStorage) ScheduleIfNew(url string) (bool, error) {
	h := URLHash(url)
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.scheduled[h] || s.crawled[h] {
		return false, nil
	}
	s.scheduled[h] = true
	s.queue = append(s.queue, url)
	return true, nil
}

// PopScheduled implements Storage.PopScheduled
func (s *InMemoryStorage) PopScheduled() (string, bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if len(s.queue) == 0 {
		return "", false, nil
	}
	url := s.queue[0]
	s.queue = s.queue[1:]
	return url, true, nil
}

// MarkCrawled implements Storage.MarkCrawled
func (s *InMemoryStorage) MarkCrawled(url string) error {
	s.lock.Lock()
	s.crawled[URLHash(url)] = true
	s.lock.Unlock()
	return nil
}

// IsCrawled implements Storage.IsCrawled
func (s *InMemoryStorage) IsCrawled(url string) (bool, error) {
	s.lock.RLock()
	crawled := s.crawled[URLHash(url)]
	s.lock.RUnlock()
	return crawled, nil
}

// Counts implements Storage.Counts
func (s *InMemoryStorage) Counts() (seen, pending, crawled int, err error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.seen), len(s.queue), len(s.crawled), nil
}
