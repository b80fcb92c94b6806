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

package aragog

import (
	"sync"
	"time"

	"github.com/gobwas/glob"
)

// RateLimiter enforces a strict minimum spacing between successive fetches.
// It is a blocking limiter, not a token bucket: there is no burst allowance,
// just a process-wide cadence of at most maxRate calls per second.
//
// DomainGlob scopes the limiter to matching hosts. An empty glob is an
// error; use "*" to match every host.
type RateLimiter struct {
	// DomainGlob is a glob pattern matched against request hosts
	DomainGlob string

	minInterval  time.Duration
	lastCall     time.Time
	compiledGlob glob.Glob
	lock         sync.Mutex

	// now and sleep are swapped out in tests for a controllable clock
	now   func() time.Time
	sleep func(time.Duration)
}

// NewRateLimiter creates a limiter allowing at most maxRate fetches per
// second against hosts matching domainGlob. Init must be called before use.
func NewRateLimiter(maxRate float64, domainGlob string) *RateLimiter {
	return &RateLimiter{
		DomainGlob:  domainGlob,
		minInterval: time.Duration(float64(time.Second) / maxRate),
	}
}

// Init compiles the domain pattern and arms the clock so that the first
// call never blocks.
func (r *RateLimiter) Init() error {
	if r.DomainGlob == "" {
		return ErrNoPattern
	}
	compiled, err := glob.Compile(r.DomainGlob)
	if err != nil {
		return err
	}
	r.compiledGlob = compiled
	if r.now == nil {
		r.now = time.Now
	}
	if r.sleep == nil {
		r.sleep = time.Sleep
	}
	r.lastCall = r.now().Add(-r.minInterval)
	return nil
}

// Match checks that the host parameter triggers the limiter
func (r *RateLimiter) Match(host string) bool {
	return r.compiledGlob != nil && r.compiledGlob.Match(host)
}

// Wait blocks until at least minInterval has elapsed since the previous
// call, then records the new call time. With a single caller this is plain
// sequential throttling; the lock makes the limiter the synchronization
// boundary if fetches are ever parallelized.
func (r *RateLimiter) Wait() {
	r.lock.Lock()
	defer r.lock.Unlock()
	remaining := r.lastCall.Add(r.minInterval).Sub(r.now())
	if remaining > 0 {
		r.sleep(remaining)
	}
	r.lastCall = r.now()
}

// MinInterval returns the enforced spacing between fetches
func (r *RateLimiter) MinInterval() time.Duration {
	return r.minInterval
}
