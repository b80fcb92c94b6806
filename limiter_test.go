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
	"testing"
	"time"
)

// fakeClock advances only when the limiter sleeps, so tests measure exactly
// how long Wait would have blocked
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

func (f *fakeClock) Sleep(d time.Duration) {
	f.sleeps = append(f.sleeps, d)
	f.now = f.now.Add(d)
}

func newTestLimiter(t *testing.T, maxRate float64) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	limiter := NewRateLimiter(maxRate, "test.local")
	limiter.now = clock.Now
	limiter.sleep = clock.Sleep
	if err := limiter.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	return limiter, clock
}

func TestRateLimiterFirstCallDoesNotBlock(t *testing.T) {
	limiter, clock := newTestLimiter(t, 2)
	limiter.Wait()
	if len(clock.sleeps) != 0 {
		t.Errorf("first Wait() slept %v, want no sleep", clock.sleeps)
	}
}

func TestRateLimiterEnforcesMinimumSpacing(t *testing.T) {
	limiter, clock := newTestLimiter(t, 2) // 500ms between fetches

	limiter.Wait()
	limiter.Wait()
	limiter.Wait()

	if len(clock.sleeps) != 2 {
		t.Fatalf("got %d sleeps, want 2", len(clock.sleeps))
	}
	for _, d := range clock.sleeps {
		if d != 500*time.Millisecond {
			t.Errorf("slept %v, want %v", d, 500*time.Millisecond)
		}
	}
}

func TestRateLimiterNoBlockAfterIntervalElapsed(t *testing.T) {
	limiter, clock := newTestLimiter(t, 2)

	limiter.Wait()
	clock.now = clock.now.Add(700 * time.Millisecond) // caller was slow anyway
	limiter.Wait()

	if len(clock.sleeps) != 0 {
		t.Errorf("Wait() slept %v after the interval had already passed", clock.sleeps)
	}
}

func TestRateLimiterPartialWait(t *testing.T) {
	limiter, clock := newTestLimiter(t, 2)

	limiter.Wait()
	clock.now = clock.now.Add(200 * time.Millisecond)
	limiter.Wait()

	if len(clock.sleeps) != 1 || clock.sleeps[0] != 300*time.Millisecond {
		t.Errorf("got sleeps %v, want [300ms]", clock.sleeps)
	}
}

func TestRateLimiterDomainGlob(t *testing.T) {
	limiter := NewRateLimiter(1, "*.example.com")
	if err := limiter.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if !limiter.Match("www.example.com") {
		t.Error("glob should match www.example.com")
	}
	if limiter.Match("example.org") {
		t.Error("glob should not match example.org")
	}
}

func TestRateLimiterRequiresPattern(t *testing.T) {
	limiter := NewRateLimiter(1, "")
	if err := limiter.Init(); err != ErrNoPattern {
		t.Errorf("Init() = %v, want ErrNoPattern", err)
	}
}

func TestRateLimiterMinInterval(t *testing.T) {
	limiter := NewRateLimiter(4, "*")
	if limiter.MinInterval() != 250*time.Millisecond {
		t.Errorf("MinInterval() = %v, want 250ms", limiter.MinInterval())
	}
}
