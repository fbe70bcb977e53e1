// Copyright (c) 2026 The Pulserng Authors. All rights reserved.
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

// Package sim provides a pulse source that stands in for detector hardware.
package sim

import (
	"math/rand"
	"sync"
	"time"

	"github.com/openrng/pulserng/pkg/errors"
)

// DefaultMeanInterval spaces simulated pulses about a millisecond apart,
// roughly the tick rate of a Geiger tube sitting next to a check source.
const DefaultMeanInterval = time.Millisecond

// Source emits pulses whose spacing is exponentially distributed, which is
// how decay events from a radioactive sample actually arrive. It implements
// pulserng.Source and fills in wherever real detector hardware is absent:
// demos, benchmarks and soak tests.
//
// The zero value is ready to use. Configure it before Open; the fields are
// not read afterwards.
type Source struct {
	// MeanInterval is the average gap between pulses. Zero or negative
	// selects DefaultMeanInterval.
	MeanInterval time.Duration

	// Seed makes the pulse train reproducible when non-zero.
	Seed int64

	mu   sync.Mutex
	done chan struct{}
	wg   sync.WaitGroup
}

// Open starts the emitter and returns once pulses are flowing to fire.
func (s *Source) Open(fire func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return errors.ErrSourceRunning
	}

	mean := s.MeanInterval
	if mean <= 0 {
		mean = DefaultMeanInterval
	}
	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.emit(fire, rand.New(rand.NewSource(seed)), mean, s.done)
	return nil
}

// emit fires until done closes. Every gap is drawn fresh, so the train is
// memoryless like the decay process it stands in for.
func (s *Source) emit(fire func(), rng *rand.Rand, mean time.Duration, done chan struct{}) {
	defer s.wg.Done()
	timer := time.NewTimer(interval(rng, mean))
	defer timer.Stop()
	for {
		select {
		case <-done:
			return
		case <-timer.C:
			fire()
			timer.Reset(interval(rng, mean))
		}
	}
}

func interval(rng *rand.Rand, mean time.Duration) time.Duration {
	return time.Duration(rng.ExpFloat64() * float64(mean))
}

// Close stops the emitter and waits out any pulse still in flight; once it
// returns, the handler passed to Open is never called again.
func (s *Source) Close() error {
	s.mu.Lock()
	if s.done == nil {
		s.mu.Unlock()
		return errors.ErrSourceClosed
	}
	close(s.done)
	s.done = nil
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}
