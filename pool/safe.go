/*
 * Copyright 2026 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pool

import (
	"io"
	"sync"
)

// SafePool is a mutex-protected wrapper around Pool for concurrent access.
// Every call takes the lock, including the dump.
type SafePool struct {
	mu sync.Mutex
	p  *Pool
}

// NewSafePool creates a goroutine-safe pool, see New.
func NewSafePool(opts Options) (*SafePool, error) {
	p, err := New(opts)
	if err != nil {
		return nil, err
	}
	return &SafePool{p: p}, nil
}

// Acquire thread-safely acquires size bytes.
func (s *SafePool) Acquire(size int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Acquire(size)
}

// Release thread-safely releases an allocation.
func (s *SafePool) Release(b []byte, size int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Release(b, size)
}

// IsValidAddress thread-safely checks whether b starts at a chunk.
func (s *SafePool) IsValidAddress(b []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.IsValidAddress(b)
}

// WriteTo thread-safely dumps the pool to w.
func (s *SafePool) WriteTo(w io.Writer) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.WriteTo(w)
}

// DumpToFile thread-safely dumps the pool to path.
func (s *SafePool) DumpToFile(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.DumpToFile(path)
}

// Stats thread-safely returns a snapshot of pool counters.
func (s *SafePool) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Stats()
}

// Validate thread-safely checks the ledger.
func (s *SafePool) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Validate()
}

// Close thread-safely closes the pool.
func (s *SafePool) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Close()
}
