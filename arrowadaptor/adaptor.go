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

// Package arrowadaptor lets Apache Arrow build buffers in chunk pool memory.
package arrowadaptor

import (
	"sync/atomic"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/cloudwego/chunkmem/pool"
)

// Allocator implements memory.Allocator on top of a pool.
//
// Arrow may allocate and free from several goroutines, so the pool is
// expected to be a *pool.SafePool unless the caller builds arrays from a
// single goroutine. Pool faults panic, the way arrow allocators fail.
type Allocator struct {
	pool      pool.Allocator
	allocated atomic.Int64
}

var _ memory.Allocator = (*Allocator)(nil)

// New returns an arrow allocator backed by p.
func New(p pool.Allocator) *Allocator {
	return &Allocator{pool: p}
}

// Allocate returns size bytes from the pool.
func (a *Allocator) Allocate(size int) []byte {
	b, err := a.pool.Acquire(size)
	if err != nil {
		panic(err)
	}
	a.allocated.Add(int64(cap(b)))
	return b
}

// Reallocate resizes b. It stays in place when the run behind b is large enough.
func (a *Allocator) Reallocate(size int, b []byte) []byte {
	if size <= cap(b) {
		return b[:size]
	}
	nb := a.Allocate(size)
	copy(nb, b)
	a.Free(b)
	return nb
}

// Free gives b back to the pool. Empty slices that never came from the
// pool are ignored.
func (a *Allocator) Free(b []byte) {
	if cap(b) == 0 {
		return
	}
	if err := a.pool.Release(b, -1); err != nil {
		panic(err)
	}
	a.allocated.Add(-int64(cap(b)))
}

// Allocated returns the bytes currently reserved through this allocator,
// in whole chunks.
func (a *Allocator) Allocated() int64 {
	return a.allocated.Load()
}
