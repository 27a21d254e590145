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

// Package pool implements a fixed-unit chunked memory pool.
//
// # Overview
//
// A Pool carves large backing blocks into chunks of a fixed size (the chunk
// unit) and serves each request with a run of consecutive chunks. Requests are
// rounded up to whole chunks. Only the head chunk of a run records the
// request; the chunks behind it are implied by the head's run length.
//
//	p, err := pool.New(pool.Options{
//		InitialSize: 256,
//		ChunkSize:   64,
//		MinGrowSize: 64,
//	})
//	if err != nil {
//		return err
//	}
//	defer p.Close()
//
//	b, _ := p.Acquire(100) // two chunks, len(b) == 100, cap(b) == 128
//	_ = p.Release(b, 100)
//
// # Search and growth
//
// The search is first-fit and circular. It starts at a cursor left where the
// last allocation was placed, skips whole live runs in one step and wraps to
// the first chunk after the last one. When no free run is large enough the
// pool appends a block of at least max(request, MinGrowSize) bytes. The pool
// never shrinks and never moves live memory. Runs never cross blocks.
//
// # Faults
//
// Releasing memory the pool does not own, releasing twice, growing past
// MaxPoolSize and closing with live allocations are programming errors. By
// default they panic. With Options.Lenient they are returned as errors
// (ErrForeignAddress, ErrNotAcquired, ErrOutOfMemory, ErrLeak) and logged.
//
// # Debugging
//
// With Options.DebugFill new memory reads as FreshPattern and released memory
// as FreedPattern. DumpToFile writes the raw contents of every chunk, in
// ledger order, without any header.
//
// # Thread Safety
//
// Pool is not goroutine-safe. Use one pool per goroutine or SafePool.
package pool
