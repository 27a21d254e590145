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

// Allocator is the capability client code depends on.
// Both *Pool and *SafePool implement it.
type Allocator interface {
	// Acquire returns a slice of len size backed by pool memory.
	Acquire(size int) ([]byte, error)

	// Release gives back a slice returned by Acquire. The slice must not be
	// resliced from the front, its data pointer identifies the allocation.
	Release(b []byte, size int) error
}

var (
	_ Allocator = (*Pool)(nil)
	_ Allocator = (*SafePool)(nil)
)
