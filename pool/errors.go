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

import "errors"

var (
	// ErrInvalidOptions indicates that Options failed validation in New.
	ErrInvalidOptions = errors.New("pool: invalid options")

	// ErrInvalidSize indicates a negative request size.
	ErrInvalidSize = errors.New("pool: invalid size")

	// ErrOutOfMemory indicates that growing the pool would exceed MaxPoolSize.
	ErrOutOfMemory = errors.New("pool: out of memory")

	// ErrForeignAddress indicates a release of memory this pool never handed out.
	ErrForeignAddress = errors.New("pool: address not in pool")

	// ErrNotAcquired indicates a release of a chunk that does not head a live
	// allocation: a double free, or more releases than acquisitions.
	ErrNotAcquired = errors.New("pool: release without matching acquire")

	// ErrBrokenRun indicates that a run extends past the end of its block.
	ErrBrokenRun = errors.New("pool: run extends past its block")

	// ErrLeak indicates that the pool was closed with live allocations.
	ErrLeak = errors.New("pool: memory leak")

	// ErrClosed indicates use of a pool after Close.
	ErrClosed = errors.New("pool: use after Close")

	// ErrCorrupted is returned by Validate when ledger bookkeeping disagrees.
	ErrCorrupted = errors.New("pool: ledger corrupted")
)
