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
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

const (
	// DefaultChunkSize is the default chunk unit (64 bytes).
	DefaultChunkSize = 64

	// DefaultInitialSize is the default size reserved by New (64KB).
	DefaultInitialSize = 64 << 10

	// DefaultMinGrowSize is the default minimum growth step (16KB).
	DefaultMinGrowSize = 16 << 10

	// MaxBlockSize is the largest backing block the pool asks mcache for.
	MaxBlockSize = min(1<<45, math.MaxInt)
)

const (
	// FreshPattern is written over newly grown memory when DebugFill is set.
	FreshPattern byte = 0xFF

	// FreedPattern is written over released runs when DebugFill is set.
	FreedPattern byte = 0xAA
)

// Options configures a Pool.
type Options struct {
	// InitialSize is the number of bytes reserved when the pool is created.
	// It is rounded up to whole chunks, and at least one chunk is always reserved.
	InitialSize int

	// ChunkSize is the accounting unit. Every allocation is rounded up to a
	// multiple of it. It never changes after New.
	ChunkSize int

	// MinGrowSize is the minimum number of bytes added when the pool runs out
	// of free chunks.
	MinGrowSize int

	// MaxPoolSize caps the total pool size. 0 means unlimited.
	// Growth past the cap fails with ErrOutOfMemory.
	MaxPoolSize int

	// DebugFill fills fresh memory with FreshPattern and released memory
	// with FreedPattern.
	DebugFill bool

	// Lenient makes faults (foreign address, double free, leak, out of memory)
	// return errors instead of panicking.
	Lenient bool

	// Logger receives growth and fault events. nil disables logging.
	Logger *zerolog.Logger
}

// DefaultOptions returns the default values of Options.
func DefaultOptions() Options {
	return Options{
		InitialSize: DefaultInitialSize,
		ChunkSize:   DefaultChunkSize,
		MinGrowSize: DefaultMinGrowSize,
	}
}

func (o *Options) validate() error {
	if o.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be > 0, got %d", ErrInvalidOptions, o.ChunkSize)
	}
	if o.InitialSize < 0 {
		return fmt.Errorf("%w: initial size must be >= 0, got %d", ErrInvalidOptions, o.InitialSize)
	}
	if o.MinGrowSize < 0 {
		return fmt.Errorf("%w: min grow size must be >= 0, got %d", ErrInvalidOptions, o.MinGrowSize)
	}
	if o.MaxPoolSize < 0 {
		return fmt.Errorf("%w: max pool size must be >= 0, got %d", ErrInvalidOptions, o.MaxPoolSize)
	}
	if o.ChunkSize > MaxBlockSize || o.InitialSize > MaxBlockSize || o.MinGrowSize > MaxBlockSize {
		return fmt.Errorf("%w: chunk, initial and min grow sizes must be <= %d", ErrInvalidOptions, MaxBlockSize)
	}
	if o.MaxPoolSize > 0 && o.MaxPoolSize < chunksFor(o.InitialSize, o.ChunkSize)*o.ChunkSize {
		return fmt.Errorf("%w: max pool size %d is smaller than the initial reservation",
			ErrInvalidOptions, o.MaxPoolSize)
	}
	return nil
}
