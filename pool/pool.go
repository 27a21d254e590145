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

	"github.com/bytedance/gopkg/lang/mcache"
	"github.com/rs/zerolog"
)

var nopLogger = zerolog.Nop()

// freeBlock hands a backing block back to mcache, replaced in tests.
var freeBlock = mcache.Free

// Pool is a fixed-unit chunked memory pool. Not goroutine-safe,
// use SafePool or one Pool per goroutine for concurrent access.
type Pool struct {
	chunks []chunk
	blocks []block
	cursor int // where the next search starts

	chunkSize   int
	minGrowSize int
	maxPoolSize int

	totalSize int
	usedSize  int
	freeSize  int
	objects   int

	debugFill bool
	lenient   bool
	closed    bool

	logger *zerolog.Logger
}

// New creates a pool and reserves opts.InitialSize bytes up front.
func New(opts Options) (*Pool, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	p := &Pool{
		chunkSize:   opts.ChunkSize,
		minGrowSize: opts.MinGrowSize,
		maxPoolSize: opts.MaxPoolSize,
		debugFill:   opts.DebugFill,
		lenient:     opts.Lenient,
		logger:      opts.Logger,
	}
	if p.logger == nil {
		p.logger = &nopLogger
	}
	if err := p.grow(opts.InitialSize); err != nil {
		return nil, err
	}
	return p, nil
}

// Acquire returns size bytes of pool memory. The result has len size and
// cap equal to the reserved run, a whole number of chunks.
// The memory is not zeroed.
func (p *Pool) Acquire(size int) ([]byte, error) {
	if p.closed {
		return nil, p.fault(ErrClosed)
	}
	if size < 0 || size > math.MaxInt-p.chunkSize {
		return nil, p.fault(fmt.Errorf("%w: %d", ErrInvalidSize, size))
	}
	n := chunksFor(size, p.chunkSize)
	bestSize := n * p.chunkSize

	idx := p.findFreeRun(bestSize)
	for idx < 0 {
		growSize := max(bestSize, chunksFor(p.minGrowSize, p.chunkSize)*p.chunkSize)
		if err := p.grow(growSize); err != nil {
			return nil, err
		}
		idx = p.findFreeRun(bestSize)
	}

	c := &p.chunks[idx]
	c.used = size
	c.span = n
	p.usedSize += bestSize
	p.freeSize -= bestSize
	p.objects++

	b := &p.blocks[c.block]
	off := (idx - b.first) * p.chunkSize
	return b.buf[off : off+size : off+bestSize], nil
}

// grow appends one block of at least size bytes to the ledger.
func (p *Pool) grow(size int) error {
	n := chunksFor(size, p.chunkSize)
	blockSize := n * p.chunkSize
	if blockSize > MaxBlockSize {
		return p.fault(fmt.Errorf("%w: block of %d bytes exceeds %d", ErrOutOfMemory, blockSize, MaxBlockSize))
	}
	if p.maxPoolSize > 0 && p.totalSize+blockSize > p.maxPoolSize {
		return p.fault(fmt.Errorf("%w: need %d more bytes, pool is %d of %d",
			ErrOutOfMemory, blockSize, p.totalSize, p.maxPoolSize))
	}

	buf := mcache.Malloc(blockSize)
	if p.debugFill {
		fill(buf, FreshPattern)
	}
	p.linkBlock(&block{buf: buf, first: len(p.chunks), count: n})

	p.totalSize += blockSize
	p.freeSize += blockSize

	p.logger.Debug().
		Int("block_bytes", blockSize).
		Int("chunks", len(p.chunks)).
		Int("total_bytes", p.totalSize).
		Msg("pool grown")
	return nil
}

// fault panics in strict mode and returns err in lenient mode.
func (p *Pool) fault(err error) error {
	if !p.lenient {
		panic(err)
	}
	p.logger.Error().Err(err).Msg("pool fault")
	return err
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}
