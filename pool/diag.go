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
	"io"
	"os"

	"github.com/cloudwego/chunkmem/internal/dumpio"
)

// IsValidAddress reports whether b starts exactly at some chunk of the pool.
// It is meant for assertions, not for hot paths.
func (p *Pool) IsValidAddress(b []byte) bool {
	return p.chunkIndex(b) >= 0
}

// WriteTo writes the raw bytes of every chunk, in ledger order, to w.
// The output has no header and no chunk boundaries.
func (p *Pool) WriteTo(w io.Writer) (int64, error) {
	dw := dumpio.NewWriter(w)
	for i := range p.blocks {
		blk := &p.blocks[i]
		for k := 0; k < blk.count; k++ {
			if _, err := dw.WriteFrame(p.chunks[blk.first+k].data); err != nil {
				return 0, err
			}
		}
	}
	return dw.Flush()
}

// DumpToFile writes the pool contents to path, see WriteTo.
// It reports whether at least one chunk was written.
func (p *Pool) DumpToFile(path string) (bool, error) {
	f, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("pool: create dump: %w", err)
	}
	n, err := p.WriteTo(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n > 0, fmt.Errorf("pool: write dump %s: %w", path, err)
	}
	return n > 0, nil
}

// Close releases all backing memory. It reports ErrLeak when allocations are
// still live. Blocks holding a live run are not handed back to mcache, they
// are left to the GC so leaked slices never alias memory reused elsewhere.
// Close is idempotent.
func (p *Pool) Close() error {
	if p.closed {
		return nil
	}
	leaked := p.objects
	for i := range p.blocks {
		blk := &p.blocks[i]
		if !p.blockHasLive(blk) {
			freeBlock(blk.buf)
		}
		blk.buf = nil
	}
	p.blocks = nil
	p.chunks = nil
	p.cursor = 0
	p.totalSize, p.usedSize, p.freeSize = 0, 0, 0
	p.closed = true
	if leaked != 0 {
		return p.fault(fmt.Errorf("%w: %d allocations not released", ErrLeak, leaked))
	}
	return nil
}

func (p *Pool) blockHasLive(blk *block) bool {
	for i := blk.first; i < blk.first+blk.count; i++ {
		if p.chunks[i].live() {
			return true
		}
	}
	return false
}

// Validate walks the ledger and checks it against the pool counters.
func (p *Pool) Validate() error {
	if p.closed {
		return ErrClosed
	}
	if p.usedSize+p.freeSize != p.totalSize {
		return fmt.Errorf("%w: used %d + free %d != total %d",
			ErrCorrupted, p.usedSize, p.freeSize, p.totalSize)
	}
	if len(p.chunks)*p.chunkSize != p.totalSize {
		return fmt.Errorf("%w: %d chunks do not add up to %d bytes",
			ErrCorrupted, len(p.chunks), p.totalSize)
	}
	live, usedChunks := 0, 0
	for bi := range p.blocks {
		blk := &p.blocks[bi]
		end := blk.first + blk.count
		for i := blk.first; i < end; {
			c := &p.chunks[i]
			if c.isAllocationChunk != (i == blk.first) {
				return fmt.Errorf("%w: chunk %d allocation owner flag is %t", ErrCorrupted, i, c.isAllocationChunk)
			}
			if !c.live() {
				i++
				continue
			}
			if i+c.span > end {
				return fmt.Errorf("%w: run at chunk %d spans past its block", ErrCorrupted, i)
			}
			if head := p.liveHeadIn(i+1, i+c.span); head >= 0 {
				return fmt.Errorf("%w: run at chunk %d overlaps run at chunk %d", ErrCorrupted, i, head)
			}
			live++
			usedChunks += c.span
			i += c.span
		}
	}
	if live != p.objects {
		return fmt.Errorf("%w: %d live runs but %d objects", ErrCorrupted, live, p.objects)
	}
	if usedChunks*p.chunkSize != p.usedSize {
		return fmt.Errorf("%w: %d used chunks but %d used bytes", ErrCorrupted, usedChunks, p.usedSize)
	}
	return nil
}

// Stats contains a snapshot of pool counters.
type Stats struct {
	ChunkSize   int     // Bytes per chunk
	Chunks      int     // Number of chunks in the ledger
	Blocks      int     // Number of backing blocks
	TotalBytes  int     // Pool size
	UsedBytes   int     // Bytes reserved by live allocations, in whole chunks
	FreeBytes   int     // TotalBytes - UsedBytes
	Objects     int     // Live allocations
	Utilization float64 // UsedBytes / TotalBytes (0.0-1.0)
}

// Stats returns a snapshot of pool counters.
func (p *Pool) Stats() Stats {
	s := Stats{
		ChunkSize:  p.chunkSize,
		Chunks:     len(p.chunks),
		Blocks:     len(p.blocks),
		TotalBytes: p.totalSize,
		UsedBytes:  p.usedSize,
		FreeBytes:  p.freeSize,
		Objects:    p.objects,
	}
	if s.TotalBytes > 0 {
		s.Utilization = float64(s.UsedBytes) / float64(s.TotalBytes)
	}
	return s
}

// TotalSize returns the pool size in bytes.
func (p *Pool) TotalSize() int { return p.totalSize }

// UsedSize returns the bytes reserved by live allocations.
func (p *Pool) UsedSize() int { return p.usedSize }

// FreeSize returns the bytes available without growing.
func (p *Pool) FreeSize() int { return p.freeSize }

// ObjectCount returns the number of live allocations.
func (p *Pool) ObjectCount() int { return p.objects }

// ChunkCount returns the number of chunks in the ledger.
func (p *Pool) ChunkCount() int { return len(p.chunks) }

// ChunkSize returns the chunk unit.
func (p *Pool) ChunkSize() int { return p.chunkSize }
