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
	"unsafe"
)

// Release gives back an allocation returned by Acquire.
//
// size is the size passed to Acquire. It is only cross-checked, the run
// length stored on the head chunk is authoritative. A negative size skips
// the check.
//
// IMPORTANT: b must start where the slice returned by Acquire started.
// Reslicing from the front (b[n:]) makes it look like a foreign address.
func (p *Pool) Release(b []byte, size int) error {
	if p.closed {
		return p.fault(ErrClosed)
	}
	idx := p.chunkIndex(b)
	if idx < 0 {
		return p.fault(fmt.Errorf("%w: %p", ErrForeignAddress, unsafe.SliceData(b)))
	}
	head := &p.chunks[idx]
	if !head.live() || p.objects == 0 {
		return p.fault(fmt.Errorf("%w: chunk %d", ErrNotAcquired, idx))
	}
	if size >= 0 && chunksFor(size, p.chunkSize) != head.span {
		p.logger.Warn().
			Int("chunk", idx).
			Int("size", size).
			Int("acquired", head.used).
			Msg("release size does not match acquire size")
	}

	span := head.span
	if !p.blocks[head.block].contains(idx + span - 1) {
		return p.fault(fmt.Errorf("%w: chunk %d span %d", ErrBrokenRun, idx, span))
	}
	for i := idx; i < idx+span; i++ {
		c := &p.chunks[i]
		if p.debugFill {
			fill(c.data, FreedPattern)
		}
		c.used = 0
		c.span = 0
		p.usedSize -= p.chunkSize
		p.freeSize += p.chunkSize
	}
	p.objects--
	return nil
}

// chunkIndex returns the index of the chunk whose data starts at b's data
// pointer, or -1 if there is none.
func (p *Pool) chunkIndex(b []byte) int {
	data := unsafe.SliceData(b)
	if data == nil {
		return -1
	}
	ptr := uintptr(unsafe.Pointer(data))
	for i := range p.blocks {
		blk := &p.blocks[i]
		start := uintptr(unsafe.Pointer(unsafe.SliceData(blk.buf)))
		if ptr < start || ptr >= start+uintptr(blk.count*p.chunkSize) {
			continue
		}
		off := int(ptr - start)
		if off%p.chunkSize != 0 {
			return -1
		}
		return blk.first + off/p.chunkSize
	}
	return -1
}
