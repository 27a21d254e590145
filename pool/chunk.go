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

// chunk is the accounting record of one chunk-unit slice of a block.
// Records live in Pool.chunks and are addressed by index, "next" is index+1.
type chunk struct {
	// data is this chunk's slice of its block, len == chunk unit.
	data []byte

	// dataSize is the capacity in bytes from this chunk to the end of its block.
	// A run starting here can never be longer than that.
	dataSize int

	// used is the size the client asked for. Only meaningful on a live head.
	used int

	// span is the run length in chunks of a live head, 0 otherwise.
	// Followers of a run keep span == 0.
	span int

	// block is the index of the owning block in Pool.blocks.
	block int

	// isAllocationChunk is set on the first chunk of each block, the one
	// responsible for handing the block back at Close.
	isAllocationChunk bool
}

func (c *chunk) live() bool {
	return c.span > 0
}

// block is the backing memory of one growth step.
type block struct {
	buf   []byte
	first int // index of the allocation chunk
	count int // number of chunks carved from buf
}

// contains reports whether the chunk index i belongs to the block.
func (b *block) contains(i int) bool {
	return i >= b.first && i < b.first+b.count
}

// chunksFor returns how many chunk units hold size bytes. Zero bytes still
// takes one chunk so that every allocation owns a distinct head.
func chunksFor(size, unit int) int {
	n := (size + unit - 1) / unit
	if n == 0 {
		return 1
	}
	return n
}

// move returns the index n links forward from i, wrapping at the tail.
func (p *Pool) move(i, n int) int {
	return (i + n) % len(p.chunks)
}

// linkBlock carves b into chunk records and appends them to the ledger.
func (p *Pool) linkBlock(b *block) {
	bi := len(p.blocks)
	for k := 0; k < b.count; k++ {
		off := k * p.chunkSize
		p.chunks = append(p.chunks, chunk{
			data:              b.buf[off : off+p.chunkSize : off+p.chunkSize],
			dataSize:          (b.count - k) * p.chunkSize,
			block:             bi,
			isAllocationChunk: k == 0,
		})
	}
	p.blocks = append(p.blocks, *b)
}
