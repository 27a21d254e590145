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

// findFreeRun returns the index of a free head whose run can hold minBytes,
// or -1. The scan starts at the cursor and wraps to the ledger head after the
// tail, visiting every chunk at most once. Live runs are skipped in one step
// using the head's span, so followers are never considered as heads.
func (p *Pool) findFreeRun(minBytes int) int {
	count := len(p.chunks)
	if count == 0 {
		return -1
	}
	need := chunksFor(minBytes, p.chunkSize)
	i := p.cursor
	for scanned := 0; scanned < count; {
		c := &p.chunks[i]
		if c.live() {
			scanned += c.span
			i = p.move(i, c.span)
			continue
		}
		if c.dataSize < minBytes {
			// too close to the end of its block, the rest of the block is no better
			skip := c.dataSize / p.chunkSize
			scanned += skip
			i = p.move(i, skip)
			continue
		}
		blocked := p.liveHeadIn(i+1, i+need)
		if blocked < 0 {
			p.cursor = i
			return i
		}
		scanned += blocked - i
		i = blocked
	}
	return -1
}

// liveHeadIn returns the first live head in [from, to), or -1.
// The range must lie within one block.
func (p *Pool) liveHeadIn(from, to int) int {
	for j := from; j < to; j++ {
		if p.chunks[j].live() {
			return j
		}
	}
	return -1
}
