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

package pool_test

import (
	"fmt"

	"github.com/cloudwego/chunkmem/pool"
)

func Example() {
	p, _ := pool.New(pool.Options{InitialSize: 256, ChunkSize: 64, MinGrowSize: 64})
	defer p.Close()

	b1, _ := p.Acquire(100) // two chunks
	b2, _ := p.Acquire(200) // four chunks, the pool has to grow

	fmt.Printf("b1: len=%d cap=%d\n", len(b1), cap(b1))
	fmt.Printf("b2: len=%d cap=%d\n", len(b2), cap(b2))
	fmt.Printf("total=%d used=%d\n", p.TotalSize(), p.UsedSize())

	_ = p.Release(b1, 100)
	_ = p.Release(b2, 200)
	fmt.Printf("total=%d used=%d\n", p.TotalSize(), p.UsedSize())

	// Output:
	// b1: len=100 cap=128
	// b2: len=200 cap=256
	// total=512 used=384
	// total=512 used=0
}
