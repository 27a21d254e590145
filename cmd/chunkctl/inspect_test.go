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

package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/gopkg/util/xxhash3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/chunkmem/pool"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		want  string
	}{
		{"fresh", bytes.Repeat([]byte{pool.FreshPattern}, 64), classFresh},
		{"freed", bytes.Repeat([]byte{pool.FreedPattern}, 64), classFreed},
		{"zero", make([]byte, 64), classZero},
		{"uniform_data", bytes.Repeat([]byte{7}, 64), classData},
		{"mixed", append(bytes.Repeat([]byte{pool.FreshPattern}, 63), 1), classData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.frame))
		})
	}
}

func writePoolDump(t *testing.T) string {
	t.Helper()
	p, err := pool.New(pool.Options{InitialSize: 256, ChunkSize: 64, MinGrowSize: 64, DebugFill: true})
	require.NoError(t, err)

	b1, err := p.Acquire(64)
	require.NoError(t, err)
	b2, err := p.Acquire(100)
	require.NoError(t, err)
	copy(b2, bytes.Repeat([]byte{5}, 100))
	require.NoError(t, p.Release(b1, 64))

	path := filepath.Join(t.TempDir(), "pool.bin")
	ok, err := p.DumpToFile(path)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, p.Release(b2, 100))
	require.NoError(t, p.Close())
	return path
}

func TestInspectDump(t *testing.T) {
	path := writePoolDump(t)

	s, err := inspectDump(path, 64, true)
	require.NoError(t, err)
	assert.Equal(t, 256, s.Bytes)
	assert.Equal(t, 4, s.Chunks)
	// chunk 0 freed, chunks 1-2 hold b2 (the tail of chunk 2 is still fresh), chunk 3 fresh
	assert.Equal(t, map[string]int{classFresh: 1, classFreed: 1, classZero: 0, classData: 2}, s.Classes)
	require.Len(t, s.Detail, 4)
	assert.Equal(t, classFreed, s.Detail[0].Class)
	assert.Equal(t, 128, s.Detail[2].Offset)
	assert.Len(t, s.Digest, 16)
}

func TestRunInspectText(t *testing.T) {
	path := writePoolDump(t)

	var out bytes.Buffer
	require.NoError(t, runInspect(&out, path, 64, false))
	assert.Contains(t, out.String(), "Chunks:     4")
	assert.Contains(t, out.String(), "freed  1")
}

func TestRunInspectJSON(t *testing.T) {
	jsonOut = true
	defer func() { jsonOut = false }()
	path := writePoolDump(t)

	var out bytes.Buffer
	require.NoError(t, runInspect(&out, path, 64, false))
	var s dumpSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &s))
	assert.Equal(t, 4, s.Chunks)
	assert.Empty(t, s.Detail)
}

func TestInspectErrors(t *testing.T) {
	path := writePoolDump(t)

	_, err := inspectDump(path, 0, false)
	assert.Error(t, err)
	_, err = inspectDump(path, 100, false)
	assert.Error(t, err)
	_, err = inspectDump(filepath.Join(t.TempDir(), "missing.bin"), 64, false)
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	s, err := inspectDump(empty, 64, false)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Chunks)
}

func TestInspectDumpDigest(t *testing.T) {
	path := writePoolDump(t)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var sums []byte
	for off := 0; off < len(data); off += 64 {
		sums = binary.LittleEndian.AppendUint64(sums, xxhash3.Hash(data[off:off+64]))
	}
	s, err := inspectDump(path, 64, false)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%016x", xxhash3.Hash(sums)), s.Digest)

	// one flipped byte changes the digest
	data[200] ^= 0xFF
	other := filepath.Join(t.TempDir(), "other.bin")
	require.NoError(t, os.WriteFile(other, data, 0o644))
	s2, err := inspectDump(other, 64, false)
	require.NoError(t, err)
	assert.NotEqual(t, s.Digest, s2.Digest)
	assert.Equal(t, s.Chunks, s2.Chunks)
}
