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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bytedance/gopkg/util/xxhash3"
	"github.com/spf13/cobra"

	"github.com/cloudwego/chunkmem/internal/dumpio"
	"github.com/cloudwego/chunkmem/pool"
)

var inspectVerbose bool

func init() {
	cmd := newInspectCmd()
	cmd.Flags().BoolVarP(&inspectVerbose, "verbose", "v", false, "List every chunk")
	rootCmd.AddCommand(cmd)
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <dump>",
		Short: "Summarize a pool dump",
		Long: `The inspect command splits a pool dump into chunks and classifies each
one by its contents. The chunk size is not stored in the dump and must match
the pool that wrote it (--chunk-size or CHUNKCTL_CHUNK_SIZE).

Classes:
  fresh  every byte is the debug fill pattern for new memory (0xFF)
  freed  every byte is the debug fill pattern for released memory (0xAA)
  zero   every byte is 0
  data   anything else

Example:
  chunkctl inspect worker-0.bin --chunk-size 64
  chunkctl inspect worker-0.bin --verbose --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args[0], cfg.ChunkSize, inspectVerbose)
		},
	}
}

// Chunk classes reported by inspect.
const (
	classFresh = "fresh"
	classFreed = "freed"
	classZero  = "zero"
	classData  = "data"
)

type chunkInfo struct {
	Index  int    `json:"index"`
	Offset int    `json:"offset"`
	Class  string `json:"class"`
}

type dumpSummary struct {
	Path      string         `json:"path"`
	Bytes     int            `json:"bytes"`
	ChunkSize int            `json:"chunk_size"`
	Chunks    int            `json:"chunks"`
	Classes   map[string]int `json:"classes"`
	Digest    string         `json:"digest"`
	Detail    []chunkInfo    `json:"detail,omitempty"`
}

func classify(frame []byte) string {
	if len(frame) == 0 {
		return classZero
	}
	first := frame[0]
	for _, v := range frame[1:] {
		if v != first {
			return classData
		}
	}
	switch first {
	case pool.FreshPattern:
		return classFresh
	case pool.FreedPattern:
		return classFreed
	case 0:
		return classZero
	}
	return classData
}

// inspectDump streams the dump at path chunk by chunk. The digest is the
// xxhash3 of the concatenated per-chunk xxhash3 sums, so it is computed
// without holding the dump in memory.
func inspectDump(path string, chunkSize int, verbose bool) (*dumpSummary, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be > 0, got %d", chunkSize)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dump: %w", err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat dump: %w", err)
	}
	size := fi.Size()
	if size%int64(chunkSize) != 0 {
		return nil, fmt.Errorf("dump size %d is not a multiple of chunk size %d", size, chunkSize)
	}

	r, err := dumpio.NewReader(f, chunkSize)
	if err != nil {
		return nil, err
	}
	s := &dumpSummary{
		Path:      path,
		Bytes:     int(size),
		ChunkSize: chunkSize,
		Classes:   map[string]int{classFresh: 0, classFreed: 0, classZero: 0, classData: 0},
	}
	sums := make([]byte, 0, 8*int(size/int64(chunkSize)))
	for {
		frame, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read chunk %d: %w", r.Frames(), err)
		}
		sums = binary.LittleEndian.AppendUint64(sums, xxhash3.Hash(frame))
		class := classify(frame)
		s.Classes[class]++
		if verbose {
			s.Detail = append(s.Detail, chunkInfo{Index: s.Chunks, Offset: s.Chunks * chunkSize, Class: class})
		}
		s.Chunks++
	}
	s.Digest = fmt.Sprintf("%016x", xxhash3.Hash(sums))
	return s, nil
}

func runInspect(out io.Writer, path string, chunkSize int, verbose bool) error {
	s, err := inspectDump(path, chunkSize, verbose)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(out, s)
	}
	fmt.Fprintf(out, "Dump:       %s\n", s.Path)
	fmt.Fprintf(out, "Bytes:      %d\n", s.Bytes)
	fmt.Fprintf(out, "Chunk size: %d\n", s.ChunkSize)
	fmt.Fprintf(out, "Chunks:     %d\n", s.Chunks)
	fmt.Fprintf(out, "Digest:     %s\n", s.Digest)
	for _, class := range []string{classFresh, classFreed, classZero, classData} {
		fmt.Fprintf(out, "  %-6s %d\n", class, s.Classes[class])
	}
	for _, c := range s.Detail {
		fmt.Fprintf(out, "%8d  0x%08x  %s\n", c.Index, c.Offset, c.Class)
	}
	return nil
}
