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

// Package dumpio implements the buffered I/O used for pool dumps.
//
// A dump is a headerless concatenation of fixed-size frames, one per chunk.
// Writer batches frames into mcache buffers (or references large ones
// directly) and flushes them with a single vectored write. Reader splits a
// dump back into frames of a size the caller knows out-of-band.
package dumpio

import (
	"io"
	"net"

	"github.com/bytedance/gopkg/lang/mcache"
)

const (
	defaultBufSize       = 8 * 1024
	nocopyWriteThreshold = 4 * 1024
)

// Writer buffers dump frames for w.
type Writer struct {
	chunk  []byte
	chunks net.Buffers

	wl int // written len since the last Flush

	toFree [][]byte

	wd  io.Writer
	err error
}

// NewWriter returns a new Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{wd: w}
}

func (w *Writer) acquire(n int) {
	// fast path, for inline
	if len(w.chunk)+n <= cap(w.chunk) {
		return
	}
	w.acquireSlow(n)
}

func (w *Writer) acquireSlow(n int) {
	if len(w.chunk) > 0 {
		w.chunks = append(w.chunks, w.chunk)
	}
	var ncap int
	for ncap = defaultBufSize; ncap < n; ncap *= 2 {
	}
	w.chunk = mcache.Malloc(0, ncap)
	w.toFree = append(w.toFree, w.chunk)
}

// WriteFrame appends one frame. Frames of nocopyWriteThreshold bytes or more
// are referenced, not copied, so they must stay unchanged until Flush.
func (w *Writer) WriteFrame(b []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	if len(b) >= nocopyWriteThreshold {
		if len(w.chunk) > 0 {
			w.chunks = append(w.chunks, w.chunk)
			w.chunk = w.chunk[len(w.chunk):]
		}
		w.chunks = append(w.chunks, b)
		w.wl += len(b)
		return len(b), nil
	}
	w.acquire(len(b))
	n = copy(w.chunk[len(w.chunk):cap(w.chunk)], b)
	w.chunk = w.chunk[:len(w.chunk)+n]
	w.wl += n
	return n, nil
}

// WrittenLen returns the number of bytes buffered since the last Flush.
func (w *Writer) WrittenLen() int {
	return w.wl
}

// Flush writes all buffered frames to the underlying io.Writer and
// returns the buffers to mcache.
func (w *Writer) Flush() (int64, error) {
	if w.err != nil {
		return 0, w.err
	}
	if len(w.chunk) > 0 {
		w.chunks = append(w.chunks, w.chunk)
		w.chunk = nil
	}
	var written int64
	if len(w.chunks) > 0 {
		bufs := w.chunks
		written, w.err = bufs.WriteTo(w.wd)
		for i := range w.chunks {
			w.chunks[i] = nil
		}
		w.chunks = w.chunks[:0]
	}
	w.chunk = nil
	w.wl = 0
	for i, buf := range w.toFree {
		mcache.Free(buf)
		w.toFree[i] = nil
	}
	w.toFree = w.toFree[:0]
	return written, w.err
}
