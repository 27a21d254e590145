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

package dumpio

import (
	"errors"
	"io"

	"github.com/bytedance/gopkg/lang/dirtmake"
)

var errFrameSize = errors.New("dumpio: frame size must be > 0")

// readBufSize bounds how much Reader pulls from the source at once.
// The buffer always holds at least one frame.
const readBufSize = defaultBufSize * 8

// Reader splits a dump into frames of a fixed size.
type Reader struct {
	buf []byte // buf[ri:] holds frames not yet returned
	ri  int
	rn  int // frames returned

	frameSize int
	rd        io.Reader
	err       error
}

// NewReader returns a Reader yielding frameSize-byte frames from r.
func NewReader(r io.Reader, frameSize int) (*Reader, error) {
	if frameSize <= 0 {
		return nil, errFrameSize
	}
	return &Reader{rd: r, frameSize: frameSize}, nil
}

func (r *Reader) fill() {
	if r.buf == nil {
		r.buf = dirtmake.Bytes(0, max(r.frameSize, readBufSize/r.frameSize*r.frameSize))
	}
	// keep the partial tail, if any
	n := copy(r.buf[:cap(r.buf)], r.buf[r.ri:])
	r.buf = r.buf[:n]
	r.ri = 0
	for len(r.buf) < r.frameSize && r.err == nil {
		m, err := r.rd.Read(r.buf[len(r.buf):cap(r.buf)])
		r.buf = r.buf[:len(r.buf)+m]
		if err != nil {
			r.err = err
		}
	}
}

// Next returns the next frame. The frame is only valid until the next call.
// It returns io.EOF after the last whole frame, and io.ErrUnexpectedEOF when
// the dump ends in the middle of a frame.
func (r *Reader) Next() ([]byte, error) {
	if len(r.buf)-r.ri < r.frameSize {
		r.fill()
	}
	if avail := len(r.buf) - r.ri; avail < r.frameSize {
		err := r.err
		if err == io.EOF && avail > 0 {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	frame := r.buf[r.ri : r.ri+r.frameSize]
	r.ri += r.frameSize
	r.rn++
	return frame, nil
}

// Frames returns the number of frames returned so far.
func (r *Reader) Frames() int {
	return r.rn
}
