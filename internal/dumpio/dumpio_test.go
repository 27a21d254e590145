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
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterFrames(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)

	small := bytes.Repeat([]byte{1}, 64)
	large := bytes.Repeat([]byte{2}, nocopyWriteThreshold)
	for i := 0; i < 200; i++ { // spills over several buffers
		n, err := w.WriteFrame(small)
		require.NoError(t, err)
		require.Equal(t, 64, n)
	}
	_, err := w.WriteFrame(large)
	require.NoError(t, err)
	_, err = w.WriteFrame(small)
	require.NoError(t, err)
	assert.Equal(t, 201*64+len(large), w.WrittenLen())

	n, err := w.Flush()
	require.NoError(t, err)
	assert.Equal(t, int64(201*64+len(large)), n)
	assert.Equal(t, 0, w.WrittenLen())

	want := append(bytes.Repeat(small, 200), large...)
	want = append(want, small...)
	assert.Equal(t, want, out.Bytes())
}

func TestWriterFlushEmpty(t *testing.T) {
	var out bytes.Buffer
	n, err := NewWriter(&out).Flush()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestWriterStickyError(t *testing.T) {
	w := NewWriter(failWriter{})
	_, _ = w.WriteFrame([]byte("abc"))
	_, err := w.Flush()
	assert.Error(t, err)
	_, err = w.WriteFrame([]byte("abc"))
	assert.Error(t, err)
}

func TestReaderFrames(t *testing.T) {
	data := make([]byte, 100*32)
	for i := range data {
		data[i] = byte(i / 32)
	}
	r, err := NewReader(iotest.HalfReader(bytes.NewReader(data)), 32)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		frame, err := r.Next()
		require.NoError(t, err, "frame %d", i)
		require.Equal(t, bytes.Repeat([]byte{byte(i)}, 32), frame)
	}
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 100, r.Frames())
}

func TestReaderPartialFrame(t *testing.T) {
	r, err := NewReader(bytes.NewReader(make([]byte, 40)), 32)
	require.NoError(t, err)

	_, err = r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	assert.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestReaderBadFrameSize(t *testing.T) {
	_, err := NewReader(bytes.NewReader(nil), 0)
	assert.Error(t, err)
}

func TestReaderBufferBound(t *testing.T) {
	tests := []struct {
		name      string
		frameSize int
		wantCap   int
	}{
		{"small", 32, readBufSize},
		{"uneven", 3000, readBufSize / 3000 * 3000},
		{"frame_larger_than_bound", 1 << 20, 1 << 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, 2*tt.frameSize)
			data[tt.frameSize] = 1
			r, err := NewReader(bytes.NewReader(data), tt.frameSize)
			require.NoError(t, err)

			frame, err := r.Next()
			require.NoError(t, err)
			assert.Len(t, frame, tt.frameSize)
			assert.Equal(t, tt.wantCap, cap(r.buf))

			frame, err = r.Next()
			require.NoError(t, err)
			assert.Equal(t, byte(1), frame[0])
			_, err = r.Next()
			assert.Equal(t, io.EOF, err)
		})
	}
}
