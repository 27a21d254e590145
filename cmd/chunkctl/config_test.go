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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	c, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 64, c.ChunkSize)
	assert.Equal(t, 65536, c.InitialSize)
	assert.Equal(t, 16384, c.MinGrowSize)
	assert.Equal(t, 0, c.MaxPoolSize)
	assert.False(t, c.DebugFill)
	assert.True(t, c.Lenient)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("CHUNKCTL_CHUNK_SIZE", "128")
	t.Setenv("CHUNKCTL_DEBUG_FILL", "true")

	c, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 128, c.ChunkSize)
	assert.True(t, c.DebugFill)

	opts := c.poolOptions()
	assert.Equal(t, 128, opts.ChunkSize)
	assert.True(t, opts.DebugFill)
	assert.True(t, opts.Lenient)
}

func TestLoadConfigEnvFile(t *testing.T) {
	const key = "CHUNKCTL_MAX_POOL_SIZE"
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), "chunkctl.env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=1048576\n"), 0o644))

	c, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1048576, c.MaxPoolSize)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	t.Setenv("CHUNKCTL_CHUNK_SIZE", "large")
	_, err = loadConfig("")
	assert.Error(t, err)
}
