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
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/cloudwego/chunkmem/pool"
)

// envPrefix is prepended to every variable name, e.g. CHUNKCTL_CHUNK_SIZE.
const envPrefix = "CHUNKCTL"

// Config holds the pool and logging settings shared by all subcommands.
type Config struct {
	ChunkSize   int  `envconfig:"CHUNK_SIZE" default:"64"`
	InitialSize int  `envconfig:"INITIAL_SIZE" default:"65536"`
	MinGrowSize int  `envconfig:"MIN_GROW_SIZE" default:"16384"`
	MaxPoolSize int  `envconfig:"MAX_POOL_SIZE" default:"0"`
	DebugFill   bool `envconfig:"DEBUG_FILL" default:"false"`
	Lenient     bool `envconfig:"LENIENT" default:"true"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// loadConfig reads envFile (or ./.env when empty and present) into the
// environment, then processes CHUNKCTL_* variables. Variables already set in
// the environment win over the file.
func loadConfig(envFile string) (Config, error) {
	var c Config
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return c, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c, fmt.Errorf("load .env: %w", err)
	}
	if err := envconfig.Process(envPrefix, &c); err != nil {
		return c, fmt.Errorf("process environment: %w", err)
	}
	return c, nil
}

// poolOptions converts c into pool options.
func (c Config) poolOptions() pool.Options {
	return pool.Options{
		InitialSize: c.InitialSize,
		ChunkSize:   c.ChunkSize,
		MinGrowSize: c.MinGrowSize,
		MaxPoolSize: c.MaxPoolSize,
		DebugFill:   c.DebugFill,
		Lenient:     c.Lenient,
	}
}
