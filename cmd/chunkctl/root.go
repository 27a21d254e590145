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
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cloudwego/chunkmem/internal/logging"
	"github.com/cloudwego/chunkmem/pool"
)

var (
	// Global flags
	envFile   string
	logLevel  string
	logFormat string
	jsonOut   bool

	// Pool flags, override the environment when set
	flagChunkSize   int
	flagInitialSize int
	flagMinGrowSize int
	flagMaxPoolSize int
	flagDebugFill   bool
	flagLenient     bool

	// cfg is loaded before any subcommand runs
	cfg    Config
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "chunkctl",
	Short: "Drive and inspect fixed-unit chunk pools",
	Long: `chunkctl runs allocation workloads against chunk pools and inspects
the binary dumps they write.

Pool settings come from CHUNKCTL_* environment variables, an optional .env
file, and command line flags, in increasing order of precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(envFile)
		if err != nil {
			return err
		}
		applyPoolFlags(cmd)
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}
		logger, err = logging.NewLogger(logging.Config{
			Format: cfg.LogFormat,
			Level:  cfg.LogLevel,
			Output: cmd.ErrOrStderr(),
		})
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load settings from this file instead of ./.env")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")

	rootCmd.PersistentFlags().IntVar(&flagChunkSize, "chunk-size", pool.DefaultChunkSize, "Chunk unit in bytes")
	rootCmd.PersistentFlags().IntVar(&flagInitialSize, "initial-size", pool.DefaultInitialSize, "Bytes reserved when a pool is created")
	rootCmd.PersistentFlags().IntVar(&flagMinGrowSize, "min-grow-size", pool.DefaultMinGrowSize, "Minimum growth step in bytes")
	rootCmd.PersistentFlags().IntVar(&flagMaxPoolSize, "max-pool-size", 0, "Pool size cap in bytes (0 = unlimited)")
	rootCmd.PersistentFlags().BoolVar(&flagDebugFill, "debug-fill", false, "Fill fresh and freed memory with debug patterns")
	rootCmd.PersistentFlags().BoolVar(&flagLenient, "lenient", true, "Report pool faults as errors instead of panicking")
}

func applyPoolFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("chunk-size") {
		cfg.ChunkSize = flagChunkSize
	}
	if flags.Changed("initial-size") {
		cfg.InitialSize = flagInitialSize
	}
	if flags.Changed("min-grow-size") {
		cfg.MinGrowSize = flagMinGrowSize
	}
	if flags.Changed("max-pool-size") {
		cfg.MaxPoolSize = flagMaxPoolSize
	}
	if flags.Changed("debug-fill") {
		cfg.DebugFill = flagDebugFill
	}
	if flags.Changed("lenient") {
		cfg.Lenient = flagLenient
	}
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printJSON outputs data as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
