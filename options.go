// Copyright (c) 2026 The Pulserng Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pulserng

import (
	"github.com/openrng/pulserng/pkg/buffer/pulse"
	"github.com/openrng/pulserng/pkg/logging"
)

// Option is a function that will set up option.
type Option func(opts *Options)

func loadOptions(options ...Option) *Options {
	opts := new(Options)
	for _, option := range options {
		option(opts)
	}
	return opts
}

// Options are configurations for a Device.
type Options struct {
	// OverflowHandler is called with the running drop count after a pulse is
	// discarded because the buffer was full. It runs on a background worker,
	// never on the capture path, and under sustained overflow some
	// notifications may be skipped rather than queued.
	OverflowHandler func(drops uint64)

	// Clock captures the timestamp recorded for each pulse. It defaults to
	// reading the wall clock and is mainly swapped out for a deterministic
	// clock in tests.
	Clock func() pulse.Sample

	// Logger is the customized logger for logging info, if it is not set,
	// then pulserng will use the default logger powered by go.uber.org/zap.
	Logger logging.Logger

	// LogPath the local path where logs will be written, this is the easy
	// way to set up logging, Logger takes precedence over it.
	LogPath string

	// LogLevel indicates the logging level, it should be used along with
	// LogPath.
	LogLevel logging.Level
}

// WithOptions sets up all options.
func WithOptions(options Options) Option {
	return func(opts *Options) {
		*opts = options
	}
}

// WithOverflowHandler sets up the callback invoked after a pulse is dropped.
func WithOverflowHandler(handler func(drops uint64)) Option {
	return func(opts *Options) {
		opts.OverflowHandler = handler
	}
}

// WithClock sets up the timestamp capture for each pulse.
func WithClock(clock func() pulse.Sample) Option {
	return func(opts *Options) {
		opts.Clock = clock
	}
}

// WithLogger sets up a customized logger.
func WithLogger(logger logging.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithLogPath sets up the local path of log file.
func WithLogPath(fileName string) Option {
	return func(opts *Options) {
		opts.LogPath = fileName
	}
}

// WithLogLevel sets up the logging level.
func WithLogLevel(lvl logging.Level) Option {
	return func(opts *Options) {
		opts.LogLevel = lvl
	}
}
