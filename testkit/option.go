// MIT License
//
// Copyright (c) 2024-2026 Actorscope Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package testkit

import (
	"github.com/actorscope/actorscope/address"
	"github.com/actorscope/actorscope/eventstream"
	"github.com/actorscope/actorscope/instrument"
	"github.com/actorscope/actorscope/log"
)

// config holds the runtime settings applied at construction.
type config struct {
	logger    log.Logger
	collector instrument.Collector
	stream    eventstream.Stream
}

// hookOptions translates the runtime settings into hook options.
func (c *config) hookOptions(logger log.Logger) []instrument.Option {
	opts := []instrument.Option{instrument.WithLogger(logger)}
	if c.collector != nil {
		opts = append(opts, instrument.WithCollector(c.collector))
	}
	if c.stream != nil {
		opts = append(opts, instrument.WithEventStream(c.stream))
	}
	return opts
}

// Option configures the runtime at construction.
type Option interface {
	// Apply sets the Option value.
	Apply(config *config)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(config *config)

// Apply applies the option.
func (f OptionFunc) Apply(config *config) {
	f(config)
}

// WithLogger sets the runtime logger, also used by the hooks for suppressed
// failures.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(config *config) {
		config.logger = logger
	})
}

// WithCollector sets the collector the hooks report to.
func WithCollector(collector instrument.Collector) Option {
	return OptionFunc(func(config *config) {
		config.collector = collector
	})
}

// WithEventStream sets the stream diagnostic and lifecycle events are
// published on.
func WithEventStream(stream eventstream.Stream) Option {
	return OptionFunc(func(config *config) {
		config.stream = stream
	})
}

// spawnSettings holds the per-cell settings applied at spawn.
type spawnSettings struct {
	mailbox Mailbox
	parent  *address.Address
	router  bool
}

// SpawnOption configures a single cell at spawn time.
type SpawnOption func(settings *spawnSettings)

// WithMailbox sets the cell's mailbox. The default is an unbounded MPSC
// mailbox.
func WithMailbox(mailbox Mailbox) SpawnOption {
	return func(settings *spawnSettings) {
		settings.mailbox = mailbox
	}
}

// WithParent records the given address as the cell's parent.
func WithParent(parent *address.Address) SpawnOption {
	return func(settings *spawnSettings) {
		settings.parent = parent
	}
}
