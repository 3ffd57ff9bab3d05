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

package instrument

import (
	"github.com/actorscope/actorscope/eventstream"
	"github.com/actorscope/actorscope/log"
)

// Option is the interface that applies a configuration option to Hooks.
type Option interface {
	// Apply sets the Option value on the hook set.
	Apply(hooks *Hooks)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(hooks *Hooks)

// Apply applies the option.
func (f OptionFunc) Apply(hooks *Hooks) {
	f(hooks)
}

// WithCollector specifies the collector lifecycle callbacks are forwarded to.
// If none is specified, NoopCollector is used.
func WithCollector(collector Collector) Option {
	return OptionFunc(func(hooks *Hooks) {
		if collector != nil {
			hooks.collector = collector
		}
	})
}

// WithLogger specifies the logger suppressed hook failures are reported to.
// If none is specified, log.DefaultLogger is used.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(hooks *Hooks) {
		if logger != nil {
			hooks.logger = logger
		}
	})
}

// WithEventStream specifies the stream diagnostic and lifecycle events are
// published to. If none is specified, no events are published.
func WithEventStream(stream eventstream.Stream) Option {
	return OptionFunc(func(hooks *Hooks) {
		hooks.stream = stream
	})
}
