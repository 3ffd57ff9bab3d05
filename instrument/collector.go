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
	"time"

	"github.com/actorscope/actorscope/address"
)

// Collector receives the lifecycle callbacks of every monitor. Implementations
// integrate a concrete metrics or tracing backend; the telemetry package
// provides an OpenTelemetry-backed one.
//
// Monitors of many cells report concurrently, so implementations must be safe
// for concurrent use. Implementations should not panic, but the hooks tolerate
// it when they do.
type Collector interface {
	// MonitorCreated is called once per cell, when its monitor is built.
	MonitorCreated(actor, parent *address.Address)
	// Failure is called when processing a message raised an unrecoverable
	// error.
	Failure(actor *address.Address, err error)
	// TerminationStarted is called once, on the first swap of the cell's
	// mailbox to the terminal kind.
	TerminationStarted(actor *address.Address)
	// MessagesDropped reports how many queued messages were discarded when the
	// cell's mailbox was replaced during termination.
	MessagesDropped(actor *address.Address, count int64)
	// QueueLatency reports the time a message spent between send and the start
	// of its processing.
	QueueLatency(actor *address.Address, latency time.Duration)
	// MonitorCleaned is called once, when the cell finally terminates.
	MonitorCleaned(actor *address.Address)
	// RouterCleaned is called when a routing cell terminates, in addition to
	// MonitorCleaned.
	RouterCleaned(actor *address.Address)
}

// NoopCollector is a Collector that does nothing. It is the default when no
// collector is configured.
type NoopCollector struct{}

var _ Collector = (*NoopCollector)(nil)

func (NoopCollector) MonitorCreated(actor, parent *address.Address)                 {}
func (NoopCollector) Failure(actor *address.Address, err error)                     {}
func (NoopCollector) TerminationStarted(actor *address.Address)                     {}
func (NoopCollector) MessagesDropped(actor *address.Address, count int64)           {}
func (NoopCollector) QueueLatency(actor *address.Address, latency time.Duration)    {}
func (NoopCollector) MonitorCleaned(actor *address.Address)                         {}
func (NoopCollector) RouterCleaned(actor *address.Address)                          {}
