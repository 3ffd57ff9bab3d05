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
	"context"
	"time"

	"go.uber.org/atomic"

	"github.com/actorscope/actorscope/address"
)

// Monitor observes a single processing cell for its whole life. One monitor is
// built per cell, before the cell processes its first message, and is never
// replaced.
//
// The active context field is only ever touched from the cell's serialized
// processing path (the runtime delivers a cell's messages one at a time), so
// it needs no synchronization; the mailbox hand-off between consecutive
// deliveries establishes the happens-before edge. The one-shot flags use
// atomics because termination hooks may run off the processing path.
type Monitor struct {
	actor  *address.Address
	parent *address.Address

	collector Collector

	// active is the head of the scope stack; nil when no scope is open.
	active context.Context

	terminating     *atomic.Bool
	droppedReported *atomic.Bool
	cleaned         *atomic.Bool
	failures        *atomic.Int64

	router *RouterMonitor
}

// NewMonitor creates a monitor for the cell identified by actor, with the
// given parent identity, and announces it to the collector. A nil collector
// defaults to NoopCollector.
func NewMonitor(actor, parent *address.Address, collector Collector) *Monitor {
	if collector == nil {
		collector = NoopCollector{}
	}
	monitor := &Monitor{
		actor:           actor,
		parent:          parent,
		collector:       collector,
		terminating:     atomic.NewBool(false),
		droppedReported: atomic.NewBool(false),
		cleaned:         atomic.NewBool(false),
		failures:        atomic.NewInt64(0),
	}
	collector.MonitorCreated(actor, parent)
	return monitor
}

// Actor returns the identity of the monitored actor.
func (m *Monitor) Actor() *address.Address {
	if m == nil {
		return address.NoSender()
	}
	return m.actor
}

// Parent returns the identity of the monitored actor's parent.
func (m *Monitor) Parent() *address.Address {
	if m == nil {
		return address.NoSender()
	}
	return m.parent
}

// Router returns the router monitor attached to this cell, or nil when the
// cell is not a routing cell.
func (m *Monitor) Router() *RouterMonitor {
	if m == nil {
		return nil
	}
	return m.router
}

// FailureCount returns the number of failures recorded so far.
func (m *Monitor) FailureCount() int64 {
	if m == nil {
		return 0
	}
	return m.failures.Load()
}

// CaptureEnvelopeContext returns the context to attach to an outgoing
// envelope: the currently active context, or the root context when no scope is
// open. Safe on a nil monitor, in which case the root context is returned.
func (m *Monitor) CaptureEnvelopeContext() context.Context {
	if m == nil || m.active == nil {
		return RootContext()
	}
	return m.active
}

// CaptureEnvelopeTimestamp returns the current time at the point of send.
func (m *Monitor) CaptureEnvelopeTimestamp() time.Time {
	return time.Now()
}

// OnFailure records an unrecoverable error raised while processing a message.
func (m *Monitor) OnFailure(err error) {
	if m == nil || err == nil {
		return
	}
	m.failures.Inc()
	m.collector.Failure(m.actor, err)
}

// OnTerminationStart marks the first transition of the cell's mailbox to the
// terminal kind. It returns true on that first transition only; later calls
// are no-ops, since a mailbox swap may be attempted more than once.
func (m *Monitor) OnTerminationStart() bool {
	if m == nil || !m.terminating.CompareAndSwap(false, true) {
		return false
	}
	m.collector.TerminationStarted(m.actor)
	return true
}

// OnDroppedMessages reports the number of messages queued in the mailbox being
// discarded. It reports at most once per cell and only after
// OnTerminationStart; the hooks sequence the two.
func (m *Monitor) OnDroppedMessages(count int64) bool {
	if m == nil || !m.terminating.Load() {
		return false
	}
	if !m.droppedReported.CompareAndSwap(false, true) {
		return false
	}
	if count < 0 {
		count = 0
	}
	m.collector.MessagesDropped(m.actor, count)
	return true
}

// ObserveQueueLatency turns the capture timestamp of an envelope about to be
// processed into a queue-latency sample. The zero time is ignored.
func (m *Monitor) ObserveQueueLatency(sentAt time.Time) {
	if m == nil || sentAt.IsZero() {
		return
	}
	m.collector.QueueLatency(m.actor, time.Since(sentAt))
}

// Cleanup releases the monitor when the cell finally terminates. It is safe to
// call even when earlier hooks were skipped, and only the first call reports
// to the collector.
func (m *Monitor) Cleanup() bool {
	if m == nil || !m.cleaned.CompareAndSwap(false, true) {
		return false
	}
	m.collector.MonitorCleaned(m.actor)
	return true
}

// RouterMonitor observes a routing cell. It shares the owning cell's monitor
// capabilities restricted to cleanup, which runs in addition to the owning
// cell's own cleanup when, and only when, the terminating cell is a routing
// cell.
type RouterMonitor struct {
	actor     *address.Address
	collector Collector
	cleaned   *atomic.Bool
}

// NewRouterMonitor creates a router monitor for the routing cell identified by
// actor.
func NewRouterMonitor(actor *address.Address, collector Collector) *RouterMonitor {
	if collector == nil {
		collector = NoopCollector{}
	}
	return &RouterMonitor{
		actor:     actor,
		collector: collector,
		cleaned:   atomic.NewBool(false),
	}
}

// Cleanup releases the router monitor. Only the first call reports to the
// collector.
func (r *RouterMonitor) Cleanup() bool {
	if r == nil || !r.cleaned.CompareAndSwap(false, true) {
		return false
	}
	r.collector.RouterCleaned(r.actor)
	return true
}
