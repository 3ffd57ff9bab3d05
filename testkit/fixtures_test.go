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
	"sync"
	"time"

	"github.com/actorscope/actorscope/address"
	"github.com/actorscope/actorscope/instrument"
)

type ctxKey string

// recordingCollector records every callback for assertions.
type recordingCollector struct {
	mu sync.Mutex

	created      []string
	failures     []error
	terminations []string
	dropped      []int64
	latencies    []time.Duration
	cleaned      []string
	routerClean  []string
}

var _ instrument.Collector = (*recordingCollector)(nil)

func (c *recordingCollector) MonitorCreated(actor, parent *address.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.created = append(c.created, actor.String())
}

func (c *recordingCollector) Failure(actor *address.Address, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, err)
}

func (c *recordingCollector) TerminationStarted(actor *address.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.terminations = append(c.terminations, actor.String())
}

func (c *recordingCollector) MessagesDropped(actor *address.Address, count int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropped = append(c.dropped, count)
}

func (c *recordingCollector) QueueLatency(actor *address.Address, latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latencies = append(c.latencies, latency)
}

func (c *recordingCollector) MonitorCleaned(actor *address.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleaned = append(c.cleaned, actor.String())
}

func (c *recordingCollector) RouterCleaned(actor *address.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routerClean = append(c.routerClean, actor.String())
}

func (c *recordingCollector) snapshot() recordingCollector {
	c.mu.Lock()
	defer c.mu.Unlock()
	return recordingCollector{
		created:      append([]string(nil), c.created...),
		failures:     append([]error(nil), c.failures...),
		terminations: append([]string(nil), c.terminations...),
		dropped:      append([]int64(nil), c.dropped...),
		latencies:    append([]time.Duration(nil), c.latencies...),
		cleaned:      append([]string(nil), c.cleaned...),
		routerClean:  append([]string(nil), c.routerClean...),
	}
}

// panickyCollector blows up on every callback.
type panickyCollector struct {
	instrument.NoopCollector
}

func (panickyCollector) MonitorCreated(actor, parent *address.Address) {
	panic("collector down")
}

func (panickyCollector) Failure(actor *address.Address, err error) {
	panic("collector down")
}

func (panickyCollector) QueueLatency(actor *address.Address, latency time.Duration) {
	panic("collector down")
}
