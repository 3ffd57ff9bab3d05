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
	"sync"
	"time"

	"github.com/actorscope/actorscope/address"
)

// testMessage is a carrier-capable message used across the tests.
type testMessage struct {
	Envelope
	payload string
}

// plainMessage does not implement ContextCarrier.
type plainMessage struct {
	payload string
}

// testMailbox is a mailbox stub with a fixed snapshot size.
type testMailbox struct {
	size     int64
	terminal bool
}

func (m *testMailbox) Len() int64 {
	return m.size
}

// testCell implements Cell with the embedded single-assignment slot.
type testCell struct {
	MonitorSlot
	addr   *address.Address
	parent *address.Address
}

func newTestCell(name string) *testCell {
	return &testCell{addr: address.New(name, "testsys")}
}

func (c *testCell) Address() *address.Address {
	return c.addr
}

func (c *testCell) Parent() *address.Address {
	return c.parent
}

// testRuntime implements the Runtime accessor surface.
type testRuntime struct {
	routers map[Cell]bool
}

func newTestRuntime() *testRuntime {
	return &testRuntime{routers: make(map[Cell]bool)}
}

func (r *testRuntime) IsRouterCell(cell Cell) bool {
	return r.routers[cell]
}

func (r *testRuntime) IsTerminalMailbox(mailbox Mailbox) bool {
	mb, ok := mailbox.(*testMailbox)
	return ok && mb.terminal
}

// recordingCollector records every callback it receives.
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

// panickyCollector blows up on every callback to exercise hook suppression.
type panickyCollector struct {
	NoopCollector
}

func (panickyCollector) MonitorCreated(actor, parent *address.Address) {
	panic("collector down")
}

func (panickyCollector) Failure(actor *address.Address, err error) {
	panic("collector down")
}

func (panickyCollector) TerminationStarted(actor *address.Address) {
	panic("collector down")
}
