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
	"go.uber.org/atomic"

	"github.com/actorscope/actorscope/address"
)

// Runtime is the narrow accessor surface the host runtime must provide. The
// instrumentation core never reaches into runtime internals; everything it
// needs to know about the host goes through these two predicates.
type Runtime interface {
	// IsRouterCell reports whether the given cell fans work out to child
	// workers.
	IsRouterCell(cell Cell) bool
	// IsTerminalMailbox reports whether the given mailbox is the terminal,
	// message-discarding kind a cell is switched to during shutdown.
	IsTerminalMailbox(mailbox Mailbox) bool
}

// Mailbox is the read-only view of a host mailbox the core needs: a snapshot
// of the number of queued messages at swap time.
type Mailbox interface {
	// Len returns a snapshot of the number of messages in the mailbox.
	Len() int64
}

// Cell is the view of a host runtime's processing cell. The Monitor/SetMonitor
// pair is the single-assignment slot the cell stores its monitor in; hosts can
// embed MonitorSlot to satisfy it.
type Cell interface {
	// Address returns the identity of the actor hosted by the cell.
	Address() *address.Address
	// Parent returns the identity of the actor's parent, or nil for a root.
	Parent() *address.Address
	// Monitor returns the monitor stored on the cell, or nil before
	// construction completed.
	Monitor() *Monitor
	// SetMonitor stores the monitor on the cell. Only the first call has any
	// effect.
	SetMonitor(monitor *Monitor)
}

// MonitorSlot is a single-assignment monitor holder meant to be embedded into
// host cell types. The first SetMonitor wins; later calls are ignored, which
// keeps the cell/monitor relationship 1:1 for the cell's whole life without
// any locking around reads.
type MonitorSlot struct {
	monitor atomic.Pointer[Monitor]
}

// Monitor returns the stored monitor or nil when none has been set.
func (s *MonitorSlot) Monitor() *Monitor {
	return s.monitor.Load()
}

// SetMonitor stores the monitor. Only the first call has any effect.
func (s *MonitorSlot) SetMonitor(monitor *Monitor) {
	s.monitor.CompareAndSwap(nil, monitor)
}
