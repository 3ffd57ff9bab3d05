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
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/atomic"

	"github.com/actorscope/actorscope/address"
	"github.com/actorscope/actorscope/instrument"
)

// ErrCellStopped is returned when a message is sent to a cell whose
// termination has started.
var ErrCellStopped = errors.New("cell is stopped")

// Cell is a processing cell: a receiver, a mailbox and a single goroutine
// draining it. Messages are processed strictly one at a time, which is the
// serialization guarantee the monitor's context scope relies on.
type Cell struct {
	instrument.MonitorSlot

	addr   *address.Address
	parent *address.Address

	receiver Receiver
	system   *System
	router   bool

	mailboxMu sync.RWMutex
	mailbox   Mailbox

	signal   chan struct{}
	done     chan struct{}
	loopDone chan struct{}

	stopped *atomic.Bool
}

// enforce compilation error
var _ instrument.Cell = (*Cell)(nil)

// Address returns the cell's identity.
func (c *Cell) Address() *address.Address {
	return c.addr
}

// Parent returns the identity of the cell's parent, or nil for a top-level
// cell.
func (c *Cell) Parent() *address.Address {
	return c.parent
}

// deliver enqueues a message and wakes the processing loop.
func (c *Cell) deliver(msg *Message) error {
	if c.stopped.Load() {
		return ErrCellStopped
	}
	c.mailboxMu.RLock()
	mailbox := c.mailbox
	c.mailboxMu.RUnlock()
	if err := mailbox.Enqueue(msg); err != nil {
		return fmt.Errorf("failed to enqueue message: %w", err)
	}
	c.notify()
	return nil
}

// notify wakes the processing loop without blocking the producer.
func (c *Cell) notify() {
	select {
	case c.signal <- struct{}{}:
	default:
	}
}

// currentMailbox returns the mailbox currently installed on the cell.
func (c *Cell) currentMailbox() Mailbox {
	c.mailboxMu.RLock()
	defer c.mailboxMu.RUnlock()
	return c.mailbox
}

// run is the cell's processing loop. It drains the installed mailbox one
// message at a time until the cell is stopped.
func (c *Cell) run() {
	defer close(c.loopDone)
	for {
		select {
		case <-c.done:
			return
		case <-c.signal:
			for {
				msg := c.currentMailbox().Dequeue()
				if msg == nil {
					break
				}
				c.invoke(msg)
			}
		}
	}
}

// invoke processes a single message under the invoke hooks. A panic raised by
// the receiver is converted into a failure report; it neither kills the loop
// nor leaks the open scope.
func (c *Cell) invoke(msg *Message) {
	done := c.system.hooks.InvokeStarted(c, msg)
	defer done()
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
			}
			c.system.hooks.InvokeFailed(c, err)
		}
	}()

	rctx := &ReceiveContext{
		ctx:     c.Monitor().CaptureEnvelopeContext(),
		self:    c,
		message: msg.Payload(),
	}
	c.receiver.Receive(rctx)
}

// stop terminates the cell: the mailbox is swapped for the deadletters kind,
// the processing loop is told to exit, and once it has the cell is reported
// terminated. Messages still queued at swap time are dropped. Calling stop
// more than once is a no-op.
func (c *Cell) stop(ctx context.Context) error {
	if !c.stopped.CompareAndSwap(false, true) {
		return nil
	}

	deadletters := NewDeadlettersMailbox()
	token := c.system.hooks.MailboxSwapStarted(c, deadletters)
	c.mailboxMu.Lock()
	prev := c.mailbox
	c.mailbox = deadletters
	c.mailboxMu.Unlock()
	c.system.hooks.MailboxSwapCompleted(token, prev)

	close(c.done)
	select {
	case <-c.loopDone:
	case <-ctx.Done():
		return fmt.Errorf("failed to stop cell %s: %w", c.addr.String(), ctx.Err())
	}

	prev.Dispose()
	c.system.hooks.CellTerminated(c)
	return nil
}
