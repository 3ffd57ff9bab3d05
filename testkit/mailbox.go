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
	"sync/atomic"

	gods "github.com/Workiva/go-datastructures/queue"

	"github.com/actorscope/actorscope/instrument"
)

// Mailbox is the message buffer of a cell.
//
// Enqueue is safe for multiple producers; Dequeue must only be called by the
// cell's single processing goroutine.
type Mailbox interface {
	instrument.Mailbox

	// Enqueue inserts a message into the mailbox.
	Enqueue(msg *Message) error
	// Dequeue removes and returns the next message, or nil when empty.
	Dequeue() *Message
	// IsEmpty reports whether the mailbox currently has no messages.
	IsEmpty() bool
	// Dispose releases resources held by the mailbox.
	Dispose()
}

// mpscNode is a node of the unbounded MPSC queue.
type mpscNode struct {
	next atomic.Pointer[mpscNode]
	data *Message
}

var mpscNodePool = sync.Pool{New: func() any { return new(mpscNode) }}

// UnboundedMailbox is the default mailbox: unbounded, lock-free,
// multi-producer single-consumer, FIFO across producers. Len is an O(n)
// snapshot traversal intended for diagnostics only.
type UnboundedMailbox struct {
	head  atomic.Pointer[mpscNode] // consumer only
	_pad1 [64]byte
	tail  atomic.Pointer[mpscNode] // producers only
	_pad2 [64]byte
}

// enforce compilation error
var _ Mailbox = (*UnboundedMailbox)(nil)

// NewUnboundedMailbox creates an UnboundedMailbox. The queue starts with a
// dummy node so producers can append by swapping tail and linking through the
// previous node.
func NewUnboundedMailbox() *UnboundedMailbox {
	dummy := mpscNodePool.Get().(*mpscNode)
	dummy.next.Store(nil)
	dummy.data = nil
	m := &UnboundedMailbox{}
	m.head.Store(dummy)
	m.tail.Store(dummy)
	return m
}

// Enqueue places the given message in the mailbox. Never blocks; always
// returns nil.
func (m *UnboundedMailbox) Enqueue(msg *Message) error {
	n := mpscNodePool.Get().(*mpscNode)
	n.data = msg

	prev := m.tail.Swap(n)
	prev.next.Store(n)
	return nil
}

// Dequeue removes and returns the message at the head of the mailbox, or nil
// when the mailbox is empty. Single consumer only.
func (m *UnboundedMailbox) Dequeue() *Message {
	head := m.head.Load()
	next := head.next.Load()
	if next == nil {
		return nil
	}

	m.head.Store(next)
	msg := next.data

	head.next.Store(nil)
	mpscNodePool.Put(head)
	return msg
}

// Len returns a best-effort snapshot of the number of queued messages.
func (m *UnboundedMailbox) Len() int64 {
	n := m.head.Load().next.Load()
	var count int64
	for n != nil {
		count++
		n = n.next.Load()
	}
	return count
}

// IsEmpty reports whether the mailbox is empty. O(1).
func (m *UnboundedMailbox) IsEmpty() bool {
	return m.head.Load().next.Load() == nil
}

// Dispose is a no-op for this mailbox.
func (m *UnboundedMailbox) Dispose() {}

// BoundedMailbox is a bounded, blocking MPSC mailbox backed by a ring buffer.
// Enqueue blocks when the mailbox is full until space becomes available or
// the mailbox is disposed.
type BoundedMailbox struct {
	underlying *gods.RingBuffer
}

// enforce compilation error
var _ Mailbox = (*BoundedMailbox)(nil)

// NewBoundedMailbox creates a bounded, blocking mailbox with the given
// capacity. Capacity must be a positive integer.
func NewBoundedMailbox(capacity int) *BoundedMailbox {
	return &BoundedMailbox{
		underlying: gods.NewRingBuffer(uint64(capacity)),
	}
}

// Enqueue inserts a message into the mailbox. Blocks when full; returns an
// error when the mailbox has been disposed.
func (m *BoundedMailbox) Enqueue(msg *Message) error {
	return m.underlying.Put(msg)
}

// Dequeue removes and returns the next message, or nil when empty.
func (m *BoundedMailbox) Dequeue() *Message {
	if m.underlying.Len() > 0 {
		item, _ := m.underlying.Get()
		if v, ok := item.(*Message); ok {
			return v
		}
	}
	return nil
}

// Len returns the current number of queued messages.
func (m *BoundedMailbox) Len() int64 {
	return int64(m.underlying.Len())
}

// IsEmpty reports whether the mailbox currently has no messages.
func (m *BoundedMailbox) IsEmpty() bool {
	return m.underlying.Len() == 0
}

// Dispose releases the underlying ring buffer and unblocks any waiters. Do
// not use the mailbox afterwards.
func (m *BoundedMailbox) Dispose() {
	m.underlying.Dispose()
}

// DeadlettersMailbox is the terminal mailbox a cell is switched to when it
// terminates. It accepts and discards everything; swapping a cell's mailbox
// to this kind is what marks the start of its termination.
type DeadlettersMailbox struct {
	discarded atomic.Int64
}

// enforce compilation error
var _ Mailbox = (*DeadlettersMailbox)(nil)

// NewDeadlettersMailbox creates a DeadlettersMailbox.
func NewDeadlettersMailbox() *DeadlettersMailbox {
	return new(DeadlettersMailbox)
}

// Enqueue discards the message.
func (m *DeadlettersMailbox) Enqueue(*Message) error {
	m.discarded.Add(1)
	return nil
}

// Dequeue always returns nil.
func (m *DeadlettersMailbox) Dequeue() *Message {
	return nil
}

// Len always returns zero; discarded messages are not retained.
func (m *DeadlettersMailbox) Len() int64 {
	return 0
}

// IsEmpty always returns true.
func (m *DeadlettersMailbox) IsEmpty() bool {
	return true
}

// Dispose is a no-op for this mailbox.
func (m *DeadlettersMailbox) Dispose() {}

// Discarded returns the number of messages this mailbox swallowed after the
// cell terminated.
func (m *DeadlettersMailbox) Discarded() int64 {
	return m.discarded.Load()
}
