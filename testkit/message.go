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

	"github.com/actorscope/actorscope/instrument"
)

// Message is the delivery unit of the testkit runtime. The embedded envelope
// makes every message a context carrier, so the send hook attaches the
// sender's active context and capture timestamp.
type Message struct {
	instrument.Envelope

	payload any
}

var _ instrument.ContextCarrier = (*Message)(nil)

// NewMessage wraps a payload for delivery.
func NewMessage(payload any) *Message {
	return &Message{payload: payload}
}

// Payload returns the wrapped payload.
func (m *Message) Payload() any {
	return m.payload
}

// ReceiveContext is handed to a receiver for each delivered message.
type ReceiveContext struct {
	ctx     context.Context
	self    *Cell
	message any
}

// Context returns the context propagated with the message: the context that
// was active in the sending cell at send time, or the root context when the
// message originated outside any cell.
func (rctx *ReceiveContext) Context() context.Context {
	return rctx.ctx
}

// Self returns the cell processing the message.
func (rctx *ReceiveContext) Self() *Cell {
	return rctx.self
}

// Message returns the payload being processed.
func (rctx *ReceiveContext) Message() any {
	return rctx.message
}

// Tell sends a payload to another cell from within processing. The active
// context is attached to the outgoing message, which is how a context crosses
// the asynchronous hand-off.
func (rctx *ReceiveContext) Tell(to *Cell, payload any) error {
	message := NewMessage(payload)
	rctx.self.system.hooks.MessageSent(rctx.self, message)
	return to.deliver(message)
}

// Receiver processes the messages delivered to a cell, one at a time.
type Receiver interface {
	Receive(rctx *ReceiveContext)
}

// ReceiverFunc adapts a function to the Receiver interface.
type ReceiverFunc func(rctx *ReceiveContext)

var _ Receiver = (ReceiverFunc)(nil)

// Receive implements Receiver.
func (f ReceiverFunc) Receive(rctx *ReceiveContext) {
	f(rctx)
}
