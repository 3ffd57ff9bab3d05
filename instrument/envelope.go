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
)

// ContextCarrier is the capability a message type must implement to take part
// in context propagation. A message that does not implement it passes through
// the send hook unmodified.
//
// The carrier is written exactly once, at send time, and read-only on the
// receiving side. Implementations must make the setters first-write-wins so a
// pre-populated envelope is never overwritten; Envelope does this and is meant
// to be embedded into message types.
type ContextCarrier interface {
	// EnvelopeContext returns the context attached to the envelope, or nil
	// when none was attached.
	EnvelopeContext() context.Context
	// SetEnvelopeContext attaches a context to the envelope. Only the first
	// call has any effect.
	SetEnvelopeContext(ctx context.Context)
	// EnvelopeTimestamp returns the capture timestamp, or the zero time when
	// none was captured.
	EnvelopeTimestamp() time.Time
	// SetEnvelopeTimestamp records the capture timestamp. Only the first call
	// has any effect.
	SetEnvelopeTimestamp(sentAt time.Time)
}

// Envelope is a ready-made ContextCarrier for embedding into message types.
//
// It is not safe for concurrent mutation; the send hook is the only writer
// and runs before the message is handed to the mailbox, which establishes the
// happens-before edge towards the consumer.
type Envelope struct {
	ctx    context.Context
	sentAt time.Time
}

var _ ContextCarrier = (*Envelope)(nil)

// EnvelopeContext returns the attached context, or nil when none was attached.
func (e *Envelope) EnvelopeContext() context.Context {
	return e.ctx
}

// SetEnvelopeContext attaches the context. Only the first call has any effect.
func (e *Envelope) SetEnvelopeContext(ctx context.Context) {
	if e.ctx == nil {
		e.ctx = ctx
	}
}

// EnvelopeTimestamp returns the capture timestamp, or the zero time when none
// was captured.
func (e *Envelope) EnvelopeTimestamp() time.Time {
	return e.sentAt
}

// SetEnvelopeTimestamp records the capture timestamp. Only the first call has
// any effect.
func (e *Envelope) SetEnvelopeTimestamp(sentAt time.Time) {
	if e.sentAt.IsZero() {
		e.sentAt = sentAt
	}
}

// RootContext returns the empty context attached to envelopes sent while no
// context is active.
func RootContext() context.Context {
	return context.Background()
}

// isRootContext reports whether ctx carries no propagated state.
func isRootContext(ctx context.Context) bool {
	return ctx == nil || ctx == context.Background()
}
