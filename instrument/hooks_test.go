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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actorscope/actorscope/eventstream"
	"github.com/actorscope/actorscope/log"
)

func TestCellConstructed(t *testing.T) {
	t.Run("With a regular cell", func(t *testing.T) {
		runtime := newTestRuntime()
		collector := new(recordingCollector)
		hooks := NewHooks(runtime, WithCollector(collector), WithLogger(log.DiscardLogger))

		cell := newTestCell("a")
		hooks.CellConstructed(cell)

		monitor := cell.Monitor()
		require.NotNil(t, monitor)
		assert.Nil(t, monitor.Router())
		assert.Len(t, collector.snapshot().created, 1)

		// a second construction hook never replaces the monitor
		hooks.CellConstructed(cell)
		assert.Same(t, monitor, cell.Monitor())
		assert.Len(t, collector.snapshot().created, 1)
	})
	t.Run("With a routing cell", func(t *testing.T) {
		runtime := newTestRuntime()
		collector := new(recordingCollector)
		hooks := NewHooks(runtime, WithCollector(collector), WithLogger(log.DiscardLogger))

		cell := newTestCell("router")
		runtime.routers[cell] = true
		hooks.CellConstructed(cell)

		require.NotNil(t, cell.Monitor())
		assert.NotNil(t, cell.Monitor().Router())
	})
	t.Run("With a nil cell", func(t *testing.T) {
		hooks := NewHooks(newTestRuntime(), WithLogger(log.DiscardLogger))
		assert.NotPanics(t, func() {
			hooks.CellConstructed(nil)
		})
	})
}

func TestMessageSent(t *testing.T) {
	t.Run("With an active scope on the sender", func(t *testing.T) {
		hooks := NewHooks(newTestRuntime(), WithLogger(log.DiscardLogger))
		sender := newTestCell("a")
		hooks.CellConstructed(sender)

		ctx := context.WithValue(context.Background(), ctxKey("trace"), "trace-1")
		scope := sender.Monitor().OpenScope(ctx)
		defer scope.Close()

		message := new(testMessage)
		hooks.MessageSent(sender, message)

		assert.Equal(t, ctx, message.EnvelopeContext())
		assert.False(t, message.EnvelopeTimestamp().IsZero())
	})
	t.Run("With no active scope", func(t *testing.T) {
		hooks := NewHooks(newTestRuntime(), WithLogger(log.DiscardLogger))
		sender := newTestCell("a")
		hooks.CellConstructed(sender)

		message := new(testMessage)
		hooks.MessageSent(sender, message)

		assert.Equal(t, RootContext(), message.EnvelopeContext())
	})
	t.Run("With no sending cell", func(t *testing.T) {
		hooks := NewHooks(newTestRuntime(), WithLogger(log.DiscardLogger))

		message := new(testMessage)
		hooks.MessageSent(nil, message)

		assert.Equal(t, RootContext(), message.EnvelopeContext())
		assert.False(t, message.EnvelopeTimestamp().IsZero())
	})
	t.Run("With a message that is not a carrier", func(t *testing.T) {
		hooks := NewHooks(newTestRuntime(), WithLogger(log.DiscardLogger))
		assert.NotPanics(t, func() {
			hooks.MessageSent(nil, &plainMessage{payload: "untouched"})
		})
	})
}

func TestInvokeStarted(t *testing.T) {
	t.Run("With a carried context", func(t *testing.T) {
		collector := new(recordingCollector)
		hooks := NewHooks(newTestRuntime(), WithCollector(collector), WithLogger(log.DiscardLogger))
		cell := newTestCell("b")
		hooks.CellConstructed(cell)

		ctx := context.WithValue(context.Background(), ctxKey("trace"), "trace-1")
		message := new(testMessage)
		message.SetEnvelopeContext(ctx)
		message.SetEnvelopeTimestamp(time.Now().Add(-5 * time.Millisecond))

		done := hooks.InvokeStarted(cell, message)
		assert.Equal(t, ctx, cell.Monitor().CaptureEnvelopeContext())
		done()
		assert.Equal(t, RootContext(), cell.Monitor().CaptureEnvelopeContext())

		// the capture timestamp produced a queue latency sample
		require.Len(t, collector.snapshot().latencies, 1)
	})
	t.Run("Without a carried context", func(t *testing.T) {
		hooks := NewHooks(newTestRuntime(), WithLogger(log.DiscardLogger))
		cell := newTestCell("b")
		hooks.CellConstructed(cell)

		done := hooks.InvokeStarted(cell, &plainMessage{})
		assert.Equal(t, RootContext(), cell.Monitor().CaptureEnvelopeContext())
		done()
		assert.Equal(t, RootContext(), cell.Monitor().CaptureEnvelopeContext())
	})
	t.Run("With a cell that has no monitor", func(t *testing.T) {
		hooks := NewHooks(newTestRuntime(), WithLogger(log.DiscardLogger))
		done := hooks.InvokeStarted(newTestCell("unmonitored"), new(testMessage))
		require.NotNil(t, done)
		assert.NotPanics(t, done)
	})
}

func TestBatchInvokeStarted(t *testing.T) {
	t.Run("With a carried context", func(t *testing.T) {
		hooks := NewHooks(newTestRuntime(), WithLogger(log.DiscardLogger))
		cell := newTestCell("b")
		hooks.CellConstructed(cell)

		ctx := context.WithValue(context.Background(), ctxKey("trace"), "trace-1")
		message := new(testMessage)
		message.SetEnvelopeContext(ctx)

		done := hooks.BatchInvokeStarted(cell, message)
		assert.Equal(t, ctx, cell.Monitor().CaptureEnvelopeContext())
		done()
		assert.Equal(t, RootContext(), cell.Monitor().CaptureEnvelopeContext())
	})
	t.Run("Without a carried context no scope is opened", func(t *testing.T) {
		hooks := NewHooks(newTestRuntime(), WithLogger(log.DiscardLogger))
		cell := newTestCell("b")
		hooks.CellConstructed(cell)

		// make an outer scope observable
		outer := context.WithValue(context.Background(), ctxKey("k"), "outer")
		scope := cell.Monitor().OpenScope(outer)
		defer scope.Close()

		done := hooks.BatchInvokeStarted(cell, new(testMessage))
		assert.Equal(t, outer, cell.Monitor().CaptureEnvelopeContext())
		// the closer is a no-op, open/close stay symmetric
		done()
		assert.Equal(t, outer, cell.Monitor().CaptureEnvelopeContext())
	})
}

func TestInvokeFailed(t *testing.T) {
	collector := new(recordingCollector)
	hooks := NewHooks(newTestRuntime(), WithCollector(collector), WithLogger(log.DiscardLogger))
	cell := newTestCell("b")
	hooks.CellConstructed(cell)

	failure := errors.New("processing failed")
	hooks.InvokeFailed(cell, failure)

	failures := collector.snapshot().failures
	require.Len(t, failures, 1)
	assert.Equal(t, failure, failures[0])
}

func TestMailboxSwap(t *testing.T) {
	t.Run("With a terminal swap", func(t *testing.T) {
		collector := new(recordingCollector)
		hooks := NewHooks(newTestRuntime(), WithCollector(collector), WithLogger(log.DiscardLogger))
		cell := newTestCell("b")
		hooks.CellConstructed(cell)

		prev := &testMailbox{size: 3}
		next := &testMailbox{terminal: true}

		token := hooks.MailboxSwapStarted(cell, next)
		hooks.MailboxSwapCompleted(token, prev)

		snap := collector.snapshot()
		assert.Len(t, snap.terminations, 1)
		assert.Equal(t, []int64{3}, snap.dropped)
	})
	t.Run("With a second terminal swap", func(t *testing.T) {
		collector := new(recordingCollector)
		hooks := NewHooks(newTestRuntime(), WithCollector(collector), WithLogger(log.DiscardLogger))
		cell := newTestCell("b")
		hooks.CellConstructed(cell)

		terminal := &testMailbox{terminal: true}
		token := hooks.MailboxSwapStarted(cell, terminal)
		hooks.MailboxSwapCompleted(token, &testMailbox{size: 3})

		// swapping to the terminal kind again neither re-fires termination
		// start nor reports more drops
		token = hooks.MailboxSwapStarted(cell, terminal)
		hooks.MailboxSwapCompleted(token, &testMailbox{size: 7})

		snap := collector.snapshot()
		assert.Len(t, snap.terminations, 1)
		assert.Equal(t, []int64{3}, snap.dropped)
	})
	t.Run("With an absent prior mailbox", func(t *testing.T) {
		collector := new(recordingCollector)
		hooks := NewHooks(newTestRuntime(), WithCollector(collector), WithLogger(log.DiscardLogger))
		cell := newTestCell("b")
		hooks.CellConstructed(cell)

		token := hooks.MailboxSwapStarted(cell, &testMailbox{terminal: true})
		hooks.MailboxSwapCompleted(token, nil)

		snap := collector.snapshot()
		assert.Len(t, snap.terminations, 1)
		assert.Empty(t, snap.dropped)
	})
	t.Run("With a non-terminal swap", func(t *testing.T) {
		collector := new(recordingCollector)
		hooks := NewHooks(newTestRuntime(), WithCollector(collector), WithLogger(log.DiscardLogger))
		cell := newTestCell("b")
		hooks.CellConstructed(cell)

		token := hooks.MailboxSwapStarted(cell, &testMailbox{})
		hooks.MailboxSwapCompleted(token, &testMailbox{size: 3})

		snap := collector.snapshot()
		assert.Empty(t, snap.terminations)
		assert.Empty(t, snap.dropped)
	})
}

func TestCellTerminated(t *testing.T) {
	t.Run("With a regular cell", func(t *testing.T) {
		collector := new(recordingCollector)
		hooks := NewHooks(newTestRuntime(), WithCollector(collector), WithLogger(log.DiscardLogger))
		cell := newTestCell("b")
		hooks.CellConstructed(cell)

		hooks.CellTerminated(cell)
		hooks.CellTerminated(cell)

		snap := collector.snapshot()
		assert.Len(t, snap.cleaned, 1)
		assert.Empty(t, snap.routerClean)
	})
	t.Run("With a routing cell", func(t *testing.T) {
		runtime := newTestRuntime()
		collector := new(recordingCollector)
		hooks := NewHooks(runtime, WithCollector(collector), WithLogger(log.DiscardLogger))

		cell := newTestCell("router")
		runtime.routers[cell] = true
		hooks.CellConstructed(cell)

		hooks.CellTerminated(cell)

		snap := collector.snapshot()
		assert.Len(t, snap.cleaned, 1)
		assert.Len(t, snap.routerClean, 1)
	})
}

func TestEndToEndPropagation(t *testing.T) {
	hooks := NewHooks(newTestRuntime(), WithLogger(log.DiscardLogger))
	cellA := newTestCell("a")
	cellB := newTestCell("b")
	hooks.CellConstructed(cellA)
	hooks.CellConstructed(cellB)

	ctx := context.WithValue(context.Background(), ctxKey("trace"), "trace-1")

	// cell A processes a message that carried ctx
	inbound := new(testMessage)
	inbound.SetEnvelopeContext(ctx)
	doneA := hooks.InvokeStarted(cellA, inbound)

	// while processing, A sends a message to B
	outbound := new(testMessage)
	hooks.MessageSent(cellA, outbound)
	assert.Equal(t, ctx, outbound.EnvelopeContext())
	doneA()

	// B processes the delivered envelope under the propagated context
	doneB := hooks.InvokeStarted(cellB, outbound)
	assert.Equal(t, ctx, cellB.Monitor().CaptureEnvelopeContext())
	doneB()
	assert.Equal(t, RootContext(), cellB.Monitor().CaptureEnvelopeContext())
}

func TestHookFailureSuppression(t *testing.T) {
	t.Run("With a panicking collector", func(t *testing.T) {
		stream := eventstream.New()
		t.Cleanup(stream.Close)
		subscriber := stream.AddSubscriber()
		stream.Subscribe(subscriber, ErrorsTopic)

		hooks := NewHooks(newTestRuntime(),
			WithCollector(panickyCollector{}),
			WithLogger(log.DiscardLogger),
			WithEventStream(stream))

		cell := newTestCell("b")
		assert.NotPanics(t, func() {
			hooks.CellConstructed(cell)
		})

		// the suppressed failure surfaced on the diagnostic channel
		var published []*eventstream.Message
		for message := range subscriber.Iterator() {
			published = append(published, message)
		}
		require.Len(t, published, 1)
		hookError, ok := published[0].Payload().(*HookError)
		require.True(t, ok)
		assert.Equal(t, "cell_constructed", hookError.Hook)
		assert.ErrorContains(t, hookError.Err, "collector down")
	})
	t.Run("Dispatch proceeds after a suppressed failure", func(t *testing.T) {
		hooks := NewHooks(newTestRuntime(),
			WithCollector(panickyCollector{}),
			WithLogger(log.DiscardLogger))

		cell := newTestCell("b")
		hooks.CellConstructed(cell)

		// construction failed inside the collector but the send and invoke
		// hooks still behave as if no instrumentation were present
		message := new(testMessage)
		assert.NotPanics(t, func() {
			hooks.MessageSent(cell, message)
		})
		done := hooks.InvokeStarted(cell, message)
		require.NotNil(t, done)
		assert.NotPanics(t, done)

		assert.NotPanics(t, func() {
			hooks.InvokeFailed(cell, errors.New("user failure"))
		})
	})
}

func TestLifecycleEventsPublished(t *testing.T) {
	stream := eventstream.New()
	t.Cleanup(stream.Close)
	subscriber := stream.AddSubscriber()
	stream.Subscribe(subscriber, LifecycleTopic)

	runtime := newTestRuntime()
	hooks := NewHooks(runtime, WithLogger(log.DiscardLogger), WithEventStream(stream))

	cell := newTestCell("b")
	hooks.CellConstructed(cell)
	token := hooks.MailboxSwapStarted(cell, &testMailbox{terminal: true})
	hooks.MailboxSwapCompleted(token, &testMailbox{size: 2})
	hooks.CellTerminated(cell)

	var kinds []LifecycleEventKind
	var droppedCount int64
	for message := range subscriber.Iterator() {
		event, ok := message.Payload().(*LifecycleEvent)
		require.True(t, ok)
		kinds = append(kinds, event.Kind)
		if event.Kind == MessagesDropped {
			droppedCount = event.Count
		}
	}
	assert.Equal(t, []LifecycleEventKind{MonitorCreated, TerminationStarted, MessagesDropped, MonitorCleaned}, kinds)
	assert.EqualValues(t, 2, droppedCount)
}
