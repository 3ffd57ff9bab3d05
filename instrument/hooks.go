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
	"fmt"
	"time"

	"github.com/actorscope/actorscope/address"
	"github.com/actorscope/actorscope/eventstream"
	"github.com/actorscope/actorscope/log"
)

// noop is the closer returned by the invoke hooks when nothing needs closing.
var noop = func() {}

// Hooks is the fixed set of interception points a host runtime invokes from
// its dispatch path. One Hooks instance serves a whole runtime; it is safe for
// concurrent use from many cells.
//
// Every hook is best effort: a failure inside hook logic is recovered, logged
// and published on ErrorsTopic, and the host operation proceeds exactly as it
// would without instrumentation. Hooks never alter the control flow or return
// value of the operation they bracket.
type Hooks struct {
	runtime   Runtime
	collector Collector
	logger    log.Logger
	stream    eventstream.Stream
}

// NewHooks creates the hook set for the given host runtime.
func NewHooks(runtime Runtime, opts ...Option) *Hooks {
	hooks := &Hooks{
		runtime:   runtime,
		collector: NoopCollector{},
		logger:    log.DefaultLogger,
	}
	for _, opt := range opts {
		opt.Apply(hooks)
	}
	return hooks
}

// Collector returns the configured collector.
func (h *Hooks) Collector() Collector {
	return h.collector
}

// CellConstructed builds the cell's monitor and stores it through the cell's
// single-assignment slot. The host runtime must call it when the cell is
// constructed, before the cell processes any message. A cell that already
// holds a monitor is left untouched.
func (h *Hooks) CellConstructed(cell Cell) {
	h.guard("cell_constructed", func() {
		if cell == nil || cell.Monitor() != nil {
			return
		}
		monitor := NewMonitor(cell.Address(), cell.Parent(), h.collector)
		if h.runtime.IsRouterCell(cell) {
			monitor.router = NewRouterMonitor(cell.Address(), h.collector)
		}
		cell.SetMonitor(monitor)
		h.publishLifecycle(MonitorCreated, monitor.Actor(), 0)
	})
}

// MessageSent attaches the captured context and capture timestamp to the
// message when it implements ContextCarrier; any other message passes through
// unmodified. The sender is the cell whose processing performs the send, or
// nil when the send originates outside any actor, in which case the root
// context is attached.
func (h *Hooks) MessageSent(sender Cell, message any) {
	carrier, ok := message.(ContextCarrier)
	if !ok {
		return
	}
	h.guard("message_sent", func() {
		monitor := monitorOf(sender)
		carrier.SetEnvelopeContext(monitor.CaptureEnvelopeContext())
		carrier.SetEnvelopeTimestamp(monitor.CaptureEnvelopeTimestamp())
	})
}

// InvokeStarted brackets the processing of a single message. It opens a scope
// from the envelope's context (the root context when the message carries
// none), records the message's queue latency, and returns the closer that
// restores the previously active context. The closer is never nil and must be
// paired via defer so it also runs on failure paths:
//
//	done := hooks.InvokeStarted(cell, msg)
//	defer done()
func (h *Hooks) InvokeStarted(cell Cell, message any) (done func()) {
	done = noop
	h.guard("invoke_started", func() {
		monitor := monitorOf(cell)
		if monitor == nil {
			return
		}
		ctx := RootContext()
		if carrier, ok := message.(ContextCarrier); ok {
			if attached := carrier.EnvelopeContext(); attached != nil {
				ctx = attached
			}
			monitor.ObserveQueueLatency(carrier.EnvelopeTimestamp())
		}
		scope := monitor.OpenScope(ctx)
		done = func() {
			h.guard("invoke_completed", scope.Close)
		}
	})
	return done
}

// BatchInvokeStarted brackets a batched invocation. Unlike InvokeStarted a
// scope is opened only when the batch's message actually carries a non-empty
// context; when it does not, no scope is opened and the returned closer is a
// no-op, so open and close can never be asymmetric. The closer is never nil.
func (h *Hooks) BatchInvokeStarted(cell Cell, message any) (done func()) {
	done = noop
	h.guard("batch_invoke_started", func() {
		monitor := monitorOf(cell)
		if monitor == nil {
			return
		}
		carrier, ok := message.(ContextCarrier)
		if !ok {
			return
		}
		ctx := carrier.EnvelopeContext()
		if isRootContext(ctx) {
			return
		}
		scope := monitor.OpenScope(ctx)
		done = func() {
			h.guard("batch_invoke_completed", scope.Close)
		}
	})
	return done
}

// InvokeFailed forwards an unrecoverable processing error to the cell's
// monitor. The error stays visible to the runtime's own supervision; the hook
// only observes it.
func (h *Hooks) InvokeFailed(cell Cell, err error) {
	h.guard("invoke_failed", func() {
		monitorOf(cell).OnFailure(err)
	})
}

// SwapToken carries the outcome of MailboxSwapStarted into
// MailboxSwapCompleted.
type SwapToken struct {
	monitor     *Monitor
	terminating bool
}

// MailboxSwapStarted runs before the host runtime replaces a cell's mailbox.
// When the incoming mailbox is the terminal kind the cell's termination start
// is recorded (first transition only). The returned token must be handed to
// MailboxSwapCompleted after the swap.
func (h *Hooks) MailboxSwapStarted(cell Cell, next Mailbox) (token SwapToken) {
	h.guard("mailbox_swap_started", func() {
		monitor := monitorOf(cell)
		if monitor == nil {
			return
		}
		token.monitor = monitor
		if next == nil || !h.runtime.IsTerminalMailbox(next) {
			return
		}
		token.terminating = true
		if monitor.OnTerminationStart() {
			h.publishLifecycle(TerminationStarted, monitor.Actor(), 0)
		}
	})
	return token
}

// MailboxSwapCompleted runs after the host runtime replaced a cell's mailbox,
// receiving the mailbox that was swapped out. When the swap was a terminal
// transition and the prior mailbox existed, the number of messages it still
// held is reported as dropped. A swap that replaced an absent mailbox reports
// nothing.
func (h *Hooks) MailboxSwapCompleted(token SwapToken, prev Mailbox) {
	h.guard("mailbox_swap_completed", func() {
		if token.monitor == nil || !token.terminating || prev == nil {
			return
		}
		count := prev.Len()
		if token.monitor.OnDroppedMessages(count) {
			h.publishLifecycle(MessagesDropped, token.monitor.Actor(), count)
		}
	})
}

// CellTerminated releases the cell's monitor when the cell finally terminates.
// When the runtime recognizes the cell as a routing cell, the router monitor
// is cleaned up as well. Cleanup runs even when earlier hooks in the cell's
// life failed.
func (h *Hooks) CellTerminated(cell Cell) {
	h.guard("cell_terminated", func() {
		monitor := monitorOf(cell)
		if monitor == nil {
			return
		}
		if monitor.Cleanup() {
			h.publishLifecycle(MonitorCleaned, monitor.Actor(), 0)
		}
		if h.runtime.IsRouterCell(cell) {
			if router := monitor.Router(); router != nil && router.Cleanup() {
				h.publishLifecycle(RouterCleaned, monitor.Actor(), 0)
			}
		}
	})
}

// monitorOf returns the monitor stored on the cell, nil-safe on both levels.
func monitorOf(cell Cell) *Monitor {
	if cell == nil {
		return nil
	}
	return cell.Monitor()
}

// guard runs fn and suppresses any panic it raises. Suppressed failures are
// logged and published on ErrorsTopic; they never reach the host dispatch
// path.
func (h *Hooks) guard(hook string, fn func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err, ok := r.(error)
		if !ok {
			err = fmt.Errorf("%v", r)
		}
		h.logger.Warnf("suppressed failure in %s hook: %v", hook, err)
		h.publish(ErrorsTopic, &HookError{Hook: hook, Err: err})
	}()
	fn()
}

// publish sends an event on the diagnostic stream, best effort.
func (h *Hooks) publish(topic string, event any) {
	if h.stream == nil {
		return
	}
	defer func() {
		// the diagnostic channel itself must never take down a hook
		_ = recover()
	}()
	h.stream.Publish(topic, event)
}

func (h *Hooks) publishLifecycle(kind LifecycleEventKind, actor *address.Address, count int64) {
	if h.stream == nil {
		return
	}
	h.publish(LifecycleTopic, &LifecycleEvent{
		Kind:  kind,
		Actor: actor,
		Count: count,
		At:    time.Now(),
	})
}
