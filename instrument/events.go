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
	"time"

	"github.com/actorscope/actorscope/address"
)

const (
	// ErrorsTopic is the event stream topic carrying *HookError events for
	// failures suppressed inside hook logic.
	ErrorsTopic = "instrumentation.errors"
	// LifecycleTopic is the event stream topic carrying *LifecycleEvent
	// events.
	LifecycleTopic = "instrumentation.lifecycle"
)

// HookError is published on ErrorsTopic whenever a hook suppressed an internal
// failure instead of letting it disturb dispatch.
type HookError struct {
	// Hook names the interception point that failed.
	Hook string
	// Err is the suppressed failure.
	Err error
}

// LifecycleEventKind enumerates the lifecycle transitions published on
// LifecycleTopic.
type LifecycleEventKind int

const (
	// MonitorCreated signals that a cell's monitor was built.
	MonitorCreated LifecycleEventKind = iota
	// TerminationStarted signals the first terminal mailbox swap of a cell.
	TerminationStarted
	// MessagesDropped signals that queued messages were discarded during a
	// terminal mailbox swap.
	MessagesDropped
	// MonitorCleaned signals that a cell terminated and its monitor was
	// released.
	MonitorCleaned
	// RouterCleaned signals that a routing cell terminated and its router
	// monitor was released.
	RouterCleaned
)

// String returns the kind name.
func (k LifecycleEventKind) String() string {
	switch k {
	case MonitorCreated:
		return "monitor_created"
	case TerminationStarted:
		return "termination_started"
	case MessagesDropped:
		return "messages_dropped"
	case MonitorCleaned:
		return "monitor_cleaned"
	case RouterCleaned:
		return "router_cleaned"
	default:
		return "unknown"
	}
}

// LifecycleEvent is published on LifecycleTopic for every observed lifecycle
// transition of a monitored cell.
type LifecycleEvent struct {
	// Kind is the transition that happened.
	Kind LifecycleEventKind
	// Actor identifies the cell the transition belongs to.
	Actor *address.Address
	// Count carries the dropped-message count for MessagesDropped events and
	// is zero otherwise.
	Count int64
	// At is the time the event was observed.
	At time.Time
}
