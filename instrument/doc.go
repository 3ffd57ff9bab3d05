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

// Package instrument observes an actor runtime from the outside.
//
// A host runtime wires the Hooks type into six fixed points of its dispatch
// path: cell construction, message send, message invoke (single and batched),
// invoke failure, mailbox swap and termination. In return the package gives
// the runtime two things:
//
//   - Context propagation: a context value active while one actor processes a
//     message is attached to every outgoing envelope and becomes the active
//     context while the receiving actor processes that envelope, across the
//     asynchronous hand-off and without the two actors sharing a call stack.
//   - Lifecycle observability: a Monitor per processing cell reports
//     failures, termination, dropped mailbox messages and final cleanup to a
//     Collector.
//
// Hooks are strictly best effort. Any failure inside instrumentation logic is
// suppressed, logged, and published to the event stream; it never alters the
// control flow or the result of the host operation it brackets.
package instrument
