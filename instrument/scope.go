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

import "context"

// Scope represents one activation of a propagated context: the context passed
// to OpenScope is the monitor's active context from the call until Close.
//
// Scopes follow strict stack discipline. Each scope remembers the context that
// was active when it was opened and Close restores exactly that, so nested
// activations unwind correctly as long as Close is paired with OpenScope via
// defer. The pairing is the caller's structural obligation:
//
//	scope := monitor.OpenScope(ctx)
//	defer scope.Close()
//
// Closing out of order or twice is a programmer error this type does not
// detect; the defer pairing above makes it impossible, including on panic
// paths.
type Scope struct {
	monitor *Monitor
	prev    context.Context
}

// Close restores the context that was active when the scope was opened.
func (s *Scope) Close() {
	if s == nil || s.monitor == nil {
		return
	}
	s.monitor.active = s.prev
}

// OpenScope makes ctx the monitor's active context and returns the scope to
// close when processing finishes.
//
// Open and Close must run on the cell's own serialized processing path: the
// active context is a per-execution resource and the runtime's sequential
// delivery per cell is what isolates it from every other worker.
func (m *Monitor) OpenScope(ctx context.Context) *Scope {
	if m == nil {
		return nil
	}
	scope := &Scope{monitor: m, prev: m.active}
	m.active = ctx
	return scope
}
