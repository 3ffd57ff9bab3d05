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
	"fmt"
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/actorscope/actorscope/address"
	"github.com/actorscope/actorscope/instrument"
	"github.com/actorscope/actorscope/log"
)

// System is the testkit runtime: it spawns cells, routes messages to them and
// owns the instrumentation hooks. It implements the host-runtime accessor
// surface the hooks consult.
type System struct {
	name   string
	logger log.Logger
	hooks  *instrument.Hooks

	cellsMu sync.RWMutex
	cells   map[string]*Cell
}

// enforce compilation error
var _ instrument.Runtime = (*System)(nil)

// NewSystem creates a named runtime. The instrumentation options are handed
// through to the hooks.
func NewSystem(name string, opts ...Option) *System {
	system := &System{
		name:   name,
		logger: log.DefaultLogger,
		cells:  make(map[string]*Cell),
	}
	config := &config{}
	for _, opt := range opts {
		opt.Apply(config)
	}
	if config.logger != nil {
		system.logger = config.logger
	}
	system.hooks = instrument.NewHooks(system, config.hookOptions(system.logger)...)
	return system
}

// Hooks returns the instrumentation hooks of this runtime.
func (s *System) Hooks() *instrument.Hooks {
	return s.hooks
}

// IsRouterCell reports whether the given cell fans messages out to a worker
// pool.
func (s *System) IsRouterCell(cell instrument.Cell) bool {
	c, ok := cell.(*Cell)
	return ok && c.router
}

// IsTerminalMailbox reports whether the mailbox is the deadletters kind.
func (s *System) IsTerminalMailbox(mailbox instrument.Mailbox) bool {
	_, ok := mailbox.(*DeadlettersMailbox)
	return ok
}

// Spawn creates a cell with the given name and receiver and starts its
// processing loop.
func (s *System) Spawn(name string, receiver Receiver, opts ...SpawnOption) *Cell {
	settings := spawnSettings{mailbox: NewUnboundedMailbox()}
	for _, opt := range opts {
		opt(&settings)
	}
	addr := address.New(name, s.name)
	if settings.parent != nil {
		addr = addr.WithParent(settings.parent)
	}
	return s.spawnCell(addr, receiver, settings)
}

// SpawnRouter creates a router cell backed by poolSize worker cells sharing
// the given receiver. The router forwards each message to the next worker in
// round-robin order; the forwarding happens inside the router's processing,
// so a propagated context crosses both hops.
func (s *System) SpawnRouter(name string, poolSize int, worker Receiver) *Cell {
	addr := address.New(name, s.name)
	routees := make([]*Cell, poolSize)
	for i := range routees {
		workerAddr := address.New(fmt.Sprintf("%s-worker-%d", name, i), s.name).WithParent(addr)
		routees[i] = s.spawnCell(workerAddr, worker, spawnSettings{mailbox: NewUnboundedMailbox()})
	}
	router := &roundRobinRouter{routees: routees, next: atomic.NewInt64(0)}
	return s.spawnCell(addr, router, spawnSettings{mailbox: NewUnboundedMailbox(), router: true})
}

// spawnCell builds the cell, installs its monitor through the construction
// hook before the loop starts, and registers it.
func (s *System) spawnCell(addr *address.Address, receiver Receiver, settings spawnSettings) *Cell {
	cell := &Cell{
		addr:     addr,
		parent:   addr.Parent(),
		receiver: receiver,
		system:   s,
		router:   settings.router,
		mailbox:  settings.mailbox,
		signal:   make(chan struct{}, 1),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
		stopped:  atomic.NewBool(false),
	}

	s.hooks.CellConstructed(cell)

	s.cellsMu.Lock()
	s.cells[addr.String()] = cell
	s.cellsMu.Unlock()

	go cell.run()
	s.logger.Debugf("spawned cell %s", addr.String())
	return cell
}

// Tell sends a payload to a cell from outside any actor. The message carries
// the root context.
func (s *System) Tell(to *Cell, payload any) error {
	message := NewMessage(payload)
	s.hooks.MessageSent(nil, message)
	return to.deliver(message)
}

// Kill terminates a single cell and waits for its loop to exit.
func (s *System) Kill(ctx context.Context, cell *Cell) error {
	s.cellsMu.Lock()
	delete(s.cells, cell.Address().String())
	s.cellsMu.Unlock()
	return cell.stop(ctx)
}

// Shutdown terminates every cell of the runtime concurrently and waits for
// all of them.
func (s *System) Shutdown(ctx context.Context) error {
	s.cellsMu.Lock()
	cells := make([]*Cell, 0, len(s.cells))
	for _, cell := range s.cells {
		cells = append(cells, cell)
	}
	s.cells = make(map[string]*Cell)
	s.cellsMu.Unlock()

	eg, egCtx := errgroup.WithContext(ctx)
	for _, cell := range cells {
		eg.Go(func() error {
			return cell.stop(egCtx)
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("failed to shutdown system %s: %w", s.name, err)
	}
	s.logger.Debugf("system %s shutdown complete", s.name)
	return nil
}

// roundRobinRouter forwards every message to the next routee.
type roundRobinRouter struct {
	routees []*Cell
	next    *atomic.Int64
}

var _ Receiver = (*roundRobinRouter)(nil)

func (r *roundRobinRouter) Receive(rctx *ReceiveContext) {
	if len(r.routees) == 0 {
		return
	}
	index := int(r.next.Inc()-1) % len(r.routees)
	_ = rctx.Tell(r.routees[index], rctx.Message())
}
