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

// Package address provides the canonical representation of an actor identity
// as seen by the instrumentation core.
//
// An address identifies a single actor and is made of the following parts:
//
//   - System: logical name of the actor system
//   - Name: local, hierarchical name of the actor within the system
//   - ID: unique, opaque identifier of the actor instance (UUIDv4)
//   - Parent: the parent actor's address (if any)
//
// The canonical textual representation of an Address is:
//
//	actorscope://<system>/<name>
//
// When a parent is defined, the representation becomes:
//
//	actorscope://<system>/<parent>/<name>
package address

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// scheme defines the actorscope addressing scheme
const scheme = "actorscope"

// zeroAddress means that there is no sender
var zeroAddress = &Address{}

// Address represents the identity of an actor as handed to monitors at
// construction time. It is immutable after creation apart from WithParent,
// which is only called while the owning cell is being built.
type Address struct {
	system string
	name   string
	id     string
	parent *Address
}

// New creates an Address for the given actor name within the given system.
// A fresh instance identifier is assigned.
func New(name, system string) *Address {
	return &Address{
		system: system,
		name:   name,
		id:     uuid.NewString(),
	}
}

// NoSender returns the zero address used as a sentinel when a message has no
// sending actor.
func NoSender() *Address {
	return zeroAddress
}

// WithParent sets the parent address and returns the receiver.
func (a *Address) WithParent(parent *Address) *Address {
	a.parent = parent
	return a
}

// System returns the actor system name.
func (a *Address) System() string {
	return a.system
}

// Name returns the actor name.
func (a *Address) Name() string {
	return a.name
}

// ID returns the unique instance identifier.
func (a *Address) ID() string {
	return a.id
}

// Parent returns the parent address or nil when the actor has no parent.
func (a *Address) Parent() *Address {
	return a.parent
}

// Equals reports whether both addresses identify the same actor instance.
func (a *Address) Equals(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.id == other.id && a.String() == other.String()
}

// Validate checks that the address carries the minimum identity information.
func (a *Address) Validate() error {
	if a == nil || a == zeroAddress {
		// the zero address is a valid sentinel
		return nil
	}
	if a.system == "" {
		return errors.New("address system is required")
	}
	if a.name == "" {
		return errors.New("address name is required")
	}
	return nil
}

// String returns the canonical string representation of the address.
func (a *Address) String() string {
	if a == nil || a == zeroAddress {
		return ""
	}
	builder := new(strings.Builder)
	builder.WriteString(scheme)
	builder.WriteString("://")
	builder.WriteString(a.system)
	for _, name := range a.path() {
		builder.WriteString("/")
		builder.WriteString(name)
	}
	return builder.String()
}

// path returns the actor name chain from the root ancestor down to the actor.
func (a *Address) path() []string {
	var names []string
	for node := a; node != nil && node != zeroAddress; node = node.parent {
		names = append(names, node.name)
	}
	// reverse into root-first order
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}
