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

package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	t.Run("With String representation", func(t *testing.T) {
		addr := New("worker", "testsys")
		assert.Equal(t, "actorscope://testsys/worker", addr.String())
		assert.NotEmpty(t, addr.ID())
		assert.Equal(t, "worker", addr.Name())
		assert.Equal(t, "testsys", addr.System())
		assert.Nil(t, addr.Parent())
	})
	t.Run("With Parent chain", func(t *testing.T) {
		parent := New("router", "testsys")
		child := New("routee-1", "testsys").WithParent(parent)
		assert.Equal(t, "actorscope://testsys/router/routee-1", child.String())
		assert.True(t, parent.Equals(child.Parent()))
	})
	t.Run("With Equals", func(t *testing.T) {
		addr := New("worker", "testsys")
		other := New("worker", "testsys")
		assert.True(t, addr.Equals(addr))
		// same name, different instance
		assert.False(t, addr.Equals(other))
		assert.False(t, addr.Equals(nil))
	})
	t.Run("With NoSender", func(t *testing.T) {
		noSender := NoSender()
		assert.Empty(t, noSender.String())
		require.NoError(t, noSender.Validate())
	})
	t.Run("With Validation", func(t *testing.T) {
		require.NoError(t, New("worker", "testsys").Validate())
		require.Error(t, New("", "testsys").Validate())
		require.Error(t, New("worker", "").Validate())
	})
}
