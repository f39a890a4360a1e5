// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual(t *testing.T) {
	c := NewManual(10)
	assert.Equal(t, uint32(10), c.CurrentBlock())
	assert.Equal(t, uint32(20), c.Advance(10))
	c.Set(5)
	assert.Equal(t, uint32(5), c.CurrentBlock())
}

func TestTicker(t *testing.T) {
	tk := NewTicker(100, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	next := tk.Blocks()
	go func() { done <- tk.Run(ctx) }()

	select {
	case <-next:
	case <-time.After(5 * time.Second):
		t.Fatal("no block produced")
	}
	assert.Greater(t, tk.CurrentBlock(), uint32(100))

	cancel()
	require.NoError(t, <-done)
}
