// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/metanode/stake/co"
	"github.com/metanode/stake/log"
)

var logger = log.WithContext("pkg", "clock")

// Clock supplies the current block number.
type Clock interface {
	CurrentBlock() uint32
}

// Manual is a Clock moved by hand.
type Manual struct {
	block atomic.Uint32
}

func NewManual(block uint32) *Manual {
	m := &Manual{}
	m.block.Store(block)
	return m
}

func (m *Manual) CurrentBlock() uint32 {
	return m.block.Load()
}

// Set moves the clock to block. Going backwards is allowed, the ledger rejects it.
func (m *Manual) Set(block uint32) {
	m.block.Store(block)
}

// Advance moves the clock n blocks forward and returns the new block.
func (m *Manual) Advance(n uint32) uint32 {
	return m.block.Add(n)
}

// Ticker advances one block per interval while running.
type Ticker struct {
	Manual
	interval time.Duration
	notifier co.Notifier
}

func NewTicker(start uint32, interval time.Duration) *Ticker {
	t := &Ticker{interval: interval}
	t.block.Store(start)
	return t
}

// Blocks returns a channel closed when the next block is produced.
func (t *Ticker) Blocks() <-chan struct{} {
	return t.notifier.Wait()
}

// Run ticks until ctx is done.
func (t *Ticker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	logger.Info("block ticker started", "block", t.CurrentBlock(), "interval", t.interval)
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping block ticker......")
			return nil
		case <-ticker.C:
			block := t.Advance(1)
			logger.Trace("new block", "number", block)
			t.notifier.Notify()
		}
	}
}
