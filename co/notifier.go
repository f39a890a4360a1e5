// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Notifier wakes every waiter when something changed, e.g. a block advanced or a
// transaction committed. Waiters select on a channel, so they can also watch a context.
type Notifier struct {
	mu sync.Mutex
	ch chan struct{}
}

func (n *Notifier) current() chan struct{} {
	if n.ch == nil {
		n.ch = make(chan struct{})
	}
	return n.ch
}

// Wait returns a channel closed on the next Notify.
func (n *Notifier) Wait() <-chan struct{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current()
}

// Notify wakes all current waiters.
func (n *Notifier) Notify() {
	n.mu.Lock()
	defer n.mu.Unlock()
	close(n.current())
	n.ch = make(chan struct{})
}
