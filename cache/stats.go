// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats counts record lookups. Counts are drained by Take so that a reporter
// can forward deltas to counters.
type Stats struct {
	hit, miss atomic.Int64
	rate      atomic.Int32 // permille of the last drained window
}

func (cs *Stats) Hit() { cs.hit.Add(1) }
func (cs *Stats) Miss() { cs.miss.Add(1) }

// Take returns and resets the counts gathered since the previous call.
// rateChanged reports a hit rate moving by at least 0.1% against the previous window.
func (cs *Stats) Take() (hit, miss int64, rateChanged bool) {
	hit = cs.hit.Swap(0)
	miss = cs.miss.Swap(0)
	if hit+miss == 0 {
		return 0, 0, false
	}
	rate := int32(hit * 1000 / (hit + miss))
	return hit, miss, cs.rate.Swap(rate) != rate
}
