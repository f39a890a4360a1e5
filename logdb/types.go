// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/holiman/uint256"

	"github.com/metanode/stake/meta"
)

// Event is a committed staking event as stored in db.
type Event struct {
	BlockNumber uint32
	Index       uint32       // position within the block
	TxID        meta.Bytes32 // digest of the committing transaction
	Op          string       // ledger operation that emitted it
	Kind        string
	Pool        *uint32 // nil for global events
	User        meta.Address
	Amount      *uint256.Int // nil when the kind carries no amount
	Unlock      uint32
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive block range.
type Range struct {
	From uint32
	To   uint32
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventFilter selects events. Nil fields match everything.
type EventFilter struct {
	Pool    *uint32
	User    *meta.Address
	Kinds   []string
	Range   *Range
	Options *Options
	Order   Order // default asc
}
