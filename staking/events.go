// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/metanode/stake/meta"
)

// EventKind names what happened.
type EventKind string

const (
	EventInitialize        EventKind = "Initialize"
	EventDeposit           EventKind = "Deposit"
	EventRequestUnstake    EventKind = "RequestUnstake"
	EventWithdraw          EventKind = "Withdraw"
	EventClaim             EventKind = "Claim"
	EventRewardPaid        EventKind = "RewardPaid"
	EventRewardCarried     EventKind = "RewardCarried"
	EventAddPool           EventKind = "AddPool"
	EventSetPoolWeight     EventKind = "SetPoolWeight"
	EventUpdatePool        EventKind = "UpdatePool"
	EventPausePool         EventKind = "PausePool"
	EventUnpausePool       EventKind = "UnpausePool"
	EventPauseWithdraw     EventKind = "PauseWithdraw"
	EventUnpauseWithdraw   EventKind = "UnpauseWithdraw"
	EventPauseClaim        EventKind = "PauseClaim"
	EventUnpauseClaim      EventKind = "UnpauseClaim"
	EventSetRewardPerBlock EventKind = "SetRewardPerBlock"
	EventSetStartBlock     EventKind = "SetStartBlock"
	EventSetEndBlock       EventKind = "SetEndBlock"
)

// Event records one effect of a committed operation.
type Event struct {
	Kind   EventKind
	Block  uint32
	Pool   *uint32      // nil for global events
	User   meta.Address // the account acted for, or the admin
	Amount *uint256.Int // nil when the kind carries no amount
	Unlock uint32       // unlock block of a RequestUnstake
}

func (s *Staker) emit(kind EventKind, pid *uint32, user meta.Address, amount *uint256.Int) *Event {
	ev := &Event{
		Kind:  kind,
		Block: s.block,
		Pool:  pid,
		User:  user,
	}
	if amount != nil {
		ev.Amount = new(uint256.Int).Set(amount)
	}
	s.events = append(s.events, ev)
	return ev
}

func poolRef(pid uint32) *uint32 {
	return &pid
}

// Events returns the events emitted so far, in order.
func (s *Staker) Events() []*Event {
	return s.events
}
