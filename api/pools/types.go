// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"github.com/holiman/uint256"

	"github.com/metanode/stake/ledger"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/staking"
	"github.com/metanode/stake/staking/params"
	"github.com/metanode/stake/staking/pool"
	"github.com/metanode/stake/staking/position"
)

// Global is the emission record at the current block.
type Global struct {
	Block          uint32       `json:"block"`
	Initialized    bool         `json:"initialized"`
	RewardAsset    meta.Address `json:"rewardAsset"`
	StartBlock     uint32       `json:"startBlock"`
	EndBlock       uint32       `json:"endBlock"`
	RewardPerBlock *uint256.Int `json:"rewardPerBlock"`
	TotalWeight    *uint256.Int `json:"totalWeight"`
	PoolLength     uint32       `json:"poolLength"`
	WithdrawPaused bool         `json:"withdrawPaused"`
	ClaimPaused    bool         `json:"claimPaused"`
}

func convertGlobal(block, length uint32, g *params.Global) *Global {
	return &Global{
		Block:          block,
		Initialized:    g.Initialized,
		RewardAsset:    g.RewardAsset,
		StartBlock:     g.StartBlock,
		EndBlock:       g.EndBlock,
		RewardPerBlock: g.RewardPerBlock,
		TotalWeight:    g.TotalWeight,
		PoolLength:     length,
		WithdrawPaused: g.WithdrawPaused,
		ClaimPaused:    g.ClaimPaused,
	}
}

// Pool is a pool as stored. LastSettledBlock may be behind the current block.
type Pool struct {
	ID                uint32       `json:"id"`
	Asset             meta.Address `json:"asset"`
	Native            bool         `json:"native"`
	Weight            *uint256.Int `json:"weight"`
	MinDeposit        *uint256.Int `json:"minDeposit"`
	UnstakeLockBlocks uint32       `json:"unstakeLockBlocks"`
	StakedTotal       *uint256.Int `json:"stakedTotal"`
	LastSettledBlock  uint32       `json:"lastSettledBlock"`
	AccRewardPerShare *uint256.Int `json:"accRewardPerShare"`
	Paused            bool         `json:"paused"`
}

func convertPool(pid uint32, p *pool.Pool) *Pool {
	return &Pool{
		ID:                pid,
		Asset:             p.Asset,
		Native:            p.IsNative(),
		Weight:            p.Weight,
		MinDeposit:        p.MinDeposit,
		UnstakeLockBlocks: p.UnstakeLockBlocks,
		StakedTotal:       p.StakedTotal,
		LastSettledBlock:  p.LastSettledBlock,
		AccRewardPerShare: p.AccRewardPerShare,
		Paused:            p.Paused,
	}
}

type Withdrawal struct {
	Amount      *uint256.Int `json:"amount"`
	UnlockBlock uint32       `json:"unlockBlock"`
}

// Position is a user's position with derived amounts at the current block.
type Position struct {
	Pool        uint32        `json:"pool"`
	User        meta.Address  `json:"user"`
	Block       uint32        `json:"block"`
	Staked      *uint256.Int  `json:"staked"`
	RewardDebt  *uint256.Int  `json:"rewardDebt"`
	Carried     *uint256.Int  `json:"carried"`
	Pending     *uint256.Int  `json:"pendingReward"`
	Drift       bool          `json:"drift,omitempty"`
	Requested   *uint256.Int  `json:"requested"`
	Unlocked    *uint256.Int  `json:"unlocked"`
	Withdrawals []*Withdrawal `json:"withdrawals"`
}

func convertPosition(pid uint32, user meta.Address, block uint32, pos *position.Position, pending position.Pending, requested, unlocked *uint256.Int) *Position {
	p := &Position{
		Pool:        pid,
		User:        user,
		Block:       block,
		Staked:      pos.Staked,
		RewardDebt:  pos.RewardDebt,
		Carried:     pos.Carried,
		Pending:     pending.Amount,
		Drift:       pending.Drift,
		Requested:   requested,
		Unlocked:    unlocked,
		Withdrawals: make([]*Withdrawal, 0, len(pos.Withdrawals)),
	}
	for _, r := range pos.Withdrawals {
		p.Withdrawals = append(p.Withdrawals, &Withdrawal{Amount: r.Amount, UnlockBlock: r.UnlockBlock})
	}
	return p
}

// CallRequest identifies the account acting. Requests are not signed, so it is only
// accepted in solo mode.
type CallRequest struct {
	Caller meta.Address `json:"caller"`
}

type DepositRequest struct {
	Caller meta.Address `json:"caller"`
	Amount *uint256.Int `json:"amount"`
	// Value is the native amount attached. Defaults to amount for the native pool.
	Value *uint256.Int `json:"value,omitempty"`
}

type UnstakeRequest struct {
	Caller meta.Address `json:"caller"`
	Amount *uint256.Int `json:"amount"`
}

type Event struct {
	Kind   staking.EventKind `json:"kind"`
	Pool   *uint32           `json:"pool,omitempty"`
	User   meta.Address      `json:"user"`
	Amount *uint256.Int      `json:"amount,omitempty"`
	Unlock uint32            `json:"unlock,omitempty"`
}

// Receipt is the result of a committed operation.
type Receipt struct {
	TxID   meta.Bytes32 `json:"txID"`
	Op     string       `json:"op"`
	Block  uint32       `json:"block"`
	Amount *uint256.Int `json:"amount,omitempty"`
	Events []*Event     `json:"events"`
}

// ConvertReceipt converts a ledger receipt. amount is optional.
func ConvertReceipt(r *ledger.Receipt, amount *uint256.Int) *Receipt {
	receipt := &Receipt{
		TxID:   r.TxID,
		Op:     r.Op,
		Block:  r.Block,
		Amount: amount,
		Events: make([]*Event, 0, len(r.Events)),
	}
	for _, ev := range r.Events {
		receipt.Events = append(receipt.Events, &Event{
			Kind:   ev.Kind,
			Pool:   ev.Pool,
			User:   ev.User,
			Amount: ev.Amount,
			Unlock: ev.Unlock,
		})
	}
	return receipt
}
