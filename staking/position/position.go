// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"github.com/holiman/uint256"

	"github.com/metanode/stake/fixedpoint"
	"github.com/metanode/stake/staking/reverts"
)

// Request is a queued withdrawal.
type Request struct {
	Amount      *uint256.Int
	UnlockBlock uint32
}

// Position is a user's stake in one pool.
type Position struct {
	Staked      *uint256.Int
	RewardDebt  *uint256.Int
	Carried     *uint256.Int // realized while claims were paused, not yet paid
	Withdrawals []*Request   // in request order; a shortened lock may unlock later entries first
}

// Pending is a reward amount. Drift is set when the raw value was negative and clamped to zero.
type Pending struct {
	Amount *uint256.Int
	Drift  bool
}

// IsEmpty reports whether the position holds nothing at all.
func (p *Position) IsEmpty() bool {
	return p.Staked.IsZero() && p.RewardDebt.IsZero() && p.Carried.IsZero() && len(p.Withdrawals) == 0
}

func (p *Position) normalize() {
	p.Staked = fixedpoint.OrZero(p.Staked)
	p.RewardDebt = fixedpoint.OrZero(p.RewardDebt)
	p.Carried = fixedpoint.OrZero(p.Carried)
	for _, r := range p.Withdrawals {
		r.Amount = fixedpoint.OrZero(r.Amount)
	}
}

// Accrued returns Staked*acc/Scale - RewardDebt + Carried, clamped at zero.
func (p *Position) Accrued(acc *uint256.Int) (Pending, error) {
	gross, err := fixedpoint.FromShares(p.Staked, acc)
	if err != nil {
		return Pending{}, reverts.Arithmetic(err)
	}
	gross, err = fixedpoint.Add(gross, p.Carried)
	if err != nil {
		return Pending{}, reverts.Arithmetic(err)
	}
	if gross.Lt(p.RewardDebt) {
		return Pending{Amount: fixedpoint.Zero(), Drift: true}, nil
	}
	return Pending{Amount: new(uint256.Int).Sub(gross, p.RewardDebt)}, nil
}

// Harvest realizes the reward accrued up to acc, including any carried amount,
// and leaves the position owing nothing. Callers must settle the debt after changing Staked.
func (p *Position) Harvest(acc *uint256.Int) (Pending, error) {
	pending, err := p.Accrued(acc)
	if err != nil {
		return Pending{}, err
	}
	p.Carried = fixedpoint.Zero()
	return pending, p.SettleDebt(acc)
}

// SettleDebt sets RewardDebt to Staked*acc/Scale.
func (p *Position) SettleDebt(acc *uint256.Int) error {
	debt, err := fixedpoint.FromShares(p.Staked, acc)
	if err != nil {
		return reverts.Arithmetic(err)
	}
	p.RewardDebt = debt
	return nil
}

// Enqueue appends a withdrawal request unlocking at unlock. A request unlocking at the same
// block as the last one is merged into it. At most limit requests are kept.
func (p *Position) Enqueue(amount *uint256.Int, unlock uint32, limit int) error {
	if n := len(p.Withdrawals); n > 0 && p.Withdrawals[n-1].UnlockBlock == unlock {
		sum, err := fixedpoint.Add(p.Withdrawals[n-1].Amount, amount)
		if err != nil {
			return reverts.Arithmetic(err)
		}
		p.Withdrawals[n-1].Amount = sum
		return nil
	}
	if len(p.Withdrawals) >= limit {
		return reverts.ErrTooManyPendingWithdrawals
	}
	p.Withdrawals = append(p.Withdrawals, &Request{
		Amount:      new(uint256.Int).Set(amount),
		UnlockBlock: unlock,
	})
	return nil
}

// Drain removes every request unlocked at block and returns their sum.
// Locked requests keep their order.
func (p *Position) Drain(block uint32) (*uint256.Int, error) {
	sum := fixedpoint.Zero()
	kept := p.Withdrawals[:0]
	for _, r := range p.Withdrawals {
		if r.UnlockBlock <= block {
			var err error
			if sum, err = fixedpoint.Add(sum, r.Amount); err != nil {
				return nil, reverts.Arithmetic(err)
			}
			continue
		}
		kept = append(kept, r)
	}
	clear(p.Withdrawals[len(kept):])
	p.Withdrawals = kept
	return sum, nil
}

// Requested returns the sum of all queued requests.
func (p *Position) Requested() (*uint256.Int, error) {
	return p.sum(func(*Request) bool { return true })
}

// Unlocked returns the sum of the requests withdrawable at block.
func (p *Position) Unlocked(block uint32) (*uint256.Int, error) {
	return p.sum(func(r *Request) bool { return r.UnlockBlock <= block })
}

func (p *Position) sum(filter func(*Request) bool) (*uint256.Int, error) {
	sum := fixedpoint.Zero()
	for _, r := range p.Withdrawals {
		if !filter(r) {
			continue
		}
		var err error
		if sum, err = fixedpoint.Add(sum, r.Amount); err != nil {
			return nil, reverts.Arithmetic(err)
		}
	}
	return sum, nil
}
