// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual brings pool reward accounting current.
//
// A pool earns elapsed*rewardPerBlock*weight/totalWeight over the part of
// [lastSettled, current] that overlaps the emission window, and spreads it
// over its stake as a scaled reward per share. Truncation remainders are forfeited.
package accrual

import (
	"github.com/holiman/uint256"

	"github.com/metanode/stake/fixedpoint"
	"github.com/metanode/stake/staking/params"
	"github.com/metanode/stake/staking/pool"
	"github.com/metanode/stake/staking/reverts"
)

// Multiplier returns the emission between from and to, clipped to [StartBlock, EndBlock].
func Multiplier(g *params.Global, from, to uint32) (*uint256.Int, error) {
	start := max(from, g.StartBlock)
	end := min(to, g.EndBlock)
	if end <= start {
		return fixedpoint.Zero(), nil
	}
	v, err := fixedpoint.Mul(uint256.NewInt(uint64(end-start)), g.RewardPerBlock)
	return v, reverts.Arithmetic(err)
}

// PoolReward returns the share of the emission between from and to owed to p.
func PoolReward(p *pool.Pool, g *params.Global, from, to uint32) (*uint256.Int, error) {
	if g.TotalWeight.IsZero() {
		return fixedpoint.Zero(), nil
	}
	emission, err := Multiplier(g, from, to)
	if err != nil {
		return nil, err
	}
	v, err := fixedpoint.MulDiv(emission, p.Weight, g.TotalWeight)
	return v, reverts.Arithmetic(err)
}

// Simulate returns the reward per share p would hold if settled at block. p is not modified.
func Simulate(p *pool.Pool, g *params.Global, block uint32) (*uint256.Int, error) {
	acc := new(uint256.Int).Set(p.AccRewardPerShare)
	if p.LastSettledBlock >= block || p.StakedTotal.IsZero() {
		return acc, nil
	}
	reward, err := PoolReward(p, g, p.LastSettledBlock, block)
	if err != nil {
		return nil, err
	}
	if reward.IsZero() {
		return acc, nil
	}
	shares, err := fixedpoint.ToShares(reward, p.StakedTotal)
	if err != nil {
		return nil, reverts.Arithmetic(err)
	}
	acc, err = fixedpoint.Add(acc, shares)
	return acc, reverts.Arithmetic(err)
}

// Settle brings p current to block. It is a no-op when p is already settled at or past block,
// and it only advances LastSettledBlock for an empty pool.
func Settle(p *pool.Pool, g *params.Global, block uint32) (bool, error) {
	if p.LastSettledBlock >= block {
		return false, nil
	}
	acc, err := Simulate(p, g, block)
	if err != nil {
		return false, err
	}
	changed := !acc.Eq(p.AccRewardPerShare)
	p.AccRewardPerShare = acc
	p.LastSettledBlock = block
	return changed, nil
}

// SettleAll settles and stores every pool in the registry.
func SettleAll(reg *pool.Service, g *params.Global, block uint32) error {
	pools, err := reg.All()
	if err != nil {
		return err
	}
	for pid, p := range pools {
		if p.LastSettledBlock >= block {
			continue
		}
		if _, err := Settle(p, g, block); err != nil {
			return err
		}
		if err := reg.Set(uint32(pid), p); err != nil {
			return err
		}
	}
	return nil
}
