// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/metanode/stake/acl"
	"github.com/metanode/stake/fixedpoint"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/staking/accrual"
	"github.com/metanode/stake/staking/params"
	"github.com/metanode/stake/staking/reverts"
)

// InitParams configures emission.
type InitParams struct {
	RewardAsset    meta.Address
	StartBlock     uint32
	EndBlock       uint32
	RewardPerBlock *uint256.Int
}

// PoolConfig describes a new pool.
type PoolConfig struct {
	Asset             meta.Address
	Weight            *uint256.Int
	MinDeposit        *uint256.Int
	UnstakeLockBlocks uint32
	// WithUpdate settles every existing pool before the total weight changes.
	WithUpdate bool
}

// Initialize sets up emission once and makes caller an admin.
func (s *Staker) Initialize(caller meta.Address, p InitParams) error {
	logger.Debug("initializing", "caller", caller, "start", p.StartBlock, "end", p.EndBlock, "rewardPerBlock", p.RewardPerBlock)

	g, err := s.paramsService.Get()
	if err != nil {
		return err
	}
	if g.Initialized {
		return reverts.ErrAlreadyInitialized
	}
	if p.StartBlock > p.EndBlock {
		return reverts.ErrInvalidParam.WithMessage("start block after end block")
	}
	if p.RewardPerBlock == nil || p.RewardPerBlock.IsZero() {
		return reverts.ErrInvalidParam.WithMessage("reward per block must be positive")
	}

	g.Initialized = true
	g.RewardAsset = p.RewardAsset
	g.StartBlock = p.StartBlock
	g.EndBlock = p.EndBlock
	g.RewardPerBlock = new(uint256.Int).Set(p.RewardPerBlock)
	if err := s.paramsService.Set(g); err != nil {
		return err
	}
	if granter, ok := s.auth.(acl.Granter); ok {
		if err := granter.Grant(acl.RoleAdmin, caller); err != nil {
			return err
		}
	}
	s.emit(EventInitialize, nil, caller, p.RewardPerBlock)
	logger.Info("initialized", "rewardAsset", p.RewardAsset)
	return nil
}

// admin runs f for an initialized ledger on behalf of an admin.
func (s *Staker) admin(op string, caller meta.Address, f func(g *params.Global) error) error {
	logger.Debug("admin operation", "op", op, "caller", caller, "block", s.block)
	err := func() error {
		if err := s.requireAdmin(caller); err != nil {
			return err
		}
		g, err := s.initialized()
		if err != nil {
			return err
		}
		return f(g)
	}()
	if err != nil {
		logger.Info("admin operation failed", "op", op, "caller", caller, "error", err)
		return err
	}
	logger.Info("admin operation applied", "op", op, "caller", caller)
	return nil
}

// AddPool appends a pool. Unless cfg.WithUpdate is set, existing pools are not settled first.
func (s *Staker) AddPool(caller meta.Address, cfg PoolConfig) (pid uint32, err error) {
	err = s.admin("addPool", caller, func(g *params.Global) error {
		if cfg.WithUpdate {
			if err := accrual.SettleAll(s.poolService, g, s.block); err != nil {
				return err
			}
		}
		var err error
		if pid, _, err = s.poolService.Add(cfg.Asset, cfg.Weight, cfg.MinDeposit, cfg.UnstakeLockBlocks, s.block); err != nil {
			return err
		}
		if g.TotalWeight, err = fixedpoint.Add(g.TotalWeight, cfg.Weight); err != nil {
			return reverts.Arithmetic(err)
		}
		if err := s.paramsService.Set(g); err != nil {
			return err
		}
		s.emit(EventAddPool, poolRef(pid), caller, cfg.Weight)
		return nil
	})
	return pid, err
}

// SetPoolWeight settles every pool and then changes the pool's share of emission.
// All pools are settled because the total weight divides every pool's emission.
func (s *Staker) SetPoolWeight(caller meta.Address, pid uint32, weight *uint256.Int) error {
	return s.admin("setPoolWeight", caller, func(g *params.Global) error {
		if weight == nil || weight.IsZero() {
			return reverts.ErrInvalidParam.WithMessage("weight must be positive")
		}
		p, err := s.poolService.Get(pid)
		if err != nil {
			return err
		}
		if err := accrual.SettleAll(s.poolService, g, s.block); err != nil {
			return err
		}
		if p, err = s.poolService.Get(pid); err != nil {
			return err
		}
		total, err := fixedpoint.Sub(g.TotalWeight, p.Weight)
		if err != nil {
			return reverts.Arithmetic(err)
		}
		if g.TotalWeight, err = fixedpoint.Add(total, weight); err != nil {
			return reverts.Arithmetic(err)
		}
		p.Weight = new(uint256.Int).Set(weight)
		if err := s.poolService.Set(pid, p); err != nil {
			return err
		}
		if err := s.paramsService.Set(g); err != nil {
			return err
		}
		s.emit(EventSetPoolWeight, poolRef(pid), caller, weight)
		return nil
	})
}

// UpdatePool changes the minimum deposit and unstake lock of a pool.
// Requests already queued keep their unlock block.
func (s *Staker) UpdatePool(caller meta.Address, pid uint32, minDeposit *uint256.Int, lockBlocks uint32) error {
	return s.admin("updatePool", caller, func(*params.Global) error {
		if lockBlocks == 0 {
			return reverts.ErrInvalidParam.WithMessage("unstake lock must be positive")
		}
		p, err := s.poolService.Get(pid)
		if err != nil {
			return err
		}
		p.MinDeposit = new(uint256.Int).Set(fixedpoint.OrZero(minDeposit))
		p.UnstakeLockBlocks = lockBlocks
		if err := s.poolService.Set(pid, p); err != nil {
			return err
		}
		s.emit(EventUpdatePool, poolRef(pid), caller, minDeposit).Unlock = lockBlocks
		return nil
	})
}

// SetPoolPaused stops or resumes deposits into a pool.
func (s *Staker) SetPoolPaused(caller meta.Address, pid uint32, paused bool) error {
	kind := EventUnpausePool
	if paused {
		kind = EventPausePool
	}
	return s.admin(string(kind), caller, func(*params.Global) error {
		p, err := s.poolService.Get(pid)
		if err != nil {
			return err
		}
		if p.Paused == paused {
			return reverts.ErrInvalidParam.WithMessage(fmt.Sprintf("pool %d paused is already %v", pid, paused))
		}
		p.Paused = paused
		if err := s.poolService.Set(pid, p); err != nil {
			return err
		}
		s.emit(kind, poolRef(pid), caller, nil)
		return nil
	})
}

// SetWithdrawPaused stops or resumes withdrawals in every pool.
func (s *Staker) SetWithdrawPaused(caller meta.Address, paused bool) error {
	kind := EventUnpauseWithdraw
	if paused {
		kind = EventPauseWithdraw
	}
	return s.admin(string(kind), caller, func(g *params.Global) error {
		if g.WithdrawPaused == paused {
			return reverts.ErrInvalidParam.WithMessage(fmt.Sprintf("withdraw paused is already %v", paused))
		}
		g.WithdrawPaused = paused
		if err := s.paramsService.Set(g); err != nil {
			return err
		}
		s.emit(kind, nil, caller, nil)
		return nil
	})
}

// SetClaimPaused stops or resumes reward payouts. While paused, realized reward is carried.
func (s *Staker) SetClaimPaused(caller meta.Address, paused bool) error {
	kind := EventUnpauseClaim
	if paused {
		kind = EventPauseClaim
	}
	return s.admin(string(kind), caller, func(g *params.Global) error {
		if g.ClaimPaused == paused {
			return reverts.ErrInvalidParam.WithMessage(fmt.Sprintf("claim paused is already %v", paused))
		}
		g.ClaimPaused = paused
		if err := s.paramsService.Set(g); err != nil {
			return err
		}
		s.emit(kind, nil, caller, nil)
		return nil
	})
}

// SetRewardPerBlock settles every pool and then changes the emission rate.
func (s *Staker) SetRewardPerBlock(caller meta.Address, rewardPerBlock *uint256.Int) error {
	return s.admin("setRewardPerBlock", caller, func(g *params.Global) error {
		if rewardPerBlock == nil || rewardPerBlock.IsZero() {
			return reverts.ErrInvalidParam.WithMessage("reward per block must be positive")
		}
		if err := accrual.SettleAll(s.poolService, g, s.block); err != nil {
			return err
		}
		g.RewardPerBlock = new(uint256.Int).Set(rewardPerBlock)
		if err := s.paramsService.Set(g); err != nil {
			return err
		}
		s.emit(EventSetRewardPerBlock, nil, caller, rewardPerBlock)
		return nil
	})
}

// SetStartBlock settles every pool and then moves the start of emission.
func (s *Staker) SetStartBlock(caller meta.Address, start uint32) error {
	return s.admin("setStartBlock", caller, func(g *params.Global) error {
		if start > g.EndBlock {
			return reverts.ErrInvalidParam.WithMessage("start block after end block")
		}
		if err := accrual.SettleAll(s.poolService, g, s.block); err != nil {
			return err
		}
		g.StartBlock = start
		if err := s.paramsService.Set(g); err != nil {
			return err
		}
		s.emit(EventSetStartBlock, nil, caller, uint256.NewInt(uint64(start)))
		return nil
	})
}

// SetEndBlock settles every pool and then moves the end of emission.
func (s *Staker) SetEndBlock(caller meta.Address, end uint32) error {
	return s.admin("setEndBlock", caller, func(g *params.Global) error {
		if end < g.StartBlock {
			return reverts.ErrInvalidParam.WithMessage("end block before start block")
		}
		if err := accrual.SettleAll(s.poolService, g, s.block); err != nil {
			return err
		}
		g.EndBlock = end
		if err := s.paramsService.Set(g); err != nil {
			return err
		}
		s.emit(EventSetEndBlock, nil, caller, uint256.NewInt(uint64(end)))
		return nil
	})
}

// MassUpdatePools settles every pool. Anyone may call it.
func (s *Staker) MassUpdatePools() error {
	g, err := s.initialized()
	if err != nil {
		return err
	}
	return accrual.SettleAll(s.poolService, g, s.block)
}
