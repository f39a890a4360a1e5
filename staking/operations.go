// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"fmt"
	"math"

	"github.com/holiman/uint256"

	"github.com/metanode/stake/fixedpoint"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/staking/reverts"
)

//
// Setters - state change
//

// Deposit stakes amount into the pool for user. attached is the native value sent along.
func (s *Staker) Deposit(pid uint32, user meta.Address, amount, attached *uint256.Int) error {
	logger.Debug("depositing", "pool", pid, "user", user, "amount", amount, "block", s.block)
	if err := s.deposit(pid, user, fixedpoint.OrZero(amount), fixedpoint.OrZero(attached)); err != nil {
		logger.Info("deposit failed", "pool", pid, "user", user, "error", err)
		return err
	}
	logger.Info("deposited", "pool", pid, "user", user, "amount", amount)
	return nil
}

func (s *Staker) deposit(pid uint32, user meta.Address, amount, attached *uint256.Int) error {
	g, err := s.initialized()
	if err != nil {
		return err
	}
	p, err := s.poolService.Get(pid)
	if err != nil {
		return err
	}
	if amount.IsZero() || amount.Lt(p.MinDeposit) {
		return reverts.ErrAmountTooSmall.WithMessage("minimum is " + p.MinDeposit.Dec())
	}
	if p.Paused {
		return reverts.ErrPoolPaused
	}
	if s.block > g.EndBlock {
		return reverts.ErrRewardWindowClosed.WithMessage(fmt.Sprintf("emission ended at block %d", g.EndBlock))
	}

	p, err = s.settledPool(pid, g)
	if err != nil {
		return err
	}
	pos, err := s.positionService.Get(pid, user)
	if err != nil {
		return err
	}
	pending, err := pos.Harvest(p.AccRewardPerShare)
	if err != nil {
		return err
	}

	if pos.Staked, err = fixedpoint.Add(pos.Staked, amount); err != nil {
		return reverts.Arithmetic(err)
	}
	if p.StakedTotal, err = fixedpoint.Add(p.StakedTotal, amount); err != nil {
		return reverts.Arithmetic(err)
	}
	if err := pos.SettleDebt(p.AccRewardPerShare); err != nil {
		return err
	}

	if err := s.realize(pid, user, g, pos, pending); err != nil {
		return err
	}
	if err := s.poolService.Set(pid, p); err != nil {
		return err
	}
	if err := s.positionService.Set(pid, user, pos); err != nil {
		return err
	}
	if err := s.pull(p, user, amount, attached); err != nil {
		return err
	}
	s.emit(EventDeposit, poolRef(pid), user, amount)
	return nil
}

// RequestUnstake stops amount from earning and queues it for withdrawal after the pool's lock.
func (s *Staker) RequestUnstake(pid uint32, user meta.Address, amount *uint256.Int) error {
	logger.Debug("requesting unstake", "pool", pid, "user", user, "amount", amount, "block", s.block)
	unlock, err := s.requestUnstake(pid, user, fixedpoint.OrZero(amount))
	if err != nil {
		logger.Info("request unstake failed", "pool", pid, "user", user, "error", err)
		return err
	}
	logger.Info("requested unstake", "pool", pid, "user", user, "amount", amount, "unlock", unlock)
	return nil
}

func (s *Staker) requestUnstake(pid uint32, user meta.Address, amount *uint256.Int) (uint32, error) {
	g, err := s.initialized()
	if err != nil {
		return 0, err
	}
	p, err := s.settledPool(pid, g)
	if err != nil {
		return 0, err
	}
	if amount.IsZero() {
		return 0, reverts.ErrAmountTooSmall
	}
	pos, err := s.positionService.Get(pid, user)
	if err != nil {
		return 0, err
	}
	if amount.Gt(pos.Staked) {
		return 0, reverts.ErrInsufficientStake.WithMessage("staked " + pos.Staked.Dec())
	}
	if uint64(s.block)+uint64(p.UnstakeLockBlocks) > math.MaxUint32 {
		return 0, reverts.ErrArithmeticOverflow.WithMessage("unlock block")
	}
	unlock := s.block + p.UnstakeLockBlocks

	pending, err := pos.Harvest(p.AccRewardPerShare)
	if err != nil {
		return 0, err
	}
	// both cannot underflow, staked total covers every position
	pos.Staked = new(uint256.Int).Sub(pos.Staked, amount)
	if p.StakedTotal, err = fixedpoint.Sub(p.StakedTotal, amount); err != nil {
		return 0, reverts.Arithmetic(err)
	}
	if err := pos.SettleDebt(p.AccRewardPerShare); err != nil {
		return 0, err
	}
	if err := pos.Enqueue(amount, unlock, s.maxPending); err != nil {
		return 0, err
	}

	if err := s.realize(pid, user, g, pos, pending); err != nil {
		return 0, err
	}
	if err := s.poolService.Set(pid, p); err != nil {
		return 0, err
	}
	if err := s.positionService.Set(pid, user, pos); err != nil {
		return 0, err
	}
	s.emit(EventRequestUnstake, poolRef(pid), user, amount).Unlock = unlock
	return unlock, nil
}

// Withdraw pays out every unlocked withdrawal request of the user.
func (s *Staker) Withdraw(pid uint32, user meta.Address) (*uint256.Int, error) {
	logger.Debug("withdrawing", "pool", pid, "user", user, "block", s.block)
	amount, err := s.withdraw(pid, user)
	if err != nil {
		logger.Info("withdraw failed", "pool", pid, "user", user, "error", err)
		return nil, err
	}
	logger.Info("withdrew", "pool", pid, "user", user, "amount", amount)
	return amount, nil
}

func (s *Staker) withdraw(pid uint32, user meta.Address) (*uint256.Int, error) {
	g, err := s.initialized()
	if err != nil {
		return nil, err
	}
	if g.WithdrawPaused {
		return nil, reverts.ErrWithdrawPaused
	}
	p, err := s.poolService.Get(pid)
	if err != nil {
		return nil, err
	}
	pos, err := s.positionService.Get(pid, user)
	if err != nil {
		return nil, err
	}
	amount, err := pos.Drain(s.block)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, reverts.ErrNothingToWithdraw
	}
	if err := s.positionService.Set(pid, user, pos); err != nil {
		return nil, err
	}
	if err := s.push(p.Asset, user, amount); err != nil {
		return nil, err
	}
	s.emit(EventWithdraw, poolRef(pid), user, amount)
	return amount, nil
}

// Claim pays the user's pending reward, leaving the stake untouched.
func (s *Staker) Claim(pid uint32, user meta.Address) (*uint256.Int, error) {
	logger.Debug("claiming", "pool", pid, "user", user, "block", s.block)
	amount, err := s.claim(pid, user)
	if err != nil {
		logger.Info("claim failed", "pool", pid, "user", user, "error", err)
		return nil, err
	}
	logger.Info("claimed", "pool", pid, "user", user, "amount", amount)
	return amount, nil
}

func (s *Staker) claim(pid uint32, user meta.Address) (*uint256.Int, error) {
	g, err := s.initialized()
	if err != nil {
		return nil, err
	}
	if g.ClaimPaused {
		return nil, reverts.ErrClaimPaused
	}
	p, err := s.settledPool(pid, g)
	if err != nil {
		return nil, err
	}
	pos, err := s.positionService.Get(pid, user)
	if err != nil {
		return nil, err
	}
	pending, err := pos.Harvest(p.AccRewardPerShare)
	if err != nil {
		return nil, err
	}
	if err := s.realize(pid, user, g, pos, pending); err != nil {
		return nil, err
	}
	if err := s.poolService.Set(pid, p); err != nil {
		return nil, err
	}
	if err := s.positionService.Set(pid, user, pos); err != nil {
		return nil, err
	}
	s.emit(EventClaim, poolRef(pid), user, pending.Amount)
	return pending.Amount, nil
}
