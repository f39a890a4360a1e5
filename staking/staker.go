// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/metanode/stake/acl"
	"github.com/metanode/stake/asset"
	"github.com/metanode/stake/log"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/slot"
	"github.com/metanode/stake/staking/accrual"
	"github.com/metanode/stake/staking/params"
	"github.com/metanode/stake/staking/pool"
	"github.com/metanode/stake/staking/position"
	"github.com/metanode/stake/staking/reverts"
)

// MaxPendingWithdrawals bounds the withdrawal queue of a position.
const MaxPendingWithdrawals = 64

var (
	logger = log.WithContext("pkg", "staking")

	// Address holds staked assets and the reward reserve.
	Address = meta.BytesToAddress([]byte("MetaNodeStake"))
)

func SetLogger(l log.Logger) {
	logger = l
}

// Staker runs staking operations at a fixed block.
type Staker struct {
	address meta.Address
	block   uint32

	paramsService   *params.Service
	poolService     *pool.Service
	positionService *position.Service

	assets asset.Transferrer
	auth   acl.Authorizer

	maxPending int
	events     []*Event
}

// New create a new instance acting at block.
func New(sctx *slot.Context, assets asset.Transferrer, auth acl.Authorizer, block uint32) *Staker {
	return &Staker{
		address:         Address,
		block:           block,
		paramsService:   params.New(sctx),
		poolService:     pool.New(sctx),
		positionService: position.New(sctx),
		assets:          assets,
		auth:            auth,
		maxPending:      MaxPendingWithdrawals,
	}
}

// Block returns the block the staker acts at.
func (s *Staker) Block() uint32 {
	return s.block
}

//
// Getters - no state change
//

// Global returns the emission record.
func (s *Staker) Global() (*params.Global, error) {
	return s.paramsService.Get()
}

// PoolLength returns the number of pools.
func (s *Staker) PoolLength() (uint32, error) {
	return s.poolService.Len()
}

// Pool returns a pool as stored, not settled to the current block.
func (s *Staker) Pool(pid uint32) (*pool.Pool, error) {
	return s.poolService.Get(pid)
}

// Position returns the user's position. Unknown users get an empty position.
func (s *Staker) Position(pid uint32, user meta.Address) (*position.Position, error) {
	if _, err := s.poolService.Get(pid); err != nil {
		return nil, err
	}
	return s.positionService.Get(pid, user)
}

// StakingBalance returns the reward-earning stake of the user.
func (s *Staker) StakingBalance(pid uint32, user meta.Address) (*uint256.Int, error) {
	pos, err := s.Position(pid, user)
	if err != nil {
		return nil, err
	}
	return pos.Staked, nil
}

// PendingReward returns the reward the user could claim at the current block.
func (s *Staker) PendingReward(pid uint32, user meta.Address) (position.Pending, error) {
	g, err := s.paramsService.Get()
	if err != nil {
		return position.Pending{}, err
	}
	p, err := s.poolService.Get(pid)
	if err != nil {
		return position.Pending{}, err
	}
	pos, err := s.positionService.Get(pid, user)
	if err != nil {
		return position.Pending{}, err
	}
	return position.PendingReward(p, g, pos, s.block)
}

// WithdrawAmount returns the total queued for withdrawal and the part unlocked at the current block.
func (s *Staker) WithdrawAmount(pid uint32, user meta.Address) (requested, unlocked *uint256.Int, err error) {
	pos, err := s.Position(pid, user)
	if err != nil {
		return nil, nil, err
	}
	if requested, err = pos.Requested(); err != nil {
		return nil, nil, err
	}
	if unlocked, err = pos.Unlocked(s.block); err != nil {
		return nil, nil, err
	}
	return requested, unlocked, nil
}

//
// helpers
//

func (s *Staker) initialized() (*params.Global, error) {
	g, err := s.paramsService.Get()
	if err != nil {
		return nil, err
	}
	if !g.Initialized {
		return nil, reverts.ErrNotInitialized
	}
	return g, nil
}

func (s *Staker) requireAdmin(caller meta.Address) error {
	ok, err := s.auth.IsAdmin(caller)
	if err != nil {
		return errors.Wrap(err, "check admin")
	}
	if !ok {
		return reverts.ErrUnauthorized.WithMessage(caller.String())
	}
	return nil
}

// settledPool loads the pool and brings it current.
func (s *Staker) settledPool(pid uint32, g *params.Global) (*pool.Pool, error) {
	p, err := s.poolService.Get(pid)
	if err != nil {
		return nil, err
	}
	if _, err := accrual.Settle(p, g, s.block); err != nil {
		return nil, err
	}
	return p, nil
}

// realize pays the harvested reward, or carries it while claims are paused.
func (s *Staker) realize(pid uint32, user meta.Address, g *params.Global, pos *position.Position, pending position.Pending) error {
	if pending.Drift {
		logger.Warn("reward rounding drift", "pool", pid, "user", user, "debt", pos.RewardDebt)
	}
	if pending.Amount.IsZero() {
		return nil
	}
	if g.ClaimPaused {
		pos.Carried = pending.Amount
		s.emit(EventRewardCarried, poolRef(pid), user, pending.Amount)
		return nil
	}
	if err := s.push(g.RewardAsset, user, pending.Amount); err != nil {
		return err
	}
	s.emit(EventRewardPaid, poolRef(pid), user, pending.Amount)
	return nil
}

// push sends assetID from the staker to user.
func (s *Staker) push(assetID, user meta.Address, amount *uint256.Int) error {
	if assetID == meta.NativeAsset {
		return s.assets.TransferNative(s.address, user, amount)
	}
	return s.assets.Transfer(assetID, s.address, user, amount)
}

// pull collects a deposit. Native deposits must attach exactly amount. Token deposits must
// attach nothing and the staker must receive exactly amount.
func (s *Staker) pull(p *pool.Pool, user meta.Address, amount, attached *uint256.Int) error {
	if p.IsNative() {
		if !attached.Eq(amount) {
			return reverts.ErrAssetTransferMismatch.WithMessage("attached value " + attached.Dec() + " for amount " + amount.Dec())
		}
		return s.assets.TransferNative(user, s.address, amount)
	}
	if !attached.IsZero() {
		return reverts.ErrAssetTransferMismatch.WithMessage("native value attached to a token deposit")
	}
	before, err := s.assets.BalanceOf(p.Asset, s.address)
	if err != nil {
		return err
	}
	if err := s.assets.TransferFrom(p.Asset, s.address, user, s.address, amount); err != nil {
		return err
	}
	after, err := s.assets.BalanceOf(p.Asset, s.address)
	if err != nil {
		return err
	}
	received, underflow := new(uint256.Int).SubOverflow(after, before)
	if underflow || !received.Eq(amount) {
		return reverts.ErrAssetTransferMismatch.WithMessage("received " + received.Dec() + " of " + amount.Dec())
	}
	return nil
}
