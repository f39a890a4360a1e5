// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/slot"
	"github.com/metanode/stake/staking/reverts"
)

var (
	slotPools      = meta.BytesToBytes32([]byte("pools"))
	slotPoolLength = meta.BytesToBytes32([]byte("pools-length"))
)

// Service is the append-only pool registry. The index of a pool is its id.
type Service struct {
	pools  *slot.Mapping[slot.Uint32Key, *Pool]
	length *slot.Value[uint32]
}

func New(sctx *slot.Context) *Service {
	return &Service{
		pools:  slot.NewMapping[slot.Uint32Key, *Pool](sctx, slotPools),
		length: slot.NewValue[uint32](sctx, slotPoolLength),
	}
}

// Len returns the number of pools.
func (s *Service) Len() (uint32, error) {
	n, err := s.length.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get pool length")
	}
	return n, nil
}

// Get returns the pool. It fails with ErrPoolNotFound for an unknown id.
func (s *Service) Get(pid uint32) (*Pool, error) {
	n, err := s.Len()
	if err != nil {
		return nil, err
	}
	if pid >= n {
		return nil, reverts.ErrPoolNotFound.WithMessage(fmt.Sprintf("pool %d", pid))
	}
	p, err := s.pools.Get(slot.Uint32Key(pid))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	p.normalize()
	return p, nil
}

// Set overwrites an existing pool.
func (s *Service) Set(pid uint32, p *Pool) error {
	if err := s.pools.Set(slot.Uint32Key(pid), p); err != nil {
		return errors.Wrap(err, "failed to set pool")
	}
	return nil
}

// Add appends a pool settled at block. Pool 0 must be the native pool, and no other pool may be native.
func (s *Service) Add(asset meta.Address, weight, minDeposit *uint256.Int, lockBlocks, block uint32) (uint32, *Pool, error) {
	pid, err := s.Len()
	if err != nil {
		return 0, nil, err
	}
	if pid == 0 && asset != meta.NativeAsset {
		return 0, nil, reverts.ErrInvalidPool.WithMessage("first pool must stake the native asset")
	}
	if pid > 0 && asset == meta.NativeAsset {
		return 0, nil, reverts.ErrInvalidPool.WithMessage("only the first pool may stake the native asset")
	}
	if weight == nil || weight.IsZero() {
		return 0, nil, reverts.ErrInvalidParam.WithMessage("weight must be positive")
	}
	if lockBlocks == 0 {
		return 0, nil, reverts.ErrInvalidParam.WithMessage("unstake lock must be positive")
	}

	p := &Pool{
		Asset:             asset,
		Weight:            new(uint256.Int).Set(weight),
		MinDeposit:        new(uint256.Int),
		UnstakeLockBlocks: lockBlocks,
		StakedTotal:       new(uint256.Int),
		LastSettledBlock:  block,
		AccRewardPerShare: new(uint256.Int),
	}
	if minDeposit != nil {
		p.MinDeposit.Set(minDeposit)
	}
	if err := s.Set(pid, p); err != nil {
		return 0, nil, err
	}
	if err := s.length.Set(pid + 1); err != nil {
		return 0, nil, errors.Wrap(err, "failed to set pool length")
	}
	return pid, p, nil
}

// All returns every pool in id order.
func (s *Service) All() ([]*Pool, error) {
	n, err := s.Len()
	if err != nil {
		return nil, err
	}
	pools := make([]*Pool, 0, n)
	for pid := range n {
		p, err := s.Get(pid)
		if err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	return pools, nil
}
