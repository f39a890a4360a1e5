// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/metanode/stake/fixedpoint"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/slot"
)

var slotGlobal = meta.BytesToBytes32([]byte("global"))

// Global is the singleton emission record.
type Global struct {
	StartBlock     uint32
	EndBlock       uint32
	RewardPerBlock *uint256.Int
	TotalWeight    *uint256.Int
	RewardAsset    meta.Address
	WithdrawPaused bool
	ClaimPaused    bool
	Initialized    bool
	Version        uint64
}

// Service stores the global record.
type Service struct {
	global *slot.Value[*Global]
}

func New(sctx *slot.Context) *Service {
	return &Service{
		global: slot.NewValue[*Global](sctx, slotGlobal),
	}
}

// Get returns the global record. Amounts of an absent record read as zero.
func (s *Service) Get() (*Global, error) {
	g, err := s.global.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get global")
	}
	g.RewardPerBlock = fixedpoint.OrZero(g.RewardPerBlock)
	g.TotalWeight = fixedpoint.OrZero(g.TotalWeight)
	return g, nil
}

// Set stores g and bumps its version.
func (s *Service) Set(g *Global) error {
	g.Version++
	if err := s.global.Set(g); err != nil {
		return errors.Wrap(err, "failed to set global")
	}
	return nil
}
