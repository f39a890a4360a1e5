// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"

	"github.com/metanode/stake/fixedpoint"
	"github.com/metanode/stake/meta"
)

// Pool is a staking bucket for one asset.
type Pool struct {
	Asset             meta.Address // meta.NativeAsset for the native pool
	Weight            *uint256.Int
	MinDeposit        *uint256.Int
	UnstakeLockBlocks uint32
	StakedTotal       *uint256.Int
	LastSettledBlock  uint32
	AccRewardPerShare *uint256.Int
	Paused            bool
}

// IsNative reports whether the pool stakes the native asset.
func (p *Pool) IsNative() bool {
	return p.Asset == meta.NativeAsset
}

func (p *Pool) normalize() {
	p.Weight = fixedpoint.OrZero(p.Weight)
	p.MinDeposit = fixedpoint.OrZero(p.MinDeposit)
	p.StakedTotal = fixedpoint.OrZero(p.StakedTotal)
	p.AccRewardPerShare = fixedpoint.OrZero(p.AccRewardPerShare)
}
