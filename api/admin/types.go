// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"github.com/holiman/uint256"

	"github.com/metanode/stake/meta"
)

type AddPoolRequest struct {
	Caller            meta.Address `json:"caller"`
	Asset             meta.Address `json:"asset"`
	Weight            *uint256.Int `json:"weight"`
	MinDeposit        *uint256.Int `json:"minDeposit"`
	UnstakeLockBlocks uint32       `json:"unstakeLockBlocks"`
	WithUpdate        bool         `json:"withUpdate"`
}

type WeightRequest struct {
	Caller meta.Address `json:"caller"`
	Weight *uint256.Int `json:"weight"`
}

type PoolConfigRequest struct {
	Caller            meta.Address `json:"caller"`
	MinDeposit        *uint256.Int `json:"minDeposit"`
	UnstakeLockBlocks uint32       `json:"unstakeLockBlocks"`
}

type CallerRequest struct {
	Caller meta.Address `json:"caller"`
}

// EmissionRequest changes the given emission parameters in one transaction.
type EmissionRequest struct {
	Caller         meta.Address `json:"caller"`
	RewardPerBlock *uint256.Int `json:"rewardPerBlock,omitempty"`
	StartBlock     *uint32      `json:"startBlock,omitempty"`
	EndBlock       *uint32      `json:"endBlock,omitempty"`
}

type AddPoolResponse struct {
	ID uint32 `json:"id"`
}
