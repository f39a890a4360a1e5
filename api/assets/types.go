// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package assets

import (
	"github.com/holiman/uint256"

	"github.com/metanode/stake/meta"
)

type Balance struct {
	Asset   meta.Address `json:"asset"`
	Owner   meta.Address `json:"owner"`
	Block   uint32       `json:"block"`
	Balance *uint256.Int `json:"balance"`
}

type Allowance struct {
	Asset     meta.Address `json:"asset"`
	Owner     meta.Address `json:"owner"`
	Spender   meta.Address `json:"spender"`
	Allowance *uint256.Int `json:"allowance"`
}

type Fee struct {
	Asset  meta.Address `json:"asset"`
	FeeBps uint32       `json:"feeBps"`
}

// ApproveRequest sets the allowance of spender. A missing spender means the staking ledger.
type ApproveRequest struct {
	Caller  meta.Address  `json:"caller"`
	Spender *meta.Address `json:"spender,omitempty"`
	Amount  *uint256.Int  `json:"amount"`
}

type TransferRequest struct {
	Caller meta.Address `json:"caller"`
	To     meta.Address `json:"to"`
	Amount *uint256.Int `json:"amount"`
}
