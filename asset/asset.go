// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package asset

import (
	"github.com/holiman/uint256"

	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/staking/reverts"
)

var (
	ErrInsufficientBalance   = reverts.New("InsufficientBalance", "insufficient balance")
	ErrInsufficientAllowance = reverts.New("InsufficientAllowance", "insufficient allowance")
	ErrRecipientRefused      = reverts.New("RecipientRefused", "recipient refused payment")
)

// Transferrer moves native value and tokens. A failed transfer has no effect.
type Transferrer interface {
	// TransferNative pushes native value. The recipient may refuse it.
	TransferNative(from, to meta.Address, amount *uint256.Int) error
	// Transfer moves tokens owned by from.
	Transfer(token, from, to meta.Address, amount *uint256.Int) error
	// TransferFrom moves tokens owned by from on behalf of spender, consuming allowance.
	TransferFrom(token, spender, from, to meta.Address, amount *uint256.Int) error
	BalanceOf(token, owner meta.Address) (*uint256.Int, error)
	NativeBalance(owner meta.Address) (*uint256.Int, error)
}
