// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package asset

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/metanode/stake/fixedpoint"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/slot"
	"github.com/metanode/stake/staking/reverts"
)

// MaxFeeBps is 100% in basis points.
const MaxFeeBps = 10_000

var (
	slotBalances   = meta.BytesToBytes32([]byte("balances"))
	slotAllowances = meta.BytesToBytes32([]byte("allowances"))
	slotFees       = meta.BytesToBytes32([]byte("fees"))
	slotRefusals   = meta.BytesToBytes32([]byte("refusals"))

	bps = uint256.NewInt(MaxFeeBps)
)

type balanceKey struct {
	token, owner meta.Address
}

func (k balanceKey) Bytes() []byte {
	return append(k.token.Bytes(), k.owner[:]...)
}

type allowanceKey struct {
	token, owner, spender meta.Address
}

func (k allowanceKey) Bytes() []byte {
	return append(append(k.token.Bytes(), k.owner[:]...), k.spender[:]...)
}

// Ledger is a Transferrer keeping balances in the journaled state, so reverting the state
// also reverts transfers. Native value is recorded under meta.NativeAsset.
type Ledger struct {
	balances   *slot.Mapping[balanceKey, *uint256.Int]
	allowances *slot.Mapping[allowanceKey, *uint256.Int]
	fees       *slot.Mapping[meta.Address, uint32]
	refusals   *slot.Mapping[meta.Address, bool]
}

var _ Transferrer = (*Ledger)(nil)

func NewLedger(sctx *slot.Context) *Ledger {
	return &Ledger{
		balances:   slot.NewMapping[balanceKey, *uint256.Int](sctx, slotBalances),
		allowances: slot.NewMapping[allowanceKey, *uint256.Int](sctx, slotAllowances),
		fees:       slot.NewMapping[meta.Address, uint32](sctx, slotFees),
		refusals:   slot.NewMapping[meta.Address, bool](sctx, slotRefusals),
	}
}

func (l *Ledger) BalanceOf(token, owner meta.Address) (*uint256.Int, error) {
	v, err := l.balances.Get(balanceKey{token, owner})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return v, nil
}

func (l *Ledger) NativeBalance(owner meta.Address) (*uint256.Int, error) {
	return l.BalanceOf(meta.NativeAsset, owner)
}

// Mint credits amount of token to owner.
func (l *Ledger) Mint(token, to meta.Address, amount *uint256.Int) error {
	bal, err := l.BalanceOf(token, to)
	if err != nil {
		return err
	}
	sum, err := fixedpoint.Add(bal, amount)
	if err != nil {
		return reverts.Arithmetic(err)
	}
	return l.setBalance(token, to, sum)
}

// Approve sets the allowance of spender over owner's token.
func (l *Ledger) Approve(token, owner, spender meta.Address, amount *uint256.Int) error {
	return l.allowances.Set(allowanceKey{token, owner, spender}, new(uint256.Int).Set(amount))
}

func (l *Ledger) Allowance(token, owner, spender meta.Address) (*uint256.Int, error) {
	v, err := l.allowances.Get(allowanceKey{token, owner, spender})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allowance")
	}
	return v, nil
}

// SetFee charges feeBps basis points of every transfer of token. The fee is burned.
func (l *Ledger) SetFee(token meta.Address, feeBps uint32) error {
	if feeBps > MaxFeeBps {
		return reverts.ErrInvalidParam.WithMessage(fmt.Sprintf("fee %d bps above %d", feeBps, MaxFeeBps))
	}
	return l.fees.Set(token, feeBps)
}

func (l *Ledger) Fee(token meta.Address) (uint32, error) {
	return l.fees.Get(token)
}

// SetRefuse makes addr refuse (or accept again) native payments.
func (l *Ledger) SetRefuse(addr meta.Address, refuse bool) error {
	return l.refusals.Set(addr, refuse)
}

func (l *Ledger) TransferNative(from, to meta.Address, amount *uint256.Int) error {
	refuse, err := l.refusals.Get(to)
	if err != nil {
		return errors.Wrap(err, "failed to get refusal")
	}
	if refuse {
		return ErrRecipientRefused.WithMessage(to.String())
	}
	return l.move(meta.NativeAsset, from, to, amount, 0)
}

func (l *Ledger) Transfer(token, from, to meta.Address, amount *uint256.Int) error {
	fee, err := l.Fee(token)
	if err != nil {
		return err
	}
	return l.move(token, from, to, amount, fee)
}

func (l *Ledger) TransferFrom(token, spender, from, to meta.Address, amount *uint256.Int) error {
	allowance, err := l.Allowance(token, from, spender)
	if err != nil {
		return err
	}
	if allowance.Lt(amount) {
		return ErrInsufficientAllowance.WithMessage(fmt.Sprintf("%s allows %s", from, allowance.Dec()))
	}
	if err := l.allowances.Set(allowanceKey{token, from, spender}, new(uint256.Int).Sub(allowance, amount)); err != nil {
		return err
	}
	return l.Transfer(token, from, to, amount)
}

func (l *Ledger) move(token, from, to meta.Address, amount *uint256.Int, feeBps uint32) error {
	fromBal, err := l.BalanceOf(token, from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return ErrInsufficientBalance.WithMessage(fmt.Sprintf("%s holds %s", from, fromBal.Dec()))
	}
	if err := l.setBalance(token, from, new(uint256.Int).Sub(fromBal, amount)); err != nil {
		return err
	}

	received := amount
	if feeBps > 0 {
		fee, err := fixedpoint.MulDiv(amount, uint256.NewInt(uint64(feeBps)), bps)
		if err != nil {
			return reverts.Arithmetic(err)
		}
		received = new(uint256.Int).Sub(amount, fee)
	}
	toBal, err := l.BalanceOf(token, to)
	if err != nil {
		return err
	}
	sum, err := fixedpoint.Add(toBal, received)
	if err != nil {
		return reverts.Arithmetic(err)
	}
	return l.setBalance(token, to, sum)
}

func (l *Ledger) setBalance(token, owner meta.Address, v *uint256.Int) error {
	if err := l.balances.Set(balanceKey{token, owner}, v); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}
