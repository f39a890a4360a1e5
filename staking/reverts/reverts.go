// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"

	"github.com/metanode/stake/fixedpoint"
)

// ErrRevert is a user-facing failure. The operation that returned it left no trace in the ledger.
type ErrRevert struct {
	kind    string
	message string
}

func New(kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Kind returns the stable name of the failure, e.g. AmountTooSmall.
func (e *ErrRevert) Kind() string {
	return e.kind
}

// Is matches reverts of the same kind, so a detailed revert still matches its sentinel.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	return ok && t.kind == e.kind
}

// WithMessage returns a revert of the same kind with a more specific message.
func (e *ErrRevert) WithMessage(message string) *ErrRevert {
	return &ErrRevert{kind: e.kind, message: e.message + ": " + message}
}

var (
	ErrAmountTooSmall            = New("AmountTooSmall", "amount too small")
	ErrInsufficientStake         = New("InsufficientStake", "insufficient stake")
	ErrNothingToWithdraw         = New("NothingToWithdraw", "nothing to withdraw")
	ErrUnauthorized              = New("Unauthorized", "unauthorized")
	ErrPoolNotFound              = New("PoolNotFound", "pool not found")
	ErrPoolPaused                = New("PoolPaused", "pool paused")
	ErrAssetTransferMismatch     = New("AssetTransferMismatch", "asset transfer mismatch")
	ErrArithmeticOverflow        = New("ArithmeticOverflow", "arithmetic overflow")
	ErrRewardWindowClosed        = New("RewardWindowClosed", "reward window closed")
	ErrAlreadyInitialized        = New("AlreadyInitialized", "already initialized")
	ErrNotInitialized            = New("NotInitialized", "not initialized")
	ErrInvalidPool               = New("InvalidPool", "invalid pool")
	ErrInvalidParam              = New("InvalidParam", "invalid parameter")
	ErrWithdrawPaused            = New("WithdrawPaused", "withdraw paused")
	ErrClaimPaused               = New("ClaimPaused", "claim paused")
	ErrTooManyPendingWithdrawals = New("TooManyPendingWithdrawals", "too many pending withdrawals")
	ErrClockRegression           = New("ClockRegression", "clock regression")
	ErrTransferFailed            = New("TransferFailed", "asset transfer failed")
)

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the revert kind carried by err, or an empty string.
func KindOf(err error) string {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return ""
}

// Arithmetic converts a fixedpoint failure into ErrArithmeticOverflow. Other errors pass through.
func Arithmetic(err error) error {
	if errors.Is(err, fixedpoint.ErrOverflow) ||
		errors.Is(err, fixedpoint.ErrUnderflow) ||
		errors.Is(err, fixedpoint.ErrDivisionByZero) {
		return ErrArithmeticOverflow.WithMessage(err.Error())
	}
	return err
}
