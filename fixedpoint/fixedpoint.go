// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixedpoint provides checked 256-bit arithmetic for reward-per-share accounting.
//
// Accumulators are scaled by Scale (1e18). Every helper multiplies before it divides and
// reports overflow, underflow and division by zero as errors, it never wraps.
package fixedpoint

import (
	"errors"
	"strings"

	"github.com/holiman/uint256"
)

// Scale is the fixed-point precision of accumulated reward per share.
var Scale = uint256.NewInt(1e18)

var (
	ErrOverflow       = errors.New("fixedpoint: overflow")
	ErrUnderflow      = errors.New("fixedpoint: underflow")
	ErrDivisionByZero = errors.New("fixedpoint: division by zero")
)

// Zero returns a new zero value.
func Zero() *uint256.Int {
	return new(uint256.Int)
}

// OrZero returns v, or a new zero value when v is nil. Decoded records may carry nil amounts.
func OrZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}

// Add returns a + b.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Sub returns a - b.
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, ErrUnderflow
	}
	return z, nil
}

// Mul returns a * b.
func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// MulDiv returns a * b / d, truncated. The product is kept at 512 bits, so only a quotient
// that does not fit 256 bits overflows.
func MulDiv(a, b, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivisionByZero
	}
	z, overflow := new(uint256.Int).MulDivOverflow(a, b, d)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// ToShares converts an amount distributed over total units into a scaled per-share value.
func ToShares(amount, total *uint256.Int) (*uint256.Int, error) {
	return MulDiv(amount, Scale, total)
}

// FromShares converts a scaled per-share value back into an amount for the given units.
func FromShares(units, perShare *uint256.Int) (*uint256.Int, error) {
	return MulDiv(units, perShare, Scale)
}

// Parse parses a decimal or 0x-prefixed hex amount.
func Parse(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("fixedpoint: empty amount")
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return uint256.FromHex(s)
	}
	return uint256.FromDecimal(s)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *uint256.Int {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}
