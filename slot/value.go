// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"github.com/holiman/uint256"

	"github.com/metanode/stake/fixedpoint"
	"github.com/metanode/stake/meta"
)

// Value is a single typed record at a fixed position.
type Value[V any] struct {
	context *Context
	pos     meta.Bytes32
}

func NewValue[V any](context *Context, pos meta.Bytes32) *Value[V] {
	return &Value[V]{context: context, pos: pos}
}

func (v *Value[V]) Get() (value V, err error) {
	err = v.context.state.DecodeStorage(v.context.space, v.pos, func(raw []byte) error {
		return decode(v.context, raw, &value)
	})
	return
}

func (v *Value[V]) Set(value V) error {
	return v.context.state.EncodeStorage(v.context.space, v.pos, func() ([]byte, error) {
		return encode(v.context, value)
	})
}

// Uint256 is a checked counter record. Absent reads as zero.
type Uint256 struct {
	value *Value[*uint256.Int]
}

func NewUint256(context *Context, pos meta.Bytes32) *Uint256 {
	return &Uint256{NewValue[*uint256.Int](context, pos)}
}

func (u *Uint256) Get() (*uint256.Int, error) {
	return u.value.Get()
}

func (u *Uint256) Set(value *uint256.Int) error {
	return u.value.Set(value)
}

func (u *Uint256) Add(delta *uint256.Int) error {
	cur, err := u.Get()
	if err != nil {
		return err
	}
	sum, err := fixedpoint.Add(cur, delta)
	if err != nil {
		return err
	}
	return u.Set(sum)
}

func (u *Uint256) Sub(delta *uint256.Int) error {
	cur, err := u.Get()
	if err != nil {
		return err
	}
	diff, err := fixedpoint.Sub(cur, delta)
	if err != nil {
		return err
	}
	return u.Set(diff)
}
