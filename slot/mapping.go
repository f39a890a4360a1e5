// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"encoding/binary"
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/metanode/stake/meta"
)

type Key interface {
	Bytes() []byte
}

// Uint32Key keys a mapping by a 32-bit index.
type Uint32Key uint32

func (k Uint32Key) Bytes() []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(k))
}

// Mapping is a typed key/value record set, each value RLP encoded at blake2b(key, basePos).
// An absent value decodes to the zero value of V (a fresh instance for pointer types).
type Mapping[K Key, V any] struct {
	context *Context
	basePos meta.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos meta.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) meta.Bytes32 {
	return meta.Blake2b(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.space, m.position(key), func(raw []byte) error {
		return decode(m.context, raw, &value)
	})
	return
}

// Exists reports whether a value was ever stored under key.
func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	raw, err := m.context.state.GetRaw(m.context.space, m.position(key))
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.space, m.position(key), func() ([]byte, error) {
		return encode(m.context, value)
	})
}

func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRaw(m.context.space, m.position(key), nil)
}

func decode[V any](ctx *Context, raw []byte, value *V) error {
	if reflect.TypeFor[V]().Kind() == reflect.Ptr {
		*value = reflect.New(reflect.TypeFor[V]().Elem()).Interface().(V)
	}
	ctx.observe(false, len(raw))
	if len(raw) == 0 {
		return nil
	}
	return rlp.DecodeBytes(raw, value)
}

func encode[V any](ctx *Context, value V) ([]byte, error) {
	val, err := rlp.EncodeToBytes(value)
	if err != nil {
		return nil, err
	}
	ctx.observe(true, len(val))
	return val, nil
}
