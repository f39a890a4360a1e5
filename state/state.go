// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/metanode/stake/cache"
	"github.com/metanode/stake/kv"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/stackedmap"
)

// Bucket holds every committed record, keyed by space address followed by slot.
const Bucket = kv.Bucket("s")

// Key locates a raw record.
type Key struct {
	Space meta.Address
	Slot  meta.Bytes32
}

func (k Key) bytes() []byte {
	b := make([]byte, 0, meta.AddressLength+32)
	b = append(b, k.Space[:]...)
	return append(b, k.Slot[:]...)
}

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// State is a journaled view of records over a kv store.
// Writes stay in memory until staged and committed.
type State struct {
	getter kv.Getter
	cache  *cache.LRU
	sm     *stackedmap.StackedMap[Key, []byte]
}

// New create state object reading from src.
// The cache is optional and holds committed raw records only.
func New(src kv.Getter, c *cache.LRU) *State {
	s := &State{
		getter: Bucket.NewGetter(src),
		cache:  c,
	}
	s.sm = stackedmap.New(func(key Key) ([]byte, bool, error) {
		v, err := s.load(key)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	})
	return s
}

func (s *State) load(key Key) ([]byte, error) {
	if s.cache == nil {
		return s.read(key)
	}
	v, err := s.cache.GetOrLoad(key, func(any) (any, error) {
		return s.read(key)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (s *State) read(key Key) ([]byte, error) {
	v, err := s.getter.Get(key.bytes())
	if err != nil {
		if s.getter.IsNotFound(err) {
			return []byte(nil), nil
		}
		return nil, err
	}
	return v, nil
}

// GetRaw returns the raw record. An absent record is empty.
func (s *State) GetRaw(space meta.Address, slot meta.Bytes32) ([]byte, error) {
	v, _, err := s.sm.Get(Key{space, slot})
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// SetRaw sets the raw record. An empty value deletes the record on commit.
func (s *State) SetRaw(space meta.Address, slot meta.Bytes32, raw []byte) {
	s.sm.Put(Key{space, slot}, raw)
}

// EncodeStorage set record value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(space meta.Address, slot meta.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRaw(space, slot, raw)
	return nil
}

// DecodeStorage get and decode record value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(space meta.Address, slot meta.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRaw(space, slot)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage collects the latest value of every record changed since the state was created.
func (s *State) Stage() *Stage {
	changes := make(map[Key][]byte)
	s.sm.Journal(func(k Key, v []byte) bool {
		changes[k] = v
		return true
	})
	return &Stage{changes: changes, cache: s.cache}
}
