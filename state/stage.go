// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/metanode/stake/cache"
	"github.com/metanode/stake/kv"
	"github.com/metanode/stake/meta"
)

// Stage abstracts changes of a state, ready to be committed.
type Stage struct {
	changes map[Key][]byte
	cache   *cache.LRU
}

// Len returns the number of changed records.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Hash computes a digest of the change set, independent of write order.
// Pairs are RLP encoded in key order before hashing.
func (s *Stage) Hash() meta.Bytes32 {
	keys := make([][]byte, 0, len(s.changes))
	index := make(map[string]Key, len(s.changes))
	for k := range s.changes {
		b := k.bytes()
		keys = append(keys, b)
		index[string(b)] = k
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })

	pairs := make([][2][]byte, 0, len(keys))
	for _, b := range keys {
		pairs = append(pairs, [2][]byte{b, s.changes[index[string(b)]]})
	}
	// each value is length prefixed, so a deletion can't be confused with a longer value
	data, _ := rlp.EncodeToBytes(pairs)
	return meta.Blake2b(data)
}

// Commit writes all changes into the batch and then flushes it.
// The read cache is refreshed only after the batch is written.
func (s *Stage) Commit(batch kv.Batch) error {
	putter := Bucket.NewPutter(batch)
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = putter.Delete(k.bytes())
		} else {
			err = putter.Put(k.bytes(), v)
		}
		if err != nil {
			return errors.Wrap(err, "stage record")
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "write batch")
	}
	if s.cache != nil {
		for k, v := range s.changes {
			if len(v) == 0 {
				s.cache.Add(k, []byte(nil))
			} else {
				s.cache.Add(k, v)
			}
		}
	}
	return nil
}
