// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/metanode/stake/kv"
	"github.com/metanode/stake/meta"
)

const metaBucket = kv.Bucket("m")

var headKey = []byte("head")

// Head describes the last committed transaction.
type Head struct {
	Block  uint32       // block of the last commit
	Txs    uint64       // number of committed transactions
	Digest meta.Bytes32 // chained digest of all committed change sets
}

func loadHead(getter kv.Getter) (Head, error) {
	var h Head
	data, err := metaBucket.NewGetter(getter).Get(headKey)
	if err != nil {
		if getter.IsNotFound(err) {
			return h, nil
		}
		return h, errors.Wrap(err, "get head")
	}
	if err := rlp.DecodeBytes(data, &h); err != nil {
		return h, errors.Wrap(err, "decode head")
	}
	return h, nil
}

func saveHead(putter kv.Putter, h Head) error {
	data, err := rlp.EncodeToBytes(&h)
	if err != nil {
		return err
	}
	return metaBucket.NewPutter(putter).Put(headKey, data)
}

// next chains a committed change set onto the head.
func (h Head) next(block uint32, changes meta.Bytes32) Head {
	var num [12]byte
	num[0], num[1], num[2], num[3] = byte(block>>24), byte(block>>16), byte(block>>8), byte(block)
	for i := range 8 {
		num[4+i] = byte(h.Txs >> (56 - 8*i))
	}
	return Head{
		Block:  block,
		Txs:    h.Txs + 1,
		Digest: meta.Blake2b(h.Digest[:], num[:], changes[:]),
	}
}
