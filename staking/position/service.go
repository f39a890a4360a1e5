// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/slot"
	"github.com/metanode/stake/staking/accrual"
	"github.com/metanode/stake/staking/params"
	"github.com/metanode/stake/staking/pool"
)

var slotPositions = meta.BytesToBytes32([]byte("positions"))

// Key identifies a position.
type Key struct {
	Pool uint32
	User meta.Address
}

func (k Key) Bytes() []byte {
	b := binary.BigEndian.AppendUint32(make([]byte, 0, 4+meta.AddressLength), k.Pool)
	return append(b, k.User[:]...)
}

// Service stores positions, keyed by pool and user.
type Service struct {
	positions *slot.Mapping[Key, *Position]
}

func New(sctx *slot.Context) *Service {
	return &Service{
		positions: slot.NewMapping[Key, *Position](sctx, slotPositions),
	}
}

// Get returns the position. An absent position is empty, never nil.
func (s *Service) Get(pid uint32, user meta.Address) (*Position, error) {
	p, err := s.positions.Get(Key{pid, user})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get position")
	}
	p.normalize()
	return p, nil
}

// Set stores the position. An empty position releases its record.
func (s *Service) Set(pid uint32, user meta.Address, p *Position) error {
	key := Key{pid, user}
	if p.IsEmpty() {
		exists, err := s.positions.Exists(key)
		if err != nil {
			return errors.Wrap(err, "failed to check position")
		}
		if exists {
			s.positions.Delete(key)
		}
		return nil
	}
	if err := s.positions.Set(key, p); err != nil {
		return errors.Wrap(err, "failed to set position")
	}
	return nil
}

// PendingReward reports what the user could claim at block, without settling anything.
func PendingReward(p *pool.Pool, g *params.Global, pos *Position, block uint32) (Pending, error) {
	acc, err := accrual.Simulate(p, g, block)
	if err != nil {
		return Pending{}, err
	}
	return pos.Accrued(acc)
}
