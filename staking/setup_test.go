// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/metanode/stake/acl"
	"github.com/metanode/stake/asset"
	"github.com/metanode/stake/lvldb"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/slot"
	"github.com/metanode/stake/state"
)

var (
	admin       = meta.BytesToAddress([]byte("admin"))
	alice       = meta.BytesToAddress([]byte("alice"))
	bob         = meta.BytesToAddress([]byte("bob"))
	rewardToken = meta.BytesToAddress([]byte("MetaNode"))
	stakeToken  = meta.BytesToAddress([]byte("stake-token"))
)

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }

type testEnv struct {
	t      *testing.T
	state  *state.State
	assets *asset.Ledger
	roles  *acl.Roles
	sctx   *slot.Context
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db, nil)
	return &testEnv{
		t:      t,
		state:  st,
		assets: asset.NewLedger(slot.NewContext(meta.BytesToAddress([]byte("assets")), st, nil)),
		roles:  acl.New(slot.NewContext(meta.BytesToAddress([]byte("acl")), st, nil)),
		sctx:   slot.NewContext(meta.BytesToAddress([]byte("staking")), st, nil),
	}
}

func (e *testEnv) at(block uint32) *Staker {
	return New(e.sctx, e.assets, e.roles, block)
}

// exec runs f atomically, reverting every change when it fails.
func (e *testEnv) exec(block uint32, f func(s *Staker) error) error {
	cp := e.state.NewCheckpoint()
	if err := f(e.at(block)); err != nil {
		e.state.RevertTo(cp)
		return err
	}
	return nil
}

func (e *testEnv) snapshot() meta.Bytes32 {
	return e.state.Stage().Hash()
}

func (e *testEnv) mint(token, to meta.Address, amount uint64) {
	require.NoError(e.t, e.assets.Mint(token, to, u(amount)))
}

func (e *testEnv) approve(token, owner meta.Address, amount uint64) {
	require.NoError(e.t, e.assets.Approve(token, owner, Address, u(amount)))
}

func (e *testEnv) balance(token, owner meta.Address) uint64 {
	v, err := e.assets.BalanceOf(token, owner)
	require.NoError(e.t, err)
	return v.Uint64()
}

// setup initializes emission and adds the native pool with the given lock.
func (e *testEnv) setup(rewardPerBlock uint64, start, end uint32, lock uint32, minDeposit uint64) {
	require.NoError(e.t, e.exec(0, func(s *Staker) error {
		if err := s.Initialize(admin, InitParams{
			RewardAsset:    rewardToken,
			StartBlock:     start,
			EndBlock:       end,
			RewardPerBlock: u(rewardPerBlock),
		}); err != nil {
			return err
		}
		_, err := s.AddPool(admin, PoolConfig{
			Asset:             meta.NativeAsset,
			Weight:            u(1),
			MinDeposit:        u(minDeposit),
			UnstakeLockBlocks: lock,
		})
		return err
	}))
	e.mint(rewardToken, Address, 1e15)
}

func (e *testEnv) deposit(block uint32, pid uint32, user meta.Address, amount uint64) error {
	return e.exec(block, func(s *Staker) error {
		p, err := s.Pool(pid)
		if err != nil {
			return err
		}
		attached := u(0)
		if p.IsNative() {
			attached = u(amount)
		}
		return s.Deposit(pid, user, u(amount), attached)
	})
}

func dump(v ...any) string {
	return spew.Sdump(v...)
}
