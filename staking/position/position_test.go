// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metanode/stake/fixedpoint"
	"github.com/metanode/stake/kv"
	"github.com/metanode/stake/lvldb"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/slot"
	"github.com/metanode/stake/staking/params"
	"github.com/metanode/stake/staking/pool"
	"github.com/metanode/stake/staking/reverts"
	"github.com/metanode/stake/state"
)

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }

func scaled(v uint64) *uint256.Int {
	return new(uint256.Int).Mul(u(v), fixedpoint.Scale)
}

func emptyPosition() *Position {
	p := &Position{}
	p.normalize()
	return p
}

func TestAccrued(t *testing.T) {
	p := emptyPosition()
	p.Staked = u(1000)

	pending, err := p.Accrued(scaled(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), pending.Amount.Uint64())
	assert.False(t, pending.Drift)

	require.NoError(t, p.SettleDebt(scaled(1)))
	pending, _ = p.Accrued(scaled(1))
	assert.True(t, pending.Amount.IsZero())

	p.Carried = u(7)
	pending, _ = p.Accrued(scaled(2))
	assert.Equal(t, uint64(1007), pending.Amount.Uint64())

	// debt above gross is clamped and flagged
	p.Carried = u(0)
	p.RewardDebt = u(5000)
	pending, err = p.Accrued(scaled(2))
	require.NoError(t, err)
	assert.True(t, pending.Amount.IsZero())
	assert.True(t, pending.Drift)
}

func TestHarvest(t *testing.T) {
	p := emptyPosition()
	p.Staked = u(1000)
	p.Carried = u(3)

	pending, err := p.Harvest(scaled(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(1003), pending.Amount.Uint64())
	assert.True(t, p.Carried.IsZero())

	// a second harvest at the same accumulator pays nothing
	pending, err = p.Harvest(scaled(1))
	require.NoError(t, err)
	assert.True(t, pending.Amount.IsZero())
	assert.False(t, pending.Drift)
}

func TestQueue(t *testing.T) {
	p := emptyPosition()

	require.NoError(t, p.Enqueue(u(100), 70, 2))
	require.NoError(t, p.Enqueue(u(50), 70, 2))
	require.Len(t, p.Withdrawals, 1)
	assert.Equal(t, uint64(150), p.Withdrawals[0].Amount.Uint64())

	require.NoError(t, p.Enqueue(u(20), 80, 2))
	assert.ErrorIs(t, p.Enqueue(u(1), 90, 2), reverts.ErrTooManyPendingWithdrawals)
	// coalescing is still allowed at the limit
	require.NoError(t, p.Enqueue(u(5), 80, 2))

	requested, err := p.Requested()
	require.NoError(t, err)
	assert.Equal(t, uint64(175), requested.Uint64())

	unlocked, err := p.Unlocked(69)
	require.NoError(t, err)
	assert.True(t, unlocked.IsZero())

	sum, err := p.Drain(69)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
	assert.Len(t, p.Withdrawals, 2)

	unlocked, _ = p.Unlocked(75)
	assert.Equal(t, uint64(150), unlocked.Uint64())

	sum, err = p.Drain(75)
	require.NoError(t, err)
	assert.Equal(t, uint64(150), sum.Uint64())
	require.Len(t, p.Withdrawals, 1)
	assert.Equal(t, uint32(80), p.Withdrawals[0].UnlockBlock)

	sum, _ = p.Drain(1000)
	assert.Equal(t, uint64(25), sum.Uint64())
	assert.Empty(t, p.Withdrawals)
}

func TestServiceRoundTrip(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	svc := New(slot.NewContext(meta.Address{1}, state.New(db, nil), nil))

	user := meta.Address{0xbe}
	pos, err := svc.Get(0, user)
	require.NoError(t, err)
	assert.True(t, pos.IsEmpty())

	pos.Staked = u(500)
	require.NoError(t, pos.Enqueue(u(500), 70, 64))
	require.NoError(t, svc.Set(0, user, pos))

	got, err := svc.Get(0, user)
	require.NoError(t, err)
	assert.Equal(t, pos, got)

	other, err := svc.Get(1, user)
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())
}

func TestServiceReleasesEmpty(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	st := state.New(db, nil)
	svc := New(slot.NewContext(meta.Address{1}, st, nil))
	user := meta.Address{0xbe}

	// storing an empty position that never existed records nothing
	empty, err := svc.Get(0, user)
	require.NoError(t, err)
	require.NoError(t, svc.Set(0, user, empty))
	assert.Zero(t, st.Stage().Len())

	pos, err := svc.Get(0, user)
	require.NoError(t, err)
	pos.Staked = u(100)
	require.NoError(t, svc.Set(0, user, pos))
	require.NoError(t, st.Stage().Commit(db.NewBatch()))

	// fully withdrawn
	pos.Staked = u(0)
	require.NoError(t, svc.Set(0, user, pos))
	require.NoError(t, st.Stage().Commit(db.NewBatch()))

	reread := New(slot.NewContext(meta.Address{1}, state.New(db, nil), nil))
	got, err := reread.Get(0, user)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
	it := db.Iterate(kv.Range{})
	defer it.Release()
	assert.False(t, it.Next())
}

func TestPendingReward(t *testing.T) {
	g := &params.Global{StartBlock: 0, EndBlock: 1000, RewardPerBlock: u(100), TotalWeight: u(1)}
	p := &pool.Pool{
		Weight:            u(1),
		MinDeposit:        u(0),
		StakedTotal:       u(1000),
		LastSettledBlock:  10,
		AccRewardPerShare: u(0),
	}
	pos := emptyPosition()
	pos.Staked = u(1000)

	pending, err := PendingReward(p, g, pos, 20)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), pending.Amount.Uint64())
	assert.Equal(t, uint32(10), p.LastSettledBlock)
	assert.True(t, p.AccRewardPerShare.IsZero())
}
