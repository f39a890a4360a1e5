// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metanode/stake/lvldb"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/slot"
	"github.com/metanode/stake/staking/reverts"
	"github.com/metanode/stake/state"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(slot.NewContext(meta.Address{1}, state.New(db, nil), nil))
}

func TestAddPool(t *testing.T) {
	svc := newService(t)
	token := meta.Address{0xaa}

	tests := []struct {
		name   string
		asset  meta.Address
		weight uint64
		lock   uint32
		err    error
		pid    uint32
	}{
		{"token before native", token, 1, 10, reverts.ErrInvalidPool, 0},
		{"zero weight", meta.NativeAsset, 0, 10, reverts.ErrInvalidParam, 0},
		{"zero lock", meta.NativeAsset, 1, 0, reverts.ErrInvalidParam, 0},
		{"native", meta.NativeAsset, 500, 20, nil, 0},
		{"second native", meta.NativeAsset, 1, 10, reverts.ErrInvalidPool, 0},
		{"token", token, 100, 10, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pid, p, err := svc.Add(tt.asset, uint256.NewInt(tt.weight), uint256.NewInt(100), tt.lock, 7)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pid, pid)
			assert.Equal(t, uint32(7), p.LastSettledBlock)
			assert.True(t, p.AccRewardPerShare.IsZero())
		})
	}

	n, err := svc.Len()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), n)

	p, err := svc.Get(0)
	require.NoError(t, err)
	assert.True(t, p.IsNative())
	assert.Equal(t, uint64(500), p.Weight.Uint64())

	_, err = svc.Get(2)
	assert.ErrorIs(t, err, reverts.ErrPoolNotFound)

	all, err := svc.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, token, all[1].Asset)
}

func TestSetPool(t *testing.T) {
	svc := newService(t)
	_, p, err := svc.Add(meta.NativeAsset, uint256.NewInt(1), nil, 5, 0)
	require.NoError(t, err)
	assert.True(t, p.MinDeposit.IsZero())

	p.Paused = true
	p.StakedTotal.SetUint64(42)

	require.NoError(t, svc.Set(0, p))
	got, err := svc.Get(0)
	require.NoError(t, err)
	assert.True(t, got.Paused)
	assert.Equal(t, uint64(42), got.StakedTotal.Uint64())
}
