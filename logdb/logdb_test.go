// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metanode/stake/logdb"
	"github.com/metanode/stake/meta"
)

var (
	alice = meta.BytesToAddress([]byte("alice"))
	bob   = meta.BytesToAddress([]byte("bob"))
)

func pid(v uint32) *uint32 { return &v }

func newTestDB(t *testing.T) *logdb.LogDB {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func insert(t *testing.T, db *logdb.LogDB, block uint32, op string, events ...*logdb.Event) {
	w := db.NewWriter(block, meta.Blake2b([]byte(op), []byte{byte(block)}), op)
	for _, ev := range events {
		w.Append(ev)
	}
	require.Equal(t, len(events), w.Len())
	require.NoError(t, w.Commit())
	assert.Zero(t, w.Len())
}

func populate(t *testing.T, db *logdb.LogDB) {
	insert(t, db, 1, "initialize", &logdb.Event{Kind: "Initialize", User: alice})
	insert(t, db, 1, "addPool", &logdb.Event{Kind: "AddPool", Pool: pid(0), User: alice, Amount: uint256.NewInt(1)})
	insert(t, db, 2, "deposit", &logdb.Event{Kind: "Deposit", Pool: pid(0), User: bob, Amount: uint256.NewInt(100)})
	insert(t, db, 5, "requestUnstake",
		&logdb.Event{Kind: "RewardPaid", Pool: pid(0), User: bob, Amount: uint256.NewInt(300)},
		&logdb.Event{Kind: "RequestUnstake", Pool: pid(0), User: bob, Amount: uint256.NewInt(50), Unlock: 15},
	)
	insert(t, db, 5, "deposit", &logdb.Event{Kind: "Deposit", Pool: pid(1), User: alice, Amount: uint256.NewInt(0)})
}

func TestFilterEvents(t *testing.T) {
	db := newTestDB(t)
	populate(t, db)
	ctx := context.Background()

	all, err := db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 6)

	// indexes continue across transactions of the same block
	assert.Equal(t, uint32(0), all[0].Index)
	assert.Equal(t, uint32(1), all[1].Index)
	assert.Equal(t, uint32(0), all[2].Index)
	assert.Equal(t, []uint32{0, 1, 2}, []uint32{all[3].Index, all[4].Index, all[5].Index})

	assert.Nil(t, all[0].Pool)
	assert.Nil(t, all[0].Amount)
	assert.Equal(t, "initialize", all[0].Op)
	assert.Equal(t, uint32(15), all[4].Unlock)
	require.NotNil(t, all[5].Amount)
	assert.True(t, all[5].Amount.IsZero())

	tests := []struct {
		name   string
		filter *logdb.EventFilter
		kinds  []string
	}{
		{"by pool", &logdb.EventFilter{Pool: pid(0)}, []string{"AddPool", "Deposit", "RewardPaid", "RequestUnstake"}},
		{"by user", &logdb.EventFilter{User: &bob}, []string{"Deposit", "RewardPaid", "RequestUnstake"}},
		{"by kind", &logdb.EventFilter{Kinds: []string{"Deposit"}}, []string{"Deposit", "Deposit"}},
		{"by kinds", &logdb.EventFilter{Kinds: []string{"Initialize", "RewardPaid"}}, []string{"Initialize", "RewardPaid"}},
		{"by range", &logdb.EventFilter{Range: &logdb.Range{From: 2, To: 4}}, []string{"Deposit"}},
		{"open range", &logdb.EventFilter{Range: &logdb.Range{From: 5}}, []string{"RewardPaid", "RequestUnstake", "Deposit"}},
		{"desc with limit", &logdb.EventFilter{Order: logdb.DESC, Options: &logdb.Options{Limit: 2}}, []string{"Deposit", "RequestUnstake"}},
		{"offset", &logdb.EventFilter{Options: &logdb.Options{Offset: 4, Limit: 10}}, []string{"RequestUnstake", "Deposit"}},
		{"combined", &logdb.EventFilter{Pool: pid(0), User: &bob, Range: &logdb.Range{From: 5, To: 5}}, []string{"RewardPaid", "RequestUnstake"}},
		{"no match", &logdb.EventFilter{User: &alice, Kinds: []string{"Withdraw"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := db.FilterEvents(ctx, tt.filter)
			require.NoError(t, err)
			var kinds []string
			for _, ev := range events {
				kinds = append(kinds, ev.Kind)
			}
			assert.Equal(t, tt.kinds, kinds)
		})
	}
}

func TestEmptyCommit(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.NewWriter(1, meta.Bytes32{}, "noop").Commit())

	events, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCancelledQuery(t *testing.T) {
	db := newTestDB(t)
	populate(t, db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := db.FilterEvents(ctx, nil)
	assert.Error(t, err)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	db, err := logdb.New(path)
	require.NoError(t, err)
	insert(t, db, 3, "deposit", &logdb.Event{Kind: "Deposit", Pool: pid(0), User: alice, Amount: uint256.NewInt(7)})
	require.NoError(t, db.Close())

	db, err = logdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())
	assert.NotEmpty(t, db.DriverVersion())

	insert(t, db, 3, "claim", &logdb.Event{Kind: "RewardPaid", Pool: pid(0), User: alice, Amount: uint256.NewInt(9)})
	events, err := db.FilterEvents(context.Background(), &logdb.EventFilter{User: &alice})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, uint32(1), events[1].Index)
	assert.Equal(t, uint64(9), events[1].Amount.Uint64())
}
