// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package acl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metanode/stake/lvldb"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/slot"
	"github.com/metanode/stake/state"
)

func TestRoles(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	roles := New(slot.NewContext(meta.Address{3}, state.New(db, nil), nil))
	admin := meta.Address{0xad}

	ok, err := roles.IsAdmin(admin)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, roles.Grant(RoleAdmin, admin))
	ok, err = roles.IsAdmin(admin)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = roles.Has(Role("operator"), admin)
	require.NoError(t, err)
	assert.False(t, ok)

	roles.Revoke(RoleAdmin, admin)
	ok, err = roles.IsAdmin(admin)
	require.NoError(t, err)
	assert.False(t, ok)
}
