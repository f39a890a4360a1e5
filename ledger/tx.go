// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/metanode/stake/acl"
	"github.com/metanode/stake/asset"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/slot"
	"github.com/metanode/stake/staking"
	"github.com/metanode/stake/state"
)

// record spaces
var (
	StakingSpace = meta.BytesToAddress([]byte("staking"))
	AssetsSpace  = meta.BytesToAddress([]byte("assets"))
	ACLSpace     = meta.BytesToAddress([]byte("acl"))
)

// Tx exposes the services of the ledger at one block.
// Effects are applied only if the function given to Execute returns nil.
type Tx struct {
	Block  uint32
	Staker *staking.Staker
	Assets *asset.Ledger
	Roles  *acl.Roles
}

func newTx(st *state.State, block uint32, access slot.AccessFunc) *Tx {
	assets := asset.NewLedger(slot.NewContext(AssetsSpace, st, access))
	roles := acl.New(slot.NewContext(ACLSpace, st, access))
	return &Tx{
		Block:  block,
		Staker: staking.New(slot.NewContext(StakingSpace, st, access), assets, roles, block),
		Assets: assets,
		Roles:  roles,
	}
}
