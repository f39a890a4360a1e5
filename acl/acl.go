// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package acl

import (
	"github.com/pkg/errors"

	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/slot"
)

// Role names a capability.
type Role string

const (
	// RoleAdmin may configure pools and emission.
	RoleAdmin Role = "admin"
)

var slotRoles = meta.BytesToBytes32([]byte("roles"))

// Authorizer answers whether an address may run admin operations.
type Authorizer interface {
	IsAdmin(addr meta.Address) (bool, error)
}

// Granter adds members to a role.
type Granter interface {
	Grant(role Role, addr meta.Address) error
}

type memberKey struct {
	role Role
	addr meta.Address
}

func (k memberKey) Bytes() []byte {
	return append([]byte(k.role), k.addr[:]...)
}

// Roles keeps role membership in the state.
type Roles struct {
	members *slot.Mapping[memberKey, bool]
}

var (
	_ Authorizer = (*Roles)(nil)
	_ Granter    = (*Roles)(nil)
)

func New(sctx *slot.Context) *Roles {
	return &Roles{
		members: slot.NewMapping[memberKey, bool](sctx, slotRoles),
	}
}

func (r *Roles) Has(role Role, addr meta.Address) (bool, error) {
	ok, err := r.members.Get(memberKey{role, addr})
	if err != nil {
		return false, errors.Wrap(err, "failed to get role")
	}
	return ok, nil
}

func (r *Roles) Grant(role Role, addr meta.Address) error {
	return r.members.Set(memberKey{role, addr}, true)
}

func (r *Roles) Revoke(role Role, addr meta.Address) {
	r.members.Delete(memberKey{role, addr})
}

func (r *Roles) IsAdmin(addr meta.Address) (bool, error) {
	return r.Has(RoleAdmin, addr)
}
