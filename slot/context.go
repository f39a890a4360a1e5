// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/state"
)

// AccessFunc observes record access. write is false for reads, size is the raw record length.
type AccessFunc func(write bool, size int)

// Context binds typed records to a space of the state.
type Context struct {
	space  meta.Address
	state  *state.State
	access AccessFunc
}

func NewContext(space meta.Address, state *state.State, access AccessFunc) *Context {
	return &Context{
		space:  space,
		state:  state,
		access: access,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Space() meta.Address {
	return c.space
}

func (c *Context) observe(write bool, size int) {
	if c.access != nil {
		c.access(write, size)
	}
}
