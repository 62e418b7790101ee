// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/state"
)

// Context binds typed storage accessors to one contract instance.
type Context struct {
	address lordchain.Address
	state   *state.State
}

func NewContext(address lordchain.Address, st *state.State) *Context {
	return &Context{address: address, state: st}
}

func (c *Context) Address() lordchain.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
