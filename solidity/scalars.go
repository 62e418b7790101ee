// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
)

// Address is a wrapper for storage and retrieval of an address,
// similar to storing an address in a smart contract.
type Address struct {
	context *Context
	pos     lordchain.Bytes32
}

func NewAddress(context *Context, slot lordchain.Bytes32) *Address {
	return &Address{context: context, pos: slot}
}

func (a *Address) Get() lordchain.Address {
	word := a.context.state.GetStorage(a.context.address, a.pos)
	return lordchain.BytesToAddress(word.Bytes())
}

func (a *Address) Set(addr lordchain.Address) {
	a.context.state.SetStorage(a.context.address, a.pos, lordchain.BytesToBytes32(addr.Bytes()))
}

// Uint64 is a wrapper for storage and retrieval of an uint64.
type Uint64 struct {
	context *Context
	pos     lordchain.Bytes32
}

func NewUint64(context *Context, slot lordchain.Bytes32) *Uint64 {
	return &Uint64{context: context, pos: slot}
}

func (u *Uint64) Get() uint64 {
	word := u.context.state.GetStorage(u.context.address, u.pos)
	return binary.BigEndian.Uint64(word[24:])
}

func (u *Uint64) Set(value uint64) {
	var word lordchain.Bytes32
	binary.BigEndian.PutUint64(word[24:], value)
	u.context.state.SetStorage(u.context.address, u.pos, word)
}

// Bool is a wrapper for storage and retrieval of a bool.
type Bool struct {
	context *Context
	pos     lordchain.Bytes32
}

func NewBool(context *Context, slot lordchain.Bytes32) *Bool {
	return &Bool{context: context, pos: slot}
}

func (b *Bool) Get() bool {
	word := b.context.state.GetStorage(b.context.address, b.pos)
	return word[31] != 0
}

func (b *Bool) Set(value bool) {
	var word lordchain.Bytes32
	if value {
		word[31] = 1
	}
	b.context.state.SetStorage(b.context.address, b.pos, word)
}

// String is a wrapper for storage and retrieval of a string.
type String struct {
	context *Context
	pos     lordchain.Bytes32
}

func NewString(context *Context, slot lordchain.Bytes32) *String {
	return &String{context: context, pos: slot}
}

func (s *String) Get() string {
	return string(s.context.state.GetRawStorage(s.context.address, s.pos))
}

func (s *String) Set(value string) {
	s.context.state.SetRawStorage(s.context.address, s.pos, []byte(value))
}
