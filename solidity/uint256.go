// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
)

// ErrUint256Overflow the value does not fit into 256 bits.
var ErrUint256Overflow = errors.New("value overflows uint256")

// ErrUint256Underflow the subtraction result would be negative.
var ErrUint256Underflow = errors.New("uint256 underflow")

// Uint256 is a wrapper for storage and retrieval of an uint256,
// similar to storing an uint256 in a smart contract.
type Uint256 struct {
	context *Context
	pos     lordchain.Bytes32
}

func NewUint256(context *Context, slot lordchain.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: slot}
}

func (u *Uint256) Get() *big.Int {
	word := u.context.state.GetStorage(u.context.address, u.pos)
	return new(big.Int).SetBytes(word.Bytes())
}

func (u *Uint256) Set(value *big.Int) error {
	word, overflow := uint256.FromBig(value)
	if overflow || value.Sign() < 0 {
		return ErrUint256Overflow
	}
	u.context.state.SetStorage(u.context.address, u.pos, lordchain.Bytes32(word.Bytes32()))
	return nil
}

func (u *Uint256) Add(value *big.Int) error {
	return u.Set(new(big.Int).Add(u.Get(), value))
}

func (u *Uint256) Sub(value *big.Int) error {
	current := u.Get()
	if current.Cmp(value) < 0 {
		return ErrUint256Underflow
	}
	return u.Set(current.Sub(current, value))
}
