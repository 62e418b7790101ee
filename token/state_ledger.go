// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/reverts"
	"github.com/blocklords/lordchain-smartcontracts/solidity"
	"github.com/blocklords/lordchain-smartcontracts/state"
)

var (
	slotBalances    = lordchain.BytesToBytes32([]byte("balances"))
	slotTotalSupply = lordchain.BytesToBytes32([]byte("total-supply"))
)

// StateLedger keeps token balances inside the protocol state, so a revert
// of an operation also reverts its transfers. It backs tests and solo mode;
// production deployments bind the Ledger port to a real token instead.
type StateLedger struct {
	balances *solidity.Mapping[lordchain.Address, *big.Int]
	supply   *solidity.Uint256
}

// NewStateLedger creates a ledger living at the given token address.
func NewStateLedger(addr lordchain.Address, st *state.State) *StateLedger {
	ctx := solidity.NewContext(addr, st)
	return &StateLedger{
		balances: solidity.NewMapping[lordchain.Address, *big.Int](ctx, slotBalances),
		supply:   solidity.NewUint256(ctx, slotTotalSupply),
	}
}

func (l *StateLedger) BalanceOf(addr lordchain.Address) *big.Int {
	bal, err := l.balances.Get(addr)
	if err != nil {
		return new(big.Int)
	}
	return bal
}

func (l *StateLedger) Transfer(from, to lordchain.Address, amount *big.Int) error {
	return l.move(from, to, amount)
}

func (l *StateLedger) TransferFrom(_, from, to lordchain.Address, amount *big.Int) error {
	return l.move(from, to, amount)
}

func (l *StateLedger) move(from, to lordchain.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	fromBal := l.BalanceOf(from)
	if fromBal.Cmp(amount) < 0 {
		return reverts.ErrNotEnoughStakeToken
	}
	if err := l.balances.Set(from, new(big.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal := l.BalanceOf(to)
	return l.balances.Set(to, new(big.Int).Add(toBal, amount))
}

// Mint credits freshly created tokens to an account.
func (l *StateLedger) Mint(to lordchain.Address, amount *big.Int) error {
	if err := l.supply.Add(amount); err != nil {
		return err
	}
	toBal := l.BalanceOf(to)
	return l.balances.Set(to, new(big.Int).Add(toBal, amount))
}

// TotalSupply returns the minted supply.
func (l *StateLedger) TotalSupply() *big.Int {
	return l.supply.Get()
}
