// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"math/big"

	"github.com/blocklords/lordchain-smartcontracts/env"
	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/reverts"
	"github.com/blocklords/lordchain-smartcontracts/solidity"
)

var slotVaultToken = nameToSlot("vault-token")

// FeeVault escrows deposit-fee tokens for one validator and pays them to
// the owner on demand. It is bonded to its parent at construction.
type FeeVault struct {
	env    *env.Environment
	addr   lordchain.Address
	parent lordchain.Address
	token  *solidity.Address
}

func NewFeeVault(e *env.Environment, addr, parent lordchain.Address) *FeeVault {
	ctx := solidity.NewContext(addr, e.State())
	return &FeeVault{
		env:    e,
		addr:   addr,
		parent: parent,
		token:  solidity.NewAddress(ctx, slotVaultToken),
	}
}

// Address returns the vault's escrow address.
func (f *FeeVault) Address() lordchain.Address {
	return f.addr
}

// Balance returns the escrowed fee amount.
func (f *FeeVault) Balance() *big.Int {
	return f.env.Ledger().BalanceOf(f.addr)
}

// SetToken pins the escrowed token, once, by the parent validator.
func (f *FeeVault) SetToken(caller, token lordchain.Address) error {
	if caller != f.parent {
		return reverts.ErrNotValidator
	}
	if !f.token.Get().IsZero() {
		return reverts.ErrStateUnchanged
	}
	if token.IsZero() {
		return reverts.ErrZeroAddress
	}
	f.token.Set(token)
	return nil
}

// claimFor transfers the full escrowed balance to the recipient.
// Reached only through the parent validator's ClaimFees entry point.
func (f *FeeVault) claimFor(recipient lordchain.Address) (*big.Int, error) {
	balance := f.env.Ledger().BalanceOf(f.addr)
	if balance.Sign() == 0 {
		return nil, reverts.ErrZeroFee
	}
	if err := f.env.Ledger().Transfer(f.addr, recipient, balance); err != nil {
		return nil, err
	}
	return balance, nil
}
