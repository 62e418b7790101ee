// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
)

// Ledger is the ERC-20-shaped port the core calls into. The core never
// touches token internals: it only moves balances and reads them.
//
// Allowance bookkeeping stays outside the core. TransferFrom names the
// spender so an implementation bound to a real token can enforce it.
type Ledger interface {
	Transfer(from, to lordchain.Address, amount *big.Int) error
	TransferFrom(spender, from, to lordchain.Address, amount *big.Int) error
	BalanceOf(addr lordchain.Address) *big.Int
}
