// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// formatWei renders a wei-scaled amount as a whole-token decimal string.
func formatWei(amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -18).String()
}
