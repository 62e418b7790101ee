// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
)

// RandAddress returns a random account address.
func RandAddress() (addr lordchain.Address) {
	rand.Read(addr[:])
	return
}

// RandomHash returns a random 32-byte value.
func RandomHash() (b32 lordchain.Bytes32) {
	rand.Read(b32[:])
	return
}

// RandInt returns a non-negative pseudo-random int.
func RandInt() int {
	return mathrand.Int() //#nosec G404
}

// RandIntN returns a pseudo-random int in [0, n).
func RandIntN(n int) int {
	return mathrand.Intn(n) //#nosec G404
}

// RandTokens returns a random whole-token amount in [1, max] scaled to wei.
func RandTokens(max int64) *big.Int {
	n := mathrand.Int63n(max) + 1 //#nosec G404
	return new(big.Int).Mul(big.NewInt(n), lordchain.Multiplier)
}
