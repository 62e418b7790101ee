// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
)

// Keccak256 computes the keccak256 checksum of the concatenated data.
func Keccak256(data ...[]byte) lordchain.Bytes32 {
	return lordchain.BytesToBytes32(crypto.Keccak256(data...))
}

// EthSignedMessageHash prefixes the hash with the standard
// "\x19Ethereum Signed Message:\n32" preamble and re-hashes, matching
// the digest wallets produce with personal_sign.
func EthSignedMessageHash(h lordchain.Bytes32) lordchain.Bytes32 {
	return Keccak256([]byte("\x19Ethereum Signed Message:\n32"), h.Bytes())
}
