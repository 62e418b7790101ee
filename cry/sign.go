// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
)

// Sign calculates an ECDSA signature over the 32-byte digest.
// The produced signature is in the [R || S || V] format where V is 0 or 1.
func Sign(digest lordchain.Bytes32, priv *ecdsa.PrivateKey) ([]byte, error) {
	return crypto.Sign(digest.Bytes(), priv)
}

// Recover returns the address whose key produced the signature over digest.
// Signatures with the Ethereum v offset (27/28) are accepted.
func Recover(digest lordchain.Bytes32, sig []byte) (lordchain.Address, error) {
	if len(sig) != 65 {
		return lordchain.Address{}, errors.New("invalid signature length")
	}
	normalized := sig
	if sig[64] >= 27 {
		normalized = make([]byte, 65)
		copy(normalized, sig)
		normalized[64] -= 27
	}
	pub, err := crypto.SigToPub(digest.Bytes(), normalized)
	if err != nil {
		return lordchain.Address{}, errors.Wrap(err, "recover public key")
	}
	return lordchain.Address(crypto.PubkeyToAddress(*pub)), nil
}
