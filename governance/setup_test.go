// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/blocklords/lordchain-smartcontracts/clock"
	"github.com/blocklords/lordchain-smartcontracts/cry"
	"github.com/blocklords/lordchain-smartcontracts/env"
	"github.com/blocklords/lordchain-smartcontracts/factory"
	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/state"
	"github.com/blocklords/lordchain-smartcontracts/token"
	"github.com/blocklords/lordchain-smartcontracts/validator"
)

type testEnv struct {
	t          *testing.T
	clk        *clock.Manual
	ledger     *token.StateLedger
	env        *env.Environment
	factory    *factory.Factory
	master     *validator.Validator
	governance *Governance

	admin        lordchain.Address
	bank         lordchain.Address
	verifierKey  *ecdsa.PrivateKey
	verifierAddr lordchain.Address
}

func newTestEnv(t *testing.T) *testEnv {
	clk := clock.NewManual(100)
	st := state.New()
	ledger := token.NewStateLedger(lordchain.BytesToAddress([]byte("lrds-token")), st)
	e := env.New(st, clk, ledger, lordchain.DefaultConfig())

	admin := lordchain.BytesToAddress([]byte("admin"))
	bank := lordchain.BytesToAddress([]byte("bank"))

	verifierKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	verifierAddr := lordchain.Address(crypto.PubkeyToAddress(verifierKey.PublicKey))

	f, err := factory.New(e, lordchain.BytesToAddress([]byte("factory")), admin)
	require.NoError(t, err)
	master, err := f.CreateValidator(admin, admin, lordchain.MasterQuality, verifierAddr)
	require.NoError(t, err)

	g := New(e, lordchain.BytesToAddress([]byte("governance")), admin, bank, f)
	require.NoError(t, f.SetGovernance(admin, g.Address(), g))

	// the bank funds vote and boost rewards
	require.NoError(t, ledger.Mint(bank, tokens(100_000_000)))

	return &testEnv{
		t:            t,
		clk:          clk,
		ledger:       ledger,
		env:          e,
		factory:      f,
		master:       master,
		governance:   g,
		admin:        admin,
		bank:         bank,
		verifierKey:  verifierKey,
		verifierAddr: verifierAddr,
	}
}

func tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), lordchain.Multiplier)
}

// lockAutoMax opens an auto-max master lock, granting stable veBalance
// equal to the principal.
func (te *testEnv) lockAutoMax(user lordchain.Address, amount *big.Int) {
	require.NoError(te.t, te.ledger.Mint(user, amount))
	require.NoError(te.t, te.master.CreateLock(user, amount, te.env.Config().MinLock))
	require.NoError(te.t, te.master.SetAutoMax(user, true))
}

// claimValidator creates a quality-2 validator and has owner purchase it.
// Tier 2 carries no entry threshold, so any auto-max master lock suffices.
func (te *testEnv) claimValidator(owner lordchain.Address) *validator.Validator {
	v, err := te.factory.CreateValidator(te.admin, te.admin, 2, te.verifierAddr)
	require.NoError(te.t, err)

	te.lockAutoMax(owner, tokens(1))

	np := big.NewInt(1)
	deadline := te.clk.Now() + 3600
	preimage := purchasePreimage(np, v.Address(), deadline, te.env.Config().ChainID, owner, 2)
	sig, err := cry.Sign(cry.EthSignedMessageHash(preimage), te.verifierKey)
	require.NoError(te.t, err)

	require.NoError(te.t, v.PurchaseValidator(owner, np, 2, deadline, sig))
	return v
}

// purchasePreimage mirrors the validator's packed authorization preimage.
func purchasePreimage(np *big.Int, validatorAddr lordchain.Address, deadline, chainID uint64, user lordchain.Address, quality uint8) lordchain.Bytes32 {
	var npBytes, deadlineBytes, chainBytes, qualityBytes [32]byte
	np.FillBytes(npBytes[:])
	new(big.Int).SetUint64(deadline).FillBytes(deadlineBytes[:])
	new(big.Int).SetUint64(chainID).FillBytes(chainBytes[:])
	new(big.Int).SetUint64(uint64(quality)).FillBytes(qualityBytes[:])

	return cry.Keccak256(
		npBytes[:],
		validatorAddr.Bytes(),
		deadlineBytes[:],
		chainBytes[:],
		user.Bytes(),
		qualityBytes[:],
	)
}
