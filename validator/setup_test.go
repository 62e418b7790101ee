// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/blocklords/lordchain-smartcontracts/clock"
	"github.com/blocklords/lordchain-smartcontracts/cry"
	"github.com/blocklords/lordchain-smartcontracts/env"
	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/state"
	"github.com/blocklords/lordchain-smartcontracts/token"
)

// fakeFactory satisfies FactoryHandle for single-validator tests.
type fakeFactory struct {
	stakedAmount *big.Int
	wallets      int64
	minAmounts   map[uint8]*big.Int
	registered   map[lordchain.Address]bool
}

func newFakeFactory() *fakeFactory {
	minAmounts := make(map[uint8]*big.Int)
	for quality, amount := range lordchain.DefaultMinAmountForQuality() {
		minAmounts[quality] = new(big.Int).SetUint64(amount)
	}
	return &fakeFactory{
		stakedAmount: new(big.Int),
		minAmounts:   minAmounts,
		registered:   make(map[lordchain.Address]bool),
	}
}

func (f *fakeFactory) AddTotalStakedAmount(amount *big.Int) error {
	f.stakedAmount.Add(f.stakedAmount, amount)
	return nil
}

func (f *fakeFactory) SubTotalStakedAmount(amount *big.Int) error {
	f.stakedAmount.Sub(f.stakedAmount, amount)
	return nil
}

func (f *fakeFactory) AddTotalStakedWallet() error {
	f.wallets++
	return nil
}

func (f *fakeFactory) SubTotalStakedWallet() error {
	f.wallets--
	return nil
}

func (f *fakeFactory) IsRegisteredValidator(addr lordchain.Address) bool {
	return f.registered[addr]
}

func (f *fakeFactory) MinAmountForQuality(quality uint8) (*big.Int, error) {
	if amount, ok := f.minAmounts[quality]; ok {
		return amount, nil
	}
	return new(big.Int), nil
}

// resetRecorder satisfies GovernanceHandle, recording reset calls.
type resetRecorder struct {
	resets []lordchain.Address
}

func (r *resetRecorder) ResetVotes(_, user lordchain.Address) error {
	r.resets = append(r.resets, user)
	return nil
}

type testEnv struct {
	t       *testing.T
	clk     *clock.Manual
	st      *state.State
	ledger  *token.StateLedger
	env     *env.Environment
	factory *fakeFactory

	admin    lordchain.Address
	owner    lordchain.Address
	verifier lordchain.Address
	master   *Validator
}

func newTestEnv(t *testing.T) *testEnv {
	clk := clock.NewManual(100)
	st := state.New()
	ledger := token.NewStateLedger(lordchain.BytesToAddress([]byte("lrds-token")), st)
	cfg := lordchain.DefaultConfig()
	e := env.New(st, clk, ledger, cfg)

	te := &testEnv{
		t:        t,
		clk:      clk,
		st:       st,
		ledger:   ledger,
		env:      e,
		factory:  newFakeFactory(),
		admin:    lordchain.BytesToAddress([]byte("admin")),
		owner:    lordchain.BytesToAddress([]byte("owner")),
		verifier: lordchain.BytesToAddress([]byte("verifier")),
	}
	te.master = te.newValidator(lordchain.MasterQuality, 0, te.owner)
	return te
}

func (te *testEnv) newValidator(quality uint8, id uint64, owner lordchain.Address) *Validator {
	addr := lordchain.CreateValidatorAddress(quality, owner, id)
	v := New(te.env, addr, quality, id, owner, te.admin, te.verifier, te.factory, te.master)
	te.factory.registered[addr] = true
	return v
}

func (te *testEnv) fund(user lordchain.Address, amount *big.Int) {
	require.NoError(te.t, te.ledger.Mint(user, amount))
}

// tokens converts a whole-token count to wei scale.
func tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), lordchain.Multiplier)
}

func (te *testEnv) setRewardPeriod(v *Validator, start, end uint64, total *big.Int) {
	require.NoError(te.t, v.SetRewardPeriod(te.admin, start, end, total))
}

func (te *testEnv) lock(v *Validator, user lordchain.Address, amount *big.Int, duration uint64) {
	te.fund(user, amount)
	require.NoError(te.t, v.CreateLock(user, amount, duration))
}

// signPurchase produces a verifier signature over the purchase preimage.
func signPurchase(
	t *testing.T,
	priv *ecdsa.PrivateKey,
	np *big.Int,
	validatorAddr lordchain.Address,
	deadline, chainID uint64,
	user lordchain.Address,
	quality uint8,
) []byte {
	digest := cry.EthSignedMessageHash(purchaseDigest(np, validatorAddr, deadline, chainID, user, quality))
	sig, err := cry.Sign(digest, priv)
	require.NoError(t, err)
	return sig
}

func generateVerifier(t *testing.T) (*ecdsa.PrivateKey, lordchain.Address) {
	priv, err := crypto.GenerateKey()
	require.NoError(t, err)
	return priv, lordchain.Address(crypto.PubkeyToAddress(priv.PublicKey))
}
