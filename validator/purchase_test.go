// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/reverts"
)

func TestPurchaseValidator(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("buyer"))

	priv, verifierAddr := generateVerifier(t)
	require.NoError(t, te.master.SetVerifier(te.admin, verifierAddr))

	v3 := te.newValidator(3, 1, te.owner)
	require.NoError(t, v3.SetVerifier(te.admin, verifierAddr))

	// quality 3 requires 400 whole tokens locked on the master
	required := tokens(400)
	short := new(big.Int).Sub(required, big.NewInt(1))

	te.fund(user, required)
	require.NoError(t, te.master.CreateLock(user, short, cfg.MinLock))
	require.NoError(t, te.master.SetAutoMax(user, true))

	np := big.NewInt(5000)
	deadline := te.clk.Now() + 3600
	sig := signPurchase(t, priv, np, v3.Address(), deadline, cfg.ChainID, user, 3)

	// one token-wei short of the threshold
	err := v3.PurchaseValidator(user, np, 3, deadline, sig)
	assert.ErrorIs(t, err, reverts.ErrInsufficientLockAmount)

	require.NoError(t, te.master.IncreaseAmount(user, big.NewInt(1)))
	require.NoError(t, v3.PurchaseValidator(user, np, 3, deadline, sig))

	assert.True(t, v3.IsClaimed())
	assert.Equal(t, user, v3.Owner())

	purchased, err := te.master.HavePurchased(user, 3)
	require.NoError(t, err)
	assert.True(t, purchased)

	cost, err := te.master.PlayerValidatorCost(user)
	require.NoError(t, err)
	assert.Equal(t, required, cost)

	// the same (user, quality) cannot purchase twice
	v3b := te.newValidator(3, 2, te.owner)
	require.NoError(t, v3b.SetVerifier(te.admin, verifierAddr))
	sig2 := signPurchase(t, priv, np, v3b.Address(), deadline, cfg.ChainID, user, 3)
	err = v3b.PurchaseValidator(user, np, 3, deadline, sig2)
	assert.ErrorIs(t, err, reverts.ErrAlreadyPurchasedThisQuality)

	// a claimed validator cannot be purchased again by anyone
	other := lordchain.BytesToAddress([]byte("other"))
	sig3 := signPurchase(t, priv, np, v3.Address(), deadline, cfg.ChainID, other, 3)
	err = v3.PurchaseValidator(other, np, 3, deadline, sig3)
	assert.ErrorIs(t, err, reverts.ErrValidatorIsClaimed)
}

func TestPurchaseValidator_Gates(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("buyer"))

	priv, verifierAddr := generateVerifier(t)
	v4 := te.newValidator(4, 1, te.owner)
	require.NoError(t, v4.SetVerifier(te.admin, verifierAddr))

	np := big.NewInt(100)
	deadline := te.clk.Now() + 3600
	sig := signPurchase(t, priv, np, v4.Address(), deadline, cfg.ChainID, user, 4)

	// purchasing through the master is invalid
	err := te.master.PurchaseValidator(user, np, 1, deadline, sig)
	assert.ErrorIs(t, err, reverts.ErrNotValidValidator)

	// expired authorization
	err = v4.PurchaseValidator(user, np, 4, te.clk.Now()-1, sig)
	assert.ErrorIs(t, err, reverts.ErrSignatureExpired)

	// np must be positive
	err = v4.PurchaseValidator(user, new(big.Int), 4, deadline, sig)
	assert.ErrorIs(t, err, reverts.ErrInsufficientNPPoint)

	// quality must match the instance
	err = v4.PurchaseValidator(user, np, 5, deadline, sig)
	assert.ErrorIs(t, err, reverts.ErrQualityWrong)

	// master lock must be auto-max
	te.fund(user, tokens(2000))
	require.NoError(t, te.master.CreateLock(user, tokens(2000), cfg.MinLock))
	err = v4.PurchaseValidator(user, np, 4, deadline, sig)
	assert.ErrorIs(t, err, reverts.ErrAutoMaxNotEnabled)

	require.NoError(t, te.master.SetAutoMax(user, true))

	// a signature from the wrong key fails verification
	wrongPriv, _ := generateVerifier(t)
	badSig := signPurchase(t, wrongPriv, np, v4.Address(), deadline, cfg.ChainID, user, 4)
	err = v4.PurchaseValidator(user, np, 4, deadline, badSig)
	assert.ErrorIs(t, err, reverts.ErrVerificationFailed)

	// a signature over different parameters fails verification
	tampered := signPurchase(t, priv, big.NewInt(999), v4.Address(), deadline, cfg.ChainID, user, 4)
	err = v4.PurchaseValidator(user, np, 4, deadline, tampered)
	assert.ErrorIs(t, err, reverts.ErrVerificationFailed)

	require.NoError(t, v4.PurchaseValidator(user, np, 4, deadline, sig))
	assert.Equal(t, user, v4.Owner())
}

func TestPurchaseValidator_CumulativeCosts(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("buyer"))

	priv, verifierAddr := generateVerifier(t)

	v3 := te.newValidator(3, 1, te.owner)
	v4 := te.newValidator(4, 2, te.owner)
	require.NoError(t, v3.SetVerifier(te.admin, verifierAddr))
	require.NoError(t, v4.SetVerifier(te.admin, verifierAddr))

	// enough for quality 3 (400) but not for 3 then 4 (400 + 1000)
	te.fund(user, tokens(1000))
	require.NoError(t, te.master.CreateLock(user, tokens(1000), cfg.MinLock))
	require.NoError(t, te.master.SetAutoMax(user, true))

	np := big.NewInt(1)
	deadline := te.clk.Now() + 3600

	sig3 := signPurchase(t, priv, np, v3.Address(), deadline, cfg.ChainID, user, 3)
	require.NoError(t, v3.PurchaseValidator(user, np, 3, deadline, sig3))

	// the spent 400 now counts against the quality-4 threshold
	sig4 := signPurchase(t, priv, np, v4.Address(), deadline, cfg.ChainID, user, 4)
	err := v4.PurchaseValidator(user, np, 4, deadline, sig4)
	assert.ErrorIs(t, err, reverts.ErrInsufficientLockAmount)

	te.fund(user, tokens(400))
	require.NoError(t, te.master.IncreaseAmount(user, tokens(400)))
	require.NoError(t, v4.PurchaseValidator(user, np, 4, deadline, sig4))
}

func TestPurchaseDigest_Determinism(t *testing.T) {
	addr := lordchain.BytesToAddress([]byte("validator"))
	user := lordchain.BytesToAddress([]byte("user"))

	d1 := purchaseDigest(big.NewInt(10), addr, 100, 1, user, 3)
	d2 := purchaseDigest(big.NewInt(10), addr, 100, 1, user, 3)
	assert.Equal(t, d1, d2)

	assert.NotEqual(t, d1, purchaseDigest(big.NewInt(11), addr, 100, 1, user, 3))
	assert.NotEqual(t, d1, purchaseDigest(big.NewInt(10), addr, 101, 1, user, 3))
	assert.NotEqual(t, d1, purchaseDigest(big.NewInt(10), addr, 100, 2, user, 3))
	assert.NotEqual(t, d1, purchaseDigest(big.NewInt(10), addr, 100, 1, user, 4))
}
