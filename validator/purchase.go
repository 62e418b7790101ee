// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"math/big"

	"github.com/blocklords/lordchain-smartcontracts/cry"
	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/reverts"
)

// PurchaseValidator claims ownership of this secondary validator. The
// caller proves an off-chain NP spend with the verifier's signature and
// must keep an auto-max lock on the master above the tier threshold.
func (v *Validator) PurchaseValidator(caller lordchain.Address, np *big.Int, quality uint8, deadline uint64, signature []byte) error {
	return v.env.Transact(func() error {
		logger.Debug("purchase validator", "validator", v.addr, "user", caller, "quality", quality)

		if err := v.requireNotPaused(); err != nil {
			return err
		}
		if v.IsMaster() {
			return reverts.ErrNotValidValidator
		}
		if deadline < v.env.Now() {
			return reverts.ErrSignatureExpired
		}
		if np == nil || np.Sign() == 0 {
			return reverts.ErrInsufficientNPPoint
		}
		if quality != v.quality {
			return reverts.ErrQualityWrong
		}
		if v.store.claimed.Get() {
			return reverts.ErrValidatorIsClaimed
		}

		purchased, err := v.master.havePurchasedOf(caller, quality)
		if err != nil {
			return err
		}
		if purchased {
			return reverts.ErrAlreadyPurchasedThisQuality
		}

		masterAmount, autoMax, err := v.master.AmountAndAutoMax(caller)
		if err != nil {
			return err
		}
		if !autoMax {
			return reverts.ErrAutoMaxNotEnabled
		}

		required, err := v.factory.MinAmountForQuality(quality)
		if err != nil {
			return err
		}
		cost := new(big.Int).Mul(required, lordchain.Multiplier)
		spent, err := v.master.playerCostOf(caller)
		if err != nil {
			return err
		}
		needed := new(big.Int).Add(cost, spent)
		if masterAmount.Cmp(needed) < 0 {
			return reverts.ErrInsufficientLockAmount
		}

		digest := cry.EthSignedMessageHash(purchaseDigest(
			np, v.addr, deadline, v.env.Config().ChainID, caller, quality,
		))
		signer, err := v.recoverSigner(digest, signature)
		if err != nil || signer != v.store.verifier.Get() {
			return reverts.ErrVerificationFailed
		}

		v.store.claimed.Set(true)
		v.store.owner.Set(caller)
		if err := v.master.recordPurchase(v.addr, caller, quality, cost); err != nil {
			return err
		}

		v.env.State().AddEvent(PurchaseValidatorEvent{Validator: v.addr, User: caller, NP: np, Quality: quality})
		logger.Info("validator purchased", "validator", v.addr, "user", caller, "quality", quality)
		return nil
	})
}

// purchaseDigest packs the authorization preimage exactly as the EVM
// deployment does: 32-byte big-endian integers, 20-byte addresses.
func purchaseDigest(np *big.Int, validator lordchain.Address, deadline, chainID uint64, user lordchain.Address, quality uint8) lordchain.Bytes32 {
	var npBytes, deadlineBytes, chainBytes, qualityBytes [32]byte
	np.FillBytes(npBytes[:])
	new(big.Int).SetUint64(deadline).FillBytes(deadlineBytes[:])
	new(big.Int).SetUint64(chainID).FillBytes(chainBytes[:])
	new(big.Int).SetUint64(uint64(quality)).FillBytes(qualityBytes[:])

	return cry.Keccak256(
		npBytes[:],
		validator.Bytes(),
		deadlineBytes[:],
		chainBytes[:],
		user.Bytes(),
		qualityBytes[:],
	)
}

// recoverSigner resolves the signature to an address, memoizing results:
// a digest+signature pair always recovers to the same signer.
func (v *Validator) recoverSigner(digest lordchain.Bytes32, signature []byte) (lordchain.Address, error) {
	cacheKey := cry.Keccak256(digest.Bytes(), signature)
	if cached, ok := v.sigCache.Get(cacheKey); ok {
		return cached.(lordchain.Address), nil
	}
	signer, err := cry.Recover(digest, signature)
	if err != nil {
		return lordchain.Address{}, err
	}
	v.sigCache.Add(cacheKey, signer)
	return signer, nil
}

//
// Master-only purchase registry. Writes are restricted to calls arriving
// from factory-registered validators.
//

func (v *Validator) havePurchasedOf(user lordchain.Address, quality uint8) (bool, error) {
	if !v.IsMaster() {
		return false, reverts.ErrNotValidator
	}
	return v.store.havePurchased.Get(purchaseKey{user: user, quality: quality})
}

func (v *Validator) playerCostOf(user lordchain.Address) (*big.Int, error) {
	if !v.IsMaster() {
		return nil, reverts.ErrNotValidator
	}
	return v.store.playerCosts.Get(user)
}

func (v *Validator) recordPurchase(callerValidator, user lordchain.Address, quality uint8, cost *big.Int) error {
	if !v.IsMaster() {
		return reverts.ErrNotValidator
	}
	if !v.factory.IsRegisteredValidator(callerValidator) {
		return reverts.ErrNotRegisteredValidator
	}
	if err := v.store.havePurchased.Set(purchaseKey{user: user, quality: quality}, true); err != nil {
		return err
	}
	spent, err := v.store.playerCosts.Get(user)
	if err != nil {
		return err
	}
	return v.store.playerCosts.Set(user, new(big.Int).Add(spent, cost))
}

// HavePurchased reports whether the user already purchased the quality.
// Master only.
func (v *Validator) HavePurchased(user lordchain.Address, quality uint8) (bool, error) {
	return v.havePurchasedOf(user, quality)
}

// PlayerValidatorCost returns the user's cumulative purchase spend. Master only.
func (v *Validator) PlayerValidatorCost(user lordchain.Address) (*big.Int, error) {
	return v.playerCostOf(user)
}
