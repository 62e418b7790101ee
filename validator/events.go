// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"math/big"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
)

// DepositEvent is emitted whenever principal enters a position.
type DepositEvent struct {
	Validator lordchain.Address
	User      lordchain.Address
	Amount    *big.Int
	LockStart uint64
	Duration  uint64
	LockEnd   uint64
	Now       uint64
}

func (DepositEvent) EventName() string { return "Deposit" }

// ClaimEvent is emitted when base rewards are paid out.
type ClaimEvent struct {
	Validator lordchain.Address
	User      lordchain.Address
	Net       *big.Int
	Fee       *big.Int
}

func (ClaimEvent) EventName() string { return "Claim" }

// WithdrawEvent is emitted when a position is closed.
type WithdrawEvent struct {
	Validator lordchain.Address
	User      lordchain.Address
	Amount    *big.Int
	Now       uint64
}

func (WithdrawEvent) EventName() string { return "Withdraw" }

// SetAutoMaxEvent is emitted when the auto-max flag flips.
type SetAutoMaxEvent struct {
	Validator lordchain.Address
	User      lordchain.Address
	Flag      bool
}

func (SetAutoMaxEvent) EventName() string { return "SetAutoMax" }

// PurchaseValidatorEvent is emitted when a secondary validator is claimed.
type PurchaseValidatorEvent struct {
	Validator lordchain.Address
	User      lordchain.Address
	NP        *big.Int
	Quality   uint8
}

func (PurchaseValidatorEvent) EventName() string { return "PurchaseValidator" }

// BoostRewardAddedEvent is emitted when governance opens a boost period.
type BoostRewardAddedEvent struct {
	Validator lordchain.Address
	Start     uint64
	End       uint64
	Total     *big.Int
}

func (BoostRewardAddedEvent) EventName() string { return "BoostRewardAdded" }

// BoostRewardClaimedEvent is emitted when boost rewards are paid out.
type BoostRewardClaimedEvent struct {
	Validator lordchain.Address
	User      lordchain.Address
	Amount    *big.Int
}

func (BoostRewardClaimedEvent) EventName() string { return "BoostRewardClaimed" }

// ClaimFeesEvent is emitted when the owner drains the fee vault.
type ClaimFeesEvent struct {
	Validator lordchain.Address
	Recipient lordchain.Address
	Amount    *big.Int
}

func (ClaimFeesEvent) EventName() string { return "ClaimFees" }
