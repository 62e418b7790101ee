// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lordchain

import "math/big"

// Constants of the staking protocol.
const (
	// FeeDenominator fees are expressed in basis points out of 10000.
	FeeDenominator uint64 = 10000
	// DepositMaxFee upper bound of the deposit fee, 1.00%.
	DepositMaxFee uint64 = 100
	// ClaimMaxFee upper bound of the claim fee, 5.00%.
	ClaimMaxFee uint64 = 500

	// MinVoteWeight / MaxVoteWeight bounds of a vote's weight percentage.
	MinVoteWeight uint64 = 1
	MaxVoteWeight uint64 = 100

	// MasterQuality the tier of the single master validator.
	MasterQuality uint8 = 1
	// MaxQuality highest purchasable validator tier.
	MaxQuality uint8 = 7

	// DefaultMinLock / DefaultMaxLock default lock duration bounds (seconds).
	DefaultMinLock uint64 = 7 * 24 * 3600
	DefaultMaxLock uint64 = 365 * 24 * 3600
)

var (
	// Precision scale of the reward accumulator (accTokenPerShare).
	Precision = big.NewInt(1e12)

	// Multiplier token decimals scale. Quality thresholds are stored as
	// whole tokens and multiplied by this at comparison sites.
	Multiplier = big.NewInt(1e18)
)

// DefaultMinAmountForQuality default per-quality entry thresholds,
// in whole tokens. Tiers 1 and 2 have no threshold.
func DefaultMinAmountForQuality() map[uint8]uint64 {
	return map[uint8]uint64{
		3: 400,
		4: 1000,
		5: 3000,
		6: 5000,
		7: 10000,
	}
}
