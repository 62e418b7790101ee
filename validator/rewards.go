// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"math/big"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/solidity"
)

// updateValidator walks the base reward periods, accruing each period's
// accumulator up to now and closing periods whose end has passed.
func (v *Validator) updateValidator(now uint64) error {
	return v.updateSeries(v.store.periods, now)
}

// updateBoost is the same walk over the boost series.
func (v *Validator) updateBoost(now uint64) error {
	return v.updateSeries(v.store.boosts, now)
}

func (v *Validator) updateSeries(series *solidity.Array[*RewardPeriod], now uint64) error {
	totalStaked := v.store.totalStaked.Get()
	n := series.Len()
	for i := uint64(0); i < n; i++ {
		period, err := v.store.GetPeriod(series, i)
		if err != nil {
			return err
		}
		if now < period.StartTime || period.LastRewardTime >= now {
			continue
		}

		if period.IsActive {
			if totalStaked.Sign() > 0 {
				elapsed := multiplier(period.LastRewardTime, now, period.EndTime)
				if elapsed > 0 {
					released := new(big.Int).Mul(
						new(big.Int).SetUint64(elapsed),
						period.rewardPerSecond(),
					)
					released.Mul(released, lordchain.Precision)
					period.AccTokenPerShare.Add(
						period.AccTokenPerShare,
						released.Div(released, totalStaked),
					)
				}
			}
			if now >= period.EndTime {
				period.IsActive = false
				period.LastRewardTime = period.EndTime
			} else {
				period.LastRewardTime = now
			}
		} else if now >= period.EndTime {
			period.LastRewardTime = period.EndTime
		}

		if err := v.store.SetPeriod(series, i, period); err != nil {
			return err
		}
	}
	return nil
}

// integratedShare computes Σ over started periods of amount·acc/Precision,
// against materialized accumulators. Division truncates per period.
func (v *Validator) integratedShare(series *solidity.Array[*RewardPeriod], amount *big.Int, now uint64) (*big.Int, error) {
	total := new(big.Int)
	n := series.Len()
	for i := uint64(0); i < n; i++ {
		period, err := v.store.GetPeriod(series, i)
		if err != nil {
			return nil, err
		}
		if now < period.StartTime {
			continue
		}
		term := new(big.Int).Mul(amount, period.AccTokenPerShare)
		total.Add(total, term.Div(term, lordchain.Precision))
	}
	return total, nil
}

// pendingIn simulates the accumulator walk without mutating state and
// returns the claimable amount against the given debt.
func (v *Validator) pendingIn(series *solidity.Array[*RewardPeriod], amount, debt *big.Int, now uint64) (*big.Int, error) {
	totalStaked := v.store.totalStaked.Get()
	total := new(big.Int)
	n := series.Len()
	for i := uint64(0); i < n; i++ {
		period, err := v.store.GetPeriod(series, i)
		if err != nil {
			return nil, err
		}
		if now < period.StartTime {
			continue
		}
		acc := new(big.Int).Set(period.AccTokenPerShare)
		if period.IsActive && period.LastRewardTime < now {
			if totalStaked.Sign() == 0 {
				// nothing staked: the accumulator cannot advance
				break
			}
			elapsed := multiplier(period.LastRewardTime, now, period.EndTime)
			if elapsed > 0 {
				released := new(big.Int).Mul(
					new(big.Int).SetUint64(elapsed),
					period.rewardPerSecond(),
				)
				released.Mul(released, lordchain.Precision)
				acc.Add(acc, released.Div(released, totalStaked))
			}
		}
		term := new(big.Int).Mul(amount, acc)
		total.Add(total, term.Div(term, lordchain.Precision))
	}
	if total.Cmp(debt) <= 0 {
		return new(big.Int), nil
	}
	return total.Sub(total, debt), nil
}

// settleRewards pays out pending base and boost rewards for the user and
// rewrites both debts against the current accumulators. The accumulator
// walks must have run already. info is mutated; the caller persists it.
func (v *Validator) settleRewards(user lordchain.Address, info *UserInfo) error {
	now := v.env.Now()
	ledger := v.env.Ledger()

	integrated, err := v.integratedShare(v.store.periods, info.Amount, now)
	if err != nil {
		return err
	}
	if pending := new(big.Int).Sub(integrated, info.RewardDebt); pending.Sign() > 0 {
		fee := new(big.Int).Mul(pending, new(big.Int).SetUint64(v.store.claimFee.Get()))
		fee.Div(fee, new(big.Int).SetUint64(lordchain.FeeDenominator))
		net := new(big.Int).Sub(pending, fee)

		if err := ledger.Transfer(v.addr, user, net); err != nil {
			return err
		}
		if fee.Sign() > 0 {
			if err := ledger.Transfer(v.addr, v.store.owner.Get(), fee); err != nil {
				return err
			}
		}
		v.env.State().AddEvent(ClaimEvent{Validator: v.addr, User: user, Net: net, Fee: fee})
	}

	boostDebt, err := v.store.GetBoostDebt(user)
	if err != nil {
		return err
	}
	boostIntegrated, err := v.integratedShare(v.store.boosts, info.Amount, now)
	if err != nil {
		return err
	}
	if pending := new(big.Int).Sub(boostIntegrated, boostDebt); pending.Sign() > 0 {
		if err := ledger.Transfer(v.addr, user, pending); err != nil {
			return err
		}
		v.env.State().AddEvent(BoostRewardClaimedEvent{Validator: v.addr, User: user, Amount: pending})
	}

	info.RewardDebt = integrated
	return v.store.SetBoostDebt(user, boostIntegrated)
}

// rewriteDebts re-bases both debts after the principal changed.
func (v *Validator) rewriteDebts(user lordchain.Address, info *UserInfo) error {
	now := v.env.Now()
	integrated, err := v.integratedShare(v.store.periods, info.Amount, now)
	if err != nil {
		return err
	}
	info.RewardDebt = integrated

	boostIntegrated, err := v.integratedShare(v.store.boosts, info.Amount, now)
	if err != nil {
		return err
	}
	return v.store.SetBoostDebt(user, boostIntegrated)
}
