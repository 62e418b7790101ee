// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"math/big"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/reverts"
)

// deposit is the single mutation path shared by CreateLock, IncreaseAmount,
// ExtendDuration and governance's StakeFor. fromBoost suppresses the fee
// and the token pull: the principal already sits at this validator.
func (v *Validator) deposit(user lordchain.Address, amount *big.Int, duration uint64, fromBoost bool) error {
	now := v.env.Now()

	if err := v.updateValidator(now); err != nil {
		return err
	}
	if err := v.updateBoost(now); err != nil {
		return err
	}

	info, err := v.store.GetUser(user)
	if err != nil {
		return err
	}

	net := new(big.Int).Set(amount)
	if amount.Sign() > 0 {
		if !fromBoost {
			fee := new(big.Int).Mul(amount, new(big.Int).SetUint64(v.store.depositFee.Get()))
			fee.Div(fee, new(big.Int).SetUint64(lordchain.FeeDenominator))
			net.Sub(amount, fee)
			if net.Sign() == 0 {
				return reverts.ErrZeroAmount
			}
			ledger := v.env.Ledger()
			if err := ledger.TransferFrom(v.addr, user, v.addr, net); err != nil {
				return err
			}
			if fee.Sign() > 0 {
				if err := ledger.TransferFrom(v.addr, user, v.vault.Address(), fee); err != nil {
					return err
				}
			}
		}

		// flush stale debt before the principal changes
		if info.Amount.Sign() > 0 {
			if err := v.settleRewards(user, info); err != nil {
				return err
			}
		}

		info.Amount = new(big.Int).Add(info.Amount, net)
		if err := v.store.totalStaked.Add(net); err != nil {
			return err
		}
		if err := v.rewriteDebts(user, info); err != nil {
			return err
		}
		if err := v.factory.AddTotalStakedAmount(net); err != nil {
			return err
		}
	}

	if duration > 0 {
		if amount.Sign() > 0 {
			info.LockStartTime = now
			info.LockEndTime = now + duration
		} else {
			base := info.LockEndTime
			if now > base {
				base = now
			}
			info.LockEndTime = base + duration
		}
	}

	if err := v.store.SetUser(user, info); err != nil {
		return err
	}

	v.env.State().AddEvent(DepositEvent{
		Validator: v.addr,
		User:      user,
		Amount:    net,
		LockStart: info.LockStartTime,
		Duration:  duration,
		LockEnd:   info.LockEndTime,
		Now:       now,
	})
	return nil
}

// withdraw closes the position after the lock expired.
func (v *Validator) withdraw(user lordchain.Address) error {
	info, err := v.store.GetUser(user)
	if err != nil {
		return err
	}
	if info.Amount.Sign() == 0 {
		return reverts.ErrZeroAmount
	}
	if info.AutoMax {
		return reverts.ErrAutoMaxTime
	}
	now := v.env.Now()
	if now < info.LockEndTime {
		return reverts.ErrTimeNotUp
	}

	if err := v.updateValidator(now); err != nil {
		return err
	}
	if err := v.updateBoost(now); err != nil {
		return err
	}
	if err := v.settleRewards(user, info); err != nil {
		return err
	}

	principal := new(big.Int).Set(info.Amount)
	if err := v.env.Ledger().Transfer(v.addr, user, principal); err != nil {
		return err
	}
	if err := v.store.totalStaked.Sub(principal); err != nil {
		return err
	}
	if err := v.factory.SubTotalStakedAmount(principal); err != nil {
		return err
	}
	if err := v.factory.SubTotalStakedWallet(); err != nil {
		return err
	}

	// position fully closed
	v.store.users.Delete(user)
	v.store.boostDebts.Delete(user)

	if v.IsMaster() && v.governance != nil {
		if err := v.governance.ResetVotes(v.addr, user); err != nil {
			return err
		}
	}

	v.env.State().AddEvent(WithdrawEvent{Validator: v.addr, User: user, Amount: principal, Now: now})
	return nil
}
