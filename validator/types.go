// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"math/big"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
)

// UserInfo per-user staking position on one validator.
type UserInfo struct {
	Amount        *big.Int // staked principal, after deposit fee
	LockStartTime uint64
	LockEndTime   uint64
	RewardDebt    *big.Int // already-counted share across started reward periods
	AutoMax       bool     // lock end conceptually pegged at now + MaxLock
}

func (u *UserInfo) normalize() *UserInfo {
	if u.Amount == nil {
		u.Amount = new(big.Int)
	}
	if u.RewardDebt == nil {
		u.RewardDebt = new(big.Int)
	}
	return u
}

// IsEmpty returns whether the user has no position.
func (u *UserInfo) IsEmpty() bool {
	return u.Amount.Sign() == 0 && u.LockStartTime == 0
}

// RewardPeriod one admin-scheduled reward window with a running
// rewards-per-share accumulator. Boost periods share the same shape.
type RewardPeriod struct {
	StartTime        uint64
	EndTime          uint64
	TotalReward      *big.Int
	AccTokenPerShare *big.Int // scaled by lordchain.Precision
	LastRewardTime   uint64
	IsActive         bool
}

func (p *RewardPeriod) normalize() *RewardPeriod {
	if p.TotalReward == nil {
		p.TotalReward = new(big.Int)
	}
	if p.AccTokenPerShare == nil {
		p.AccTokenPerShare = new(big.Int)
	}
	return p
}

// rewardPerSecond is the linear release rate of the period.
// Division truncates; the dust stays in the pool.
func (p *RewardPeriod) rewardPerSecond() *big.Int {
	duration := new(big.Int).SetUint64(p.EndTime - p.StartTime)
	return new(big.Int).Div(p.TotalReward, duration)
}

// multiplier returns the accruing seconds in (from, min(to, end)].
func multiplier(from, to, end uint64) uint64 {
	if to <= from {
		return 0
	}
	if to > end {
		to = end
	}
	if to <= from {
		return 0
	}
	return to - from
}

// purchaseKey keys the master's purchase registry by (user, quality).
type purchaseKey struct {
	user    lordchain.Address
	quality uint8
}

func (k purchaseKey) Bytes() []byte {
	return append(k.user.Bytes(), k.quality)
}

// Stats is the per-validator slice of the factory's paginated report.
type Stats struct {
	Address       lordchain.Address
	Owner         lordchain.Address
	Quality       uint8
	ID            uint64
	Name          string
	TotalStaked   *big.Int
	IsClaimed     bool
	IsPaused      bool
	RewardPeriods uint64
}

// BoostStats aggregates the boost series of one validator.
type BoostStats struct {
	BoostPeriods     uint64
	LastBoostEnd     uint64
	TotalBoostReward *big.Int
}

// UserStats is the per-user slice of the factory's paginated report.
type UserStats struct {
	Amount       *big.Int
	LockStart    uint64
	LockEnd      uint64
	AutoMax      bool
	Pending      *big.Int
	PendingBoost *big.Int
	VeBalance    *big.Int
}
