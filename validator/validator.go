// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"math/big"

	lru "github.com/hashicorp/golang-lru"

	"github.com/blocklords/lordchain-smartcontracts/env"
	"github.com/blocklords/lordchain-smartcontracts/log"
	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/metrics"
	"github.com/blocklords/lordchain-smartcontracts/reverts"
)

var (
	logger = log.WithContext("pkg", "validator")

	metricDeposits    = metrics.LazyLoadCounter("staking_deposit_count")
	metricClaims      = metrics.LazyLoadCounter("staking_claim_count")
	metricWithdrawals = metrics.LazyLoadCounter("staking_withdraw_count")
)

// SetLogger overrides the package logger.
func SetLogger(l log.Logger) {
	logger = l
}

// FactoryHandle is the capability the validator needs from its registry.
// Keeping it as an interface breaks the structural Validator↔Factory cycle.
type FactoryHandle interface {
	AddTotalStakedAmount(amount *big.Int) error
	SubTotalStakedAmount(amount *big.Int) error
	AddTotalStakedWallet() error
	SubTotalStakedWallet() error
	IsRegisteredValidator(addr lordchain.Address) bool
	MinAmountForQuality(quality uint8) (*big.Int, error)
}

// GovernanceHandle is the capability the master validator needs from
// governance: clearing a user's vote budget when their lock resets.
type GovernanceHandle interface {
	ResetVotes(caller, user lordchain.Address) error
}

// Validator is one per-instance staking engine. All public operations are
// transactions: serialized, and atomic including emitted events.
type Validator struct {
	env     *env.Environment
	addr    lordchain.Address
	store   *storage
	quality uint8
	id      uint64

	factory    FactoryHandle
	master     *Validator // self when this is the master
	governance GovernanceHandle
	vault      *FeeVault

	sigCache *lru.Cache // keccak(digest‖signature) -> recovered signer
}

// New instantiates a validator at addr. For the master tier, master must
// be nil; secondary tiers receive the master instance.
func New(
	e *env.Environment,
	addr lordchain.Address,
	quality uint8,
	id uint64,
	owner lordchain.Address,
	admin lordchain.Address,
	verifier lordchain.Address,
	factory FactoryHandle,
	master *Validator,
) *Validator {
	store := newStorage(addr, e.State())
	store.owner.Set(owner)
	store.admin.Set(admin)
	store.pauser.Set(admin)
	store.verifier.Set(verifier)
	store.quality.Set(uint64(quality))
	store.id.Set(id)
	if quality == lordchain.MasterQuality {
		// the master is born claimed and fee-free
		store.claimed.Set(true)
	}

	sigCache, _ := lru.New(256)
	v := &Validator{
		env:      e,
		addr:     addr,
		store:    store,
		quality:  quality,
		id:       id,
		factory:  factory,
		master:   master,
		sigCache: sigCache,
	}
	if quality == lordchain.MasterQuality {
		v.master = v
	}
	v.vault = NewFeeVault(e, lordchain.CreateFeeVaultAddress(addr), addr)
	return v
}

// Address returns the validator's logical identity.
func (v *Validator) Address() lordchain.Address {
	return v.addr
}

// Quality returns the validator's tier.
func (v *Validator) Quality() uint8 {
	return v.quality
}

// ID returns the sequential creation index.
func (v *Validator) ID() uint64 {
	return v.id
}

// IsMaster reports whether this is the single quality-1 instance.
func (v *Validator) IsMaster() bool {
	return v.quality == lordchain.MasterQuality
}

// Vault returns the bonded fee vault.
func (v *Validator) Vault() *FeeVault {
	return v.vault
}

// SetGovernanceHandle wires the governance engine: its address passes the
// caller gates of StakeFor/AddBoostReward, and the master routes vote
// resets through the handle. Performed at deployment time via the factory.
func (v *Validator) SetGovernanceHandle(addr lordchain.Address, handle GovernanceHandle) {
	v.store.governance.Set(addr)
	v.governance = handle
}

//
// User entry points
//

// CreateLock opens a position with the given principal and lock duration.
func (v *Validator) CreateLock(caller lordchain.Address, amount *big.Int, duration uint64) error {
	return v.env.Transact(func() error {
		logger.Debug("create lock", "validator", v.addr, "user", caller,
			"amount", new(big.Int).Div(amount, lordchain.Multiplier), "duration", duration)

		if err := v.requireNotPaused(); err != nil {
			return err
		}
		if amount.Sign() == 0 {
			return reverts.ErrZeroAmount
		}
		cfg := v.env.Config()
		if duration < cfg.MinLock || duration > cfg.MaxLock {
			return reverts.ErrWrongDuration
		}
		user, err := v.store.GetUser(caller)
		if err != nil {
			return err
		}
		if user.Amount.Sign() > 0 || user.LockStartTime > 0 {
			return reverts.ErrAlreadyLocked
		}

		if err := v.factory.AddTotalStakedWallet(); err != nil {
			return err
		}
		if err := v.deposit(caller, amount, duration, false); err != nil {
			return err
		}

		metricDeposits().Add(1)
		logger.Info("lock created", "validator", v.addr, "user", caller)
		return nil
	})
}

// IncreaseAmount adds principal to an existing, unexpired position.
func (v *Validator) IncreaseAmount(caller lordchain.Address, amount *big.Int) error {
	return v.env.Transact(func() error {
		logger.Debug("increase amount", "validator", v.addr, "user", caller,
			"amount", new(big.Int).Div(amount, lordchain.Multiplier))

		if err := v.requireNotPaused(); err != nil {
			return err
		}
		if amount.Sign() == 0 {
			return reverts.ErrNoLockCreated
		}
		user, err := v.store.GetUser(caller)
		if err != nil {
			return err
		}
		if user.Amount.Sign() == 0 {
			return reverts.ErrNoLockCreated
		}
		if !user.AutoMax && v.env.Now() > user.LockEndTime {
			return reverts.ErrLockTimeExceeded
		}

		if err := v.deposit(caller, amount, 0, false); err != nil {
			return err
		}

		metricDeposits().Add(1)
		logger.Info("amount increased", "validator", v.addr, "user", caller)
		return nil
	})
}

// ExtendDuration pushes the lock end further into the future.
func (v *Validator) ExtendDuration(caller lordchain.Address, duration uint64) error {
	return v.env.Transact(func() error {
		logger.Debug("extend duration", "validator", v.addr, "user", caller, "duration", duration)

		if err := v.requireNotPaused(); err != nil {
			return err
		}
		cfg := v.env.Config()
		if duration == 0 || duration > cfg.MaxLock {
			return reverts.ErrWrongDuration
		}
		user, err := v.store.GetUser(caller)
		if err != nil {
			return err
		}
		if user.Amount.Sign() == 0 {
			return reverts.ErrNoLockCreated
		}
		if user.AutoMax {
			return reverts.ErrAutoMaxTime
		}

		now := v.env.Now()
		base := user.LockEndTime
		expired := now > base
		if expired {
			base = now
		}
		if base+duration > now+cfg.MaxLock {
			return reverts.ErrGreaterThanMaxTime
		}

		// a lock revived after expiry loses its accumulated vote budget
		if expired && v.IsMaster() && v.governance != nil {
			if err := v.governance.ResetVotes(v.addr, caller); err != nil {
				return err
			}
		}

		if err := v.deposit(caller, new(big.Int), duration, false); err != nil {
			return err
		}

		logger.Info("duration extended", "validator", v.addr, "user", caller, "duration", duration)
		return nil
	})
}

// Claim pays out pending base and boost rewards.
func (v *Validator) Claim(caller lordchain.Address) error {
	return v.env.Transact(func() error {
		logger.Debug("claim", "validator", v.addr, "user", caller)

		if err := v.requireNotPaused(); err != nil {
			return err
		}
		user, err := v.store.GetUser(caller)
		if err != nil {
			return err
		}
		if user.Amount.Sign() == 0 {
			return reverts.ErrNoLockCreated
		}

		now := v.env.Now()
		if err := v.updateValidator(now); err != nil {
			return err
		}
		if err := v.updateBoost(now); err != nil {
			return err
		}
		if err := v.settleRewards(caller, user); err != nil {
			return err
		}
		if err := v.store.SetUser(caller, user); err != nil {
			return err
		}

		metricClaims().Add(1)
		logger.Info("claimed", "validator", v.addr, "user", caller)
		return nil
	})
}

// Withdraw closes an expired position: claims rewards, returns principal,
// and zeroes the user's bookkeeping.
func (v *Validator) Withdraw(caller lordchain.Address) error {
	return v.env.Transact(func() error {
		logger.Debug("withdraw", "validator", v.addr, "user", caller)

		if err := v.requireNotPaused(); err != nil {
			return err
		}
		if err := v.withdraw(caller); err != nil {
			return err
		}

		metricWithdrawals().Add(1)
		logger.Info("withdrawn", "validator", v.addr, "user", caller)
		return nil
	})
}

// SetAutoMax arms or disarms continuous max-lock renewal. Both branches
// snap the lock end to now + MaxLock, matching the reference behavior.
func (v *Validator) SetAutoMax(caller lordchain.Address, flag bool) error {
	return v.env.Transact(func() error {
		if err := v.requireNotPaused(); err != nil {
			return err
		}
		user, err := v.store.GetUser(caller)
		if err != nil {
			return err
		}
		if user.Amount.Sign() == 0 {
			return reverts.ErrNoLockCreated
		}
		if user.AutoMax == flag {
			return reverts.ErrTheSameValue
		}

		user.AutoMax = flag
		user.LockEndTime = v.env.Now() + v.env.Config().MaxLock
		if err := v.store.SetUser(caller, user); err != nil {
			return err
		}

		v.env.State().AddEvent(SetAutoMaxEvent{Validator: v.addr, User: caller, Flag: flag})
		logger.Info("auto max set", "validator", v.addr, "user", caller, "flag", flag)
		return nil
	})
}

// ClaimFees drains the fee vault to the validator owner.
func (v *Validator) ClaimFees(caller lordchain.Address) error {
	return v.env.Transact(func() error {
		owner := v.store.owner.Get()
		if caller != owner {
			return reverts.ErrNotOwner
		}
		amount, err := v.vault.claimFor(owner)
		if err != nil {
			return err
		}
		v.env.State().AddEvent(ClaimFeesEvent{Validator: v.addr, Recipient: owner, Amount: amount})
		logger.Info("fees claimed", "validator", v.addr, "recipient", owner,
			"amount", new(big.Int).Div(amount, lordchain.Multiplier))
		return nil
	})
}

//
// Governance-facing operations. These are invoked from inside a governance
// transaction and therefore do not open one themselves.
//

// StakeFor deposits rewards already held by this validator on behalf of a
// user. Boost-funded: no token movement and no deposit fee.
func (v *Validator) StakeFor(caller, user lordchain.Address, amount *big.Int) error {
	if caller != v.store.governance.Get() || caller.IsZero() {
		return reverts.ErrNotGovernance
	}
	if !v.IsMaster() {
		return reverts.ErrNotValidator
	}
	if amount.Sign() == 0 {
		return reverts.ErrZeroAmount
	}
	return v.deposit(user, amount, 0, true)
}

// AddBoostReward opens a new boost period funded by governance. The tokens
// are expected to have been transferred to this validator already.
func (v *Validator) AddBoostReward(caller lordchain.Address, start, end uint64, amount *big.Int) error {
	if caller != v.store.governance.Get() && caller != v.store.admin.Get() {
		return reverts.ErrNotGovernance
	}
	if amount.Sign() == 0 {
		return reverts.ErrInvalidBoostReward
	}
	if end <= start {
		return reverts.ErrInvalidTimePeriod
	}

	now := v.env.Now()
	if err := v.updateBoost(now); err != nil {
		return err
	}
	period := &RewardPeriod{
		StartTime:      start,
		EndTime:        end,
		TotalReward:    amount,
		LastRewardTime: start,
		IsActive:       true,
	}
	if _, err := v.store.AppendPeriod(v.store.boosts, period); err != nil {
		return err
	}

	v.env.State().AddEvent(BoostRewardAddedEvent{Validator: v.addr, Start: start, End: end, Total: amount})
	logger.Info("boost reward added", "validator", v.addr, "start", start, "end", end,
		"total", new(big.Int).Div(amount, lordchain.Multiplier))
	return nil
}

//
// Admin / owner / pauser surface
//

// SetRewardPeriod schedules a new base reward window.
func (v *Validator) SetRewardPeriod(caller lordchain.Address, start, end uint64, totalReward *big.Int) error {
	return v.env.Transact(func() error {
		if caller != v.store.admin.Get() {
			return reverts.ErrNotAdmin
		}
		if totalReward == nil || totalReward.Sign() <= 0 {
			return reverts.ErrInvalidTotalReward
		}
		now := v.env.Now()
		if start <= now {
			return reverts.ErrStartTimeNotInFuture
		}
		if end <= start {
			return reverts.ErrEndTimeBeforeStartTime
		}
		if n := v.store.periods.Len(); n > 0 {
			last, err := v.store.GetPeriod(v.store.periods, n-1)
			if err != nil {
				return err
			}
			if start <= last.EndTime {
				return reverts.ErrStartTimeNotAsExpected
			}
		}

		period := &RewardPeriod{
			StartTime:      start,
			EndTime:        end,
			TotalReward:    totalReward,
			LastRewardTime: start,
			IsActive:       true,
		}
		if _, err := v.store.AppendPeriod(v.store.periods, period); err != nil {
			return err
		}

		logger.Info("reward period set", "validator", v.addr, "start", start, "end", end,
			"total", new(big.Int).Div(totalReward, lordchain.Multiplier))
		return nil
	})
}

// SetVerifier rotates the purchase-authorization signer.
func (v *Validator) SetVerifier(caller, verifier lordchain.Address) error {
	return v.env.Transact(func() error {
		if caller != v.store.admin.Get() {
			return reverts.ErrNotAdmin
		}
		if verifier.IsZero() {
			return reverts.ErrZeroAddress
		}
		v.store.verifier.Set(verifier)
		return nil
	})
}

// SetName labels the validator.
func (v *Validator) SetName(caller lordchain.Address, name string) error {
	return v.env.Transact(func() error {
		if caller != v.store.admin.Get() {
			return reverts.ErrNotAdmin
		}
		v.store.name.Set(name)
		return nil
	})
}

// SetPause toggles the paused flag, blocking user-facing mutations.
func (v *Validator) SetPause(caller lordchain.Address, paused bool) error {
	return v.env.Transact(func() error {
		if caller != v.store.pauser.Get() {
			return reverts.ErrNotPauser
		}
		if v.store.paused.Get() == paused {
			return reverts.ErrStateUnchanged
		}
		v.store.paused.Set(paused)
		return nil
	})
}

// SetDepositFee sets the deposit fee in basis points, owner-gated.
func (v *Validator) SetDepositFee(caller lordchain.Address, fee uint64) error {
	return v.env.Transact(func() error {
		if caller != v.store.owner.Get() {
			return reverts.ErrNotOwner
		}
		if fee > lordchain.DepositMaxFee {
			return reverts.ErrFeeTooHigh
		}
		v.store.depositFee.Set(fee)
		return nil
	})
}

// SetClaimFee sets the claim fee in basis points, owner-gated.
func (v *Validator) SetClaimFee(caller lordchain.Address, fee uint64) error {
	return v.env.Transact(func() error {
		if caller != v.store.owner.Get() {
			return reverts.ErrNotOwner
		}
		if fee > lordchain.ClaimMaxFee {
			return reverts.ErrFeeTooHigh
		}
		v.store.claimFee.Set(fee)
		return nil
	})
}

//
// Views
//

// VeBalance returns the user's current voting power.
func (v *Validator) VeBalance(user lordchain.Address) (*big.Int, error) {
	var balance *big.Int
	err := v.env.Transact(func() error {
		var err error
		balance, err = v.VeBalanceAt(user, v.env.Now())
		return err
	})
	return balance, err
}

// VeBalanceAt computes time-decayed voting power at the given instant.
// Non-master validators carry no voting power. Unlocked: meant to be read
// from inside a transaction.
func (v *Validator) VeBalanceAt(user lordchain.Address, now uint64) (*big.Int, error) {
	if !v.IsMaster() {
		return new(big.Int), nil
	}
	info, err := v.store.GetUser(user)
	if err != nil {
		return nil, err
	}
	maxLock := v.env.Config().MaxLock
	effectiveEnd := info.LockEndTime
	if info.AutoMax {
		effectiveEnd = now + maxLock
	}
	if now >= effectiveEnd {
		return new(big.Int), nil
	}
	remaining := new(big.Int).SetUint64(effectiveEnd - now)
	balance := new(big.Int).Mul(info.Amount, remaining)
	return balance.Div(balance, new(big.Int).SetUint64(maxLock)), nil
}

// AmountAndAutoMax reads the user's principal and auto-max flag.
func (v *Validator) AmountAndAutoMax(user lordchain.Address) (*big.Int, bool, error) {
	info, err := v.store.GetUser(user)
	if err != nil {
		return nil, false, err
	}
	return info.Amount, info.AutoMax, nil
}

// GetUser returns a copy of the user's position.
func (v *Validator) GetUser(user lordchain.Address) (*UserInfo, error) {
	return v.store.GetUser(user)
}

// TotalStaked returns the validator's total principal.
func (v *Validator) TotalStaked() *big.Int {
	return v.store.totalStaked.Get()
}

// Owner returns the current owner.
func (v *Validator) Owner() lordchain.Address {
	return v.store.owner.Get()
}

// IsClaimed reports whether the instance has been purchased (always true
// for the master).
func (v *Validator) IsClaimed() bool {
	return v.store.claimed.Get()
}

// IsPaused reports the pause flag.
func (v *Validator) IsPaused() bool {
	return v.store.paused.Get()
}

// Name returns the display name.
func (v *Validator) Name() string {
	return v.store.name.Get()
}

// Stats summarizes the validator for the factory's paginated report.
func (v *Validator) Stats() (*Stats, error) {
	return &Stats{
		Address:       v.addr,
		Owner:         v.store.owner.Get(),
		Quality:       v.quality,
		ID:            v.id,
		Name:          v.store.name.Get(),
		TotalStaked:   v.store.totalStaked.Get(),
		IsClaimed:     v.store.claimed.Get(),
		IsPaused:      v.store.paused.Get(),
		RewardPeriods: v.store.periods.Len(),
	}, nil
}

// BoostStatsView summarizes the boost series.
func (v *Validator) BoostStatsView() (*BoostStats, error) {
	n := v.store.boosts.Len()
	stats := &BoostStats{BoostPeriods: n, TotalBoostReward: new(big.Int)}
	for i := uint64(0); i < n; i++ {
		p, err := v.store.GetPeriod(v.store.boosts, i)
		if err != nil {
			return nil, err
		}
		stats.TotalBoostReward.Add(stats.TotalBoostReward, p.TotalReward)
		if p.EndTime > stats.LastBoostEnd {
			stats.LastBoostEnd = p.EndTime
		}
	}
	return stats, nil
}

// UserStatsView summarizes a user's position, including simulated pending
// rewards, for the factory's paginated report.
func (v *Validator) UserStatsView(user lordchain.Address) (*UserStats, error) {
	info, err := v.store.GetUser(user)
	if err != nil {
		return nil, err
	}
	now := v.env.Now()
	pending, err := v.pendingIn(v.store.periods, info.Amount, info.RewardDebt, now)
	if err != nil {
		return nil, err
	}
	boostDebt, err := v.store.GetBoostDebt(user)
	if err != nil {
		return nil, err
	}
	pendingBoost, err := v.pendingIn(v.store.boosts, info.Amount, boostDebt, now)
	if err != nil {
		return nil, err
	}
	veBalance, err := v.VeBalanceAt(user, now)
	if err != nil {
		return nil, err
	}
	return &UserStats{
		Amount:       info.Amount,
		LockStart:    info.LockStartTime,
		LockEnd:      info.LockEndTime,
		AutoMax:      info.AutoMax,
		Pending:      pending,
		PendingBoost: pendingBoost,
		VeBalance:    veBalance,
	}, nil
}

// PendingReward returns the user's claimable base reward right now.
func (v *Validator) PendingReward(user lordchain.Address) (*big.Int, error) {
	var pending *big.Int
	err := v.env.Transact(func() error {
		info, err := v.store.GetUser(user)
		if err != nil {
			return err
		}
		pending, err = v.pendingIn(v.store.periods, info.Amount, info.RewardDebt, v.env.Now())
		return err
	})
	return pending, err
}

// PendingBoostReward returns the user's claimable boost reward right now.
func (v *Validator) PendingBoostReward(user lordchain.Address) (*big.Int, error) {
	var pending *big.Int
	err := v.env.Transact(func() error {
		info, err := v.store.GetUser(user)
		if err != nil {
			return err
		}
		debt, err := v.store.GetBoostDebt(user)
		if err != nil {
			return err
		}
		pending, err = v.pendingIn(v.store.boosts, info.Amount, debt, v.env.Now())
		return err
	})
	return pending, err
}

func (v *Validator) requireNotPaused() error {
	if v.store.paused.Get() {
		return reverts.ErrContractPaused
	}
	return nil
}
