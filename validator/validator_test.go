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

func TestCreateLock_DurationBounds(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("user"))
	te.fund(user, tokens(1000))

	err := te.master.CreateLock(user, tokens(100), cfg.MinLock-1)
	assert.ErrorIs(t, err, reverts.ErrWrongDuration)

	err = te.master.CreateLock(user, tokens(100), cfg.MaxLock+1)
	assert.ErrorIs(t, err, reverts.ErrWrongDuration)

	err = te.master.CreateLock(user, new(big.Int), cfg.MinLock)
	assert.ErrorIs(t, err, reverts.ErrZeroAmount)

	require.NoError(t, te.master.CreateLock(user, tokens(100), cfg.MinLock))

	// a second lock on the same validator is rejected
	err = te.master.CreateLock(user, tokens(100), cfg.MinLock)
	assert.ErrorIs(t, err, reverts.ErrAlreadyLocked)
}

func TestCreateLock_MaxLockBoundary(t *testing.T) {
	te := newTestEnv(t)
	user := lordchain.BytesToAddress([]byte("user"))
	te.fund(user, tokens(100))
	require.NoError(t, te.master.CreateLock(user, tokens(100), te.env.Config().MaxLock))

	info, err := te.master.GetUser(user)
	require.NoError(t, err)
	assert.Equal(t, te.clk.Now()+te.env.Config().MaxLock, info.LockEndTime)
}

func TestSingleUserFullCycle(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("alice"))

	totalReward := tokens(1_000_000)
	te.fund(te.master.Address(), totalReward) // reward pool held by the validator
	te.setRewardPeriod(te.master, 1000, 2000, totalReward)

	te.clk.Set(1000)
	te.lock(te.master, user, tokens(100), cfg.MinLock)
	assert.Equal(t, int64(0), te.ledger.BalanceOf(user).Int64())

	// halfway through the period, half of the reward is claimable
	te.clk.Set(1500)
	pending, err := te.master.PendingReward(user)
	require.NoError(t, err)
	assert.Equal(t, tokens(500_000), pending)

	require.NoError(t, te.master.Claim(user))
	assert.Equal(t, tokens(500_000), te.ledger.BalanceOf(user))

	// an immediate second claim pays nothing
	require.NoError(t, te.master.Claim(user))
	assert.Equal(t, tokens(500_000), te.ledger.BalanceOf(user))

	// after the lock expires, withdraw returns principal and the rest
	te.clk.Set(1000 + cfg.MinLock)
	require.NoError(t, te.master.Withdraw(user))
	expected := new(big.Int).Add(tokens(1_000_000), tokens(100))
	assert.Equal(t, expected, te.ledger.BalanceOf(user))

	info, err := te.master.GetUser(user)
	require.NoError(t, err)
	assert.True(t, info.IsEmpty())
	assert.Equal(t, int64(0), te.master.TotalStaked().Int64())
}

func TestTwoUserProportionalSplit(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	alice := lordchain.BytesToAddress([]byte("alice"))
	bob := lordchain.BytesToAddress([]byte("bob"))

	totalReward := tokens(1000)
	te.fund(te.master.Address(), totalReward)
	te.setRewardPeriod(te.master, 200, 1200, totalReward)

	te.clk.Set(200)
	te.lock(te.master, alice, tokens(100), cfg.MaxLock)

	te.clk.Set(700)
	te.lock(te.master, bob, tokens(300), cfg.MaxLock)

	te.clk.Set(1200)
	require.NoError(t, te.master.Claim(alice))
	require.NoError(t, te.master.Claim(bob))

	// alice: full share of [200,700) plus a quarter of [700,1200)
	assert.Equal(t, tokens(625), te.ledger.BalanceOf(alice))
	// bob: three quarters of [700,1200)
	assert.Equal(t, tokens(375), te.ledger.BalanceOf(bob))

	// conservation: paid out no more than the pool
	paid := new(big.Int).Add(te.ledger.BalanceOf(alice), te.ledger.BalanceOf(bob))
	assert.True(t, paid.Cmp(totalReward) <= 0)
}

func TestPendingMonotoneWithoutMutations(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("user"))

	te.fund(te.master.Address(), tokens(1000))
	te.setRewardPeriod(te.master, 200, 1200, tokens(1000))

	te.clk.Set(200)
	te.lock(te.master, user, tokens(50), cfg.MaxLock)

	var last *big.Int
	for _, now := range []uint64{300, 500, 900, 1200, 1500} {
		te.clk.Set(now)
		pending, err := te.master.PendingReward(user)
		require.NoError(t, err)
		if last != nil {
			assert.True(t, pending.Cmp(last) >= 0, "pending decreased at %d", now)
		}
		last = pending
	}
}

func TestIncreaseAmount(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("user"))

	err := te.master.IncreaseAmount(user, tokens(10))
	assert.ErrorIs(t, err, reverts.ErrNoLockCreated)

	te.lock(te.master, user, tokens(100), cfg.MinLock)

	err = te.master.IncreaseAmount(user, new(big.Int))
	assert.ErrorIs(t, err, reverts.ErrNoLockCreated)

	te.fund(user, tokens(40))
	require.NoError(t, te.master.IncreaseAmount(user, tokens(40)))
	info, err := te.master.GetUser(user)
	require.NoError(t, err)
	assert.Equal(t, tokens(140), info.Amount)

	// expired lock blocks further increases
	te.clk.Advance(cfg.MinLock + 1)
	te.fund(user, tokens(1))
	err = te.master.IncreaseAmount(user, tokens(1))
	assert.ErrorIs(t, err, reverts.ErrLockTimeExceeded)
}

func TestExtendDuration(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("user"))

	err := te.master.ExtendDuration(user, cfg.MinLock)
	assert.ErrorIs(t, err, reverts.ErrNoLockCreated)

	te.lock(te.master, user, tokens(100), cfg.MinLock)
	lockEnd := te.clk.Now() + cfg.MinLock

	err = te.master.ExtendDuration(user, 0)
	assert.ErrorIs(t, err, reverts.ErrWrongDuration)
	err = te.master.ExtendDuration(user, cfg.MaxLock+1)
	assert.ErrorIs(t, err, reverts.ErrWrongDuration)

	// extending past now + MaxLock is rejected
	err = te.master.ExtendDuration(user, cfg.MaxLock)
	assert.ErrorIs(t, err, reverts.ErrGreaterThanMaxTime)

	require.NoError(t, te.master.ExtendDuration(user, cfg.MinLock))
	info, err := te.master.GetUser(user)
	require.NoError(t, err)
	assert.Equal(t, lockEnd+cfg.MinLock, info.LockEndTime)
}

func TestExtendDuration_AfterExpiryResetsVotes(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("user"))

	recorder := &resetRecorder{}
	te.master.SetGovernanceHandle(lordchain.BytesToAddress([]byte("gov")), recorder)

	te.lock(te.master, user, tokens(100), cfg.MinLock)
	te.clk.Advance(cfg.MinLock + 10)

	require.NoError(t, te.master.ExtendDuration(user, cfg.MinLock))
	assert.Equal(t, []lordchain.Address{user}, recorder.resets)

	info, err := te.master.GetUser(user)
	require.NoError(t, err)
	assert.Equal(t, te.clk.Now()+cfg.MinLock, info.LockEndTime)
}

func TestSetAutoMax(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("user"))

	err := te.master.SetAutoMax(user, true)
	assert.ErrorIs(t, err, reverts.ErrNoLockCreated)

	te.lock(te.master, user, tokens(100), cfg.MinLock)

	require.NoError(t, te.master.SetAutoMax(user, true))
	info, err := te.master.GetUser(user)
	require.NoError(t, err)
	assert.True(t, info.AutoMax)
	assert.Equal(t, te.clk.Now()+cfg.MaxLock, info.LockEndTime)

	err = te.master.SetAutoMax(user, true)
	assert.ErrorIs(t, err, reverts.ErrTheSameValue)

	// extending an auto-max lock is blocked
	err = te.master.ExtendDuration(user, cfg.MinLock)
	assert.ErrorIs(t, err, reverts.ErrAutoMaxTime)

	// withdrawing an auto-max lock is blocked
	te.clk.Advance(cfg.MaxLock + 1)
	err = te.master.Withdraw(user)
	assert.ErrorIs(t, err, reverts.ErrAutoMaxTime)

	// disarming still snaps the end to now + MaxLock (source-faithful)
	require.NoError(t, te.master.SetAutoMax(user, false))
	info, err = te.master.GetUser(user)
	require.NoError(t, err)
	assert.False(t, info.AutoMax)
	assert.Equal(t, te.clk.Now()+cfg.MaxLock, info.LockEndTime)

	// once the snapped lock expires, any duration within MaxLock extends
	te.clk.Advance(cfg.MaxLock + 1)
	require.NoError(t, te.master.ExtendDuration(user, cfg.MinLock))
}

func TestVeBalance(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("user"))

	// no lock: zero
	ve, err := te.master.VeBalance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ve.Int64())

	te.lock(te.master, user, tokens(100), cfg.MaxLock)

	// full-length lock grants full weight
	ve, err = te.master.VeBalance(user)
	require.NoError(t, err)
	assert.Equal(t, tokens(100), ve)

	// decays linearly
	te.clk.Advance(cfg.MaxLock / 2)
	ve, err = te.master.VeBalance(user)
	require.NoError(t, err)
	assert.Equal(t, tokens(50), ve)

	// expired: zero
	te.clk.Advance(cfg.MaxLock / 2)
	ve, err = te.master.VeBalance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ve.Int64())

	// auto-max pegs the weight at the maximum
	require.NoError(t, te.master.SetAutoMax(user, true))
	te.clk.Advance(cfg.MaxLock * 3)
	ve, err = te.master.VeBalance(user)
	require.NoError(t, err)
	assert.Equal(t, tokens(100), ve)

	// bounded by principal at all times
	assert.True(t, ve.Cmp(tokens(100)) <= 0)
}

func TestVeBalance_NonMasterIsZero(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("user"))

	secondary := te.newValidator(3, 1, te.owner)
	te.lock(secondary, user, tokens(500), cfg.MaxLock)

	ve, err := secondary.VeBalance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ve.Int64())
}

func TestDepositFeeSplit(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("user"))

	require.NoError(t, te.master.SetDepositFee(te.owner, 100)) // 1.00%

	te.fund(user, tokens(100))
	require.NoError(t, te.master.CreateLock(user, tokens(100), cfg.MinLock))

	info, err := te.master.GetUser(user)
	require.NoError(t, err)
	assert.Equal(t, tokens(99), info.Amount)
	assert.Equal(t, tokens(99), te.master.TotalStaked())
	assert.Equal(t, tokens(1), te.master.Vault().Balance())
	assert.Equal(t, int64(0), te.ledger.BalanceOf(user).Int64())

	// the owner drains the vault
	require.NoError(t, te.master.ClaimFees(te.owner))
	assert.Equal(t, tokens(1), te.ledger.BalanceOf(te.owner))

	err = te.master.ClaimFees(te.owner)
	assert.ErrorIs(t, err, reverts.ErrZeroFee)

	err = te.master.ClaimFees(user)
	assert.ErrorIs(t, err, reverts.ErrNotOwner)
}

func TestClaimFeeSplit(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("user"))

	require.NoError(t, te.master.SetClaimFee(te.owner, 500)) // 5.00%

	te.fund(te.master.Address(), tokens(1000))
	te.setRewardPeriod(te.master, 200, 1200, tokens(1000))

	te.clk.Set(200)
	te.lock(te.master, user, tokens(100), cfg.MaxLock)

	te.clk.Set(1200)
	require.NoError(t, te.master.Claim(user))

	// gross 1000: 5% fee to the owner, the rest to the user
	assert.Equal(t, tokens(950), te.ledger.BalanceOf(user))
	assert.Equal(t, tokens(50), te.ledger.BalanceOf(te.owner))
}

func TestFeeCaps(t *testing.T) {
	te := newTestEnv(t)

	assert.ErrorIs(t, te.master.SetDepositFee(te.owner, lordchain.DepositMaxFee+1), reverts.ErrFeeTooHigh)
	assert.ErrorIs(t, te.master.SetClaimFee(te.owner, lordchain.ClaimMaxFee+1), reverts.ErrFeeTooHigh)
	assert.ErrorIs(t, te.master.SetDepositFee(te.admin, 10), reverts.ErrNotOwner)

	require.NoError(t, te.master.SetDepositFee(te.owner, lordchain.DepositMaxFee))
	require.NoError(t, te.master.SetClaimFee(te.owner, lordchain.ClaimMaxFee))
}

func TestPauseBlocksUserOps(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("user"))
	te.fund(user, tokens(100))

	assert.ErrorIs(t, te.master.SetPause(user, true), reverts.ErrNotPauser)
	require.NoError(t, te.master.SetPause(te.admin, true))
	assert.ErrorIs(t, te.master.SetPause(te.admin, true), reverts.ErrStateUnchanged)

	assert.ErrorIs(t, te.master.CreateLock(user, tokens(100), cfg.MinLock), reverts.ErrContractPaused)
	assert.ErrorIs(t, te.master.Claim(user), reverts.ErrContractPaused)
	assert.ErrorIs(t, te.master.Withdraw(user), reverts.ErrContractPaused)

	require.NoError(t, te.master.SetPause(te.admin, false))
	require.NoError(t, te.master.CreateLock(user, tokens(100), cfg.MinLock))
}

func TestRewardPeriodValidation(t *testing.T) {
	te := newTestEnv(t)

	err := te.master.SetRewardPeriod(te.owner, 200, 300, tokens(1))
	assert.ErrorIs(t, err, reverts.ErrNotAdmin)

	err = te.master.SetRewardPeriod(te.admin, 200, 300, new(big.Int))
	assert.ErrorIs(t, err, reverts.ErrInvalidTotalReward)

	// start must be in the future (clock starts at 100)
	err = te.master.SetRewardPeriod(te.admin, 100, 300, tokens(1))
	assert.ErrorIs(t, err, reverts.ErrStartTimeNotInFuture)

	err = te.master.SetRewardPeriod(te.admin, 300, 300, tokens(1))
	assert.ErrorIs(t, err, reverts.ErrEndTimeBeforeStartTime)

	require.NoError(t, te.master.SetRewardPeriod(te.admin, 200, 300, tokens(1)))

	// periods must not overlap the previous one
	err = te.master.SetRewardPeriod(te.admin, 250, 400, tokens(1))
	assert.ErrorIs(t, err, reverts.ErrStartTimeNotAsExpected)

	require.NoError(t, te.master.SetRewardPeriod(te.admin, 301, 400, tokens(1)))
}

func TestWithdraw_Gates(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("user"))

	err := te.master.Withdraw(user)
	assert.ErrorIs(t, err, reverts.ErrZeroAmount)

	te.lock(te.master, user, tokens(100), cfg.MinLock)

	err = te.master.Withdraw(user)
	assert.ErrorIs(t, err, reverts.ErrTimeNotUp)

	// a failed withdraw leaves every balance untouched
	assert.Equal(t, int64(0), te.ledger.BalanceOf(user).Int64())
	assert.Equal(t, tokens(100), te.master.TotalStaked())

	te.clk.Advance(cfg.MinLock)
	require.NoError(t, te.master.Withdraw(user))
	assert.Equal(t, tokens(100), te.ledger.BalanceOf(user))
}

func TestWithdrawAfterClaimEquivalence(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	alice := lordchain.BytesToAddress([]byte("alice"))
	bob := lordchain.BytesToAddress([]byte("bob"))

	te.fund(te.master.Address(), tokens(1000))
	te.setRewardPeriod(te.master, 200, 1200, tokens(1000))

	te.clk.Set(200)
	te.lock(te.master, alice, tokens(100), cfg.MinLock)
	te.lock(te.master, bob, tokens(100), cfg.MinLock)

	te.clk.Set(200 + cfg.MinLock)

	// alice claims first, then withdraws; bob only withdraws
	require.NoError(t, te.master.Claim(alice))
	require.NoError(t, te.master.Withdraw(alice))
	require.NoError(t, te.master.Withdraw(bob))

	assert.Equal(t, te.ledger.BalanceOf(bob), te.ledger.BalanceOf(alice))
}

func TestConservation(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	users := []lordchain.Address{
		lordchain.BytesToAddress([]byte("u1")),
		lordchain.BytesToAddress([]byte("u2")),
		lordchain.BytesToAddress([]byte("u3")),
	}

	check := func() {
		sum := new(big.Int)
		for _, user := range users {
			info, err := te.master.GetUser(user)
			require.NoError(t, err)
			sum.Add(sum, info.Amount)
		}
		assert.Equal(t, sum, te.master.TotalStaked())
	}

	for i, user := range users {
		te.lock(te.master, user, tokens(int64(100*(i+1))), cfg.MinLock)
		check()
	}

	te.fund(users[0], tokens(17))
	require.NoError(t, te.master.IncreaseAmount(users[0], tokens(17)))
	check()

	te.clk.Advance(cfg.MinLock)
	require.NoError(t, te.master.Withdraw(users[1]))
	check()
}

func TestStakeFor(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("user"))
	gov := lordchain.BytesToAddress([]byte("gov"))

	te.master.SetGovernanceHandle(gov, &resetRecorder{})
	te.lock(te.master, user, tokens(100), cfg.MinLock)

	// reward tokens already sit at the validator, as after a bank transfer
	te.fund(te.master.Address(), tokens(40))

	err := te.env.Transact(func() error {
		return te.master.StakeFor(user, user, tokens(40))
	})
	assert.ErrorIs(t, err, reverts.ErrNotGovernance)

	userBalanceBefore := te.ledger.BalanceOf(user)
	require.NoError(t, te.env.Transact(func() error {
		return te.master.StakeFor(gov, user, tokens(40))
	}))

	// no fee, no token pull from the user
	info, err := te.master.GetUser(user)
	require.NoError(t, err)
	assert.Equal(t, tokens(140), info.Amount)
	assert.Equal(t, userBalanceBefore, te.ledger.BalanceOf(user))
}

func TestAddBoostRewardAndClaim(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("user"))
	gov := lordchain.BytesToAddress([]byte("gov"))

	te.master.SetGovernanceHandle(gov, &resetRecorder{})
	te.lock(te.master, user, tokens(100), cfg.MaxLock)

	err := te.env.Transact(func() error {
		return te.master.AddBoostReward(user, 200, 1200, tokens(500))
	})
	assert.ErrorIs(t, err, reverts.ErrNotGovernance)

	err = te.env.Transact(func() error {
		return te.master.AddBoostReward(gov, 1200, 200, tokens(500))
	})
	assert.ErrorIs(t, err, reverts.ErrInvalidTimePeriod)

	err = te.env.Transact(func() error {
		return te.master.AddBoostReward(gov, 200, 1200, new(big.Int))
	})
	assert.ErrorIs(t, err, reverts.ErrInvalidBoostReward)

	// the boost pool is transferred to the validator before the call
	te.fund(te.master.Address(), tokens(500))
	require.NoError(t, te.env.Transact(func() error {
		return te.master.AddBoostReward(gov, 200, 1200, tokens(500))
	}))

	te.clk.Set(1200)
	pending, err := te.master.PendingBoostReward(user)
	require.NoError(t, err)
	assert.True(t, pending.Cmp(tokens(500)) <= 0)
	assert.True(t, pending.Sign() > 0)

	require.NoError(t, te.master.Claim(user))
	assert.True(t, te.ledger.BalanceOf(user).Cmp(tokens(500)) <= 0)
	assert.Equal(t, pending, te.ledger.BalanceOf(user))
}

func TestFailedOperationEmitsNoEvents(t *testing.T) {
	te := newTestEnv(t)
	cfg := te.env.Config()
	user := lordchain.BytesToAddress([]byte("user"))
	te.lock(te.master, user, tokens(100), cfg.MinLock)

	before := len(te.st.Events())
	err := te.master.Withdraw(user) // TimeNotUp
	assert.ErrorIs(t, err, reverts.ErrTimeNotUp)
	assert.Equal(t, before, len(te.st.Events()))
}

func TestAdminSurface(t *testing.T) {
	te := newTestEnv(t)
	user := lordchain.BytesToAddress([]byte("user"))

	assert.ErrorIs(t, te.master.SetVerifier(user, user), reverts.ErrNotAdmin)
	assert.ErrorIs(t, te.master.SetVerifier(te.admin, lordchain.Address{}), reverts.ErrZeroAddress)
	require.NoError(t, te.master.SetVerifier(te.admin, user))

	assert.ErrorIs(t, te.master.SetName(user, "x"), reverts.ErrNotAdmin)
	require.NoError(t, te.master.SetName(te.admin, "Avalon"))
	assert.Equal(t, "Avalon", te.master.Name())
}
