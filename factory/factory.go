// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package factory

import (
	"math/big"
	"sync"

	"github.com/blocklords/lordchain-smartcontracts/env"
	"github.com/blocklords/lordchain-smartcontracts/log"
	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/metrics"
	"github.com/blocklords/lordchain-smartcontracts/reverts"
	"github.com/blocklords/lordchain-smartcontracts/solidity"
	"github.com/blocklords/lordchain-smartcontracts/validator"
)

var (
	logger = log.WithContext("pkg", "factory")

	metricTotalStaked  = metrics.LazyLoadGauge("factory_total_staked_tokens")
	metricTotalWallets = metrics.LazyLoadGauge("factory_total_staked_wallets")
	metricValidators   = metrics.LazyLoadGauge("factory_validator_count")
)

var (
	slotTotalStakedAmount = nameToSlot("total-staked-amount")
	slotTotalStakedWallet = nameToSlot("total-staked-wallet")
	slotAllValidators     = nameToSlot("all-validators")
	slotRegistered        = nameToSlot("registered")
	slotNodeCounts        = nameToSlot("node-counts")
	slotMinAmounts        = nameToSlot("min-amount-for-quality")
	slotGlobalPeriods     = nameToSlot("global-reward-periods")
	slotAdmin             = nameToSlot("admin")
)

func nameToSlot(name string) lordchain.Bytes32 {
	return lordchain.BytesToBytes32([]byte(name))
}

// GlobalRewardPeriod is an aggregate reporting row mirroring the reward
// schedules across the fleet.
type GlobalRewardPeriod struct {
	StartTime   uint64
	EndTime     uint64
	TotalReward *big.Int
}

// Factory is the registry of all validator instances: deterministic
// creation, aggregate counters and fleet-wide enumeration.
type Factory struct {
	env  *env.Environment
	addr lordchain.Address

	totalStakedAmount *solidity.Uint256
	totalStakedWallet *solidity.Uint256
	allValidators     *solidity.Array[lordchain.Address]
	registered        *solidity.Mapping[lordchain.Address, bool]
	nodeCounts        *solidity.Mapping[solidity.Index, uint64]
	minAmounts        *solidity.Mapping[solidity.Index, *big.Int]
	globalPeriods     *solidity.Array[*GlobalRewardPeriod]
	admin             *solidity.Address

	mu         sync.RWMutex
	instances  map[lordchain.Address]*validator.Validator
	instanceID []lordchain.Address
	master     *validator.Validator
	govAddr    lordchain.Address
	govHandle  validator.GovernanceHandle
}

// New creates the registry at addr. Quality thresholds are seeded from the
// protocol config and stay admin-writable.
func New(e *env.Environment, addr, admin lordchain.Address) (*Factory, error) {
	ctx := solidity.NewContext(addr, e.State())
	f := &Factory{
		env:               e,
		addr:              addr,
		totalStakedAmount: solidity.NewUint256(ctx, slotTotalStakedAmount),
		totalStakedWallet: solidity.NewUint256(ctx, slotTotalStakedWallet),
		allValidators:     solidity.NewArray[lordchain.Address](ctx, slotAllValidators),
		registered:        solidity.NewMapping[lordchain.Address, bool](ctx, slotRegistered),
		nodeCounts:        solidity.NewMapping[solidity.Index, uint64](ctx, slotNodeCounts),
		minAmounts:        solidity.NewMapping[solidity.Index, *big.Int](ctx, slotMinAmounts),
		globalPeriods:     solidity.NewArray[*GlobalRewardPeriod](ctx, slotGlobalPeriods),
		admin:             solidity.NewAddress(ctx, slotAdmin),
		instances:         make(map[lordchain.Address]*validator.Validator),
	}
	f.admin.Set(admin)
	for quality, amount := range e.Config().MinAmountForQuality {
		if err := f.minAmounts.Set(solidity.Index(quality), new(big.Int).SetUint64(amount)); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Address returns the registry's logical identity.
func (f *Factory) Address() lordchain.Address {
	return f.addr
}

// Admin returns the registry admin.
func (f *Factory) Admin() lordchain.Address {
	return f.admin.Get()
}

// CreateValidator instantiates and registers a new validator, keyed
// deterministically by (quality, owner, id). Admin only. The quality-1
// master must be created first and exactly once.
func (f *Factory) CreateValidator(caller, owner lordchain.Address, quality uint8, verifier lordchain.Address) (*validator.Validator, error) {
	var created *validator.Validator
	err := f.env.Transact(func() error {
		if caller != f.admin.Get() {
			return reverts.ErrNotAdmin
		}
		if owner.IsZero() || verifier.IsZero() {
			return reverts.ErrZeroAddress
		}
		if quality < lordchain.MasterQuality || quality > lordchain.MaxQuality {
			return reverts.ErrQualityWrong
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		if quality == lordchain.MasterQuality && f.master != nil {
			return reverts.ErrNotValidValidator
		}
		if quality != lordchain.MasterQuality && f.master == nil {
			return reverts.ErrNotValidator
		}

		id := f.allValidators.Len()
		addr := lordchain.CreateValidatorAddress(quality, owner, id)
		if _, ok := f.instances[addr]; ok {
			return reverts.ErrNotValidValidator
		}

		count, err := f.nodeCounts.Get(solidity.Index(quality))
		if err != nil {
			return err
		}
		if err := f.nodeCounts.Set(solidity.Index(quality), count+1); err != nil {
			return err
		}
		if _, err := f.allValidators.Append(addr); err != nil {
			return err
		}
		if err := f.registered.Set(addr, true); err != nil {
			return err
		}

		created = validator.New(
			f.env, addr, quality, id, owner, f.admin.Get(), verifier,
			f.handleFor(addr), f.master,
		)
		f.instances[addr] = created
		f.instanceID = append(f.instanceID, addr)
		if quality == lordchain.MasterQuality {
			f.master = created
		}
		if !f.govAddr.IsZero() {
			created.SetGovernanceHandle(f.govAddr, f.govHandle)
		}

		metricValidators().Set(int64(id + 1))
		f.env.State().AddEvent(ValidatorCreatedEvent{Owner: owner, Validator: addr, NewLength: id + 1})
		logger.Info("validator created", "validator", addr, "owner", owner, "quality", quality, "id", id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SetGovernance wires the governance engine across the fleet: every
// existing and future validator accepts boost/stake calls from gov, and
// the master routes vote resets through handle. Admin only.
func (f *Factory) SetGovernance(caller, gov lordchain.Address, handle validator.GovernanceHandle) error {
	return f.env.Transact(func() error {
		if caller != f.admin.Get() {
			return reverts.ErrNotAdmin
		}
		if gov.IsZero() {
			return reverts.ErrZeroAddress
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.govAddr = gov
		f.govHandle = handle
		for _, addr := range f.instanceID {
			f.instances[addr].SetGovernanceHandle(gov, handle)
		}
		return nil
	})
}

// Master returns the quality-1 instance, nil before creation.
func (f *Factory) Master() *validator.Validator {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.master
}

// Get resolves a validator instance by address.
func (f *Factory) Get(addr lordchain.Address) *validator.Validator {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.instances[addr]
}

// GetValidators snapshots the fleet in creation order.
func (f *Factory) GetValidators() []*validator.Validator {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*validator.Validator, 0, len(f.instanceID))
	for _, addr := range f.instanceID {
		out = append(out, f.instances[addr])
	}
	return out
}

// ValidatorCount returns the number of created validators.
func (f *Factory) ValidatorCount() uint64 {
	return f.allValidators.Len()
}

// TotalStakedAmount returns the fleet-wide staked principal.
func (f *Factory) TotalStakedAmount() *big.Int {
	return f.totalStakedAmount.Get()
}

// TotalStakedWallet returns the fleet-wide wallet count.
func (f *Factory) TotalStakedWallet() *big.Int {
	return f.totalStakedWallet.Get()
}

// AddTotalValidators appends a global reward period row for aggregate
// reporting. Admin only.
func (f *Factory) AddTotalValidators(caller lordchain.Address, start, end uint64, totalReward *big.Int) error {
	return f.env.Transact(func() error {
		if caller != f.admin.Get() {
			return reverts.ErrNotAdmin
		}
		if end <= start {
			return reverts.ErrInvalidTimePeriod
		}
		row := &GlobalRewardPeriod{StartTime: start, EndTime: end, TotalReward: totalReward}
		if _, err := f.globalPeriods.Append(row); err != nil {
			return err
		}
		return nil
	})
}

// GlobalRewardPeriodCount returns the number of aggregate reward rows.
func (f *Factory) GlobalRewardPeriodCount() uint64 {
	return f.globalPeriods.Len()
}

// SetMinAmountForQuality overrides the entry threshold (whole tokens) of a
// purchasable tier. Admin only.
func (f *Factory) SetMinAmountForQuality(caller lordchain.Address, quality uint8, amount *big.Int) error {
	return f.env.Transact(func() error {
		if caller != f.admin.Get() {
			return reverts.ErrNotAdmin
		}
		if quality <= lordchain.MasterQuality || quality > lordchain.MaxQuality {
			return reverts.ErrQualityWrong
		}
		return f.minAmounts.Set(solidity.Index(quality), amount)
	})
}

// PageData is one page of the aligned per-validator report arrays.
type PageData struct {
	Validators []*validator.Stats
	Boosts     []*validator.BoostStats
	Users      []*validator.UserStats
}

// GetAllValidatorData returns one page of aligned (validator, boost, user)
// stats arrays across the fleet.
func (f *Factory) GetAllValidatorData(user lordchain.Address, pageIndex, pageSize uint64) (*PageData, error) {
	var page *PageData
	err := f.env.Transact(func() error {
		f.mu.RLock()
		defer f.mu.RUnlock()

		total := uint64(len(f.instanceID))
		start := pageIndex * pageSize
		if pageSize == 0 || start >= total {
			return reverts.ErrPageOutOfBounds
		}
		end := start + pageSize
		if end > total {
			end = total
		}

		page = &PageData{}
		for _, addr := range f.instanceID[start:end] {
			instance := f.instances[addr]
			stats, err := instance.Stats()
			if err != nil {
				return err
			}
			boost, err := instance.BoostStatsView()
			if err != nil {
				return err
			}
			userStats, err := instance.UserStatsView(user)
			if err != nil {
				return err
			}
			page.Validators = append(page.Validators, stats)
			page.Boosts = append(page.Boosts, boost)
			page.Users = append(page.Users, userStats)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}
