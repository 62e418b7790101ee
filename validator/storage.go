// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/solidity"
	"github.com/blocklords/lordchain-smartcontracts/state"
)

var (
	slotUsers       = nameToSlot("users")
	slotBoostDebts  = nameToSlot("boost-debts")
	slotPeriods     = nameToSlot("reward-periods")
	slotBoosts      = nameToSlot("boost-rewards")
	slotTotalStaked = nameToSlot("total-staked")

	slotOwner      = nameToSlot("owner")
	slotAdmin      = nameToSlot("admin")
	slotPauser     = nameToSlot("pauser")
	slotVerifier   = nameToSlot("verifier")
	slotGovernance = nameToSlot("governance")
	slotQuality    = nameToSlot("quality")
	slotID         = nameToSlot("id")
	slotName       = nameToSlot("name")
	slotDepositFee = nameToSlot("deposit-fee")
	slotClaimFee   = nameToSlot("claim-fee")
	slotPaused     = nameToSlot("paused")
	slotClaimed    = nameToSlot("claimed")

	// master-only purchase registry
	slotHavePurchased = nameToSlot("have-purchased")
	slotPlayerCosts   = nameToSlot("player-validator-costs")
)

func nameToSlot(name string) lordchain.Bytes32 {
	return lordchain.BytesToBytes32([]byte(name))
}

// storage is the root storage of one validator instance.
type storage struct {
	context *solidity.Context

	users      *solidity.Mapping[lordchain.Address, *UserInfo]
	boostDebts *solidity.Mapping[lordchain.Address, *big.Int]
	periods    *solidity.Array[*RewardPeriod]
	boosts     *solidity.Array[*RewardPeriod]

	totalStaked *solidity.Uint256

	owner      *solidity.Address
	admin      *solidity.Address
	pauser     *solidity.Address
	verifier   *solidity.Address
	governance *solidity.Address
	quality    *solidity.Uint64
	id         *solidity.Uint64
	name       *solidity.String
	depositFee *solidity.Uint64
	claimFee   *solidity.Uint64
	paused     *solidity.Bool
	claimed    *solidity.Bool

	havePurchased *solidity.Mapping[purchaseKey, bool]
	playerCosts   *solidity.Mapping[lordchain.Address, *big.Int]
}

func newStorage(addr lordchain.Address, st *state.State) *storage {
	context := solidity.NewContext(addr, st)
	return &storage{
		context:       context,
		users:         solidity.NewMapping[lordchain.Address, *UserInfo](context, slotUsers),
		boostDebts:    solidity.NewMapping[lordchain.Address, *big.Int](context, slotBoostDebts),
		periods:       solidity.NewArray[*RewardPeriod](context, slotPeriods),
		boosts:        solidity.NewArray[*RewardPeriod](context, slotBoosts),
		totalStaked:   solidity.NewUint256(context, slotTotalStaked),
		owner:         solidity.NewAddress(context, slotOwner),
		admin:         solidity.NewAddress(context, slotAdmin),
		pauser:        solidity.NewAddress(context, slotPauser),
		verifier:      solidity.NewAddress(context, slotVerifier),
		governance:    solidity.NewAddress(context, slotGovernance),
		quality:       solidity.NewUint64(context, slotQuality),
		id:            solidity.NewUint64(context, slotID),
		name:          solidity.NewString(context, slotName),
		depositFee:    solidity.NewUint64(context, slotDepositFee),
		claimFee:      solidity.NewUint64(context, slotClaimFee),
		paused:        solidity.NewBool(context, slotPaused),
		claimed:       solidity.NewBool(context, slotClaimed),
		havePurchased: solidity.NewMapping[purchaseKey, bool](context, slotHavePurchased),
		playerCosts:   solidity.NewMapping[lordchain.Address, *big.Int](context, slotPlayerCosts),
	}
}

func (s *storage) GetUser(user lordchain.Address) (*UserInfo, error) {
	u, err := s.users.Get(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user info")
	}
	return u.normalize(), nil
}

func (s *storage) SetUser(user lordchain.Address, info *UserInfo) error {
	if err := s.users.Set(user, info.normalize()); err != nil {
		return errors.Wrap(err, "failed to set user info")
	}
	return nil
}

func (s *storage) GetBoostDebt(user lordchain.Address) (*big.Int, error) {
	debt, err := s.boostDebts.Get(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get boost debt")
	}
	return debt, nil
}

func (s *storage) SetBoostDebt(user lordchain.Address, debt *big.Int) error {
	if err := s.boostDebts.Set(user, debt); err != nil {
		return errors.Wrap(err, "failed to set boost debt")
	}
	return nil
}

func (s *storage) GetPeriod(series *solidity.Array[*RewardPeriod], i uint64) (*RewardPeriod, error) {
	p, err := series.Get(i)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reward period")
	}
	return p.normalize(), nil
}

func (s *storage) SetPeriod(series *solidity.Array[*RewardPeriod], i uint64, p *RewardPeriod) error {
	if err := series.Set(i, p.normalize()); err != nil {
		return errors.Wrap(err, "failed to set reward period")
	}
	return nil
}

func (s *storage) AppendPeriod(series *solidity.Array[*RewardPeriod], p *RewardPeriod) (uint64, error) {
	i, err := series.Append(p.normalize())
	if err != nil {
		return 0, errors.Wrap(err, "failed to append reward period")
	}
	return i, nil
}
