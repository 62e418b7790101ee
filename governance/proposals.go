// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"math/big"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/reverts"
	"github.com/blocklords/lordchain-smartcontracts/solidity"
)

// CreateProposal opens a regular proposal. Admin only.
func (g *Governance) CreateProposal(caller lordchain.Address, start, end uint64, uri string, totalChoices uint64) (uint64, error) {
	var id uint64
	err := g.env.Transact(func() error {
		if err := g.requireAdmin(caller); err != nil {
			return err
		}
		now := g.env.Now()
		if start >= end || now > start {
			return reverts.ErrWrongTime
		}
		if totalChoices == 0 {
			return reverts.ErrNoSuchOption
		}

		proposal := &Proposal{
			StartTime:    start,
			EndTime:      end,
			MetadataURI:  uri,
			TotalChoices: totalChoices,
			Status:       StatusPending,
		}
		var err error
		if id, err = g.proposals.Append(proposal.normalize()); err != nil {
			return err
		}

		metricProposals().Add(1)
		g.env.State().AddEvent(ProposalCreatedEvent{
			ID: id, StartTime: start, EndTime: end, MetadataURI: uri, TotalChoices: totalChoices,
		})
		logger.Info("proposal created", "id", id, "start", start, "end", end, "choices", totalChoices)
		return nil
	})
	return id, err
}

// CreateBoostProposal opens a boost proposal. The claimed validators are
// snapshotted at creation; choice i maps to the i-th snapshot entry.
// Admin only.
func (g *Governance) CreateBoostProposal(
	caller lordchain.Address,
	start, end uint64,
	uri string,
	boostReward *big.Int,
	boostStart, boostEnd uint64,
) (uint64, error) {
	var id uint64
	err := g.env.Transact(func() error {
		if err := g.requireAdmin(caller); err != nil {
			return err
		}
		now := g.env.Now()
		if start >= end || now > start {
			return reverts.ErrWrongTime
		}
		if end >= boostStart || boostStart >= boostEnd {
			return reverts.ErrWrongBoostTime
		}
		if boostReward == nil || boostReward.Sign() <= 0 {
			return reverts.ErrInvalidBoostReward
		}

		var snapshot []lordchain.Address
		for _, instance := range g.factory.GetValidators() {
			if instance.IsClaimed() {
				snapshot = append(snapshot, instance.Address())
			}
		}
		if len(snapshot) == 0 {
			return reverts.ErrNotValidValidator
		}

		proposal := &Proposal{
			StartTime:      start,
			EndTime:        end,
			MetadataURI:    uri,
			TotalChoices:   uint64(len(snapshot)),
			Status:         StatusPending,
			IsBoost:        true,
			BoostReward:    boostReward,
			BoostStartTime: boostStart,
			BoostEndTime:   boostEnd,
			Validators:     snapshot,
		}
		var err error
		if id, err = g.proposals.Append(proposal); err != nil {
			return err
		}

		metricProposals().Add(1)
		g.env.State().AddEvent(BoostProposalCreatedEvent{
			ID: id, StartTime: start, EndTime: end,
			BoostReward: boostReward, BoostStartTime: boostStart, BoostEndTime: boostEnd,
			Validators: uint64(len(snapshot)),
		})
		logger.Info("boost proposal created", "id", id, "validators", len(snapshot),
			"reward", new(big.Int).Div(boostReward, lordchain.Multiplier))
		return nil
	})
	return id, err
}

// SetVoteReward escrows the pull-based vote reward of a proposal. Admin only.
func (g *Governance) SetVoteReward(caller lordchain.Address, id uint64, amount *big.Int) error {
	return g.env.Transact(func() error {
		if err := g.requireAdmin(caller); err != nil {
			return err
		}
		if amount == nil || amount.Sign() == 0 {
			return reverts.ErrZeroAmount
		}
		if _, err := g.getProposal(id); err != nil {
			return err
		}
		return g.voteRewards.Set(solidity.Index(id), amount)
	})
}

// ExecuteVoteRewardProposal transitions a funded proposal to Executed once
// voting closed. Payout stays pull-based through ClaimAndLock. Admin only.
func (g *Governance) ExecuteVoteRewardProposal(caller lordchain.Address, id uint64) error {
	return g.env.Transact(func() error {
		if err := g.requireAdmin(caller); err != nil {
			return err
		}
		proposal, err := g.getProposal(id)
		if err != nil {
			return err
		}
		if g.env.Now() <= proposal.EndTime {
			return reverts.ErrTimeIsNotUp
		}
		if proposal.Status != StatusPending {
			return reverts.ErrWrongStatus
		}
		reward, err := g.voteRewards.Get(solidity.Index(id))
		if err != nil {
			return err
		}
		if reward.Sign() == 0 {
			return reverts.ErrNoReward
		}

		proposal.Status = StatusExecuted
		if err := g.setProposal(id, proposal); err != nil {
			return err
		}

		g.env.State().AddEvent(RewardDistributionExecutedEvent{ID: id, VoteReward: reward})
		logger.Info("vote reward proposal executed", "id", id)
		return nil
	})
}

// CancelProposal cancels a pending proposal that holds no staked vote
// weight. Admin only.
func (g *Governance) CancelProposal(caller lordchain.Address, id uint64) error {
	return g.env.Transact(func() error {
		if err := g.requireAdmin(caller); err != nil {
			return err
		}
		proposal, err := g.getProposal(id)
		if err != nil {
			return err
		}
		if proposal.Status != StatusPending {
			return reverts.ErrWrongStatus
		}
		total, err := g.proposalTotalVotes.Get(solidity.Index(id))
		if err != nil {
			return err
		}
		if total.Sign() > 0 {
			return reverts.ErrProposalHasStakedVotes
		}

		proposal.Status = StatusCancelled
		if err := g.setProposal(id, proposal); err != nil {
			return err
		}

		if proposal.IsBoost {
			g.env.State().AddEvent(BoostProposalCancelledEvent{ID: id})
		} else {
			g.env.State().AddEvent(ProposalCancelledEvent{ID: id})
		}
		logger.Info("proposal cancelled", "id", id, "boost", proposal.IsBoost)
		return nil
	})
}
