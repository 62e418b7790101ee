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

// Vote allocates a percentage of the caller's unspent veBalance to one
// choice. A user votes at most once per proposal.
func (g *Governance) Vote(caller lordchain.Address, id, choice, weight uint64) error {
	return g.env.Transact(func() error {
		logger.Debug("vote", "user", caller, "id", id, "choice", choice, "weight", weight)

		if weight < lordchain.MinVoteWeight || weight > lordchain.MaxVoteWeight {
			return reverts.ErrInvalidWeight
		}
		proposal, err := g.getProposal(id)
		if err != nil {
			return err
		}
		voted, err := g.votedStatus.Get(userKey{id: id, user: caller})
		if err != nil {
			return err
		}
		if voted {
			return reverts.ErrUserIsVoted
		}
		now := g.env.Now()
		if now < proposal.StartTime || now > proposal.EndTime {
			return reverts.ErrVotingNotOpen
		}
		if proposal.Status != StatusPending {
			return reverts.ErrWrongStatus
		}
		if proposal.IsBoost {
			if choice >= uint64(len(proposal.Validators)) || proposal.Validators[choice].IsZero() {
				return reverts.ErrNoSuchOption
			}
		} else if choice >= proposal.TotalChoices {
			return reverts.ErrNoSuchOption
		}

		veBalance, err := g.master.VeBalanceAt(caller, now)
		if err != nil {
			return err
		}
		if veBalance.Sign() == 0 {
			return reverts.ErrZeroVelrds
		}
		userTotal, err := g.userTotalVotes.Get(caller)
		if err != nil {
			return err
		}
		if userTotal.Cmp(veBalance) > 0 {
			return reverts.ErrExceedsAvailableWeight
		}

		// stakeWeight = (veBalance - userTotalVotes) * weight / 100
		stakeWeight := new(big.Int).Sub(veBalance, userTotal)
		stakeWeight.Mul(stakeWeight, new(big.Int).SetUint64(weight))
		stakeWeight.Div(stakeWeight, new(big.Int).SetUint64(lordchain.MaxVoteWeight))

		if err := g.userVotes.Set(voteKey{id: id, user: caller, choice: choice}, stakeWeight); err != nil {
			return err
		}
		option, err := g.optionVotes.Get(optionKey{id: id, choice: choice})
		if err != nil {
			return err
		}
		if err := g.optionVotes.Set(optionKey{id: id, choice: choice}, new(big.Int).Add(option, stakeWeight)); err != nil {
			return err
		}
		if err := g.userTotalVotes.Set(caller, new(big.Int).Add(userTotal, stakeWeight)); err != nil {
			return err
		}
		total, err := g.proposalTotalVotes.Get(solidity.Index(id))
		if err != nil {
			return err
		}
		if err := g.proposalTotalVotes.Set(solidity.Index(id), new(big.Int).Add(total, stakeWeight)); err != nil {
			return err
		}
		if err := g.proposalUserTotal.Set(userKey{id: id, user: caller}, stakeWeight); err != nil {
			return err
		}
		if err := g.votedStatus.Set(userKey{id: id, user: caller}, true); err != nil {
			return err
		}

		metricVotes().Add(1)
		g.env.State().AddEvent(VotedEvent{User: caller, ID: id, Choice: choice, StakeWeight: stakeWeight})
		logger.Info("voted", "user", caller, "id", id, "choice", choice)
		return nil
	})
}

// ClaimAndLock pays the caller's share of an executed proposal's vote
// reward by restaking it into the master validator. The principal moves
// bank → master; the master deposit charges no fee.
func (g *Governance) ClaimAndLock(caller lordchain.Address, id uint64) error {
	return g.env.Transact(func() error {
		proposal, err := g.getProposal(id)
		if err != nil {
			return err
		}
		if proposal.Status != StatusExecuted {
			return reverts.ErrWrongStatus
		}
		voted, err := g.votedStatus.Get(userKey{id: id, user: caller})
		if err != nil {
			return err
		}
		if !voted {
			return reverts.ErrUserIsNotVoted
		}
		claimed, err := g.rewardClaimed.Get(userKey{id: id, user: caller})
		if err != nil {
			return err
		}
		if claimed {
			return reverts.ErrRewardAlreadyClaimed
		}

		userStake, err := g.proposalUserTotal.Get(userKey{id: id, user: caller})
		if err != nil {
			return err
		}
		totalStake, err := g.proposalTotalVotes.Get(solidity.Index(id))
		if err != nil {
			return err
		}
		voteReward, err := g.voteRewards.Get(solidity.Index(id))
		if err != nil {
			return err
		}

		reward := new(big.Int).Mul(userStake, voteReward)
		reward.Div(reward, totalStake)
		if reward.Sign() == 0 {
			return reverts.ErrZeroAmount
		}

		if err := g.env.Ledger().Transfer(g.bank.Get(), g.master.Address(), reward); err != nil {
			return err
		}
		if err := g.master.StakeFor(g.addr, caller, reward); err != nil {
			return err
		}
		if err := g.rewardClaimed.Set(userKey{id: id, user: caller}, true); err != nil {
			return err
		}

		g.env.State().AddEvent(RewardsClaimedAndLockedEvent{ID: id, User: caller, Reward: reward})
		logger.Info("vote reward claimed and locked", "id", id, "user", caller,
			"reward", new(big.Int).Div(reward, lordchain.Multiplier))
		return nil
	})
}
