// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"math/big"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
)

// ProposalCreatedEvent announces a regular proposal.
type ProposalCreatedEvent struct {
	ID           uint64
	StartTime    uint64
	EndTime      uint64
	MetadataURI  string
	TotalChoices uint64
}

func (ProposalCreatedEvent) EventName() string { return "ProposalCreated" }

// BoostProposalCreatedEvent announces a boost proposal and its snapshot size.
type BoostProposalCreatedEvent struct {
	ID             uint64
	StartTime      uint64
	EndTime        uint64
	BoostReward    *big.Int
	BoostStartTime uint64
	BoostEndTime   uint64
	Validators     uint64
}

func (BoostProposalCreatedEvent) EventName() string { return "BoostProposalCreated" }

// VotedEvent records one cast vote.
type VotedEvent struct {
	User        lordchain.Address
	ID          uint64
	Choice      uint64
	StakeWeight *big.Int
}

func (VotedEvent) EventName() string { return "Voted" }

// BoostRewardTransferredEvent records one validator's share leaving the bank.
type BoostRewardTransferredEvent struct {
	ID        uint64
	Validator lordchain.Address
	Amount    *big.Int
}

func (BoostRewardTransferredEvent) EventName() string { return "BoostRewardTransferred" }

// BoostRewardDistributedEvent closes a boost distribution.
type BoostRewardDistributedEvent struct {
	ID          uint64
	TotalVotes  *big.Int
	Distributed *big.Int
}

func (BoostRewardDistributedEvent) EventName() string { return "BoostRewardDistributed" }

// ProposalCancelledEvent records a cancelled regular proposal.
type ProposalCancelledEvent struct {
	ID uint64
}

func (ProposalCancelledEvent) EventName() string { return "ProposalCancelled" }

// BoostProposalCancelledEvent records a cancelled boost proposal.
type BoostProposalCancelledEvent struct {
	ID uint64
}

func (BoostProposalCancelledEvent) EventName() string { return "BoostProposalCancelled" }

// RewardDistributionExecutedEvent records a proposal moving to Executed.
type RewardDistributionExecutedEvent struct {
	ID         uint64
	VoteReward *big.Int
}

func (RewardDistributionExecutedEvent) EventName() string { return "RewardDistributionExecuted" }

// RewardsClaimedAndLockedEvent records a vote reward restaked into the master.
type RewardsClaimedAndLockedEvent struct {
	ID     uint64
	User   lordchain.Address
	Reward *big.Int
}

func (RewardsClaimedAndLockedEvent) EventName() string { return "RewardsClaimedAndLocked" }
