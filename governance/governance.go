// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"math/big"

	"github.com/blocklords/lordchain-smartcontracts/env"
	"github.com/blocklords/lordchain-smartcontracts/factory"
	"github.com/blocklords/lordchain-smartcontracts/log"
	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/metrics"
	"github.com/blocklords/lordchain-smartcontracts/reverts"
	"github.com/blocklords/lordchain-smartcontracts/solidity"
	"github.com/blocklords/lordchain-smartcontracts/validator"
)

var (
	logger = log.WithContext("pkg", "governance")

	metricProposals = metrics.LazyLoadCounter("governance_proposal_count")
	metricVotes     = metrics.LazyLoadCounter("governance_vote_count")
)

var (
	slotAdmin              = nameToSlot("admin")
	slotBank               = nameToSlot("bank")
	slotProposals          = nameToSlot("proposals")
	slotUserVotes          = nameToSlot("user-votes")
	slotOptionVotes        = nameToSlot("option-votes")
	slotUserTotalVotes     = nameToSlot("user-total-votes")
	slotProposalTotalVotes = nameToSlot("proposal-total-votes")
	slotProposalUserTotal  = nameToSlot("proposal-user-total-votes")
	slotVotedStatus        = nameToSlot("voted-status")
	slotVoteRewards        = nameToSlot("vote-rewards")
	slotRewardClaimed      = nameToSlot("reward-claimed")
)

func nameToSlot(name string) lordchain.Bytes32 {
	return lordchain.BytesToBytes32([]byte(name))
}

// Governance runs the proposal lifecycle, vote accounting bounded by the
// master's veBalance, and boost reward distribution across the fleet.
type Governance struct {
	env     *env.Environment
	addr    lordchain.Address
	master  *validator.Validator
	factory *factory.Factory

	admin              *solidity.Address
	bank               *solidity.Address
	proposals          *solidity.Array[*Proposal]
	userVotes          *solidity.Mapping[voteKey, *big.Int]
	optionVotes        *solidity.Mapping[optionKey, *big.Int]
	userTotalVotes     *solidity.Mapping[lordchain.Address, *big.Int]
	proposalTotalVotes *solidity.Mapping[solidity.Index, *big.Int]
	proposalUserTotal  *solidity.Mapping[userKey, *big.Int]
	votedStatus        *solidity.Mapping[userKey, bool]
	voteRewards        *solidity.Mapping[solidity.Index, *big.Int]
	rewardClaimed      *solidity.Mapping[userKey, bool]
}

// New creates the governance engine. bank is the account funding vote and
// boost rewards.
func New(e *env.Environment, addr, admin, bank lordchain.Address, f *factory.Factory) *Governance {
	ctx := solidity.NewContext(addr, e.State())
	g := &Governance{
		env:                e,
		addr:               addr,
		master:             f.Master(),
		factory:            f,
		admin:              solidity.NewAddress(ctx, slotAdmin),
		bank:               solidity.NewAddress(ctx, slotBank),
		proposals:          solidity.NewArray[*Proposal](ctx, slotProposals),
		userVotes:          solidity.NewMapping[voteKey, *big.Int](ctx, slotUserVotes),
		optionVotes:        solidity.NewMapping[optionKey, *big.Int](ctx, slotOptionVotes),
		userTotalVotes:     solidity.NewMapping[lordchain.Address, *big.Int](ctx, slotUserTotalVotes),
		proposalTotalVotes: solidity.NewMapping[solidity.Index, *big.Int](ctx, slotProposalTotalVotes),
		proposalUserTotal:  solidity.NewMapping[userKey, *big.Int](ctx, slotProposalUserTotal),
		votedStatus:        solidity.NewMapping[userKey, bool](ctx, slotVotedStatus),
		voteRewards:        solidity.NewMapping[solidity.Index, *big.Int](ctx, slotVoteRewards),
		rewardClaimed:      solidity.NewMapping[userKey, bool](ctx, slotRewardClaimed),
	}
	g.admin.Set(admin)
	g.bank.Set(bank)
	return g
}

// Address returns the engine's logical identity.
func (g *Governance) Address() lordchain.Address {
	return g.addr
}

// ResetVotes clears a user's global vote budget. Callable only by the
// master validator, from inside its transaction, when a lock is withdrawn
// or revived after expiry.
func (g *Governance) ResetVotes(caller, user lordchain.Address) error {
	if g.master == nil || caller != g.master.Address() {
		return reverts.ErrNotValidator
	}
	return g.userTotalVotes.Set(user, new(big.Int))
}

var _ validator.GovernanceHandle = (*Governance)(nil)

//
// Views
//

// ProposalCount returns the number of proposals ever created.
func (g *Governance) ProposalCount() uint64 {
	return g.proposals.Len()
}

// GetProposal returns the proposal by sequential id.
func (g *Governance) GetProposal(id uint64) (*Proposal, error) {
	if id >= g.proposals.Len() {
		return nil, reverts.ErrNoSuchOption
	}
	p, err := g.proposals.Get(id)
	if err != nil {
		return nil, err
	}
	return p.normalize(), nil
}

// UserTotalVotes returns the user's consumed vote budget.
func (g *Governance) UserTotalVotes(user lordchain.Address) (*big.Int, error) {
	return g.userTotalVotes.Get(user)
}

// UserVote returns the stake weight placed by user on (id, choice).
func (g *Governance) UserVote(id uint64, user lordchain.Address, choice uint64) (*big.Int, error) {
	return g.userVotes.Get(voteKey{id: id, user: user, choice: choice})
}

// OptionVotes returns the tally of one choice.
func (g *Governance) OptionVotes(id, choice uint64) (*big.Int, error) {
	return g.optionVotes.Get(optionKey{id: id, choice: choice})
}

// ProposalTotalVotes returns the total stake weight cast on a proposal.
func (g *Governance) ProposalTotalVotes(id uint64) (*big.Int, error) {
	return g.proposalTotalVotes.Get(solidity.Index(id))
}

// VoteReward returns the escrowed vote reward of a proposal.
func (g *Governance) VoteReward(id uint64) (*big.Int, error) {
	return g.voteRewards.Get(solidity.Index(id))
}

// HasVoted reports whether the user voted on the proposal.
func (g *Governance) HasVoted(id uint64, user lordchain.Address) (bool, error) {
	return g.votedStatus.Get(userKey{id: id, user: user})
}

// HasClaimedReward reports whether the user claimed the vote reward.
func (g *Governance) HasClaimedReward(id uint64, user lordchain.Address) (bool, error) {
	return g.rewardClaimed.Get(userKey{id: id, user: user})
}

func (g *Governance) requireAdmin(caller lordchain.Address) error {
	if caller != g.admin.Get() {
		return reverts.ErrNotAdmin
	}
	return nil
}

func (g *Governance) getProposal(id uint64) (*Proposal, error) {
	if id >= g.proposals.Len() {
		return nil, reverts.ErrNoSuchOption
	}
	p, err := g.proposals.Get(id)
	if err != nil {
		return nil, err
	}
	return p.normalize(), nil
}

func (g *Governance) setProposal(id uint64, p *Proposal) error {
	return g.proposals.Set(id, p.normalize())
}
