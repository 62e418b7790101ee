// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"math/big"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/reverts"
)

// AddBoostReward distributes a boost proposal's pool across its snapshot
// validators, proportional to vote share, and opens a boost period on
// each recipient. Runs in the gap between voting end and boost start.
// Rounding dust is forgone: the pool is zeroed after distribution.
// Admin only.
func (g *Governance) AddBoostReward(caller lordchain.Address, id uint64) error {
	return g.env.Transact(func() error {
		if err := g.requireAdmin(caller); err != nil {
			return err
		}
		proposal, err := g.getProposal(id)
		if err != nil {
			return err
		}
		if !proposal.IsBoost || proposal.Status != StatusPending {
			return reverts.ErrWrongStatus
		}
		now := g.env.Now()
		if now < proposal.EndTime || now > proposal.BoostStartTime {
			return reverts.ErrRewardDistributionNotAllowed
		}
		if proposal.BoostReward.Sign() == 0 {
			return reverts.ErrNoReward
		}

		totalVotes := new(big.Int)
		shares := make([]*big.Int, len(proposal.Validators))
		for i := range proposal.Validators {
			option, err := g.optionVotes.Get(optionKey{id: id, choice: uint64(i)})
			if err != nil {
				return err
			}
			shares[i] = option
			totalVotes.Add(totalVotes, option)
		}
		if totalVotes.Sign() == 0 {
			return reverts.ErrNoVotes
		}

		bank := g.bank.Get()
		distributed := new(big.Int)
		for i, addr := range proposal.Validators {
			share := new(big.Int).Mul(shares[i], proposal.BoostReward)
			share.Div(share, totalVotes)
			if share.Sign() == 0 {
				continue
			}

			instance := g.factory.Get(addr)
			if instance == nil {
				return reverts.ErrNotValidValidator
			}
			if err := g.env.Ledger().Transfer(bank, addr, share); err != nil {
				return err
			}
			if err := instance.AddBoostReward(g.addr, proposal.BoostStartTime, proposal.BoostEndTime, share); err != nil {
				return err
			}

			distributed.Add(distributed, share)
			g.env.State().AddEvent(BoostRewardTransferredEvent{ID: id, Validator: addr, Amount: share})
		}

		// prevent double distribution; the integer-division residue stays
		// with the bank
		proposal.BoostReward = new(big.Int)
		if err := g.setProposal(id, proposal); err != nil {
			return err
		}

		g.env.State().AddEvent(BoostRewardDistributedEvent{ID: id, TotalVotes: totalVotes, Distributed: distributed})
		logger.Info("boost reward distributed", "id", id,
			"distributed", new(big.Int).Div(distributed, lordchain.Multiplier))
		return nil
	})
}
