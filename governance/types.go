// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"encoding/binary"
	"math/big"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
)

// ProposalStatus lifecycle of a proposal. Executed and Cancelled are terminal.
type ProposalStatus = uint8

const (
	StatusPending ProposalStatus = iota
	StatusExecuted
	StatusCancelled
)

// Proposal covers both regular and boost proposals. Boost proposals carry
// the reward window and a snapshot of the claimed validators taken at
// creation; choice i maps to Validators[i].
type Proposal struct {
	StartTime    uint64
	EndTime      uint64
	MetadataURI  string
	TotalChoices uint64
	Status       ProposalStatus
	IsBoost      bool

	BoostReward    *big.Int
	BoostStartTime uint64
	BoostEndTime   uint64
	Validators     []lordchain.Address
}

func (p *Proposal) normalize() *Proposal {
	if p.BoostReward == nil {
		p.BoostReward = new(big.Int)
	}
	return p
}

// voteKey keys a user's stake on one choice of one proposal.
type voteKey struct {
	id     uint64
	user   lordchain.Address
	choice uint64
}

func (k voteKey) Bytes() []byte {
	b := make([]byte, 8, 8+lordchain.AddressLength+8)
	binary.BigEndian.PutUint64(b, k.id)
	b = append(b, k.user.Bytes()...)
	var c [8]byte
	binary.BigEndian.PutUint64(c[:], k.choice)
	return append(b, c[:]...)
}

// userKey keys per-(proposal, user) rows.
type userKey struct {
	id   uint64
	user lordchain.Address
}

func (k userKey) Bytes() []byte {
	b := make([]byte, 8, 8+lordchain.AddressLength)
	binary.BigEndian.PutUint64(b, k.id)
	return append(b, k.user.Bytes()...)
}

// optionKey keys per-(proposal, choice) tallies.
type optionKey struct {
	id     uint64
	choice uint64
}

func (k optionKey) Bytes() []byte {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], k.id)
	binary.BigEndian.PutUint64(b[8:], k.choice)
	return b[:]
}
