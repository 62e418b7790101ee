// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/stackedmap"
)

// storageKey locates one storage slot of one contract instance.
type storageKey struct {
	addr lordchain.Address
	slot lordchain.Bytes32
}

// Event is an event journaled by a contract operation.
// Events revert together with the state mutations of the operation
// that emitted them.
type Event interface {
	EventName() string
}

type checkpoint struct {
	depth  int
	events int
}

// State is in-memory keyed storage with checkpoint/revert and an event journal.
// It provides checkpoint/revert semantics: every mutation and journaled
// event between NewCheckpoint and RevertTo is undone atomically.
type State struct {
	sm          *stackedmap.StackedMap[storageKey, []byte]
	base        map[storageKey][]byte
	events      []Event
	checkpoints []checkpoint
}

// New creates a fresh in-memory state.
func New() *State {
	s := &State{base: make(map[storageKey][]byte)}
	s.resetStack()
	return s
}

func (s *State) resetStack() {
	s.sm = stackedmap.New(func(key storageKey) ([]byte, bool) {
		v, ok := s.base[key]
		return v, ok
	})
	s.sm.Push() // root level, never popped
}

// NewCheckpoint makes a checkpoint of the current state.
// It returns a checkpoint revision to be passed to RevertTo.
func (s *State) NewCheckpoint() int {
	s.sm.Push()
	s.checkpoints = append(s.checkpoints, checkpoint{
		depth:  s.sm.Depth(),
		events: len(s.events),
	})
	return len(s.checkpoints) - 1
}

// RevertTo reverts the state and the event journal to the given checkpoint.
func (s *State) RevertTo(revision int) {
	cp := s.checkpoints[revision]
	s.sm.PopTo(cp.depth - 1)
	s.events = s.events[:cp.events]
	s.checkpoints = s.checkpoints[:revision]
}

// Commit releases the given checkpoint, keeping its mutations.
// Releasing the outermost checkpoint folds the journal into the base map
// so the stack does not grow with the number of committed operations.
func (s *State) Commit(revision int) {
	s.checkpoints = s.checkpoints[:revision]
	if len(s.checkpoints) == 0 {
		s.sm.Journal(func(key storageKey, value []byte) bool {
			s.base[key] = value
			return true
		})
		s.resetStack()
	}
}

// GetRawStorage returns the raw rlp bytes stored at (addr, slot).
func (s *State) GetRawStorage(addr lordchain.Address, slot lordchain.Bytes32) []byte {
	v, _ := s.sm.Get(storageKey{addr, slot})
	return v
}

// SetRawStorage stores raw rlp bytes at (addr, slot).
func (s *State) SetRawStorage(addr lordchain.Address, slot lordchain.Bytes32, raw []byte) {
	s.sm.Put(storageKey{addr, slot}, raw)
}

// GetStorage returns the 32-byte word stored at (addr, slot).
func (s *State) GetStorage(addr lordchain.Address, slot lordchain.Bytes32) lordchain.Bytes32 {
	raw := s.GetRawStorage(addr, slot)
	if len(raw) == 0 {
		return lordchain.Bytes32{}
	}
	return lordchain.BytesToBytes32(raw)
}

// SetStorage stores a 32-byte word at (addr, slot).
// Zero words are stored as empty to keep IsZero round-trips cheap.
func (s *State) SetStorage(addr lordchain.Address, slot, value lordchain.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, slot, nil)
		return
	}
	s.SetRawStorage(addr, slot, value.Bytes())
}

// DecodeStorage decodes the structured value stored at (addr, slot).
// Missing slots leave val untouched.
func (s *State) DecodeStorage(addr lordchain.Address, slot lordchain.Bytes32, val any) error {
	raw := s.GetRawStorage(addr, slot)
	if len(raw) == 0 {
		return nil
	}
	if err := rlp.DecodeBytes(raw, val); err != nil {
		return errors.Wrap(err, "decode storage")
	}
	return nil
}

// EncodeStorage rlp-encodes the structured value into (addr, slot).
func (s *State) EncodeStorage(addr lordchain.Address, slot lordchain.Bytes32, val any) error {
	raw, err := rlp.EncodeToBytes(val)
	if err != nil {
		return errors.Wrap(err, "encode storage")
	}
	s.SetRawStorage(addr, slot, raw)
	return nil
}

// AddEvent journals an event emitted by the current operation.
func (s *State) AddEvent(ev Event) {
	s.events = append(s.events, ev)
}

// Events returns all committed and in-flight events in emission order.
func (s *State) Events() []Event {
	return s.events
}
