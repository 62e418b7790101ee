// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package env

import (
	"sync"

	"github.com/blocklords/lordchain-smartcontracts/clock"
	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/state"
	"github.com/blocklords/lordchain-smartcontracts/token"
)

// Environment is the shared execution context of one deployment: state,
// clock, token ledger and the protocol-wide serialization lock.
//
// Every externally callable operation runs as a transaction: it takes the
// lock, checkpoints the state, and either commits all mutations and events
// or reverts them entirely. Cross-component calls made while a transaction
// is running happen in-process under the same lock; components must not
// re-enter a public entry point from inside a transaction.
type Environment struct {
	mu     sync.Mutex
	state  *state.State
	clock  clock.Clock
	ledger token.Ledger
	config *lordchain.Config
}

func New(st *state.State, clk clock.Clock, ledger token.Ledger, config *lordchain.Config) *Environment {
	if config == nil {
		config = lordchain.DefaultConfig()
	}
	return &Environment{
		state:  st,
		clock:  clk,
		ledger: ledger,
		config: config,
	}
}

// State returns the shared protocol state.
func (e *Environment) State() *state.State {
	return e.state
}

// Ledger returns the token port.
func (e *Environment) Ledger() token.Ledger {
	return e.ledger
}

// Config returns the protocol parameters.
func (e *Environment) Config() *lordchain.Config {
	return e.config
}

// Now reads the clock.
func (e *Environment) Now() uint64 {
	return e.clock.Now()
}

// Transact serializes fn against all other operations and makes it atomic:
// on error, state mutations and journaled events since entry are undone.
func (e *Environment) Transact(fn func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	checkpoint := e.state.NewCheckpoint()
	if err := fn(); err != nil {
		e.state.RevertTo(checkpoint)
		return err
	}
	e.state.Commit(checkpoint)
	return nil
}
