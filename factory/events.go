// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package factory

import "github.com/blocklords/lordchain-smartcontracts/lordchain"

// ValidatorCreatedEvent is emitted for every registered validator.
type ValidatorCreatedEvent struct {
	Owner     lordchain.Address
	Validator lordchain.Address
	NewLength uint64
}

func (ValidatorCreatedEvent) EventName() string { return "ValidatorCreated" }
