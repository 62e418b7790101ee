// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package factory

import (
	"math/big"

	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/reverts"
	"github.com/blocklords/lordchain-smartcontracts/solidity"
	"github.com/blocklords/lordchain-smartcontracts/validator"
)

// boundHandle is the factory capability handed to one validator. Counter
// updates carry the validator's identity and are rejected unless it is
// registered.
type boundHandle struct {
	factory *Factory
	addr    lordchain.Address
}

var _ validator.FactoryHandle = (*boundHandle)(nil)

func (f *Factory) handleFor(addr lordchain.Address) validator.FactoryHandle {
	return &boundHandle{factory: f, addr: addr}
}

func (h *boundHandle) requireRegistered() error {
	ok, err := h.factory.registered.Get(h.addr)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrNotRegisteredValidator
	}
	return nil
}

func (h *boundHandle) AddTotalStakedAmount(amount *big.Int) error {
	if err := h.requireRegistered(); err != nil {
		return err
	}
	if err := h.factory.totalStakedAmount.Add(amount); err != nil {
		return err
	}
	h.factory.publishGauges()
	return nil
}

func (h *boundHandle) SubTotalStakedAmount(amount *big.Int) error {
	if err := h.requireRegistered(); err != nil {
		return err
	}
	if h.factory.totalStakedAmount.Get().Cmp(amount) < 0 {
		return reverts.ErrNotEnoughAmount
	}
	if err := h.factory.totalStakedAmount.Sub(amount); err != nil {
		return err
	}
	h.factory.publishGauges()
	return nil
}

func (h *boundHandle) AddTotalStakedWallet() error {
	if err := h.requireRegistered(); err != nil {
		return err
	}
	if err := h.factory.totalStakedWallet.Add(big.NewInt(1)); err != nil {
		return err
	}
	h.factory.publishGauges()
	return nil
}

func (h *boundHandle) SubTotalStakedWallet() error {
	if err := h.requireRegistered(); err != nil {
		return err
	}
	if h.factory.totalStakedWallet.Get().Sign() == 0 {
		return reverts.ErrNotEnoughWallet
	}
	if err := h.factory.totalStakedWallet.Sub(big.NewInt(1)); err != nil {
		return err
	}
	h.factory.publishGauges()
	return nil
}

func (h *boundHandle) IsRegisteredValidator(addr lordchain.Address) bool {
	ok, err := h.factory.registered.Get(addr)
	return err == nil && ok
}

func (h *boundHandle) MinAmountForQuality(quality uint8) (*big.Int, error) {
	return h.factory.minAmounts.Get(solidity.Index(quality))
}

func (f *Factory) publishGauges() {
	staked := new(big.Int).Div(f.totalStakedAmount.Get(), lordchain.Multiplier)
	metricTotalStaked().Set(staked.Int64())
	metricTotalWallets().Set(f.totalStakedWallet.Get().Int64())
}
