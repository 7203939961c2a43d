// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package shares tracks each participant's staked share balance and the
// total shares outstanding. Shares are the unit of account for reward
// allocation; accounts are created lazily on first touch.
package shares

import (
	"math/big"

	"github.com/mare-finance/staked-distributor/distributor/reverts"
	"github.com/mare-finance/staked-distributor/mare"
	"github.com/mare-finance/staked-distributor/state"
)

var (
	slotTotalSupply = mare.Blake2b([]byte("shares-total-supply"))
	slotTotalMinted = mare.Blake2b([]byte("shares-total-minted"))
	slotTotalBurned = mare.Blake2b([]byte("shares-total-burned"))
)

func accountKey(addr mare.Address) mare.Bytes32 {
	return mare.Blake2b([]byte("shares-account"), addr.Bytes())
}

// Service is the share ledger.
type Service struct {
	state *state.State
}

// New create a new instance.
func New(st *state.State) *Service {
	return &Service{state: st}
}

// Get returns the share balance of the given participant.
func (s *Service) Get(addr mare.Address) (*big.Int, error) {
	balance := new(big.Int)
	if err := s.state.GetStorage(accountKey(addr), balance); err != nil {
		return nil, err
	}
	return balance, nil
}

// TotalSupply returns total shares outstanding.
func (s *Service) TotalSupply() (*big.Int, error) {
	supply := new(big.Int)
	if err := s.state.GetStorage(slotTotalSupply, supply); err != nil {
		return nil, err
	}
	return supply, nil
}

// TotalMinted returns lifetime minted shares, for conservation audits.
func (s *Service) TotalMinted() (*big.Int, error) {
	total := new(big.Int)
	if err := s.state.GetStorage(slotTotalMinted, total); err != nil {
		return nil, err
	}
	return total, nil
}

// TotalBurned returns lifetime burned shares, for conservation audits.
func (s *Service) TotalBurned() (*big.Int, error) {
	total := new(big.Int)
	if err := s.state.GetStorage(slotTotalBurned, total); err != nil {
		return nil, err
	}
	return total, nil
}

// Mint increases the participant's balance and the total supply by amount.
func (s *Service) Mint(addr mare.Address, amount *big.Int) error {
	balance, err := s.Get(addr)
	if err != nil {
		return err
	}
	if err := s.state.SetStorage(accountKey(addr), balance.Add(balance, amount)); err != nil {
		return err
	}

	if err := s.addTo(slotTotalSupply, amount); err != nil {
		return err
	}
	return s.addTo(slotTotalMinted, amount)
}

// Burn decreases the participant's balance and the total supply by amount.
// It fails when amount exceeds the participant's balance.
func (s *Service) Burn(addr mare.Address, amount *big.Int) error {
	balance, err := s.Get(addr)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return reverts.New(reverts.KindInsufficientBalance, "StakedDistributor: burn amount exceeds balance")
	}
	if err := s.state.SetStorage(accountKey(addr), balance.Sub(balance, amount)); err != nil {
		return err
	}

	supply, err := s.TotalSupply()
	if err != nil {
		return err
	}
	if err := s.state.SetStorage(slotTotalSupply, supply.Sub(supply, amount)); err != nil {
		return err
	}
	return s.addTo(slotTotalBurned, amount)
}

func (s *Service) addTo(slot mare.Bytes32, amount *big.Int) error {
	total := new(big.Int)
	if err := s.state.GetStorage(slot, total); err != nil {
		return err
	}
	return s.state.SetStorage(slot, total.Add(total, amount))
}
