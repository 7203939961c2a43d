// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault is a token balance book serving as the asset-transfer
// collaborator for single-process deployments. Pulls move value from a
// holder into the ledger's custody, pushes pay it back out. Balances live
// in the same journaled state as the ledger, so a reverted ledger operation
// also reverts its transfers.
package vault

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/mare-finance/staked-distributor/mare"
	"github.com/mare-finance/staked-distributor/state"
)

// ErrInsufficientFunds is returned when a transfer exceeds the holder's balance.
var ErrInsufficientFunds = errors.New("vault: insufficient funds")

func balanceKey(asset, addr mare.Address) mare.Bytes32 {
	return mare.Blake2b([]byte("vault-balance"), asset.Bytes(), addr.Bytes())
}

// Vault implements the distributor's TransferEngine.
type Vault struct {
	state   *state.State
	custody mare.Address
}

// New create a new instance. custody is the account holding pulled value.
func New(st *state.State, custody mare.Address) *Vault {
	return &Vault{state: st, custody: custody}
}

// Balance returns the holder's balance of the asset.
func (v *Vault) Balance(asset, addr mare.Address) (*big.Int, error) {
	balance := new(big.Int)
	if err := v.state.GetStorage(balanceKey(asset, addr), balance); err != nil {
		return nil, err
	}
	return balance, nil
}

// Mint credits the holder with amount of the asset, for genesis allocation.
func (v *Vault) Mint(asset, addr mare.Address, amount *big.Int) error {
	balance, err := v.Balance(asset, addr)
	if err != nil {
		return err
	}
	return v.state.SetStorage(balanceKey(asset, addr), balance.Add(balance, amount))
}

func (v *Vault) transfer(asset, from, to mare.Address, amount *big.Int) error {
	fromBalance, err := v.Balance(asset, from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	if err := v.state.SetStorage(balanceKey(asset, from), fromBalance.Sub(fromBalance, amount)); err != nil {
		return err
	}

	toBalance, err := v.Balance(asset, to)
	if err != nil {
		return err
	}
	return v.state.SetStorage(balanceKey(asset, to), toBalance.Add(toBalance, amount))
}

// Pull moves amount of the asset from the holder into custody.
func (v *Vault) Pull(asset, from mare.Address, amount *big.Int) error {
	return v.transfer(asset, from, v.custody, amount)
}

// Push pays amount of the asset from custody to the holder.
func (v *Vault) Push(asset, to mare.Address, amount *big.Int) error {
	return v.transfer(asset, v.custody, to, amount)
}
