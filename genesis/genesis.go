// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis bootstraps a fresh ledger from a user customized genesis
// document: the staked asset, admin set, withdrawal delay, reward token
// registrations and initial vault balances.
package genesis

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/mare-finance/staked-distributor/distributor/registry"
	"github.com/mare-finance/staked-distributor/distributor/timelock"
	"github.com/mare-finance/staked-distributor/mare"
	"github.com/mare-finance/staked-distributor/state"
	"github.com/mare-finance/staked-distributor/vault"
)

var slotApplied = mare.Blake2b([]byte("genesis-applied"))

// CustomGenesis is user customized genesis.
type CustomGenesis struct {
	StakedAsset     mare.Address   `json:"stakedAsset"`
	WithdrawalDelay uint64         `json:"withdrawalDelay"`
	Admins          []mare.Address `json:"admins"`
	RewardTokens    []mare.Address `json:"rewardTokens"`
	Accounts        []Account      `json:"accounts"`
}

// Account is a vault balance set at genesis.
type Account struct {
	Address mare.Address     `json:"address"`
	Token   mare.Address     `json:"token"`
	Balance *HexOrDecimal256 `json:"balance"`
}

// HexOrDecimal256 marshals big.Int as hex or decimal.
// Copied from go-ethereum/common/math and implements json.Marshaler.
type HexOrDecimal256 math.HexOrDecimal256

// UnmarshalJSON implements the json.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalJSON(input []byte) error {
	var hex string
	if err := json.Unmarshal(input, &hex); err != nil {
		return (*big.Int)(i).UnmarshalJSON(input)
	}
	bigint, ok := math.ParseBig256(hex)
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", hex)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (i *HexOrDecimal256) MarshalJSON() ([]byte, error) {
	return json.Marshal((*math.HexOrDecimal256)(i))
}

// Sign delegates to big.Int.
func (i *HexOrDecimal256) Sign() int {
	return (*big.Int)(i).Sign()
}

// Load parses a custom genesis document.
func Load(r io.Reader) (*CustomGenesis, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var gen CustomGenesis
	if err := decoder.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "parse genesis")
	}
	if gen.StakedAsset.IsZero() {
		return nil, errors.New("stakedAsset must be set")
	}
	for _, a := range gen.Accounts {
		if a.Balance == nil {
			return nil, fmt.Errorf("%s: balance must be set", a.Address)
		}
		if a.Balance.Sign() < 1 {
			return nil, fmt.Errorf("%s: balance must be a non-zero integer", a.Address)
		}
	}
	return &gen, nil
}

// Applied tells whether the store already holds a bootstrapped ledger.
func Applied(st *state.State) (bool, error) {
	var applied bool
	if err := st.GetStorage(slotApplied, &applied); err != nil {
		return false, err
	}
	return applied, nil
}

// Apply bootstraps the ledger state from the genesis document and commits
// it. It is a no-op on an already-bootstrapped store.
func (gen *CustomGenesis) Apply(st *state.State, custody mare.Address) error {
	applied, err := Applied(st)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}

	if err := timelock.New(st).SetDelay(gen.WithdrawalDelay); err != nil {
		return err
	}

	reg := registry.New(st)
	for _, token := range gen.RewardTokens {
		if err := reg.Add(token); err != nil {
			return errors.WithMessage(err, "register reward token")
		}
	}

	v := vault.New(st, custody)
	for _, a := range gen.Accounts {
		if err := v.Mint(a.Token, a.Address, (*big.Int)(a.Balance)); err != nil {
			return err
		}
	}

	if err := st.SetStorage(slotApplied, true); err != nil {
		return err
	}
	return st.Stage().Commit()
}
