// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mare-finance/staked-distributor/distributor/registry"
	"github.com/mare-finance/staked-distributor/distributor/timelock"
	"github.com/mare-finance/staked-distributor/kv"
	"github.com/mare-finance/staked-distributor/mare"
	"github.com/mare-finance/staked-distributor/state"
	"github.com/mare-finance/staked-distributor/vault"
)

const doc = `{
	"stakedAsset": "0x000000000000000000000000000000006d617265",
	"withdrawalDelay": 604800,
	"admins": ["0x0000000000000000000000000000000061646d31"],
	"rewardTokens": ["0x0000000000000000000000000000000076617261"],
	"accounts": [
		{
			"address": "0x00000000000000000000000000000000616c6963",
			"token": "0x000000000000000000000000000000006d617265",
			"balance": "1000000000000000000"
		}
	]
}`

func TestLoad(t *testing.T) {
	gen, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, uint64(604800), gen.WithdrawalDelay)
	assert.Len(t, gen.Admins, 1)
	assert.Len(t, gen.RewardTokens, 1)
	require.Len(t, gen.Accounts, 1)

	want, _ := new(big.Int).SetString("1000000000000000000", 10)
	assert.Equal(t, want, (*big.Int)(gen.Accounts[0].Balance))
}

func TestLoadRejectsBadDocs(t *testing.T) {
	_, err := Load(strings.NewReader(`{"unknown": 1}`))
	assert.Error(t, err)

	_, err = Load(strings.NewReader(`{"withdrawalDelay": 1}`))
	assert.Error(t, err, "missing stakedAsset")

	noBalance := strings.Replace(doc, `"balance": "1000000000000000000"`, `"balance": "0"`, 1)
	_, err = Load(strings.NewReader(noBalance))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	store, err := kv.NewMem()
	require.NoError(t, err)
	defer store.Close()

	gen, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	custody := mare.BytesToAddress([]byte("custody"))
	st := state.New(store)
	require.NoError(t, gen.Apply(st, custody))

	// a fresh state over the same store observes the bootstrapped ledger
	st = state.New(store)

	applied, err := Applied(st)
	require.NoError(t, err)
	assert.True(t, applied)

	delay, err := timelock.New(st).Delay()
	require.NoError(t, err)
	assert.Equal(t, uint64(604800), delay)

	active, err := registry.New(st).IsActive(gen.RewardTokens[0])
	require.NoError(t, err)
	assert.True(t, active)

	balance, err := vault.New(st, custody).Balance(gen.StakedAsset, gen.Accounts[0].Address)
	require.NoError(t, err)
	assert.Equal(t, (*big.Int)(gen.Accounts[0].Balance), balance)

	// idempotent
	require.NoError(t, gen.Apply(st, custody))
}
