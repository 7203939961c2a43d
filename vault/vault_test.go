// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mare-finance/staked-distributor/kv"
	"github.com/mare-finance/staked-distributor/mare"
	"github.com/mare-finance/staked-distributor/state"
)

var (
	custody = mare.BytesToAddress([]byte("custody"))
	token   = mare.BytesToAddress([]byte("token"))
	alice   = mare.BytesToAddress([]byte("alice"))
)

func newVault(t *testing.T) *Vault {
	store, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(state.New(store), custody)
}

func TestPullPush(t *testing.T) {
	v := newVault(t)

	require.NoError(t, v.Mint(token, alice, big.NewInt(100)))

	require.NoError(t, v.Pull(token, alice, big.NewInt(60)))

	balance, err := v.Balance(token, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(40), balance.Int64())

	balance, err = v.Balance(token, custody)
	require.NoError(t, err)
	assert.Equal(t, int64(60), balance.Int64())

	require.NoError(t, v.Push(token, alice, big.NewInt(25)))

	balance, err = v.Balance(token, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(65), balance.Int64())
}

func TestInsufficientFunds(t *testing.T) {
	v := newVault(t)

	require.NoError(t, v.Mint(token, alice, big.NewInt(10)))

	err := v.Pull(token, alice, big.NewInt(11))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// nothing moved
	balance, err := v.Balance(token, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance.Int64())

	err = v.Push(token, alice, big.NewInt(1))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}
