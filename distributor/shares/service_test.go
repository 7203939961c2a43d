// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package shares

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mare-finance/staked-distributor/distributor/reverts"
	"github.com/mare-finance/staked-distributor/kv"
	"github.com/mare-finance/staked-distributor/mare"
	"github.com/mare-finance/staked-distributor/state"
)

func newService(t *testing.T) *Service {
	store, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(state.New(store))
}

func TestMintBurn(t *testing.T) {
	svc := newService(t)
	alice := mare.BytesToAddress([]byte("alice"))
	bob := mare.BytesToAddress([]byte("bob"))

	// lazily created accounts read as zero
	balance, err := svc.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance.Int64())

	require.NoError(t, svc.Mint(alice, big.NewInt(5)))
	require.NoError(t, svc.Mint(bob, big.NewInt(3)))
	require.NoError(t, svc.Mint(alice, big.NewInt(1)))

	balance, err = svc.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(6), balance.Int64())

	supply, err := svc.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, int64(9), supply.Int64())

	require.NoError(t, svc.Burn(alice, big.NewInt(4)))

	balance, err = svc.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), balance.Int64())

	supply, err = svc.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, int64(5), supply.Int64())

	// supply equals sum of balances
	bobBalance, err := svc.Get(bob)
	require.NoError(t, err)
	assert.Equal(t, supply, new(big.Int).Add(balance, bobBalance))
}

func TestBurnExceedsBalance(t *testing.T) {
	svc := newService(t)
	alice := mare.BytesToAddress([]byte("alice"))

	require.NoError(t, svc.Mint(alice, big.NewInt(5)))

	err := svc.Burn(alice, big.NewInt(6))
	require.Error(t, err)
	kind, ok := reverts.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, reverts.KindInsufficientBalance, kind)

	// balance untouched
	balance, err := svc.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance.Int64())
}

func TestAuditTotals(t *testing.T) {
	svc := newService(t)
	alice := mare.BytesToAddress([]byte("alice"))

	require.NoError(t, svc.Mint(alice, big.NewInt(8)))
	require.NoError(t, svc.Burn(alice, big.NewInt(5)))
	require.NoError(t, svc.Mint(alice, big.NewInt(2)))

	minted, err := svc.TotalMinted()
	require.NoError(t, err)
	burned, err := svc.TotalBurned()
	require.NoError(t, err)
	supply, err := svc.TotalSupply()
	require.NoError(t, err)

	assert.Equal(t, int64(10), minted.Int64())
	assert.Equal(t, int64(5), burned.Int64())
	assert.Equal(t, supply, new(big.Int).Sub(minted, burned))
}
