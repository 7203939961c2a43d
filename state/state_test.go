// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mare-finance/staked-distributor/kv"
	"github.com/mare-finance/staked-distributor/mare"
)

func TestStorageRoundTrip(t *testing.T) {
	store, err := kv.NewMem()
	require.NoError(t, err)
	defer store.Close()

	st := New(store)
	key := mare.Blake2b([]byte("slot"))

	// absent slot decodes to zero value
	got := new(big.Int)
	require.NoError(t, st.GetStorage(key, got))
	assert.Equal(t, int64(0), got.Int64())

	require.NoError(t, st.SetStorage(key, big.NewInt(12345)))
	got = new(big.Int)
	require.NoError(t, st.GetStorage(key, got))
	assert.Equal(t, int64(12345), got.Int64())
}

func TestCheckpointRevert(t *testing.T) {
	store, err := kv.NewMem()
	require.NoError(t, err)
	defer store.Close()

	st := New(store)
	key := mare.Blake2b([]byte("slot"))

	require.NoError(t, st.SetStorage(key, big.NewInt(1)))

	cp := st.NewCheckpoint()
	require.NoError(t, st.SetStorage(key, big.NewInt(2)))

	got := new(big.Int)
	require.NoError(t, st.GetStorage(key, got))
	assert.Equal(t, int64(2), got.Int64())

	st.RevertTo(cp)

	got = new(big.Int)
	require.NoError(t, st.GetStorage(key, got))
	assert.Equal(t, int64(1), got.Int64())
}

func TestStageCommitDurability(t *testing.T) {
	store, err := kv.NewMem()
	require.NoError(t, err)
	defer store.Close()

	key := mare.Blake2b([]byte("slot"))

	st := New(store)
	require.NoError(t, st.SetStorage(key, big.NewInt(42)))

	// not durable before commit
	fresh := New(store)
	got := new(big.Int)
	require.NoError(t, fresh.GetStorage(key, got))
	assert.Equal(t, int64(0), got.Int64())

	require.NoError(t, st.Stage().Commit())

	// new state over the same store observes the committed value
	fresh = New(store)
	got = new(big.Int)
	require.NoError(t, fresh.GetStorage(key, got))
	assert.Equal(t, int64(42), got.Int64())
}

func TestRawStorageDelete(t *testing.T) {
	store, err := kv.NewMem()
	require.NoError(t, err)
	defer store.Close()

	key := mare.Blake2b([]byte("slot"))

	st := New(store)
	require.NoError(t, st.SetStorage(key, big.NewInt(7)))
	require.NoError(t, st.Stage().Commit())

	st.SetRawStorage(key, nil)
	require.NoError(t, st.Stage().Commit())

	fresh := New(store)
	raw, err := fresh.GetRawStorage(key)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestCommitKeepsWorking(t *testing.T) {
	store, err := kv.NewMem()
	require.NoError(t, err)
	defer store.Close()

	key := mare.Blake2b([]byte("slot"))

	st := New(store)
	require.NoError(t, st.SetStorage(key, big.NewInt(1)))
	require.NoError(t, st.Stage().Commit())

	// state remains usable after flatten
	cp := st.NewCheckpoint()
	require.NoError(t, st.SetStorage(key, big.NewInt(2)))
	st.RevertTo(cp)

	got := new(big.Int)
	require.NoError(t, st.GetStorage(key, got))
	assert.Equal(t, int64(1), got.Int64())
}
