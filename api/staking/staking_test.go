// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mare-finance/staked-distributor/api/staking"
	"github.com/mare-finance/staked-distributor/authority"
	"github.com/mare-finance/staked-distributor/distributor"
	"github.com/mare-finance/staked-distributor/kv"
	"github.com/mare-finance/staked-distributor/mare"
	"github.com/mare-finance/staked-distributor/state"
	"github.com/mare-finance/staked-distributor/vault"
)

var (
	stakedAsset = mare.BytesToAddress([]byte("staked-asset"))
	rewardToken = mare.BytesToAddress([]byte("reward-token"))
	admin       = mare.BytesToAddress([]byte("admin"))
	staker      = mare.BytesToAddress([]byte("staker"))
)

var clock = uint64(1000)

func initStakingServer(t *testing.T) *httptest.Server {
	store, err := kv.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	st := state.New(store)
	v := vault.New(st, mare.BytesToAddress([]byte("custody")))
	require.NoError(t, v.Mint(stakedAsset, staker, big.NewInt(1000)))
	require.NoError(t, v.Mint(rewardToken, admin, big.NewInt(1000)))
	require.NoError(t, st.Stage().Commit())

	dist := distributor.New(st, stakedAsset, v, authority.New([]mare.Address{admin}), func() uint64 { return clock })
	require.NoError(t, dist.AddToken(admin, rewardToken))

	router := mux.NewRouter()
	staking.New(dist).Mount(router, "/staking")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	return body, res.StatusCode
}

func httpPost(t *testing.T, url string, obj interface{}) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	return body, res.StatusCode
}

func httpDo(t *testing.T, method, url string, obj interface{}) ([]byte, int) {
	var reader io.Reader
	if obj != nil {
		data, err := json.Marshal(obj)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	return body, res.StatusCode
}

func amount(n int64) *staking.Amount {
	return &staking.Amount{Amount: (*math.HexOrDecimal256)(big.NewInt(n))}
}

func accountURL(ts *httptest.Server, addr mare.Address, tail string) string {
	return fmt.Sprintf("%s/staking/accounts/%s%s", ts.URL, addr, tail)
}

func TestStakingFlow(t *testing.T) {
	ts := initStakingServer(t)

	_, code := httpPost(t, accountURL(ts, staker, "/stake"), amount(8))
	assert.Equal(t, http.StatusNoContent, code)

	body, code := httpGet(t, ts.URL+"/staking/supply")
	assert.Equal(t, http.StatusOK, code)
	var supply staking.Supply
	require.NoError(t, json.Unmarshal(body, &supply))
	assert.Equal(t, big.NewInt(8), (*big.Int)(supply.TotalShares))

	_, code = httpPost(t, fmt.Sprintf("%s/staking/tokens/%s/rewards", ts.URL, rewardToken),
		&staking.RewardRequest{Caller: admin, Amount: amount(53).Amount})
	assert.Equal(t, http.StatusNoContent, code)

	body, code = httpGet(t, accountURL(ts, staker, fmt.Sprintf("/claimable/%s", rewardToken)))
	assert.Equal(t, http.StatusOK, code)
	var claimable staking.Amount
	require.NoError(t, json.Unmarshal(body, &claimable))
	assert.Equal(t, big.NewInt(53), (*big.Int)(claimable.Amount))

	body, code = httpPost(t, accountURL(ts, staker, "/claims"), &staking.ClaimRequest{})
	assert.Equal(t, http.StatusOK, code)
	var payouts []staking.Payout
	require.NoError(t, json.Unmarshal(body, &payouts))
	require.Len(t, payouts, 1)
	assert.Equal(t, rewardToken, payouts[0].Token)
	assert.Equal(t, big.NewInt(53), (*big.Int)(payouts[0].Amount))
}

func TestClaimSingleToken(t *testing.T) {
	ts := initStakingServer(t)

	_, code := httpPost(t, accountURL(ts, staker, "/stake"), amount(4))
	assert.Equal(t, http.StatusNoContent, code)
	_, code = httpPost(t, fmt.Sprintf("%s/staking/tokens/%s/rewards", ts.URL, rewardToken),
		&staking.RewardRequest{Caller: admin, Amount: amount(12).Amount})
	assert.Equal(t, http.StatusNoContent, code)

	body, code := httpPost(t, accountURL(ts, staker, "/claims"), &staking.ClaimRequest{Token: &rewardToken})
	assert.Equal(t, http.StatusOK, code)
	var payouts []staking.Payout
	require.NoError(t, json.Unmarshal(body, &payouts))
	require.Len(t, payouts, 1)
	assert.Equal(t, big.NewInt(12), (*big.Int)(payouts[0].Amount))

	// nothing left
	body, code = httpPost(t, accountURL(ts, staker, "/claims"), &staking.ClaimRequest{Token: &rewardToken})
	assert.Equal(t, http.StatusOK, code)
	payouts = nil
	require.NoError(t, json.Unmarshal(body, &payouts))
	assert.Empty(t, payouts)
}

func TestUnstakeAndWithdraw(t *testing.T) {
	ts := initStakingServer(t)

	_, code := httpDo(t, http.MethodPut, ts.URL+"/staking/config/withdrawal-delay",
		&staking.DelayRequest{Caller: admin, Seconds: 100})
	assert.Equal(t, http.StatusNoContent, code)

	_, code = httpPost(t, accountURL(ts, staker, "/stake"), amount(8))
	assert.Equal(t, http.StatusNoContent, code)

	_, code = httpPost(t, accountURL(ts, staker, "/unstake"), amount(5))
	assert.Equal(t, http.StatusNoContent, code)

	body, code := httpGet(t, accountURL(ts, staker, ""))
	assert.Equal(t, http.StatusOK, code)
	var acc staking.Account
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, big.NewInt(3), (*big.Int)(acc.Shares))
	require.NotNil(t, acc.Withdrawal)
	assert.Equal(t, big.NewInt(5), (*big.Int)(acc.Withdrawal.Amount))
	assert.Equal(t, clock+100, acc.Withdrawal.ReleaseTime)

	// still locked
	_, code = httpPost(t, accountURL(ts, staker, "/withdraw"), struct{}{})
	assert.Equal(t, http.StatusTooEarly, code)

	clock += 100
	defer func() { clock -= 100 }()

	body, code = httpPost(t, accountURL(ts, staker, "/withdraw"), struct{}{})
	assert.Equal(t, http.StatusOK, code)
	var paid staking.Amount
	require.NoError(t, json.Unmarshal(body, &paid))
	assert.Equal(t, big.NewInt(5), (*big.Int)(paid.Amount))
}

func TestTokenAdmin(t *testing.T) {
	ts := initStakingServer(t)
	other := mare.BytesToAddress([]byte("other-token"))

	_, code := httpPost(t, ts.URL+"/staking/tokens", &staking.TokenRequest{Caller: admin, Token: other})
	assert.Equal(t, http.StatusNoContent, code)

	// duplicate registration conflicts
	_, code = httpPost(t, ts.URL+"/staking/tokens", &staking.TokenRequest{Caller: admin, Token: other})
	assert.Equal(t, http.StatusConflict, code)

	// non-admin is rejected
	_, code = httpPost(t, ts.URL+"/staking/tokens", &staking.TokenRequest{Caller: staker, Token: other})
	assert.Equal(t, http.StatusForbidden, code)

	body, code := httpGet(t, ts.URL+"/staking/tokens")
	assert.Equal(t, http.StatusOK, code)
	var tokens []staking.Token
	require.NoError(t, json.Unmarshal(body, &tokens))
	require.Len(t, tokens, 2)
	assert.True(t, tokens[0].Active)
	assert.True(t, tokens[1].Active)

	_, code = httpDo(t, http.MethodDelete,
		fmt.Sprintf("%s/staking/tokens/%s?caller=%s", ts.URL, other, admin), nil)
	assert.Equal(t, http.StatusNoContent, code)

	// removing again is a 404
	_, code = httpDo(t, http.MethodDelete,
		fmt.Sprintf("%s/staking/tokens/%s?caller=%s", ts.URL, other, admin), nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestBadRequests(t *testing.T) {
	ts := initStakingServer(t)

	// zero amount
	_, code := httpPost(t, accountURL(ts, staker, "/stake"), amount(0))
	assert.Equal(t, http.StatusBadRequest, code)

	// malformed address
	_, code = httpGet(t, ts.URL+"/staking/accounts/0xqqq")
	assert.Equal(t, http.StatusBadRequest, code)

	// unknown fields rejected
	res, err := http.Post(accountURL(ts, staker, "/stake"), "application/json", bytes.NewBufferString(`{"bogus":1}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// reward with no shares staked
	_, code = httpPost(t, fmt.Sprintf("%s/staking/tokens/%s/rewards", ts.URL, rewardToken),
		&staking.RewardRequest{Caller: admin, Amount: amount(10).Amount})
	assert.Equal(t, http.StatusBadRequest, code)

	// claiming an unregistered token
	bogus := mare.BytesToAddress([]byte("bogus-token"))
	_, code = httpPost(t, accountURL(ts, staker, "/claims"), &staking.ClaimRequest{Token: &bogus})
	assert.Equal(t, http.StatusBadRequest, code)
}
