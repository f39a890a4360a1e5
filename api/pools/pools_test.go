// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metanode/stake/api/pools"
	"github.com/metanode/stake/ledger"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/staking"
	"github.com/metanode/stake/test/testledger"
)

func initServer(t *testing.T, solo bool) (*testledger.Chain, *httptest.Server) {
	chain, err := testledger.New()
	require.NoError(t, err)
	t.Cleanup(func() { chain.Close() })

	router := mux.NewRouter()
	pools.New(chain.Ledger(), solo).Mount(router, "/")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return chain, ts
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func httpPost(t *testing.T, url string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func TestGetGlobalAndPools(t *testing.T) {
	_, ts := initServer(t, false)

	body, code := httpGet(t, ts.URL+"/global")
	require.Equal(t, http.StatusOK, code, string(body))
	var global pools.Global
	require.NoError(t, json.Unmarshal(body, &global))
	assert.True(t, global.Initialized)
	assert.Equal(t, uint32(2), global.PoolLength)
	assert.Equal(t, uint256.NewInt(600), global.TotalWeight)
	assert.False(t, global.WithdrawPaused)
	assert.False(t, global.ClaimPaused)

	body, code = httpGet(t, ts.URL+"/pools")
	require.Equal(t, http.StatusOK, code, string(body))
	var list []*pools.Pool
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	assert.True(t, list[0].Native)
	assert.Equal(t, meta.NativeAsset, list[0].Asset)
	assert.False(t, list[1].Native)
	assert.Equal(t, uint32(1), list[1].ID)

	body, code = httpGet(t, ts.URL+"/pools/1")
	require.Equal(t, http.StatusOK, code, string(body))
	var p pools.Pool
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, uint32(10), p.UnstakeLockBlocks)
	assert.Equal(t, uint256.NewInt(100), p.Weight)

	body, code = httpGet(t, ts.URL+"/pools/7")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, string(body), "PoolNotFound")
}

func TestUnsignedOperationsRequireSolo(t *testing.T) {
	chain, ts := initServer(t, false)

	body, code := httpPost(t, ts.URL+"/pools/0/deposit", &pools.DepositRequest{
		Caller: chain.Account(1),
		Amount: uint256.NewInt(1000),
	})
	assert.Equal(t, http.StatusForbidden, code, string(body))
	assert.Equal(t, uint64(1), chain.Ledger().Head().Txs, "only genesis is committed")

	body, code = httpPost(t, ts.URL+"/pools/update", struct{}{})
	assert.Equal(t, http.StatusForbidden, code, string(body))
	assert.Equal(t, uint64(1), chain.Ledger().Head().Txs)
}

func TestMassUpdate(t *testing.T) {
	chain, ts := initServer(t, true)
	chain.Advance(5)

	// the settlement sweep needs no caller
	body, code := httpPost(t, ts.URL+"/pools/update", struct{}{})
	require.Equal(t, http.StatusOK, code, string(body))
	var receipt pools.Receipt
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.Equal(t, "massUpdatePools", receipt.Op)

	body, code = httpGet(t, ts.URL+"/pools/1")
	require.Equal(t, http.StatusOK, code, string(body))
	var p pools.Pool
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, chain.Clock().CurrentBlock(), p.LastSettledBlock)
}

func TestDepositUnstakeWithdrawClaim(t *testing.T) {
	chain, ts := initServer(t, true)
	user := chain.Account(1)

	body, code := httpPost(t, ts.URL+"/pools/0/deposit", &pools.DepositRequest{
		Caller: user,
		Amount: uint256.NewInt(1000),
	})
	require.Equal(t, http.StatusOK, code, string(body))
	var receipt pools.Receipt
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.Equal(t, "deposit", receipt.Op)
	kinds := make([]staking.EventKind, 0, len(receipt.Events))
	for _, ev := range receipt.Events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Contains(t, kinds, staking.EventDeposit)

	chain.Advance(10)

	body, code = httpGet(t, ts.URL+"/pools/0/positions/"+user.String())
	require.Equal(t, http.StatusOK, code, string(body))
	var pos pools.Position
	require.NoError(t, json.Unmarshal(body, &pos))
	assert.Equal(t, uint32(10), pos.Block)
	assert.Equal(t, uint256.NewInt(1000), pos.Staked)
	assert.False(t, pos.Pending.IsZero())

	var expected *uint256.Int
	require.NoError(t, chain.Ledger().View(context.Background(), func(tx *ledger.Tx) error {
		pending, err := tx.Staker.PendingReward(0, user)
		expected = pending.Amount
		return err
	}))
	assert.Equal(t, expected, pos.Pending)

	body, code = httpPost(t, ts.URL+"/pools/0/unstake", &pools.UnstakeRequest{Caller: user, Amount: uint256.NewInt(400)})
	require.Equal(t, http.StatusOK, code, string(body))

	// still locked
	body, code = httpPost(t, ts.URL+"/pools/0/withdraw", &pools.CallRequest{Caller: user})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "NothingToWithdraw")

	chain.Advance(20)
	body, code = httpPost(t, ts.URL+"/pools/0/withdraw", &pools.CallRequest{Caller: user})
	require.Equal(t, http.StatusOK, code, string(body))
	receipt = pools.Receipt{}
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.Equal(t, uint256.NewInt(400), receipt.Amount)

	body, code = httpPost(t, ts.URL+"/pools/0/claim", &pools.CallRequest{Caller: user})
	require.Equal(t, http.StatusOK, code, string(body))
	receipt = pools.Receipt{}
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.False(t, receipt.Amount.IsZero())

	body, code = httpGet(t, ts.URL+"/pools/0/positions/"+user.String())
	require.Equal(t, http.StatusOK, code, string(body))
	pos = pools.Position{}
	require.NoError(t, json.Unmarshal(body, &pos))
	assert.Equal(t, uint256.NewInt(600), pos.Staked)
	assert.True(t, pos.Pending.IsZero())
	assert.Empty(t, pos.Withdrawals)
}

func TestDepositReverts(t *testing.T) {
	chain, ts := initServer(t, true)

	tests := []struct {
		name   string
		path   string
		req    *pools.DepositRequest
		status int
		kind   string
	}{
		{"below minimum", "/pools/0/deposit", &pools.DepositRequest{Caller: chain.Account(1), Amount: uint256.NewInt(99)}, http.StatusBadRequest, "AmountTooSmall"},
		{"value mismatch", "/pools/0/deposit", &pools.DepositRequest{Caller: chain.Account(1), Amount: uint256.NewInt(1000), Value: uint256.NewInt(1)}, http.StatusBadRequest, "AssetTransferMismatch"},
		{"unknown pool", "/pools/9/deposit", &pools.DepositRequest{Caller: chain.Account(1), Amount: uint256.NewInt(1000)}, http.StatusNotFound, "PoolNotFound"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, code := httpPost(t, ts.URL+tt.path, tt.req)
			assert.Equal(t, tt.status, code)
			assert.True(t, strings.HasPrefix(string(body), tt.kind+":"), string(body))
		})
	}
	assert.Equal(t, uint64(1), chain.Ledger().Head().Txs)

	res, err := http.Post(ts.URL+"/pools/0/deposit", "application/json", strings.NewReader(`{"caller":"0x01","unknown":1}`)) //#nosec G107
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
