// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metanode/stake/api/admin"
	"github.com/metanode/stake/api/pools"
	"github.com/metanode/stake/ledger"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/staking/params"
	"github.com/metanode/stake/test/testledger"
)

func initServer(t *testing.T) (*testledger.Chain, *httptest.Server) {
	chain, err := testledger.New()
	require.NoError(t, err)
	t.Cleanup(func() { chain.Close() })

	router := mux.NewRouter()
	pools.New(chain.Ledger(), true).Mount(router, "/")
	admin.New(chain.Ledger()).Mount(router, "/admin")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return chain, ts
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

func global(t *testing.T, chain *testledger.Chain) *params.Global {
	var g *params.Global
	require.NoError(t, chain.Ledger().View(context.Background(), func(tx *ledger.Tx) (err error) {
		g, err = tx.Staker.Global()
		return err
	}))
	return g
}

func TestAddPool(t *testing.T) {
	chain, ts := initServer(t)
	asset := meta.BytesToAddress([]byte("another-token"))

	req := &admin.AddPoolRequest{
		Caller:            chain.Account(1),
		Asset:             asset,
		Weight:            uint256.NewInt(400),
		MinDeposit:        uint256.NewInt(1),
		UnstakeLockBlocks: 5,
	}
	body, code := httpPost(t, ts.URL+"/admin/pools", req)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, string(body), "Unauthorized")

	req.Caller = chain.Admin()
	req.WithUpdate = true
	body, code = httpPost(t, ts.URL+"/admin/pools", req)
	require.Equal(t, http.StatusOK, code, string(body))
	var res admin.AddPoolResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, uint32(2), res.ID)
	assert.Equal(t, uint256.NewInt(1000), global(t, chain).TotalWeight)

	req.Asset = meta.NativeAsset
	body, code = httpPost(t, ts.URL+"/admin/pools", req)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "InvalidPool")

	req.Asset = asset
	req.Weight = uint256.NewInt(0)
	body, code = httpPost(t, ts.URL+"/admin/pools", req)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "InvalidParam")
}

func TestPoolSettings(t *testing.T) {
	chain, ts := initServer(t)
	caller := admin.CallerRequest{Caller: chain.Admin()}

	body, code := httpPost(t, ts.URL+"/admin/pools/1/weight", &admin.WeightRequest{Caller: chain.Admin(), Weight: uint256.NewInt(300)})
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Equal(t, uint256.NewInt(800), global(t, chain).TotalWeight)

	body, code = httpPost(t, ts.URL+"/admin/pools/1/config", &admin.PoolConfigRequest{Caller: chain.Admin(), MinDeposit: uint256.NewInt(5), UnstakeLockBlocks: 3})
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, chain.Ledger().View(context.Background(), func(tx *ledger.Tx) error {
		p, err := tx.Staker.Pool(1)
		if err != nil {
			return err
		}
		assert.Equal(t, uint256.NewInt(5), p.MinDeposit)
		assert.Equal(t, uint32(3), p.UnstakeLockBlocks)
		return nil
	}))

	body, code = httpPost(t, ts.URL+"/admin/pools/0/pause", caller)
	require.Equal(t, http.StatusOK, code, string(body))

	body, code = httpPost(t, ts.URL+"/admin/pools/0/pause", caller)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "InvalidParam")

	body, code = httpPost(t, ts.URL+"/pools/0/deposit", &pools.DepositRequest{Caller: chain.Account(2), Amount: uint256.NewInt(1000)})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "PoolPaused")

	body, code = httpPost(t, ts.URL+"/admin/pools/0/unpause", caller)
	require.Equal(t, http.StatusOK, code, string(body))

	body, code = httpPost(t, ts.URL+"/pools/0/deposit", &pools.DepositRequest{Caller: chain.Account(2), Amount: uint256.NewInt(1000)})
	assert.Equal(t, http.StatusOK, code, string(body))

	body, code = httpPost(t, ts.URL+"/admin/pools/9/pause", caller)
	assert.Equal(t, http.StatusNotFound, code, string(body))
}

func TestGlobalPauses(t *testing.T) {
	chain, ts := initServer(t)
	caller := admin.CallerRequest{Caller: chain.Admin()}

	for _, path := range []string{"/admin/withdraw/pause", "/admin/claim/pause"} {
		body, code := httpPost(t, ts.URL+path, caller)
		require.Equal(t, http.StatusOK, code, string(body))
	}
	g := global(t, chain)
	assert.True(t, g.WithdrawPaused)
	assert.True(t, g.ClaimPaused)

	body, code := httpPost(t, ts.URL+"/pools/0/claim", &pools.CallRequest{Caller: chain.Account(1)})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "ClaimPaused")

	body, code = httpPost(t, ts.URL+"/admin/withdraw/unpause", caller)
	require.Equal(t, http.StatusOK, code, string(body))
	body, code = httpPost(t, ts.URL+"/admin/withdraw/unpause", caller)
	assert.Equal(t, http.StatusBadRequest, code, string(body))

	g = global(t, chain)
	assert.False(t, g.WithdrawPaused)
	assert.True(t, g.ClaimPaused)

	body, code = httpPost(t, ts.URL+"/admin/claim/pause", &admin.CallerRequest{Caller: chain.Account(3)})
	assert.Equal(t, http.StatusForbidden, code, string(body))
}

func TestEmission(t *testing.T) {
	chain, ts := initServer(t)

	body, code := httpPost(t, ts.URL+"/admin/emission", &admin.EmissionRequest{Caller: chain.Admin()})
	assert.Equal(t, http.StatusBadRequest, code, string(body))

	end := uint32(500)
	body, code = httpPost(t, ts.URL+"/admin/emission", &admin.EmissionRequest{
		Caller:         chain.Admin(),
		RewardPerBlock: uint256.NewInt(7),
		EndBlock:       &end,
	})
	require.Equal(t, http.StatusOK, code, string(body))
	var receipt pools.Receipt
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.Equal(t, "setEmission", receipt.Op)
	assert.Len(t, receipt.Events, 2)

	g := global(t, chain)
	assert.Equal(t, uint256.NewInt(7), g.RewardPerBlock)
	assert.Equal(t, uint32(500), g.EndBlock)

	// the whole request reverts when one change is invalid
	start := uint32(600)
	body, code = httpPost(t, ts.URL+"/admin/emission", &admin.EmissionRequest{
		Caller:         chain.Admin(),
		RewardPerBlock: uint256.NewInt(9),
		StartBlock:     &start,
	})
	assert.Equal(t, http.StatusBadRequest, code, string(body))
	assert.Equal(t, uint256.NewInt(7), global(t, chain).RewardPerBlock)
}
