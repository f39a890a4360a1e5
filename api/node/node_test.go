// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metanode/stake/api/node"
	"github.com/metanode/stake/test/testledger"
)

func httpGetJSON(t *testing.T, url string, v any) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, v))
}

func TestNode(t *testing.T) {
	chain, err := testledger.New()
	require.NoError(t, err)
	defer chain.Close()

	router := mux.NewRouter()
	node.New(chain.Ledger(), chain.Clock()).Mount(router, "/node")
	ts := httptest.NewServer(router)
	defer ts.Close()

	var head node.Head
	httpGetJSON(t, ts.URL+"/node/head", &head)
	assert.Equal(t, uint32(0), head.Block)
	assert.Equal(t, uint64(1), head.Txs)
	assert.Equal(t, chain.Ledger().Head().Digest, head.Digest)

	chain.Advance(3)
	_, err = chain.Deposit(0, chain.Account(1), 500)
	require.NoError(t, err)
	chain.Advance(2)

	head = node.Head{}
	httpGetJSON(t, ts.URL+"/node/head", &head)
	assert.Equal(t, uint32(3), head.Block)
	assert.Equal(t, uint32(5), head.CurrentBlock)
	assert.Equal(t, uint64(2), head.Txs)

	var snapshot node.Snapshot
	httpGetJSON(t, ts.URL+"/node/snapshot", &snapshot)
	digest, err := chain.Ledger().Snapshot()
	require.NoError(t, err)
	assert.Equal(t, digest, snapshot.Digest)
	assert.Equal(t, head.Digest, snapshot.Head.Digest)
}
