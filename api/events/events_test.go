// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metanode/stake/api/events"
	"github.com/metanode/stake/logdb"
	"github.com/metanode/stake/test/testledger"
)

const limit = 100

func initServer(t *testing.T) (*testledger.Chain, *httptest.Server) {
	chain, err := testledger.New()
	require.NoError(t, err)
	t.Cleanup(func() { chain.Close() })

	_, err = chain.Deposit(0, chain.Account(1), 1000)
	require.NoError(t, err)
	chain.Advance(5)
	_, err = chain.Deposit(0, chain.Account(2), 2000)
	require.NoError(t, err)

	router := mux.NewRouter()
	events.New(chain.LogDB(), limit).Mount(router, "/events")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return chain, ts
}

func filter(t *testing.T, ts *httptest.Server, query url.Values) ([]*events.Event, int) {
	res, err := http.Get(ts.URL + "/events?" + query.Encode()) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode != http.StatusOK {
		return nil, res.StatusCode
	}
	var found []*events.Event
	require.NoError(t, json.Unmarshal(body, &found), string(body))
	return found, res.StatusCode
}

func TestFilter(t *testing.T) {
	chain, ts := initServer(t)

	found, code := filter(t, ts, url.Values{"kind": {"Deposit"}})
	require.Equal(t, http.StatusOK, code)
	require.Len(t, found, 2)
	assert.Equal(t, uint32(0), found[0].Block)
	assert.Equal(t, chain.Account(1), found[0].User)
	assert.Equal(t, uint32(5), found[1].Block)
	assert.Equal(t, "deposit", found[1].Op)
	require.NotNil(t, found[1].Pool)
	assert.Equal(t, uint32(0), *found[1].Pool)

	found, code = filter(t, ts, url.Values{"kind": {"Deposit"}, "order": {"desc"}})
	require.Equal(t, http.StatusOK, code)
	require.Len(t, found, 2)
	assert.Equal(t, uint32(5), found[0].Block)

	found, code = filter(t, ts, url.Values{"user": {chain.Account(2).String()}})
	require.Equal(t, http.StatusOK, code)
	require.Len(t, found, 1)
	assert.Equal(t, "Deposit", found[0].Kind)

	found, code = filter(t, ts, url.Values{"kind": {"Initialize, AddPool"}})
	require.Equal(t, http.StatusOK, code)
	require.Len(t, found, 3)
	assert.Equal(t, "Initialize", found[0].Kind)

	found, code = filter(t, ts, url.Values{"pool": {"1"}, "kind": {"AddPool"}})
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, found, 1)

	found, code = filter(t, ts, url.Values{"from": {"1"}, "to": {"5"}})
	require.Equal(t, http.StatusOK, code)
	require.Len(t, found, 1)
	assert.Equal(t, chain.Account(2), found[0].User)

	found, code = filter(t, ts, url.Values{"kind": {"Deposit"}, "offset": {"1"}, "limit": {"1"}})
	require.Equal(t, http.StatusOK, code)
	require.Len(t, found, 1)
	assert.Equal(t, uint32(5), found[0].Block)
}

func TestFilterErrors(t *testing.T) {
	_, ts := initServer(t)

	tests := []struct {
		name   string
		query  url.Values
		status int
	}{
		{"limit over cap", url.Values{"limit": {"1000"}}, http.StatusForbidden},
		{"inverted range", url.Values{"from": {"3"}, "to": {"1"}}, http.StatusBadRequest},
		{"bad order", url.Values{"order": {"up"}}, http.StatusBadRequest},
		{"bad user", url.Values{"user": {"0xzz"}}, http.StatusBadRequest},
		{"bad pool", url.Values{"pool": {"-1"}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, code := filter(t, ts, tt.query)
			assert.Equal(t, tt.status, code)
		})
	}
}

func TestParseFilter(t *testing.T) {
	f, err := events.ParseFilter(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, logdb.ASC, f.Order)
	assert.Nil(t, f.Range)
	assert.Nil(t, f.Pool)
	assert.Nil(t, f.User)

	f, err = events.ParseFilter(url.Values{"from": {"7"}})
	require.NoError(t, err)
	require.NotNil(t, f.Range)
	assert.Equal(t, uint32(7), f.Range.From)
	assert.Equal(t, ^uint32(0), f.Range.To)

	f, err = events.ParseFilter(url.Values{"kind": {",Deposit,,Withdraw"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Deposit", "Withdraw"}, f.Kinds)
}
