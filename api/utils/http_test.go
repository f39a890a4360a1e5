// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metanode/stake/staking/reverts"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{BadRequest(errors.New("bad")), http.StatusBadRequest},
		{Forbidden(errors.New("no")), http.StatusForbidden},
		{reverts.ErrUnauthorized.WithMessage("0x01"), http.StatusForbidden},
		{pkgerrors.Wrap(reverts.ErrPoolNotFound, "load"), http.StatusNotFound},
		{reverts.ErrAmountTooSmall, http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusOf(tt.err), tt.err.Error())
	}
}

func TestWrapHandlerFunc(t *testing.T) {
	h := WrapHandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
		if r.URL.Query().Get("fail") != "" {
			return reverts.ErrInsufficientStake
		}
		return WriteJSON(w, M{"ok": true})
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/?fail=1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "InsufficientStake")
}

func TestParseJSON(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"a":1}`), &v))
	assert.Equal(t, 1, v.A)
	assert.Error(t, ParseJSON(strings.NewReader(`{"b":1}`), &v))
}

func TestPathParams(t *testing.T) {
	router := mux.NewRouter()
	router.Path("/pools/{pid}/positions/{user}").HandlerFunc(WrapHandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
		pid, err := PoolID(r)
		if err != nil {
			return err
		}
		user, err := Address(r, "user")
		if err != nil {
			return err
		}
		return WriteJSON(w, M{"pid": pid, "user": user.String()})
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pools/3/positions/0x0000000000000000000000000000000000000001", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pid":3,"user":"0x0000000000000000000000000000000000000001"}`, rec.Body.String())

	for _, path := range []string{"/pools/x/positions/0x0000000000000000000000000000000000000001", "/pools/1/positions/bob"} {
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}
