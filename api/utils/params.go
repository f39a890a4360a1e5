// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/metanode/stake/log"
	"github.com/metanode/stake/meta"
)

var logger = log.WithContext("pkg", "api")

// PoolID parses the {pid} path variable.
func PoolID(req *http.Request) (uint32, error) {
	pid, err := ParseUint32(mux.Vars(req)["pid"])
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, "pid"))
	}
	return pid, nil
}

// Address parses the named path variable as an address.
func Address(req *http.Request, name string) (meta.Address, error) {
	addr, err := meta.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return meta.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// Asset parses the {asset} path variable. "native" names the native coin.
func Asset(req *http.Request) (meta.Address, error) {
	if mux.Vars(req)["asset"] == "native" {
		return meta.NativeAsset, nil
	}
	return Address(req, "asset")
}

func ParseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
