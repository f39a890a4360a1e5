// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/metanode/stake/api/loglevel"
	"github.com/metanode/stake/co"
)

// NewAdminHandler returns the operator handler, serving the log level under /admin/loglevel.
func NewAdminHandler(logLevel *slog.LevelVar) http.HandlerFunc {
	router := mux.NewRouter()
	loglevel.New(logLevel).Mount(router, "/admin/loglevel")

	return handlers.CompressHandler(router).ServeHTTP
}

// StartAdminServer serves the operator handler on addr. It returns the base url and a close func.
func StartAdminServer(addr string, logLevel *slog.LevelVar) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen admin API addr [%v]", addr)
	}

	srv := &http.Server{Handler: NewAdminHandler(logLevel), ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/admin", func() {
		srv.Close()
		goes.Wait()
	}, nil
}
