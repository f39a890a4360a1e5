// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/metanode/stake/api/admin"
	"github.com/metanode/stake/api/assets"
	"github.com/metanode/stake/api/events"
	"github.com/metanode/stake/api/middleware"
	"github.com/metanode/stake/api/node"
	"github.com/metanode/stake/api/pools"
	"github.com/metanode/stake/api/subscriptions"
	"github.com/metanode/stake/clock"
	"github.com/metanode/stake/ledger"
	"github.com/metanode/stake/log"
	"github.com/metanode/stake/metrics"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	PprofOn              bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
	LogsLimit            uint64
	// SoloMode serves the unsigned user and admin operations.
	SoloMode bool
}

// New return api router
func New(l *ledger.Ledger, clk clock.Clock, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	pools.New(l, opts.SoloMode).
		Mount(router, "/")
	assets.New(l, opts.SoloMode).
		Mount(router, "/assets")
	if opts.SoloMode {
		admin.New(l).
			Mount(router, "/admin")
	}
	if l.LogDB() != nil {
		events.New(l.LogDB(), opts.LogsLimit).
			Mount(router, "/events")
	}
	node.New(l, clk).
		Mount(router, "/node")
	subs := subscriptions.New(l, origins)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
