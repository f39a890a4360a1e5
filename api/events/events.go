// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/metanode/stake/api/utils"
	"github.com/metanode/stake/logdb"
)

type Events struct {
	logDB *logdb.LogDB
	limit uint64
}

// New returns the events api. limit caps the number of events a query returns.
func New(logDB *logdb.LogDB, limit uint64) *Events {
	return &Events{
		logDB,
		limit,
	}
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := ParseFilter(req.URL.Query())
	if err != nil {
		return err
	}
	if filter.Options.Limit == 0 {
		filter.Options.Limit = e.limit
	} else if filter.Options.Limit > e.limit {
		return utils.Forbidden(errors.Errorf("limit exceeds the maximum allowed value of %d", e.limit))
	}

	found, err := e.logDB.FilterEvents(req.Context(), filter)
	if err != nil {
		return err
	}
	results := make([]*Event, 0, len(found))
	for _, ev := range found {
		results = append(results, Convert(ev))
	}
	return utils.WriteJSON(w, results)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
