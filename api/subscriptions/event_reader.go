// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"math"

	"github.com/metanode/stake/api/events"
	"github.com/metanode/stake/logdb"
)

// eventReader returns events indexed after its cursor, in order.
type eventReader struct {
	logDB  *logdb.LogDB
	filter logdb.EventFilter
	block  uint32 // cursor block
	next   uint32 // first unread index within the cursor block
}

func newEventReader(logDB *logdb.LogDB, filter *logdb.EventFilter, fromBlock uint32) *eventReader {
	f := *filter
	f.Order = logdb.ASC
	f.Options = nil
	return &eventReader{
		logDB:  logDB,
		filter: f,
		block:  fromBlock,
	}
}

func (r *eventReader) Read(ctx context.Context) ([]*events.Event, error) {
	filter := r.filter
	filter.Range = &logdb.Range{From: r.block, To: math.MaxUint32}
	found, err := r.logDB.FilterEvents(ctx, &filter)
	if err != nil {
		return nil, err
	}

	var results []*events.Event
	for _, ev := range found {
		if ev.BlockNumber == r.block && ev.Index < r.next {
			continue
		}
		results = append(results, events.Convert(ev))
		r.block, r.next = ev.BlockNumber, ev.Index+1
	}
	return results, nil
}
