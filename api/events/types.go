// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/metanode/stake/api/utils"
	"github.com/metanode/stake/logdb"
	"github.com/metanode/stake/meta"
)

// Event is an indexed staking event.
type Event struct {
	Block  uint32       `json:"block"`
	Index  uint32       `json:"index"`
	TxID   meta.Bytes32 `json:"txID"`
	Op     string       `json:"op"`
	Kind   string       `json:"kind"`
	Pool   *uint32      `json:"pool,omitempty"`
	User   meta.Address `json:"user"`
	Amount *uint256.Int `json:"amount,omitempty"`
	Unlock uint32       `json:"unlock,omitempty"`
}

func Convert(ev *logdb.Event) *Event {
	return &Event{
		Block:  ev.BlockNumber,
		Index:  ev.Index,
		TxID:   ev.TxID,
		Op:     ev.Op,
		Kind:   ev.Kind,
		Pool:   ev.Pool,
		User:   ev.User,
		Amount: ev.Amount,
		Unlock: ev.Unlock,
	}
}

// ParseFilter builds a filter from query parameters pool, user, kind, from, to, offset, limit and order.
// kind may be a comma separated list.
func ParseFilter(query url.Values) (*logdb.EventFilter, error) {
	filter := &logdb.EventFilter{Order: logdb.ASC}

	if s := query.Get("pool"); s != "" {
		pid, err := utils.ParseUint32(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "pool"))
		}
		filter.Pool = &pid
	}
	if s := query.Get("user"); s != "" {
		user, err := meta.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "user"))
		}
		filter.User = &user
	}
	if s := query.Get("kind"); s != "" {
		for _, k := range strings.Split(s, ",") {
			if k = strings.TrimSpace(k); k != "" {
				filter.Kinds = append(filter.Kinds, k)
			}
		}
	}

	from, to := query.Get("from"), query.Get("to")
	if from != "" || to != "" {
		filter.Range = &logdb.Range{To: ^uint32(0)}
		if from != "" {
			v, err := utils.ParseUint32(from)
			if err != nil {
				return nil, utils.BadRequest(errors.WithMessage(err, "from"))
			}
			filter.Range.From = v
		}
		if to != "" {
			v, err := utils.ParseUint32(to)
			if err != nil {
				return nil, utils.BadRequest(errors.WithMessage(err, "to"))
			}
			filter.Range.To = v
		}
		if filter.Range.From > filter.Range.To {
			return nil, utils.BadRequest(errors.New("from is greater than to"))
		}
	}

	switch order := query.Get("order"); order {
	case "", string(logdb.ASC):
	case string(logdb.DESC):
		filter.Order = logdb.DESC
	default:
		return nil, utils.BadRequest(errors.Errorf("order: unknown value %q", order))
	}

	var err error
	options := &logdb.Options{}
	if s := query.Get("offset"); s != "" {
		if options.Offset, err = strconv.ParseUint(s, 10, 63); err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "offset"))
		}
	}
	if s := query.Get("limit"); s != "" {
		if options.Limit, err = strconv.ParseUint(s, 10, 63); err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "limit"))
		}
	}
	filter.Options = options
	return filter, nil
}
