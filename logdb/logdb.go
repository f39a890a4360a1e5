// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"math"
	"strings"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/metanode/stake/meta"
)

const (
	insertEventQuery = "INSERT OR REPLACE INTO event(seq, txID, op, kind, pool, user, amount, unlock) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	lastSeqQuery     = "SELECT MAX(seq) FROM event WHERE seq >= ? AND seq <= ?"
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a single writer connection keeps the in-memory db alive and serializes inserts
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmtCache:     newStmtCache(db),
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the version of the sqlite library in use.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// NewWriter returns a writer collecting the events of one block.
func (db *LogDB) NewWriter(block uint32, txID meta.Bytes32, op string) *Writer {
	return &Writer{
		db:    db,
		block: block,
		txID:  txID,
		op:    op,
	}
}

// FilterEvents returns the events matching filter.
func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	const query = "SELECT seq, txID, op, kind, pool, user, amount, unlock FROM event"
	if filter == nil {
		return db.queryEvents(ctx, query+" ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var (
		args       []any
		conditions []string
	)
	if filter.Range != nil {
		conditions = append(conditions, "seq >= ?")
		args = append(args, newSequence(filter.Range.From, 0))
		if filter.Range.To >= filter.Range.From {
			conditions = append(conditions, "seq <= ?")
			args = append(args, newSequence(filter.Range.To, math.MaxInt32))
		}
	}
	if filter.Pool != nil {
		conditions = append(conditions, "pool = ?")
		args = append(args, *filter.Pool)
	}
	if filter.User != nil {
		conditions = append(conditions, "user = ?")
		args = append(args, filter.User.Bytes())
	}
	if len(filter.Kinds) > 0 {
		conditions = append(conditions, "kind IN (?"+strings.Repeat(", ?", len(filter.Kinds)-1)+")")
		for _, k := range filter.Kinds {
			args = append(args, k)
		}
	}

	stmt := query
	if len(conditions) > 0 {
		stmt += " WHERE " + strings.Join(conditions, " AND ")
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq    sequence
			txID   []byte
			op     string
			kind   string
			pool   sql.NullInt64
			user   []byte
			amount []byte
			unlock uint32
		)
		if err := rows.Scan(&seq, &txID, &op, &kind, &pool, &user, &amount, &unlock); err != nil {
			return nil, err
		}
		event := &Event{
			BlockNumber: seq.BlockNumber(),
			Index:       seq.Index(),
			TxID:        meta.BytesToBytes32(txID),
			Op:          op,
			Kind:        kind,
			User:        meta.BytesToAddress(user),
			Unlock:      unlock,
		}
		if pool.Valid {
			pid := uint32(pool.Int64)
			event.Pool = &pid
		}
		if amount != nil {
			event.Amount = new(uint256.Int).SetBytes(amount)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Writer appends the events of one transaction after the events already stored for its block.
type Writer struct {
	db     *LogDB
	block  uint32
	txID   meta.Bytes32
	op     string
	events []*Event
}

// Append adds an event. Block, index, tx and op are assigned by the writer.
func (w *Writer) Append(ev *Event) *Writer {
	cpy := *ev
	cpy.BlockNumber = w.block
	cpy.TxID = w.txID
	cpy.Op = w.op
	w.events = append(w.events, &cpy)
	return w
}

// Len returns the number of pending events.
func (w *Writer) Len() int {
	return len(w.events)
}

// Commit writes pending events in one sql transaction.
func (w *Writer) Commit() error {
	if len(w.events) == 0 {
		return nil
	}
	// prepare before the tx takes the only connection
	stmt, err := w.db.stmtCache.Prepare(insertEventQuery)
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}
	err = w.execInTx(func(tx *sql.Tx) error {
		var last sql.NullInt64
		if err := tx.QueryRow(lastSeqQuery, newSequence(w.block, 0), newSequence(w.block, math.MaxInt32)).Scan(&last); err != nil {
			return err
		}
		next := uint32(0)
		if last.Valid {
			next = sequence(last.Int64).Index() + 1
		}

		txStmt := tx.Stmt(stmt)
		for i, ev := range w.events {
			ev.Index = next + uint32(i)
			var (
				pool   any
				amount []byte
			)
			if ev.Pool != nil {
				pool = *ev.Pool
			}
			if ev.Amount != nil {
				amount = ev.Amount.Bytes()
				if amount == nil {
					amount = []byte{}
				}
			}
			if _, err := txStmt.Exec(
				newSequence(ev.BlockNumber, ev.Index),
				ev.TxID.Bytes(),
				ev.Op,
				ev.Kind,
				pool,
				ev.User.Bytes(),
				amount,
				ev.Unlock,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "insert events")
	}
	metricInsertedEvents().Add(int64(len(w.events)))
	w.events = nil
	return nil
}

func (w *Writer) execInTx(proc func(*sql.Tx) error) error {
	tx, err := w.db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
