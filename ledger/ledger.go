// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/metanode/stake/cache"
	"github.com/metanode/stake/clock"
	"github.com/metanode/stake/co"
	"github.com/metanode/stake/kv"
	"github.com/metanode/stake/log"
	"github.com/metanode/stake/logdb"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/staking"
	"github.com/metanode/stake/staking/reverts"
	"github.com/metanode/stake/state"
)

var logger = log.WithContext("pkg", "ledger")

// Receipt describes a committed transaction.
type Receipt struct {
	TxID    meta.Bytes32
	Op      string
	Block   uint32
	Changes int
	Events  []*staking.Event
}

// Ledger runs transactions one at a time over a kv store.
// Each transaction commits atomically or leaves the store untouched.
type Ledger struct {
	mu       sync.Mutex
	store    kv.Store
	cache    *cache.LRU
	clock    clock.Clock
	logDB    *logdb.LogDB
	head     Head
	notifier co.Notifier
}

// New opens the ledger. logDB is optional.
func New(store kv.Store, clk clock.Clock, logDB *logdb.LogDB, cacheSize int) (*Ledger, error) {
	head, err := loadHead(store)
	if err != nil {
		return nil, err
	}
	var c *cache.LRU
	if cacheSize > 0 {
		if c, err = cache.NewLRU(cacheSize); err != nil {
			return nil, errors.Wrap(err, "new cache")
		}
	}
	metricHeadBlock().Set(int64(head.Block))
	return &Ledger{
		store: store,
		cache: c,
		clock: clk,
		logDB: logDB,
		head:  head,
	}, nil
}

// Head returns the last committed head.
func (l *Ledger) Head() Head {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.head
}

// Committed returns a channel closed at the next commit.
func (l *Ledger) Committed() <-chan struct{} {
	return l.notifier.Wait()
}

// LogDB returns the event index, nil if none.
func (l *Ledger) LogDB() *logdb.LogDB {
	return l.logDB
}

// block returns the current block, rejecting clocks behind the head.
func (l *Ledger) block() (uint32, error) {
	block := l.clock.CurrentBlock()
	if block < l.head.Block {
		return 0, reverts.ErrClockRegression.WithMessage(fmt.Sprintf("block %d behind head %d", block, l.head.Block))
	}
	return block, nil
}

// View runs f against committed state. Changes made by f are discarded.
func (l *Ledger) View(ctx context.Context, f func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	block, err := l.block()
	if err != nil {
		return err
	}
	return f(newTx(state.New(l.store, l.cache), block, observeAccess))
}

// Execute runs f as one transaction named op at the current block.
// On error every effect of f is dropped and the error returned as is.
func (l *Ledger) Execute(ctx context.Context, op string, f func(tx *Tx) error) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	startTime := time.Now()
	receipt, err := l.execute(op, f)
	metricTxDuration().ObserveWithLabels(time.Since(startTime).Milliseconds(), map[string]string{"op": op})

	result := "committed"
	if err != nil {
		result = "failed"
		if kind := reverts.KindOf(err); kind != "" {
			result = "reverted"
			metricRevertCount().AddWithLabel(1, map[string]string{"kind": kind})
			logger.Debug("transaction reverted", "op", op, "kind", kind, "err", err)
		} else {
			logger.Warn("transaction failed", "op", op, "err", err)
		}
	}
	metricTxCount().AddWithLabel(1, map[string]string{"op": op, "result": result})
	return receipt, err
}

func (l *Ledger) execute(op string, f func(tx *Tx) error) (*Receipt, error) {
	block, err := l.block()
	if err != nil {
		return nil, err
	}

	st := state.New(l.store, l.cache)
	tx := newTx(st, block, observeAccess)
	if err := f(tx); err != nil {
		return nil, err
	}

	stage := st.Stage()
	head := l.head.next(block, stage.Hash())

	batch := l.store.NewBatch()
	if err := saveHead(batch, head); err != nil {
		return nil, errors.Wrap(err, "save head")
	}
	if err := stage.Commit(batch); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	l.head = head
	metricHeadBlock().Set(int64(block))
	l.reportCache()

	receipt := &Receipt{
		TxID:    head.Digest,
		Op:      op,
		Block:   block,
		Changes: stage.Len(),
		Events:  tx.Staker.Events(),
	}
	l.index(receipt)
	logger.Debug("transaction committed", "op", op, "block", block, "changes", receipt.Changes, "events", len(receipt.Events))

	l.notifier.Notify()
	return receipt, nil
}

// index writes the receipt events to the log db.
// The store is the source of truth so failures are logged only.
func (l *Ledger) index(receipt *Receipt) {
	if l.logDB == nil || len(receipt.Events) == 0 {
		return
	}
	w := l.logDB.NewWriter(receipt.Block, receipt.TxID, receipt.Op)
	for _, ev := range receipt.Events {
		w.Append(&logdb.Event{
			Kind:   string(ev.Kind),
			Pool:   ev.Pool,
			User:   ev.User,
			Amount: ev.Amount,
			Unlock: ev.Unlock,
		})
	}
	if err := w.Commit(); err != nil {
		logger.Error("failed to index events", "op", receipt.Op, "block", receipt.Block, "err", err)
	}
}

func (l *Ledger) reportCache() {
	if l.cache == nil {
		return
	}
	hit, miss, changed := l.cache.TakeStats()
	metricCacheCount().AddWithLabel(hit, map[string]string{"event": "hit"})
	metricCacheCount().AddWithLabel(miss, map[string]string{"event": "miss"})
	if changed {
		logger.Debug("record cache hit rate changed", "hit", hit, "miss", miss)
	}
}

// Snapshot returns a digest over every committed record.
func (l *Ledger) Snapshot() (meta.Bytes32, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	h, err := blake2b.New256(nil)
	if err != nil {
		return meta.Bytes32{}, err
	}
	it := state.Bucket.NewIterator(l.store, kv.Range{})
	defer it.Release()
	for it.Next() {
		h.Write(it.Key())
		h.Write(it.Value())
	}
	if err := it.Error(); err != nil {
		return meta.Bytes32{}, errors.Wrap(err, "iterate records")
	}
	var digest meta.Bytes32
	h.Sum(digest[:0])
	return digest, nil
}
