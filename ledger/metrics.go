// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/metanode/stake/metrics"
)

var (
	metricTxCount     = metrics.LazyLoadCounterVec("ledger_tx_count", []string{"op", "result"})
	metricRevertCount = metrics.LazyLoadCounterVec("ledger_revert_count", []string{"kind"})
	metricTxDuration  = metrics.LazyLoadHistogramVec("ledger_tx_duration_ms", []string{"op"}, metrics.BucketLedgerTx)
	metricHeadBlock   = metrics.LazyLoadGauge("ledger_head_block")
	metricRecordCount = metrics.LazyLoadCounterVec("ledger_record_access_count", []string{"mode"})
	metricRecordBytes = metrics.LazyLoadCounterVec("ledger_record_access_bytes", []string{"mode"})
	metricCacheCount  = metrics.LazyLoadCounterVec("ledger_cache_count", []string{"event"})
)

func observeAccess(write bool, size int) {
	if !metrics.Enabled() {
		return
	}
	mode := "read"
	if write {
		mode = "write"
	}
	labels := map[string]string{"mode": mode}
	metricRecordCount().AddWithLabel(1, labels)
	metricRecordBytes().AddWithLabel(int64(size), labels)
}
