// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// create a table for staking events
const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY NOT NULL,
	txID BLOB(32),
	op TEXT,
	kind TEXT,
	pool INTEGER,
	user BLOB(20),
	amount BLOB,
	unlock INTEGER
);

CREATE INDEX IF NOT EXISTS event_i_pool ON event(pool, seq);
CREATE INDEX IF NOT EXISTS event_i_user ON event(user, seq);
CREATE INDEX IF NOT EXISTS event_i_kind ON event(kind, seq);
`
