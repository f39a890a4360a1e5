// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testledger builds in-memory ledgers seeded with the devnet genesis.
package testledger

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/metanode/stake/clock"
	"github.com/metanode/stake/genesis"
	"github.com/metanode/stake/ledger"
	"github.com/metanode/stake/logdb"
	"github.com/metanode/stake/lvldb"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/staking"
)

// Chain is a devnet ledger driven by a manual clock.
type Chain struct {
	db     *lvldb.LevelDB
	logDB  *logdb.LogDB
	ledger *ledger.Ledger
	clock  *clock.Manual
}

// New returns a ledger with the devnet genesis applied at block 0.
func New() (*Chain, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}
	clk := clock.NewManual(0)
	l, err := ledger.New(db, clk, logDB, 256)
	if err != nil {
		logDB.Close()
		db.Close()
		return nil, err
	}
	if _, err := genesis.NewDevnet().Apply(context.Background(), l); err != nil {
		logDB.Close()
		db.Close()
		return nil, errors.Wrap(err, "apply devnet genesis")
	}
	return &Chain{db: db, logDB: logDB, ledger: l, clock: clk}, nil
}

func (c *Chain) Ledger() *ledger.Ledger { return c.ledger }
func (c *Chain) Clock() *clock.Manual   { return c.clock }
func (c *Chain) LogDB() *logdb.LogDB    { return c.logDB }

// Admin returns the devnet admin.
func (c *Chain) Admin() meta.Address {
	return genesis.DevAccounts()[0].Address
}

// Account returns the i-th devnet account.
func (c *Chain) Account(i int) meta.Address {
	return genesis.DevAccounts()[i].Address
}

// Advance moves the clock forward by n blocks.
func (c *Chain) Advance(n uint32) uint32 {
	return c.clock.Advance(n)
}

// Deposit stakes amount into pool pid for user. The native value is attached for the native
// pool, token pools are approved in the same transaction.
func (c *Chain) Deposit(pid uint32, user meta.Address, amount uint64) (*ledger.Receipt, error) {
	return c.ledger.Execute(context.Background(), "deposit", func(tx *ledger.Tx) error {
		p, err := tx.Staker.Pool(pid)
		if err != nil {
			return err
		}
		value := new(uint256.Int)
		if p.IsNative() {
			value.SetUint64(amount)
		} else if err := tx.Assets.Approve(p.Asset, user, staking.Address, uint256.NewInt(amount)); err != nil {
			return err
		}
		return tx.Staker.Deposit(pid, user, uint256.NewInt(amount), value)
	})
}

// Close releases the databases.
func (c *Chain) Close() error {
	err := c.logDB.Close()
	if dbErr := c.db.Close(); err == nil {
		err = dbErr
	}
	return err
}
