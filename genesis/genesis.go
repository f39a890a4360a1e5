// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"context"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/metanode/stake/asset"
	"github.com/metanode/stake/ledger"
	"github.com/metanode/stake/log"
	"github.com/metanode/stake/meta"
	"github.com/metanode/stake/staking"
)

var logger = log.WithContext("pkg", "genesis")

// Load reads the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return Parse(data)
}

// Parse decodes a yaml config. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks what can be checked without a ledger.
func (c *Config) Validate() error {
	if c.Admin.IsZero() {
		return errors.New("admin must be set")
	}
	if c.Emission.RewardAsset == meta.NativeAsset {
		return errors.New("emission: reward asset must be a token")
	}
	if c.Emission.StartBlock > c.Emission.EndBlock {
		return errors.New("emission: start block after end block")
	}
	if c.Emission.RewardPerBlock.Value().IsZero() {
		return errors.New("emission: reward per block must be positive")
	}
	for i, p := range c.Pools {
		if i == 0 && meta.Address(p.Asset) != meta.NativeAsset {
			return errors.New("pools: the first pool must stake the native asset")
		}
		if p.Weight.Value().IsZero() {
			return errors.Errorf("pools[%d]: weight must be positive", i)
		}
		if p.UnstakeLockBlocks == 0 {
			return errors.Errorf("pools[%d]: unstake lock must be positive", i)
		}
	}
	for _, t := range c.Tokens {
		if t.Address == meta.NativeAsset {
			return errors.New("tokens: native asset is not a token")
		}
		if t.FeeBps > asset.MaxFeeBps {
			return errors.Errorf("tokens: fee of %v exceeds %d bps", t.Address, asset.MaxFeeBps)
		}
	}
	return nil
}

// Apply writes the config as the first transaction of l.
// It returns false without touching l when l already has history.
func (c *Config) Apply(ctx context.Context, l *ledger.Ledger) (bool, error) {
	if head := l.Head(); head.Txs > 0 {
		logger.Debug("ledger already initialized, genesis skipped", "txs", head.Txs)
		return false, nil
	}
	receipt, err := l.Execute(ctx, "genesis", c.build)
	if err != nil {
		return false, errors.Wrap(err, "apply genesis")
	}
	logger.Info("genesis applied", "pools", len(c.Pools), "changes", receipt.Changes, "digest", receipt.TxID)
	return true, nil
}

func (c *Config) build(tx *ledger.Tx) error {
	for _, a := range c.Accounts {
		if err := tx.Assets.Mint(meta.NativeAsset, a.Owner, a.Amount.Value()); err != nil {
			return errors.Wrapf(err, "account %v", a.Owner)
		}
	}
	for _, t := range c.Tokens {
		if err := tx.Assets.SetFee(t.Address, t.FeeBps); err != nil {
			return errors.Wrapf(err, "token %v", t.Address)
		}
		for _, a := range t.Allocations {
			if err := tx.Assets.Mint(t.Address, a.Owner, a.Amount.Value()); err != nil {
				return errors.Wrapf(err, "token %v allocation %v", t.Address, a.Owner)
			}
		}
	}
	for _, addr := range c.Refusals {
		if err := tx.Assets.SetRefuse(addr, true); err != nil {
			return err
		}
	}

	e := c.Emission
	if err := tx.Staker.Initialize(c.Admin, staking.InitParams{
		RewardAsset:    e.RewardAsset,
		StartBlock:     e.StartBlock,
		EndBlock:       e.EndBlock,
		RewardPerBlock: e.RewardPerBlock.Value(),
	}); err != nil {
		return errors.Wrap(err, "initialize")
	}
	if reserve := e.Reserve.Value(); !reserve.IsZero() {
		if err := tx.Assets.Mint(e.RewardAsset, staking.Address, reserve); err != nil {
			return errors.Wrap(err, "reward reserve")
		}
	}
	for i, p := range c.Pools {
		if _, err := tx.Staker.AddPool(c.Admin, staking.PoolConfig{
			Asset:             meta.Address(p.Asset),
			Weight:            p.Weight.Value(),
			MinDeposit:        p.MinDeposit.Value(),
			UnstakeLockBlocks: p.UnstakeLockBlocks,
		}); err != nil {
			return errors.Wrapf(err, "pools[%d]", i)
		}
	}
	return nil
}

// Encode renders the config as yaml.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
