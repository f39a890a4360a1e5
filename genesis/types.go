// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/metanode/stake/fixedpoint"
	"github.com/metanode/stake/meta"
)

// Amount is a 256-bit amount written as a decimal or 0x-prefixed hex scalar.
type Amount struct {
	uint256.Int
}

func NewAmount(v *uint256.Int) *Amount {
	a := &Amount{}
	a.Set(v)
	return a
}

func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: amount must be a scalar", value.Line)
	}
	v, err := fixedpoint.Parse(value.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d: invalid amount %q", value.Line, value.Value)
	}
	a.Set(v)
	return nil
}

func (a Amount) MarshalYAML() (any, error) {
	return a.Dec(), nil
}

// Value returns the amount, zero if a is nil.
func (a *Amount) Value() *uint256.Int {
	if a == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(&a.Int)
}

// Asset is an asset address. The word native names the native asset.
type Asset meta.Address

func (a *Asset) UnmarshalYAML(value *yaml.Node) error {
	if strings.EqualFold(value.Value, "native") {
		*a = Asset(meta.NativeAsset)
		return nil
	}
	addr, err := meta.ParseAddress(value.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d: invalid asset %q", value.Line, value.Value)
	}
	*a = Asset(addr)
	return nil
}

func (a Asset) MarshalYAML() (any, error) {
	if meta.Address(a) == meta.NativeAsset {
		return "native", nil
	}
	return meta.Address(a).String(), nil
}

// Emission configures the reward schedule.
type Emission struct {
	RewardAsset    meta.Address `yaml:"rewardAsset"`
	StartBlock     uint32       `yaml:"startBlock"`
	EndBlock       uint32       `yaml:"endBlock"`
	RewardPerBlock *Amount      `yaml:"rewardPerBlock"`
	// Reserve is minted to the staking account to fund rewards.
	Reserve *Amount `yaml:"reserve"`
}

// Pool is an initial staking pool.
type Pool struct {
	Asset             Asset   `yaml:"asset"`
	Weight            *Amount `yaml:"weight"`
	MinDeposit        *Amount `yaml:"minDeposit"`
	UnstakeLockBlocks uint32  `yaml:"unstakeLockBlocks"`
}

// Allocation credits an initial balance.
type Allocation struct {
	Owner  meta.Address `yaml:"owner"`
	Amount *Amount      `yaml:"amount"`
}

// Token is a fungible token known at genesis.
type Token struct {
	Address     meta.Address `yaml:"address"`
	FeeBps      uint32       `yaml:"feeBps"`
	Allocations []Allocation `yaml:"allocations"`
}

// Config describes the initial ledger.
type Config struct {
	Admin    meta.Address   `yaml:"admin"`
	Emission Emission       `yaml:"emission"`
	Pools    []Pool         `yaml:"pools"`
	Accounts []Allocation   `yaml:"accounts"` // native balances
	Tokens   []Token        `yaml:"tokens"`
	Refusals []meta.Address `yaml:"refusals"` // accounts refusing native payments
}
