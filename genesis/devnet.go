// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/metanode/stake/fixedpoint"
	"github.com/metanode/stake/meta"
)

// DevAccount account for development.
type DevAccount struct {
	Address    meta.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for solo mode.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{meta.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

var (
	// DevRewardToken is the reward token of the devnet.
	DevRewardToken = meta.BytesToAddress([]byte("MetaNode"))
	// DevStakeToken is a plain token staked in the second devnet pool.
	DevStakeToken = meta.BytesToAddress([]byte("stake-token"))
)

// NewDevnet returns the config for solo mode. The first dev account is the admin.
func NewDevnet() *Config {
	accs := DevAccounts()
	ether := fixedpoint.MustParse("1000000000000000000")
	balance := new(uint256.Int).Mul(ether, uint256.NewInt(1_000_000))

	cfg := &Config{
		Admin: accs[0].Address,
		Emission: Emission{
			RewardAsset:    DevRewardToken,
			StartBlock:     0,
			EndBlock:       10_000_000,
			RewardPerBlock: NewAmount(ether),
			Reserve:        NewAmount(new(uint256.Int).Mul(ether, uint256.NewInt(10_000_000))),
		},
		Pools: []Pool{
			{Asset: Asset(meta.NativeAsset), Weight: NewAmount(uint256.NewInt(500)), MinDeposit: NewAmount(uint256.NewInt(100)), UnstakeLockBlocks: 20},
			{Asset: Asset(DevStakeToken), Weight: NewAmount(uint256.NewInt(100)), MinDeposit: NewAmount(uint256.NewInt(100)), UnstakeLockBlocks: 10},
		},
	}
	stake := Token{Address: DevStakeToken}
	for _, acc := range accs {
		cfg.Accounts = append(cfg.Accounts, Allocation{Owner: acc.Address, Amount: NewAmount(balance)})
		stake.Allocations = append(stake.Allocations, Allocation{Owner: acc.Address, Amount: NewAmount(balance)})
	}
	cfg.Tokens = []Token{stake}
	return cfg
}
