// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package genesis

import (
	"math/big"
	"sort"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/config"
	"gopkg.in/yaml.v2"

	"github.com/iotexproject/iotex-vesting/action/protocol/access"
	"github.com/iotexproject/iotex-vesting/action/protocol/migration"
	"github.com/iotexproject/iotex-vesting/action/protocol/token"
	"github.com/iotexproject/iotex-vesting/action/protocol/vesting"
	"github.com/iotexproject/iotex-vesting/crypto"
	"github.com/iotexproject/iotex-vesting/test/identityset"
)

// Default contains the default genesis config
var Default = defaultConfig()

var (
	// ErrInvalidGenesis indicates a genesis value cannot be decoded
	ErrInvalidGenesis = errors.New("invalid genesis")

	_percentUnit = new(big.Rat).SetInt64(int64(vesting.PercentageBase / 100))
)

func defaultConfig() Genesis {
	return Genesis{
		Trading: Trading{
			StartTime: 1767225600,
		},
		Activation: Activation{
			DomainName:    "IoTeX Vesting",
			DomainVersion: "1",
			ChainID:       4689,
		},
		Account: Account{
			InitBalanceMap: map[string]string{},
		},
	}
}

// TestDefault returns a genesis with the roles held by the test identities
func TestDefault() Genesis {
	g := defaultConfig()
	g.Roles = Roles{
		OwnerAddrStr:     identityset.Address(0).String(),
		OperatorAddrStr:  identityset.Address(1).String(),
		SignerAddrStr:    identityset.Address(2).String(),
		GuardianAddrStrs: []string{identityset.Address(3).String()},
	}
	g.Trading.StartTime = 1000
	g.Activation.ChainID = 4690
	return g
}

type (
	// Genesis is the root level of genesis config
	Genesis struct {
		Roles      `yaml:"roles"`
		Trading    `yaml:"trading"`
		Activation `yaml:"activation"`
		Account    `yaml:"account"`
		Categories []Category `yaml:"categories"`
	}
	// Roles contains the initial role holders
	Roles struct {
		OwnerAddrStr     string   `yaml:"owner"`
		OperatorAddrStr  string   `yaml:"operator"`
		SignerAddrStr    string   `yaml:"signer"`
		GuardianAddrStrs []string `yaml:"guardians"`
	}
	// Trading contains the transfer gating and voting configs
	Trading struct {
		// StartTime is the unix time trading opens
		StartTime uint64 `yaml:"startTime"`
		// MaxVotingPowerStr caps the votes of any account, empty for the hard ceiling
		MaxVotingPowerStr string `yaml:"maxVotingPower"`
	}
	// Activation contains the domain of the activation digest
	Activation struct {
		DomainName    string `yaml:"domainName"`
		DomainVersion string `yaml:"domainVersion"`
		ChainID       uint64 `yaml:"chainID"`
	}
	// Account contains the initial balances
	Account struct {
		// InitBalanceMap is the address and initial balance mapping
		InitBalanceMap map[string]string `yaml:"initBalances"`
	}
	// Category is the initial pipeline of a vesting category
	Category struct {
		Name      string     `yaml:"name"`
		Enabled   bool       `yaml:"enabled"`
		Templates []Template `yaml:"templates"`
	}
	// Template is one vesting tranche, Percent is a decimal percentage such as "12.5"
	Template struct {
		Percent   string `yaml:"percent"`
		StartTime uint64 `yaml:"startTime"`
		CliffTime uint64 `yaml:"cliffTime"`
		EndTime   uint64 `yaml:"endTime"`
	}
)

// New constructs a genesis config. It loads the default values, and could be overwritten by values defined in the yaml
// config files
func New(genesisPath string) (Genesis, error) {
	def := defaultConfig()

	opts := make([]config.YAMLOption, 0)
	opts = append(opts, config.Static(def))
	if genesisPath != "" {
		opts = append(opts, config.File(genesisPath))
	}
	yaml, err := config.NewYAML(opts...)
	if err != nil {
		return Genesis{}, errors.Wrap(err, "error when constructing a genesis in yaml")
	}

	var genesis Genesis
	if err := yaml.Get(config.Root).Populate(&genesis); err != nil {
		return Genesis{}, errors.Wrap(err, "failed to unmarshal yaml genesis to struct")
	}
	return genesis, nil
}

// Hash is the hash of genesis config
func (g *Genesis) Hash() (hash.Hash256, error) {
	b, err := yaml.Marshal(g)
	if err != nil {
		return hash.ZeroHash256, errors.Wrap(err, "failed to marshal genesis")
	}
	return hash.Hash256b(b), nil
}

// Domain returns the domain of the activation digest
func (a *Activation) Domain() crypto.Domain {
	return crypto.Domain{
		Name:    a.DomainName,
		Version: a.DomainVersion,
		ChainID: a.ChainID,
	}
}

// AccessGenesis returns the initial role table and configuration
func (g *Genesis) AccessGenesis() (access.Genesis, error) {
	owner, err := decodeAddress("owner", g.OwnerAddrStr)
	if err != nil {
		return access.Genesis{}, err
	}
	operator, err := decodeOptionalAddress("operator", g.OperatorAddrStr)
	if err != nil {
		return access.Genesis{}, err
	}
	signer, err := decodeOptionalAddress("signer", g.SignerAddrStr)
	if err != nil {
		return access.Genesis{}, err
	}
	guardians := make([]address.Address, 0, len(g.GuardianAddrStrs))
	for _, s := range g.GuardianAddrStrs {
		guardian, err := decodeAddress("guardian", s)
		if err != nil {
			return access.Genesis{}, err
		}
		guardians = append(guardians, guardian)
	}
	maxVotingPower, err := g.MaxVotingPower()
	if err != nil {
		return access.Genesis{}, err
	}
	return access.Genesis{
		Owner:            owner,
		Operator:         operator,
		Signer:           signer,
		Guardians:        guardians,
		TradingStartTime: g.StartTime,
		MaxVotingPower:   maxVotingPower,
	}, nil
}

// MaxVotingPower returns the configured cap, nil when unset
func (t *Trading) MaxVotingPower() (*big.Int, error) {
	if t.MaxVotingPowerStr == "" {
		return nil, nil
	}
	n, ok := new(big.Int).SetString(t.MaxVotingPowerStr, 10)
	if !ok || n.Sign() <= 0 || n.Cmp(access.MaxVotingPowerCeiling) > 0 {
		return nil, errors.Wrapf(ErrInvalidGenesis, "max voting power %s", t.MaxVotingPowerStr)
	}
	return n, nil
}

// InitBalances returns the initial balances ordered by address
func (a *Account) InitBalances() ([]token.Alloc, error) {
	addrStrs := make([]string, 0, len(a.InitBalanceMap))
	for addrStr := range a.InitBalanceMap {
		addrStrs = append(addrStrs, addrStr)
	}
	sort.Strings(addrStrs)
	allocs := make([]token.Alloc, 0, len(addrStrs))
	for _, addrStr := range addrStrs {
		addr, err := decodeAddress("balance", addrStr)
		if err != nil {
			return nil, err
		}
		amount, ok := new(big.Int).SetString(a.InitBalanceMap[addrStr], 10)
		if !ok || amount.Sign() < 0 {
			return nil, errors.Wrapf(ErrInvalidGenesis, "balance %s of %s", a.InitBalanceMap[addrStr], addrStr)
		}
		allocs = append(allocs, token.Alloc{Account: addr, Amount: amount})
	}
	return allocs, nil
}

// Pipelines returns the initial category pipelines
func (g *Genesis) Pipelines() ([]vesting.GenesisPipeline, error) {
	pipelines := make([]vesting.GenesisPipeline, 0, len(g.Categories))
	for _, c := range g.Categories {
		category, err := vesting.ParseCategory(c.Name)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidGenesis, err.Error())
		}
		templates := make([]vesting.Template, 0, len(c.Templates))
		for _, t := range c.Templates {
			percentage, err := ParsePercent(t.Percent)
			if err != nil {
				return nil, errors.Wrapf(err, "category %s", c.Name)
			}
			templates = append(templates, vesting.Template{
				Percentage: percentage,
				StartTime:  t.StartTime,
				CliffTime:  t.CliffTime,
				EndTime:    t.EndTime,
			})
		}
		pipelines = append(pipelines, vesting.GenesisPipeline{
			Category:  category,
			Enabled:   c.Enabled,
			Templates: templates,
		})
	}
	return pipelines, nil
}

// MigrationGenesis assembles the initial state of the whole migration
func (g *Genesis) MigrationGenesis() (migration.Genesis, error) {
	ag, err := g.AccessGenesis()
	if err != nil {
		return migration.Genesis{}, err
	}
	balances, err := g.InitBalances()
	if err != nil {
		return migration.Genesis{}, err
	}
	pipelines, err := g.Pipelines()
	if err != nil {
		return migration.Genesis{}, err
	}
	return migration.Genesis{
		Access:    ag,
		Balances:  balances,
		Pipelines: pipelines,
	}, nil
}

// ParsePercent converts a decimal percentage into the fixed-point share of the vesting engine
func ParsePercent(s string) (uint64, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok || r.Sign() < 0 || r.Cmp(big.NewRat(100, 1)) > 0 {
		return 0, errors.Wrapf(ErrInvalidGenesis, "percent %q", s)
	}
	r.Mul(r, _percentUnit)
	if !r.IsInt() {
		return 0, errors.Wrapf(ErrInvalidGenesis, "percent %q is too precise", s)
	}
	return r.Num().Uint64(), nil
}

func decodeAddress(role, s string) (address.Address, error) {
	addr, err := address.FromString(s)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidGenesis, "%s address %q: %v", role, s, err)
	}
	return addr, nil
}

func decodeOptionalAddress(role, s string) (address.Address, error) {
	if s == "" {
		return nil, nil
	}
	return decodeAddress(role, s)
}
