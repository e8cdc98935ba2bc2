// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v2"

	"github.com/iotexproject/iotex-vesting/action"
	"github.com/iotexproject/iotex-vesting/action/protocol/vesting"
)

// DefaultBatchSize is the number of legacy users registered per action
const DefaultBatchSize = 200

var errInvalidEntry = errors.New("invalid entry")

type (
	// Entry is one legacy holder of an entries file
	Entry struct {
		Address  string `yaml:"address"`
		Amount   string `yaml:"amount"`
		Category string `yaml:"category"`
	}

	entriesFile struct {
		Users []Entry `yaml:"users"`
	}
)

// ReadEntries reads the legacy holders from a yaml file, or from a json file when the extension is .json
func ReadEntries(path string) ([]Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if !gjson.ValidBytes(b) {
			return nil, errors.Errorf("%s is not valid json", path)
		}
		var entries []Entry
		for _, u := range gjson.GetBytes(b, "users").Array() {
			entries = append(entries, Entry{
				Address:  u.Get("address").String(),
				Amount:   u.Get("amount").String(),
				Category: u.Get("category").String(),
			})
		}
		return entries, nil
	}
	var f entriesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal %s", path)
	}
	return f.Users, nil
}

// Batches splits the entries into bulk insert actions of at most size users. The nonce is left
// to the caller.
func Batches(entries []Entry, size int) ([]*action.BulkInsertLegacyUsers, error) {
	if size <= 0 {
		return nil, errors.Errorf("invalid batch size %d", size)
	}
	var (
		batches []*action.BulkInsertLegacyUsers
		cur     *action.BulkInsertLegacyUsers
	)
	for i, e := range entries {
		user, err := address.FromString(e.Address)
		if err != nil {
			return nil, errors.Wrapf(errInvalidEntry, "entry %d address %q", i, e.Address)
		}
		amount, ok := new(big.Int).SetString(e.Amount, 10)
		if !ok {
			return nil, errors.Wrapf(errInvalidEntry, "entry %d amount %q", i, e.Amount)
		}
		category, err := vesting.ParseCategory(e.Category)
		if err != nil {
			return nil, errors.Wrapf(errInvalidEntry, "entry %d category %q", i, e.Category)
		}
		if cur == nil || len(cur.Users) == size {
			cur = &action.BulkInsertLegacyUsers{}
			batches = append(batches, cur)
		}
		cur.Users = append(cur.Users, user)
		cur.Amounts = append(cur.Amounts, amount)
		cur.Categories = append(cur.Categories, uint8(category))
	}
	return batches, nil
}
