// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vesting

import "github.com/pkg/errors"

// Category is a cohort of users sharing one vesting template pipeline
type Category uint8

// categories
const (
	// CategoryNone marks users that are activated without vesting
	CategoryNone Category = iota
	CategoryFounders
	CategoryTeam
	CategoryAdvisors
	CategoryPrivateSale
	CategoryPublicSale
	CategoryEcosystem
	CategoryCommunity
	CategoryTreasury

	// MaxCategory is the largest valid category id
	MaxCategory = CategoryTreasury
)

var _categoryNames = map[Category]string{
	CategoryNone:        "none",
	CategoryFounders:    "founders",
	CategoryTeam:        "team",
	CategoryAdvisors:    "advisors",
	CategoryPrivateSale: "private-sale",
	CategoryPublicSale:  "public-sale",
	CategoryEcosystem:   "ecosystem",
	CategoryCommunity:   "community",
	CategoryTreasury:    "treasury",
}

// ErrUnknownCategory is returned when parsing an unknown category name
var ErrUnknownCategory = errors.New("unknown category")

// Valid returns true for a known category, including CategoryNone
func (c Category) Valid() bool {
	return c <= MaxCategory
}

func (c Category) String() string {
	if name, ok := _categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCategory returns the category of a name
func ParseCategory(name string) (Category, error) {
	for c, n := range _categoryNames {
		if n == name {
			return c, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownCategory, "%s", name)
}
