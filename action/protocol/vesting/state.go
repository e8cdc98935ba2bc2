// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vesting

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

const (
	// MaxTemplates is the number of template slots of a category
	MaxTemplates = 8
	// PercentageBase is the fixed-point representation of 100%
	PercentageBase = uint64(1e18)
)

type (
	// Template is one linear vesting tranche. A zero EndTime marks an unused slot.
	Template struct {
		Percentage uint64
		StartTime  uint64
		CliffTime  uint64
		EndTime    uint64
	}

	// Pipeline is the ordered template list of a category, index 0 has the highest priority
	Pipeline struct {
		TemplateCount uint8
		Enabled       bool
		Templates     []Template
	}

	// Record is the allocation and claim ledger of a user
	Record struct {
		Allocation  *big.Int
		Claimed     *big.Int
		Category    uint8
		Initialized bool
	}

	// Totals are the ledger totals across all users
	Totals struct {
		TotalAllocated *big.Int
		TotalClaimed   *big.Int
	}

	frozenState struct {
		Frozen bool
	}
)

// Used returns true if the slot holds a template
func (t *Template) Used() bool {
	return t.EndTime != 0
}

func (t *Template) validate() error {
	if t.Percentage > PercentageBase {
		return errors.Wrapf(errMalformedTemplate, "percentage %d over 100%%", t.Percentage)
	}
	if t.Used() && (t.StartTime > t.CliffTime || t.CliffTime > t.EndTime) {
		return errors.Wrapf(errMalformedTemplate, "start %d, cliff %d, end %d", t.StartTime, t.CliffTime, t.EndTime)
	}
	return nil
}

func newPipeline() *Pipeline {
	return &Pipeline{Templates: make([]Template, MaxTemplates)}
}

// Serialize serializes the pipeline into bytes
func (p *Pipeline) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(p)
}

// Deserialize deserializes bytes into the pipeline
func (p *Pipeline) Deserialize(data []byte) error {
	if err := rlp.DecodeBytes(data, p); err != nil {
		return err
	}
	if len(p.Templates) > MaxTemplates {
		return errors.Errorf("pipeline has %d templates", len(p.Templates))
	}
	for len(p.Templates) < MaxTemplates {
		p.Templates = append(p.Templates, Template{})
	}
	return nil
}

// percentageSum returns the sum of the used templates' percentages
func (p *Pipeline) percentageSum() uint64 {
	var sum uint64
	for i := range p.Templates {
		if p.Templates[i].Used() {
			sum += p.Templates[i].Percentage
		}
	}
	return sum
}

func newRecord() *Record {
	return &Record{Allocation: big.NewInt(0), Claimed: big.NewInt(0)}
}

// Serialize serializes the record into bytes
func (r *Record) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(r)
}

// Deserialize deserializes bytes into the record
func (r *Record) Deserialize(data []byte) error {
	if err := rlp.DecodeBytes(data, r); err != nil {
		return err
	}
	if r.Allocation == nil {
		r.Allocation = big.NewInt(0)
	}
	if r.Claimed == nil {
		r.Claimed = big.NewInt(0)
	}
	return nil
}

// Unclaimed returns allocation minus claimed
func (r *Record) Unclaimed() *big.Int {
	return new(big.Int).Sub(r.Allocation, r.Claimed)
}

func newTotals() *Totals {
	return &Totals{TotalAllocated: big.NewInt(0), TotalClaimed: big.NewInt(0)}
}

// Serialize serializes the totals into bytes
func (t *Totals) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(t)
}

// Deserialize deserializes bytes into the totals
func (t *Totals) Deserialize(data []byte) error {
	if err := rlp.DecodeBytes(data, t); err != nil {
		return err
	}
	if t.TotalAllocated == nil {
		t.TotalAllocated = big.NewInt(0)
	}
	if t.TotalClaimed == nil {
		t.TotalClaimed = big.NewInt(0)
	}
	return nil
}

// Serialize serializes the frozen flag into bytes
func (f *frozenState) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(f)
}

// Deserialize deserializes bytes into the frozen flag
func (f *frozenState) Deserialize(data []byte) error {
	return rlp.DecodeBytes(data, f)
}
