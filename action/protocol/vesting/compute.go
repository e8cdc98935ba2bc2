// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vesting

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var _percentageBase = uint256.NewInt(PercentageBase)

// ComputeUnlocked returns the amount of a record unlocked at asOf, never above the allocation
func ComputeUnlocked(pipeline *Pipeline, rec *Record, asOf uint64) (*big.Int, error) {
	if rec == nil || !rec.Initialized {
		return big.NewInt(0), nil
	}
	allocation, overflow := uint256.FromBig(rec.Allocation)
	if overflow || rec.Allocation.Sign() < 0 {
		return nil, errors.Errorf("allocation %s out of range", rec.Allocation)
	}
	unlocked := uint256.NewInt(0)
	for i := 0; i < int(pipeline.TemplateCount) && i < len(pipeline.Templates); i++ {
		segment, err := segmentUnlocked(&pipeline.Templates[i], allocation, asOf)
		if err != nil {
			return nil, errors.Wrapf(err, "template %d", i)
		}
		if _, overflow := unlocked.AddOverflow(unlocked, segment); overflow {
			return nil, errors.New("unlocked amount overflows")
		}
	}
	if unlocked.Gt(allocation) {
		unlocked.Set(allocation)
	}
	return unlocked.ToBig(), nil
}

// segmentUnlocked returns allocation * percentage * elapsed / (base * duration) of one template
func segmentUnlocked(t *Template, allocation *uint256.Int, asOf uint64) (*uint256.Int, error) {
	if !t.Used() || asOf < t.CliffTime || asOf < t.StartTime {
		return uint256.NewInt(0), nil
	}
	share, overflow := new(uint256.Int).MulOverflow(allocation, uint256.NewInt(t.Percentage))
	if overflow {
		return nil, errors.New("share overflows")
	}
	duration := t.EndTime - t.StartTime
	if duration == 0 || asOf >= t.EndTime {
		return share.Div(share, _percentageBase), nil
	}
	elapsed := asOf - t.StartTime
	denominator, overflow := new(uint256.Int).MulOverflow(_percentageBase, uint256.NewInt(duration))
	if overflow {
		return nil, errors.New("denominator overflows")
	}
	segment, overflow := new(uint256.Int).MulDivOverflow(share, uint256.NewInt(elapsed), denominator)
	if overflow {
		return nil, errors.New("segment overflows")
	}
	return segment, nil
}

// claimableOf returns unlocked minus claimed, never negative
func claimableOf(pipeline *Pipeline, rec *Record, asOf uint64) (*big.Int, error) {
	unlocked, err := ComputeUnlocked(pipeline, rec, asOf)
	if err != nil {
		return nil, err
	}
	if rec == nil || unlocked.Cmp(rec.Claimed) <= 0 {
		return big.NewInt(0), nil
	}
	return unlocked.Sub(unlocked, rec.Claimed), nil
}
