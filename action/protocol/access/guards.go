// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package access

import (
	"context"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-vesting/action/protocol"
)

// IsOwner returns true if addr is the current owner
func (p *Protocol) IsOwner(sr protocol.StateReader, addr address.Address) (bool, error) {
	r, err := p.Roles(sr)
	if err != nil {
		return false, err
	}
	return protocol.AddressEqual(r.Owner, addr), nil
}

// AssertOwner fails unless the caller is the owner
func (p *Protocol) AssertOwner(ctx context.Context, sr protocol.StateReader) error {
	caller := protocol.MustGetActionCtx(ctx).Caller
	isOwner, err := p.IsOwner(sr, caller)
	if err != nil {
		return err
	}
	if !isOwner {
		return errors.Wrapf(protocol.ErrUnauthorized, "%s is not the owner", caller.String())
	}
	return nil
}

// AssertOwnerOrGuardian fails unless the caller is the owner or a guardian
func (p *Protocol) AssertOwnerOrGuardian(ctx context.Context, sr protocol.StateReader) error {
	caller := protocol.MustGetActionCtx(ctx).Caller
	isOwner, err := p.IsOwner(sr, caller)
	if err != nil {
		return err
	}
	if isOwner {
		return nil
	}
	f, err := p.Flags(sr, caller)
	if err != nil {
		return err
	}
	if !f.Guardian {
		return errors.Wrapf(protocol.ErrUnauthorized, "%s is neither the owner nor a guardian", caller.String())
	}
	return nil
}

// AssertOwnerOrOperator fails unless the caller is the owner or the operator
func (p *Protocol) AssertOwnerOrOperator(ctx context.Context, sr protocol.StateReader) error {
	caller := protocol.MustGetActionCtx(ctx).Caller
	r, err := p.Roles(sr)
	if err != nil {
		return err
	}
	if protocol.AddressEqual(r.Owner, caller) || protocol.AddressEqual(r.Operator, caller) {
		return nil
	}
	return errors.Wrapf(protocol.ErrUnauthorized, "%s is neither the owner nor the operator", caller.String())
}

// AssertNotBlacklisted fails if any of the accounts is blacklisted
func (p *Protocol) AssertNotBlacklisted(sr protocol.StateReader, addrs ...address.Address) error {
	for _, addr := range addrs {
		if protocol.IsZeroAddress(addr) {
			continue
		}
		f, err := p.Flags(sr, addr)
		if err != nil {
			return err
		}
		if f.Blacklisted {
			return errors.Wrapf(protocol.ErrRestricted, "%s is blacklisted", addr.String())
		}
	}
	return nil
}

// AssertNotPaused fails while the pause gate is closed
func (p *Protocol) AssertNotPaused(sr protocol.StateReader) error {
	c, err := p.Config(sr)
	if err != nil {
		return err
	}
	if c.Paused {
		return protocol.ErrPaused
	}
	return nil
}

// IsRestricted returns true if the account is blacklisted or excluded from voting
func (p *Protocol) IsRestricted(sr protocol.StateReader, addr address.Address) (bool, error) {
	f, err := p.Flags(sr, addr)
	if err != nil {
		return false, err
	}
	return f.restricted(), nil
}
