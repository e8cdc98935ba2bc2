// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package crypto

import (
	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
)

// ErrRecoverFailure is returned when no public key can be recovered from a signature
var ErrRecoverFailure = errors.New("failed to recover signer")

// Verifier recovers the address that signed a digest
type Verifier interface {
	Recover(digest []byte, sig []byte) (address.Address, error)
}

type secp256k1Verifier struct{}

// NewSecp256k1Verifier returns a verifier recovering secp256k1 signatures
func NewSecp256k1Verifier() Verifier {
	return &secp256k1Verifier{}
}

func (v *secp256k1Verifier) Recover(digest []byte, sig []byte) (address.Address, error) {
	pk, err := crypto.RecoverPubkey(digest, sig)
	if err != nil {
		return nil, errors.Wrap(ErrRecoverFailure, err.Error())
	}
	addr := pk.Address()
	if addr == nil {
		return nil, errors.Wrap(ErrRecoverFailure, "failed to derive address")
	}
	return addr, nil
}
