// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package crypto

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-vesting/test/identityset"
)

func TestActivationSignature(t *testing.T) {
	require := require.New(t)

	domain := Domain{
		Name:              "IoTeX Vesting",
		Version:           "1",
		ChainID:           4689,
		VerifyingContract: identityset.Address(9),
	}
	account := identityset.Address(2)
	digest := ActivationDigest(domain, account)
	require.Len(digest, 32)
	require.Equal(digest, ActivationDigest(domain, account))
	require.NotEqual(digest, ActivationDigest(domain, identityset.Address(3)))
	other := domain
	other.ChainID = 4690
	require.NotEqual(digest, ActivationDigest(other, account))
	other = domain
	other.VerifyingContract = nil
	require.NotEqual(domain.Separator(), other.Separator())

	sig, err := SignActivation(identityset.PrivateKey(0), domain, account)
	require.NoError(err)
	v := NewSecp256k1Verifier()
	signer, err := v.Recover(digest, sig)
	require.NoError(err)
	require.Equal(identityset.Address(0).String(), signer.String())

	// a signature over another account recovers someone else
	signer, err = v.Recover(ActivationDigest(domain, identityset.Address(3)), sig)
	if err == nil {
		require.NotEqual(identityset.Address(0).String(), signer.String())
	}

	_, err = v.Recover(digest, []byte{1, 2, 3})
	require.Equal(ErrRecoverFailure, errors.Cause(err))
}
