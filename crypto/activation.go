// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package crypto

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/iotexproject/iotex-address/address"
)

var (
	_domainTypeHash = ethcrypto.Keccak256([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	// ActivationTypeHash is the type hash of the signed activation message
	ActivationTypeHash = ethcrypto.Keccak256([]byte("Activation(address account)"))
)

// Domain separates activation signatures of different deployments
type Domain struct {
	Name              string
	Version           string
	ChainID           uint64
	VerifyingContract address.Address
}

// Separator returns the hash of the domain
func (d Domain) Separator() []byte {
	var contract []byte
	if d.VerifyingContract != nil {
		contract = d.VerifyingContract.Bytes()
	}
	return ethcrypto.Keccak256(
		_domainTypeHash,
		ethcrypto.Keccak256([]byte(d.Name)),
		ethcrypto.Keccak256([]byte(d.Version)),
		common.LeftPadBytes(new(big.Int).SetUint64(d.ChainID).Bytes(), 32),
		common.LeftPadBytes(contract, 32),
	)
}

// ActivationDigest returns the digest the authorized signer signs to let account self-activate
func ActivationDigest(d Domain, account address.Address) []byte {
	structHash := ethcrypto.Keccak256(
		ActivationTypeHash,
		common.LeftPadBytes(account.Bytes(), 32),
	)
	return ethcrypto.Keccak256([]byte{0x19, 0x01}, d.Separator(), structHash)
}

// SignActivation signs the activation digest of account
func SignActivation(sk crypto.PrivateKey, d Domain, account address.Address) ([]byte, error) {
	return sk.Sign(ActivationDigest(d, account))
}
