// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package byteutil

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestByteUtil(t *testing.T) {
	require := require.New(t)

	b := Uint64ToBytesBigEndian(0x0102030405060708)
	require.Equal([]byte{1, 2, 3, 4, 5, 6, 7, 8}, b)
	require.Equal(uint64(0x0102030405060708), BytesToUint64BigEndian(b))

	h := BytesTo20B([]byte{1, 2})
	require.Equal(byte(1), h[18])
	require.Equal(byte(2), h[19])
	long := make([]byte, 25)
	long[24] = 9
	require.Equal(byte(9), BytesTo20B(long)[19])

	require.Equal([]byte{1}, Must([]byte{1}, nil))
	require.Panics(func() { Must(nil, errors.New("fail")) })
}
