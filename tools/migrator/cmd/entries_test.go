// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-vesting/action/protocol/vesting"
	"github.com/iotexproject/iotex-vesting/test/identityset"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadEntries(t *testing.T) {
	require := require.New(t)

	a, b := identityset.Address(4).String(), identityset.Address(5).String()
	yamlPath := writeFile(t, "users.yaml", fmt.Sprintf(`
users:
  - address: %s
    amount: "1000"
    category: founders
  - address: %s
    amount: "300"
    category: none
`, a, b))
	jsonPath := writeFile(t, "users.json", fmt.Sprintf(
		`{"users":[{"address":"%s","amount":"1000","category":"founders"},{"address":"%s","amount":"300","category":"none"}]}`, a, b))

	for _, path := range []string{yamlPath, jsonPath} {
		entries, err := ReadEntries(path)
		require.NoError(err, path)
		require.Equal([]Entry{
			{Address: a, Amount: "1000", Category: "founders"},
			{Address: b, Amount: "300", Category: "none"},
		}, entries, path)
	}

	_, err := ReadEntries(writeFile(t, "bad.json", "{users"))
	require.Error(err)
	_, err = ReadEntries(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(err)
}

func TestBatches(t *testing.T) {
	require := require.New(t)

	entries := make([]Entry, 0, 5)
	for i := 0; i < 5; i++ {
		entries = append(entries, Entry{
			Address:  identityset.Address(i).String(),
			Amount:   fmt.Sprint(100 * (i + 1)),
			Category: "team",
		})
	}
	batches, err := Batches(entries, 2)
	require.NoError(err)
	require.Len(batches, 3)
	require.Len(batches[0].Users, 2)
	require.Len(batches[2].Users, 1)
	require.Equal(identityset.Address(4).String(), batches[2].Users[0].String())
	require.Equal("500", batches[2].Amounts[0].String())
	require.Equal(uint8(vesting.CategoryTeam), batches[2].Categories[0])

	batches, err = Batches(nil, 2)
	require.NoError(err)
	require.Empty(batches)

	_, err = Batches(entries, 0)
	require.Error(err)

	for _, e := range []Entry{
		{Address: "io1bad", Amount: "1", Category: "team"},
		{Address: identityset.Address(0).String(), Amount: "1.5", Category: "team"},
		{Address: identityset.Address(0).String(), Amount: "1", Category: "staff"},
	} {
		_, err = Batches([]Entry{e}, 2)
		require.Equal(errInvalidEntry, errors.Cause(err))
	}
}
