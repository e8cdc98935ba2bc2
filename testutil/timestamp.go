// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package testutil

import (
	"time"

	"github.com/facebookgo/clock"
)

// MockClockAt returns a mock clock set to the unix time ts
func MockClockAt(ts int64) *clock.Mock {
	c := clock.NewMock()
	c.Set(time.Unix(ts, 0))
	return c
}
