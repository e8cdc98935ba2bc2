// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"github.com/pkg/errors"
)

// Errors shared by every protocol. Each aborts the whole action.
var (
	ErrUnauthorized        = errors.New("caller is not authorized")
	ErrInvalidParameter    = errors.New("invalid parameter")
	ErrAlreadyInitialized  = errors.New("already initialized")
	ErrNotInitialized      = errors.New("not initialized")
	ErrNothingToClaim      = errors.New("nothing to claim")
	ErrStaleNonce          = errors.New("stale nonce")
	ErrRestricted          = errors.New("restricted")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrInvalidReallocation = errors.New("invalid reallocation")
	ErrPaused              = errors.New("paused")
	ErrUnsupportedAction   = errors.New("unsupported action")
)
