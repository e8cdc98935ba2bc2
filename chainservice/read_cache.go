// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package chainservice

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/iotexproject/go-pkgs/cache/ttl"
	"github.com/iotexproject/go-pkgs/hash"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-vesting/pkg/log"
)

type (
	// ReadKey represents a read key
	ReadKey struct {
		Name      string   `json:"name,omitempty"`
		Height    uint64   `json:"height,omitempty"`
		Timestamp int64    `json:"timestamp,omitempty"`
		Args      [][]byte `json:"args,omitempty"`
	}

	// ReadCache stores read results
	ReadCache struct {
		mu         sync.Mutex
		total, hit int
		c          *ttl.Cache
	}
)

// Hash returns the hash of key's json string
func (k *ReadKey) Hash() hash.Hash160 {
	b, _ := json.Marshal(k)
	return hash.Hash160b(b)
}

// NewReadCache returns a new read cache whose entries expire after expire
func NewReadCache(expire time.Duration) *ReadCache {
	c, _ := ttl.NewCache(ttl.AutoExpireOption(expire))
	return &ReadCache{
		c: c,
	}
}

// Get reads according to key
func (rc *ReadCache) Get(key hash.Hash160) ([]byte, bool) {
	rc.mu.Lock()
	rc.total++
	total := rc.total
	rc.mu.Unlock()
	d, ok := rc.c.Get(key)
	if !ok {
		return nil, false
	}
	rc.mu.Lock()
	rc.hit++
	hit := rc.hit
	rc.mu.Unlock()
	if hit%100 == 0 {
		log.Logger("chainservice").Info("Read cache hit", zap.Int("total", total), zap.Int("hit", hit))
	}
	return d.([]byte), true
}

// Put writes according to key
func (rc *ReadCache) Put(key hash.Hash160, value []byte) {
	rc.c.Set(key, value)
}

// Clear clears the cache
func (rc *ReadCache) Clear() {
	rc.c.Reset()
}
