package cache

import (
	"github.com/dgraph-io/ristretto"

	"github.com/speculalabs/specula/beacon-chain/core/types"
)

var seenAttsSize = int64(1 << 16)

// SeenAttCache filters duplicate gossip attestations before they reach the
// pool buffer. Admission is best effort: a duplicate that slips through is
// absorbed by the pool's key overwrite.
type SeenAttCache struct {
	cache *ristretto.Cache
}

// NewSeenAttCache creates the duplicate filter.
func NewSeenAttCache() (*SeenAttCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: seenAttsSize,
		MaxCost:     seenAttsSize,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &SeenAttCache{cache: c}, nil
}

// Seen records the attestation and reports whether it was already known.
func (c *SeenAttCache) Seen(att *types.Attestation) bool {
	id := att.ID()
	key := string(id[:])
	if _, ok := c.cache.Get(key); ok {
		return true
	}
	c.cache.Set(key, struct{}{}, 1)
	return false
}
