// Package cache implements the caches in front of tuple storage and the
// attestation pool.
package cache

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/speculalabs/specula/beacon-chain/chain"
)

// maxTupleDetailsSize bounds the number of imported tuples kept with their
// intermediate states.
const maxTupleDetailsSize = 256

var (
	tupleDetailsCacheHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tuple_details_cache_hit",
		Help: "The total number of cache hits on the tuple details cache.",
	})
	tupleDetailsCacheMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tuple_details_cache_miss",
		Help: "The total number of cache misses on the tuple details cache.",
	})
)

// TupleDetailsCache keeps the most recently imported block tuples, evicting
// in insertion order once full. Reads use Peek so a lookup never refreshes
// an entry's position.
type TupleDetailsCache struct {
	cache *lru.Cache
}

// NewTupleDetailsCache creates a details cache with the default capacity.
func NewTupleDetailsCache() (*TupleDetailsCache, error) {
	c, err := lru.New(maxTupleDetailsSize)
	if err != nil {
		return nil, err
	}
	return &TupleDetailsCache{cache: c}, nil
}

// Put stores the details of an imported block under its root.
func (c *TupleDetailsCache) Put(root [32]byte, details *chain.BeaconTupleDetails) {
	c.cache.Add(root, details)
}

// Get returns the details cached for a block root, if any.
func (c *TupleDetailsCache) Get(root [32]byte) (*chain.BeaconTupleDetails, bool) {
	v, ok := c.cache.Peek(root)
	if !ok {
		tupleDetailsCacheMiss.Inc()
		return nil, false
	}
	tupleDetailsCacheHit.Inc()
	return v.(*chain.BeaconTupleDetails), true
}

// Len returns the number of cached entries.
func (c *TupleDetailsCache) Len() int {
	return c.cache.Len()
}
