// Package db provides the in-memory storage of block/state tuples keyed by
// block root, together with the parent-to-children index the fork choice
// walks.
package db

import (
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/speculalabs/specula/beacon-chain/chain"
	"github.com/speculalabs/specula/beacon-chain/core/types"
)

// ErrNilTuple is returned when saving a nil tuple.
var ErrNilTuple = errors.New("nil beacon tuple")

// TupleStore holds block/state tuples by block root.
type TupleStore struct {
	tuples *gocache.Cache

	mu         sync.RWMutex
	children   map[[32]byte][][32]byte
	originRoot [32]byte
	hasOrigin  bool
}

// NewTupleStore creates an empty store.
func NewTupleStore() *TupleStore {
	return &TupleStore{
		tuples:   gocache.New(gocache.NoExpiration, 0),
		children: make(map[[32]byte][][32]byte),
	}
}

// Save stores a tuple under its block root and indexes it under its parent.
// The first tuple saved becomes the origin of the tree.
func (s *TupleStore) Save(root [32]byte, tuple *chain.BeaconTuple) error {
	if tuple == nil || tuple.Block == nil {
		return ErrNilTuple
	}
	key := string(root[:])
	if _, ok := s.tuples.Get(key); ok {
		return nil
	}
	s.tuples.Set(key, tuple, gocache.NoExpiration)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.children[tuple.Block.ParentRoot] = append(s.children[tuple.Block.ParentRoot], root)
	if !s.hasOrigin {
		s.originRoot = root
		s.hasOrigin = true
	}
	return nil
}

// Tuple returns the tuple stored under the given block root.
func (s *TupleStore) Tuple(root [32]byte) (*chain.BeaconTuple, bool) {
	v, ok := s.tuples.Get(string(root[:]))
	if !ok {
		return nil, false
	}
	return v.(*chain.BeaconTuple), true
}

// Block returns the block stored under the given root.
func (s *TupleStore) Block(root [32]byte) (*types.BeaconBlock, bool) {
	tuple, ok := s.Tuple(root)
	if !ok {
		return nil, false
	}
	return tuple.Block, true
}

// Children returns the roots of all known blocks whose parent is root.
func (s *TupleStore) Children(root [32]byte) [][32]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kids := s.children[root]
	out := make([][32]byte, len(kids))
	copy(out, kids)
	return out
}

// OriginRoot returns the root of the first tuple ever saved, the starting
// point for head searches until justification is tracked.
func (s *TupleStore) OriginRoot() ([32]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.originRoot, s.hasOrigin
}

// Size returns the number of stored tuples.
func (s *TupleStore) Size() int {
	return s.tuples.ItemCount()
}
