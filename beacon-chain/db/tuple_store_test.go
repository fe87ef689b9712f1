package db

import (
	"testing"

	eth2types "github.com/prysmaticlabs/eth2-types"

	"github.com/speculalabs/specula/beacon-chain/chain"
	"github.com/speculalabs/specula/beacon-chain/core/types"
	"github.com/speculalabs/specula/shared/testutil/assert"
	"github.com/speculalabs/specula/shared/testutil/require"
)

func makeRoot(b byte) [32]byte {
	var r [32]byte
	r[0] = b
	return r
}

func makeTuple(slot eth2types.Slot, parent [32]byte) *chain.BeaconTuple {
	block := &types.BeaconBlock{Slot: slot, ParentRoot: parent}
	state := types.NewBeaconStateEx(&types.BeaconState{Slot: slot}, types.TransitionBlock)
	return chain.NewBeaconTuple(block, state)
}

func TestTupleStore_SaveAndGet(t *testing.T) {
	store := NewTupleStore()
	root := makeRoot(1)
	tuple := makeTuple(0, [32]byte{})

	require.NoError(t, store.Save(root, tuple))

	got, ok := store.Tuple(root)
	require.Equal(t, true, ok)
	assert.Equal(t, tuple, got)

	_, ok = store.Tuple(makeRoot(2))
	assert.Equal(t, false, ok)
}

func TestTupleStore_SaveNil(t *testing.T) {
	store := NewTupleStore()
	require.ErrorIs(t, store.Save(makeRoot(1), nil), ErrNilTuple)
}

func TestTupleStore_ChildrenIndex(t *testing.T) {
	store := NewTupleStore()
	genesis := makeRoot(1)
	require.NoError(t, store.Save(genesis, makeTuple(0, [32]byte{})))
	require.NoError(t, store.Save(makeRoot(2), makeTuple(1, genesis)))
	require.NoError(t, store.Save(makeRoot(3), makeTuple(1, genesis)))

	kids := store.Children(genesis)
	require.Equal(t, 2, len(kids))

	// Re-saving the same root does not duplicate the child entry.
	require.NoError(t, store.Save(makeRoot(2), makeTuple(1, genesis)))
	require.Equal(t, 2, len(store.Children(genesis)))
}

func TestTupleStore_OriginRoot(t *testing.T) {
	store := NewTupleStore()
	_, ok := store.OriginRoot()
	require.Equal(t, false, ok)

	first := makeRoot(7)
	require.NoError(t, store.Save(first, makeTuple(0, [32]byte{})))
	require.NoError(t, store.Save(makeRoot(8), makeTuple(1, first)))

	origin, ok := store.OriginRoot()
	require.Equal(t, true, ok)
	assert.Equal(t, first, origin)
}
