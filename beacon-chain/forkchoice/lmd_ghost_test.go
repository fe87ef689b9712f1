package forkchoice

import (
	"testing"

	eth2types "github.com/prysmaticlabs/eth2-types"

	"github.com/speculalabs/specula/beacon-chain/core/types"
	"github.com/speculalabs/specula/shared/testutil/require"
)

// treeSource is a hand-built block tree for tests.
type treeSource struct {
	blocks   map[[32]byte]*types.BeaconBlock
	children map[[32]byte][][32]byte
}

func newTreeSource() *treeSource {
	return &treeSource{
		blocks:   make(map[[32]byte]*types.BeaconBlock),
		children: make(map[[32]byte][][32]byte),
	}
}

func (s *treeSource) add(root [32]byte, block *types.BeaconBlock) {
	s.blocks[root] = block
	s.children[block.ParentRoot] = append(s.children[block.ParentRoot], root)
}

func (s *treeSource) Block(root [32]byte) (*types.BeaconBlock, bool) {
	b, ok := s.blocks[root]
	return b, ok
}

func (s *treeSource) Children(root [32]byte) [][32]byte {
	return s.children[root]
}

func makeRoot(b byte) [32]byte {
	var r [32]byte
	r[0] = b
	return r
}

func makeValidators(n int) []*types.Validator {
	validators := make([]*types.Validator, n)
	for i := 0; i < n; i++ {
		var pk types.BLSPubkey
		pk[0] = byte(i + 1)
		validators[i] = &types.Validator{Pubkey: pk}
	}
	return validators
}

func ghostOver(tree *treeSource, start [32]byte, validators []*types.Validator) *LMDGhost {
	return NewLMDGhost(
		tree,
		func() ([32]byte, bool) { return start, true },
		func() []*types.Validator { return validators },
	)
}

func voteFor(targets map[types.BLSPubkey][32]byte) LatestAttestationResolver {
	return func(v *types.Validator) (*types.Attestation, bool) {
		root, ok := targets[v.Pubkey]
		if !ok {
			return nil, false
		}
		return &types.Attestation{
			Data: &types.AttestationData{Slot: 1, BeaconBlockRoot: root},
		}, true
	}
}

func TestLMDGhost_LinearChain(t *testing.T) {
	tree := newTreeSource()
	a, b, c := makeRoot(1), makeRoot(2), makeRoot(3)
	tree.add(a, &types.BeaconBlock{Slot: 0})
	tree.add(b, &types.BeaconBlock{Slot: 1, ParentRoot: a})
	tree.add(c, &types.BeaconBlock{Slot: 2, ParentRoot: b})

	g := ghostOver(tree, a, makeValidators(0))
	head, err := g.Head(func(*types.Validator) (*types.Attestation, bool) { return nil, false })
	require.NoError(t, err)
	require.Equal(t, eth2types.Slot(2), head.Slot, "expected the chain tip")
}

func TestLMDGhost_MajorityBranchWins(t *testing.T) {
	tree := newTreeSource()
	a, b, c := makeRoot(1), makeRoot(2), makeRoot(3)
	tree.add(a, &types.BeaconBlock{Slot: 0})
	tree.add(b, &types.BeaconBlock{Slot: 1, ParentRoot: a, StateRoot: makeRoot(9)})
	tree.add(c, &types.BeaconBlock{Slot: 1, ParentRoot: a})

	validators := makeValidators(3)
	g := ghostOver(tree, a, validators)
	head, err := g.Head(voteFor(map[types.BLSPubkey][32]byte{
		validators[0].Pubkey: b,
		validators[1].Pubkey: b,
		validators[2].Pubkey: c,
	}))
	require.NoError(t, err)
	got, _ := head.HashTreeRoot()
	want, _ := tree.blocks[b].HashTreeRoot()
	require.Equal(t, want, got, "branch with two votes should win")
}

func TestLMDGhost_VotesCountForAncestors(t *testing.T) {
	// A -> B -> D and A -> C. Two votes on D outweigh one vote on C at the
	// first fork even though nothing votes for B directly.
	tree := newTreeSource()
	a, b, c, d := makeRoot(1), makeRoot(2), makeRoot(3), makeRoot(4)
	tree.add(a, &types.BeaconBlock{Slot: 0})
	tree.add(b, &types.BeaconBlock{Slot: 1, ParentRoot: a})
	tree.add(c, &types.BeaconBlock{Slot: 1, ParentRoot: a, StateRoot: makeRoot(9)})
	tree.add(d, &types.BeaconBlock{Slot: 2, ParentRoot: b})

	validators := makeValidators(3)
	g := ghostOver(tree, a, validators)
	head, err := g.Head(voteFor(map[types.BLSPubkey][32]byte{
		validators[0].Pubkey: d,
		validators[1].Pubkey: d,
		validators[2].Pubkey: c,
	}))
	require.NoError(t, err)
	require.Equal(t, eth2types.Slot(2), head.Slot)
}

func TestLMDGhost_NoBlocks(t *testing.T) {
	g := NewLMDGhost(
		newTreeSource(),
		func() ([32]byte, bool) { return [32]byte{}, false },
		func() []*types.Validator { return nil },
	)
	_, err := g.Head(func(*types.Validator) (*types.Attestation, bool) { return nil, false })
	require.ErrorIs(t, err, ErrNoBlocks)
}
