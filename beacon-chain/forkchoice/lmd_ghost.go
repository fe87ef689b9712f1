// Package forkchoice implements the LMD-GHOST head function: greedily follow
// the heaviest observed subtree, weighing blocks by the latest attestation
// of each validator.
package forkchoice

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/speculalabs/specula/beacon-chain/core/types"
)

// LatestAttestationResolver returns the latest known attestation for a
// validator, or false when none is cached.
type LatestAttestationResolver func(validator *types.Validator) (*types.Attestation, bool)

// HeadFunction computes the current fork-choice head given a resolver for
// per-validator latest attestations.
type HeadFunction interface {
	Head(resolve LatestAttestationResolver) (*types.BeaconBlock, error)
}

// BlockSource is the view of the block tree the fork choice walks.
type BlockSource interface {
	Block(root [32]byte) (*types.BeaconBlock, bool)
	Children(root [32]byte) [][32]byte
}

// ErrNoBlocks is returned when the fork choice runs before any block was
// imported.
var ErrNoBlocks = errors.New("no blocks in fork choice store")

// LMDGhost walks the block tree from a start root, at each fork descending
// into the child whose subtree carries the most latest-attestation votes.
type LMDGhost struct {
	blocks     BlockSource
	startRoot  func() ([32]byte, bool)
	validators func() []*types.Validator
}

// NewLMDGhost creates the head function. startRoot supplies the root the
// search begins from (the justified block once justification is tracked,
// the origin block until then) and validators supplies the registry whose
// votes are counted.
func NewLMDGhost(
	blocks BlockSource,
	startRoot func() ([32]byte, bool),
	validators func() []*types.Validator,
) *LMDGhost {
	return &LMDGhost{blocks: blocks, startRoot: startRoot, validators: validators}
}

// Head returns the fork-choice winner.
func (g *LMDGhost) Head(resolve LatestAttestationResolver) (*types.BeaconBlock, error) {
	start, ok := g.startRoot()
	if !ok {
		return nil, ErrNoBlocks
	}

	// One vote per validator, at the root its latest attestation points to.
	votes := make(map[[32]byte]uint64)
	for _, v := range g.validators() {
		att, ok := resolve(v)
		if !ok {
			continue
		}
		votes[att.Data.BeaconBlockRoot]++
	}

	// Push each vote up the ancestor chain so every block carries the
	// weight of its whole subtree.
	var zero [32]byte
	weight := make(map[[32]byte]uint64)
	for target, n := range votes {
		root := target
		for {
			weight[root] += n
			if root == start {
				break
			}
			block, ok := g.blocks.Block(root)
			if !ok {
				break
			}
			root = block.ParentRoot
			if root == zero {
				break
			}
		}
	}

	current := start
	for {
		children := g.blocks.Children(current)
		if len(children) == 0 {
			block, ok := g.blocks.Block(current)
			if !ok {
				return nil, errors.Errorf("head block %#x not in store", current)
			}
			return block, nil
		}
		best := children[0]
		for _, child := range children[1:] {
			if weight[child] > weight[best] {
				best = child
				continue
			}
			if weight[child] == weight[best] && bytes.Compare(child[:], best[:]) > 0 {
				best = child
			}
		}
		current = best
	}
}
