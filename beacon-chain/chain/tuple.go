// Package chain defines the value types the observable chain services pass
// between each other and publish to consumers: block/state tuples, the chain
// head, the observable state and the pending operations view.
package chain

import (
	"github.com/speculalabs/specula/beacon-chain/core/types"
)

// BeaconTuple pairs a block with its post-block state.
type BeaconTuple struct {
	Block *types.BeaconBlock
	State *types.BeaconStateEx
}

// NewBeaconTuple creates a tuple from a block and its post state.
func NewBeaconTuple(block *types.BeaconBlock, state *types.BeaconStateEx) *BeaconTuple {
	return &BeaconTuple{Block: block, State: state}
}

// BeaconTupleDetails is a tuple optionally augmented with the intermediate
// states the importer produced while processing the block. Any of the three
// may be nil.
type BeaconTupleDetails struct {
	BeaconTuple
	// PostSlotState is the state after the per-slot transition at the
	// block's slot, before the block itself was applied.
	PostSlotState *types.BeaconStateEx
	// PostBlockState is the state right after the block transition. When
	// present it equals the tuple's state pre epoch processing.
	PostBlockState *types.BeaconStateEx
	// PostEpochState is the state after the per-epoch transition, present
	// only when the block's slot sat on an epoch boundary.
	PostEpochState *types.BeaconStateEx
}

// NewBeaconTupleDetails wraps a bare tuple with no intermediate states.
func NewBeaconTupleDetails(tuple *BeaconTuple) *BeaconTupleDetails {
	return &BeaconTupleDetails{BeaconTuple: *tuple}
}

// FinalState returns the last state the importer produced for the block.
func (d *BeaconTupleDetails) FinalState() *types.BeaconStateEx {
	return d.State
}

// BeaconChainHead wraps the tuple of the current fork-choice head.
type BeaconChainHead struct {
	Tuple *BeaconTupleDetails
}

// NewBeaconChainHead creates a chain head from the head tuple.
func NewBeaconChainHead(tuple *BeaconTupleDetails) *BeaconChainHead {
	return &BeaconChainHead{Tuple: tuple}
}
