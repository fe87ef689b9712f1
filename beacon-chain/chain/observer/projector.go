package observer

import (
	"github.com/pkg/errors"
	eth2types "github.com/prysmaticlabs/eth2-types"

	"github.com/speculalabs/specula/beacon-chain/core/helpers"
	"github.com/speculalabs/specula/beacon-chain/core/transition"
	"github.com/speculalabs/specula/beacon-chain/core/types"
)

// stateProjector advances a post-block state across empty slots.
type stateProjector struct {
	perSlot  transition.StateTransition
	perEpoch transition.StateTransition
}

func newStateProjector(perSlot, perEpoch transition.StateTransition) *stateProjector {
	return &stateProjector{perSlot: perSlot, perEpoch: perEpoch}
}

// Project advances the source state one slot at a time until it reaches the
// target slot, applying the per-epoch transition at every epoch boundary
// crossed on the way except the target slot itself. The epoch transition at
// the target is left to ProjectEpochIfNeeded so both sides of the boundary
// are observable.
func (p *stateProjector) Project(source *types.BeaconStateEx, target eth2types.Slot) (*types.BeaconStateEx, error) {
	if target < source.Slot() {
		return nil, errors.Errorf("target slot %d below source slot %d", target, source.Slot())
	}
	state := source
	for state.Slot() < target {
		next, err := p.perSlot.Apply(state)
		if err != nil {
			return nil, errors.Wrapf(err, "slot transition to %d", state.Slot()+1)
		}
		state = next
		if helpers.IsEpochEnd(state.Slot()) && state.Slot() != target {
			next, err = p.perEpoch.Apply(state)
			if err != nil {
				return nil, errors.Wrapf(err, "epoch transition at %d", state.Slot())
			}
			state = next
		}
	}
	return state, nil
}

// ProjectEpochIfNeeded applies the epoch transition at the projected state's
// slot. It returns nil when the slot is not an epoch boundary or the
// projection never advanced past the source.
func (p *stateProjector) ProjectEpochIfNeeded(source, projected *types.BeaconStateEx) (*types.BeaconStateEx, error) {
	if !helpers.IsEpochEnd(projected.Slot()) || source.Slot() >= projected.Slot() {
		return nil, nil
	}
	state, err := p.perEpoch.Apply(projected)
	if err != nil {
		return nil, errors.Wrapf(err, "epoch transition at %d", projected.Slot())
	}
	return state, nil
}
