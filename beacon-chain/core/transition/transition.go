// Package transition defines the state transition contract consumed by the
// observable chain services, together with the empty-slot and epoch
// transitions applied when projecting a state forward.
package transition

import (
	"github.com/pkg/errors"

	"github.com/speculalabs/specula/beacon-chain/core/helpers"
	"github.com/speculalabs/specula/beacon-chain/core/types"
)

// StateTransition advances an extended beacon state by one step. Heavier
// implementations plug in behind this interface; the observable chain
// services only care about the contract.
type StateTransition interface {
	Apply(state *types.BeaconStateEx) (*types.BeaconStateEx, error)
}

// ErrNilState is returned when a transition is applied to a nil state.
var ErrNilState = errors.New("nil state")

// SlotTransition advances a state across one empty slot.
type SlotTransition struct{}

// NewSlotTransition returns the empty-slot transition.
func NewSlotTransition() *SlotTransition {
	return &SlotTransition{}
}

// Apply advances the state by a single slot.
func (t *SlotTransition) Apply(stateEx *types.BeaconStateEx) (*types.BeaconStateEx, error) {
	if stateEx == nil || stateEx.State == nil {
		return nil, ErrNilState
	}
	state := stateEx.State.Copy()
	state.Slot++
	return types.NewBeaconStateEx(state, types.TransitionSlot), nil
}

// EpochTransition applies end-of-epoch processing. Pending attestations whose
// data slot lies two or more epochs before the state's epoch have been fully
// accounted for and are dropped from the state's pending list.
type EpochTransition struct{}

// NewEpochTransition returns the per-epoch transition.
func NewEpochTransition() *EpochTransition {
	return &EpochTransition{}
}

// Apply runs epoch processing on the state.
func (t *EpochTransition) Apply(stateEx *types.BeaconStateEx) (*types.BeaconStateEx, error) {
	if stateEx == nil || stateEx.State == nil {
		return nil, ErrNilState
	}
	state := stateEx.State.Copy()
	currentEpoch := helpers.SlotToEpoch(state.Slot)
	kept := make([]*types.PendingAttestation, 0, len(state.LatestAttestations))
	for _, att := range state.LatestAttestations {
		if helpers.SlotToEpoch(att.Data.Slot)+1 >= currentEpoch {
			kept = append(kept, att)
		}
	}
	state.LatestAttestations = kept
	return types.NewBeaconStateEx(state, types.TransitionEpoch), nil
}
