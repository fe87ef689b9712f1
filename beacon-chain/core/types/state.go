package types

import (
	eth2types "github.com/prysmaticlabs/eth2-types"
)

// Validator is a registry entry.
type Validator struct {
	Pubkey          BLSPubkey
	ActivationEpoch eth2types.Epoch
	ExitEpoch       eth2types.Epoch
}

// BeaconState is the consensus state tracked per block. Only the fields the
// observable chain services consume are modeled; the full state lives behind
// the transition implementations.
type BeaconState struct {
	Slot               eth2types.Slot
	Validators         []*Validator
	LatestAttestations []*PendingAttestation
}

// Copy returns a deep enough copy for a transition to mutate: top-level
// slices are duplicated, the entries they point at are shared and treated
// as immutable.
func (s *BeaconState) Copy() *BeaconState {
	validators := make([]*Validator, len(s.Validators))
	copy(validators, s.Validators)
	atts := make([]*PendingAttestation, len(s.LatestAttestations))
	copy(atts, s.LatestAttestations)
	return &BeaconState{
		Slot:               s.Slot,
		Validators:         validators,
		LatestAttestations: atts,
	}
}

// BeaconStateEx is a beacon state together with the transition that
// produced it.
type BeaconStateEx struct {
	State      *BeaconState
	Transition TransitionType
}

// NewBeaconStateEx wraps a state with a transition tag.
func NewBeaconStateEx(state *BeaconState, transition TransitionType) *BeaconStateEx {
	return &BeaconStateEx{State: state, Transition: transition}
}

// Slot returns the state's slot.
func (s *BeaconStateEx) Slot() eth2types.Slot {
	return s.State.Slot
}
