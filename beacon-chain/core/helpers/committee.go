// Package helpers contains the consensus helper functions the observable
// chain services consume: committee assignment, attestation participant
// expansion and slot/epoch math.
package helpers

import (
	"github.com/pkg/errors"
	eth2types "github.com/prysmaticlabs/eth2-types"
	"github.com/prysmaticlabs/go-bitfield"

	"github.com/speculalabs/specula/beacon-chain/core/types"
	"github.com/speculalabs/specula/shared/params"
)

// ErrBitfieldMismatch is returned when an aggregation bitfield does not fit
// the committee it claims to cover.
var ErrBitfieldMismatch = errors.New("aggregation bitfield does not match committee size")

// ActiveValidatorIndices returns the indices of validators active in the
// given epoch, in registry order.
func ActiveValidatorIndices(state *types.BeaconState, epoch eth2types.Epoch) []eth2types.ValidatorIndex {
	indices := make([]eth2types.ValidatorIndex, 0, len(state.Validators))
	for i, v := range state.Validators {
		if v.ActivationEpoch <= epoch && epoch < v.ExitEpoch {
			indices = append(indices, eth2types.ValidatorIndex(i))
		}
	}
	return indices
}

// SlotCommittee returns the committee attesting at the given slot: the
// active validator set split into SlotsPerEpoch contiguous chunks, indexed
// by the slot's position within its epoch.
func SlotCommittee(state *types.BeaconState, slot eth2types.Slot) []eth2types.ValidatorIndex {
	active := ActiveValidatorIndices(state, SlotToEpoch(slot))
	if len(active) == 0 {
		return nil
	}
	slotsPerEpoch := params.BeaconConfig().SlotsPerEpoch
	position := uint64(slot) % slotsPerEpoch
	size := uint64(len(active)) / slotsPerEpoch
	if size == 0 {
		// Fewer active validators than slots: everyone attests every slot.
		return active
	}
	start := position * size
	end := start + size
	if position == slotsPerEpoch-1 {
		end = uint64(len(active))
	}
	return active[start:end]
}

// AttestationParticipants expands an aggregation bitfield over the committee
// for the attestation's slot into the participating validator indices.
func AttestationParticipants(
	state *types.BeaconState,
	data *types.AttestationData,
	bits bitfield.Bitlist,
) ([]eth2types.ValidatorIndex, error) {
	committee := SlotCommittee(state, data.Slot)
	if bits.Len() != uint64(len(committee)) {
		return nil, errors.Wrapf(ErrBitfieldMismatch, "bitfield length %d, committee size %d at slot %d",
			bits.Len(), len(committee), data.Slot)
	}
	participants := make([]eth2types.ValidatorIndex, 0, bits.Count())
	for i, idx := range committee {
		if bits.BitAt(uint64(i)) {
			participants = append(participants, idx)
		}
	}
	return participants, nil
}

// IndicesToPubkeys maps validator indices to their registry public keys.
// Unknown indices are skipped.
func IndicesToPubkeys(state *types.BeaconState, indices []eth2types.ValidatorIndex) []types.BLSPubkey {
	pubkeys := make([]types.BLSPubkey, 0, len(indices))
	for _, idx := range indices {
		if uint64(idx) >= uint64(len(state.Validators)) {
			continue
		}
		pubkeys = append(pubkeys, state.Validators[idx].Pubkey)
	}
	return pubkeys
}
