package transition

import (
	"testing"

	eth2types "github.com/prysmaticlabs/eth2-types"
	"github.com/prysmaticlabs/go-bitfield"

	"github.com/speculalabs/specula/beacon-chain/core/types"
	"github.com/speculalabs/specula/shared/params"
	"github.com/speculalabs/specula/shared/testutil/assert"
	"github.com/speculalabs/specula/shared/testutil/require"
)

func TestSlotTransition_AdvancesOneSlot(t *testing.T) {
	state := types.NewBeaconStateEx(&types.BeaconState{Slot: 4}, types.TransitionBlock)

	next, err := NewSlotTransition().Apply(state)
	require.NoError(t, err)
	assert.Equal(t, eth2types.Slot(5), next.Slot())
	assert.Equal(t, types.TransitionSlot, next.Transition)
	// The source state is untouched.
	assert.Equal(t, eth2types.Slot(4), state.Slot())
}

func TestSlotTransition_NilState(t *testing.T) {
	_, err := NewSlotTransition().Apply(nil)
	require.ErrorIs(t, err, ErrNilState)
}

func TestEpochTransition_PrunesStaleAttestations(t *testing.T) {
	params.UseMinimalConfig()
	defer params.UseMainnetConfig()

	old := &types.PendingAttestation{
		Data:            &types.AttestationData{Slot: 1}, // epoch 0
		AggregationBits: bitfield.NewBitlist(1),
	}
	recent := &types.PendingAttestation{
		Data:            &types.AttestationData{Slot: 9}, // epoch 1
		AggregationBits: bitfield.NewBitlist(1),
	}
	state := types.NewBeaconStateEx(&types.BeaconState{
		Slot:               16, // epoch 2
		LatestAttestations: []*types.PendingAttestation{old, recent},
	}, types.TransitionSlot)

	next, err := NewEpochTransition().Apply(state)
	require.NoError(t, err)
	assert.Equal(t, types.TransitionEpoch, next.Transition)
	require.Equal(t, 1, len(next.State.LatestAttestations))
	assert.Equal(t, recent, next.State.LatestAttestations[0])
	// The source keeps both.
	require.Equal(t, 2, len(state.State.LatestAttestations))
}
