package types

import (
	"testing"

	"github.com/prysmaticlabs/go-bitfield"

	"github.com/speculalabs/specula/shared/testutil/assert"
	"github.com/speculalabs/specula/shared/testutil/require"
)

func TestBeaconBlock_HashTreeRootDeterministic(t *testing.T) {
	b1 := &BeaconBlock{Slot: 5, ProposerIndex: 2}
	b1.ParentRoot[0] = 1
	b2 := &BeaconBlock{Slot: 5, ProposerIndex: 2}
	b2.ParentRoot[0] = 1

	r1, err := b1.HashTreeRoot()
	require.NoError(t, err)
	r2, err := b2.HashTreeRoot()
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	b2.Slot = 6
	r3, err := b2.HashTreeRoot()
	require.NoError(t, err)
	assert.NotEqual(t, r1, r3)
}

func TestAttestation_IDDistinguishesContents(t *testing.T) {
	a1 := &Attestation{
		Data:            &AttestationData{Slot: 4},
		AggregationBits: bitfield.Bitlist{0b101},
	}
	a2 := &Attestation{
		Data:            &AttestationData{Slot: 4},
		AggregationBits: bitfield.Bitlist{0b101},
	}
	assert.Equal(t, a1.ID(), a2.ID())

	a2.Signature[0] = 1
	assert.NotEqual(t, a1.ID(), a2.ID())

	a2.Signature[0] = 0
	a2.Data.Slot = 5
	assert.NotEqual(t, a1.ID(), a2.ID())
}

func TestBeaconState_CopyIsolation(t *testing.T) {
	state := &BeaconState{
		Slot:       3,
		Validators: []*Validator{{}, {}},
	}
	dup := state.Copy()
	dup.Slot = 9
	dup.Validators = append(dup.Validators, &Validator{})

	assert.Equal(t, 2, len(state.Validators))
	require.Equal(t, 3, int(state.Slot))
}
