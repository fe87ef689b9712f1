package observer

import (
	"testing"

	eth2types "github.com/prysmaticlabs/eth2-types"

	"github.com/speculalabs/specula/beacon-chain/core/types"
	"github.com/speculalabs/specula/shared/testutil/assert"
	"github.com/speculalabs/specula/shared/testutil/require"
)

func TestPendingOperations_LatestAttestationPicksHighestSlot(t *testing.T) {
	pk := pubkey(1)
	view := newPendingOperationsView(map[types.BLSPubkey][]*types.Attestation{
		pk: {newAtt(2, 1), newAtt(7, 2), newAtt(4, 3)},
	})

	latest, ok := view.LatestAttestation(pk)
	require.Equal(t, true, ok)
	assert.Equal(t, eth2types.Slot(7), latest.Data.Slot)

	_, ok = view.LatestAttestation(pubkey(9))
	assert.Equal(t, false, ok)
}

func TestPendingOperations_PeekAggregatedAttestations(t *testing.T) {
	shared := newAtt(3, 1)
	view := newPendingOperationsView(map[types.BLSPubkey][]*types.Attestation{
		pubkey(1): {shared, newAtt(6, 2)},
		pubkey(2): {shared, newAtt(1, 3)},
	})

	atts := view.PeekAggregatedAttestations(10, 5)
	// The attestation listed under both pubkeys appears once, the slot-6 one
	// is beyond maxSlot.
	require.Equal(t, 2, len(atts))
	assert.Equal(t, eth2types.Slot(1), atts[0].Data.Slot)
	assert.Equal(t, eth2types.Slot(3), atts[1].Data.Slot)

	capped := view.PeekAggregatedAttestations(1, 5)
	require.Equal(t, 1, len(capped))
}

func TestPendingOperations_PeeksAreEmpty(t *testing.T) {
	view := newPendingOperationsView(nil)
	assert.Equal(t, 0, len(view.PeekProposerSlashings(10)))
	assert.Equal(t, 0, len(view.PeekAttesterSlashings(10)))
	assert.Equal(t, 0, len(view.PeekDeposits(10)))
	assert.Equal(t, 0, len(view.PeekExits(10)))
	assert.Equal(t, 0, len(view.PeekTransfers(10)))
}
