package chain

import (
	eth2types "github.com/prysmaticlabs/eth2-types"

	"github.com/speculalabs/specula/beacon-chain/core/types"
)

// PendingOperations is an immutable snapshot of operations observed on the
// network but not yet included on chain. Only attestations are tracked; the
// remaining Peek methods exist so a block producer compiles against the full
// surface and currently return nothing.
type PendingOperations interface {
	// LatestAttestation returns the most recent attestation known for the
	// given validator public key.
	LatestAttestation(pubkey types.BLSPubkey) (*types.Attestation, bool)
	// Attestations returns every cached attestation mentioning the public
	// key, in the order they were observed. Callers must not mutate the
	// returned slice.
	Attestations(pubkey types.BLSPubkey) []*types.Attestation
	// PeekAggregatedAttestations returns up to maxCount attestations with
	// slot at or below maxSlot, ordered by slot, for block inclusion.
	PeekAggregatedAttestations(maxCount int, maxSlot eth2types.Slot) []*types.Attestation
	PeekProposerSlashings(maxCount int) []*types.ProposerSlashing
	PeekAttesterSlashings(maxCount int) []*types.AttesterSlashing
	PeekDeposits(maxCount int) []*types.Deposit
	PeekExits(maxCount int) []*types.VoluntaryExit
	PeekTransfers(maxCount int) []*types.Transfer
}

// ObservableBeaconState is the state a validator should reason about at the
// current wall-clock slot: the head block, its post state advanced by empty
// slots up to that slot, and the pending operations available for block
// production.
type ObservableBeaconState struct {
	Head              *types.BeaconBlock
	State             *types.BeaconStateEx
	PendingOperations PendingOperations
}

// NewObservableBeaconState bundles a head block, a projected state and a
// pending operations snapshot.
func NewObservableBeaconState(
	head *types.BeaconBlock,
	state *types.BeaconStateEx,
	ops PendingOperations,
) *ObservableBeaconState {
	return &ObservableBeaconState{Head: head, State: state, PendingOperations: ops}
}
