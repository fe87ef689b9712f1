package observer

import (
	"sort"

	eth2types "github.com/prysmaticlabs/eth2-types"

	"github.com/speculalabs/specula/beacon-chain/chain"
	"github.com/speculalabs/specula/beacon-chain/core/types"
)

// PendingOperationsView is a frozen copy of the latest-attestation cache
// grouped by validator public key. The pool keeps mutating its cache after a
// snapshot is taken; the view never changes.
type PendingOperationsView struct {
	byPubkey map[types.BLSPubkey][]*types.Attestation
}

var _ chain.PendingOperations = (*PendingOperationsView)(nil)

func newPendingOperationsView(byPubkey map[types.BLSPubkey][]*types.Attestation) *PendingOperationsView {
	return &PendingOperationsView{byPubkey: byPubkey}
}

// LatestAttestation returns the attestation with the highest slot for the
// public key, preferring the later-observed one on equal slots.
func (v *PendingOperationsView) LatestAttestation(pubkey types.BLSPubkey) (*types.Attestation, bool) {
	var best *types.Attestation
	for _, att := range v.byPubkey[pubkey] {
		if best == nil || att.Data.Slot >= best.Data.Slot {
			best = att
		}
	}
	return best, best != nil
}

// Attestations returns every attestation mentioning the public key in
// observation order.
func (v *PendingOperationsView) Attestations(pubkey types.BLSPubkey) []*types.Attestation {
	return v.byPubkey[pubkey]
}

// PeekAggregatedAttestations returns up to maxCount distinct attestations
// with slot at or below maxSlot, ordered by slot, for block inclusion.
func (v *PendingOperationsView) PeekAggregatedAttestations(maxCount int, maxSlot eth2types.Slot) []*types.Attestation {
	seen := make(map[[32]byte]struct{})
	var atts []*types.Attestation
	for _, list := range v.byPubkey {
		for _, att := range list {
			if att.Data.Slot > maxSlot {
				continue
			}
			id := att.ID()
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			atts = append(atts, att)
		}
	}
	sort.Slice(atts, func(i, j int) bool {
		return atts[i].Data.Slot < atts[j].Data.Slot
	})
	if len(atts) > maxCount {
		atts = atts[:maxCount]
	}
	return atts
}

// PeekProposerSlashings returns nothing; proposer slashings are not tracked.
func (v *PendingOperationsView) PeekProposerSlashings(_ int) []*types.ProposerSlashing {
	return nil
}

// PeekAttesterSlashings returns nothing; attester slashings are not tracked.
func (v *PendingOperationsView) PeekAttesterSlashings(_ int) []*types.AttesterSlashing {
	return nil
}

// PeekDeposits returns nothing; deposits are not tracked.
func (v *PendingOperationsView) PeekDeposits(_ int) []*types.Deposit {
	return nil
}

// PeekExits returns nothing; voluntary exits are not tracked.
func (v *PendingOperationsView) PeekExits(_ int) []*types.VoluntaryExit {
	return nil
}

// PeekTransfers returns nothing; transfers are not tracked.
func (v *PendingOperationsView) PeekTransfers(_ int) []*types.Transfer {
	return nil
}
