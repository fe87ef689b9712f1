package helpers

import (
	eth2types "github.com/prysmaticlabs/eth2-types"

	"github.com/speculalabs/specula/shared/params"
)

// SlotToEpoch returns the epoch a slot belongs to.
func SlotToEpoch(slot eth2types.Slot) eth2types.Epoch {
	return eth2types.Epoch(uint64(slot) / params.BeaconConfig().SlotsPerEpoch)
}

// IsEpochEnd reports whether the per-epoch transition runs at the given
// slot, i.e. whether the slot sits on an epoch boundary.
func IsEpochEnd(slot eth2types.Slot) bool {
	return uint64(slot)%params.BeaconConfig().SlotsPerEpoch == 0
}

// EpochStartSlot returns the first slot of the given epoch.
func EpochStartSlot(epoch eth2types.Epoch) eth2types.Slot {
	return eth2types.Slot(uint64(epoch) * params.BeaconConfig().SlotsPerEpoch)
}
