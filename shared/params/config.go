// Package params defines the chain configuration constants used across the
// beacon chain services, as well as helpers to override them for tests.
package params

// BeaconChainConfig contains the consensus constants this client relies on.
type BeaconChainConfig struct {
	// Time parameters.
	SecondsPerSlot               uint64 // SecondsPerSlot is the wall-clock duration of a single slot.
	SlotsPerEpoch                uint64 // SlotsPerEpoch is the number of slots in an epoch.
	MinAttestationInclusionDelay uint64 // MinAttestationInclusionDelay is the min slots before an attestation may be included in a block.

	// Initial values.
	GenesisSlot  uint64 // GenesisSlot is the slot of the genesis block.
	GenesisEpoch uint64 // GenesisEpoch is the epoch of the genesis block.

	// Misc constants.
	FarFutureEpoch      uint64 // FarFutureEpoch represents a validator that has not exited.
	TargetCommitteeSize uint64 // TargetCommitteeSize is the ideal number of validators in a committee.
}

var mainnetBeaconConfig = &BeaconChainConfig{
	SecondsPerSlot:               12,
	SlotsPerEpoch:                32,
	MinAttestationInclusionDelay: 1,

	GenesisSlot:  0,
	GenesisEpoch: 0,

	FarFutureEpoch:      1<<64 - 1,
	TargetCommitteeSize: 128,
}

var minimalBeaconConfig = &BeaconChainConfig{
	SecondsPerSlot:               6,
	SlotsPerEpoch:                8,
	MinAttestationInclusionDelay: 1,

	GenesisSlot:  0,
	GenesisEpoch: 0,

	FarFutureEpoch:      1<<64 - 1,
	TargetCommitteeSize: 4,
}

var beaconConfig = mainnetBeaconConfig

// BeaconConfig retrieves the beacon chain config in use.
func BeaconConfig() *BeaconChainConfig {
	return beaconConfig
}

// MainnetConfig returns the configuration to be used in the main network.
func MainnetConfig() *BeaconChainConfig {
	return mainnetBeaconConfig
}

// MinimalSpecConfig returns the minimal config used in spec tests and unit tests.
func MinimalSpecConfig() *BeaconChainConfig {
	return minimalBeaconConfig
}

// UseMainnetConfig for beacon chain services.
func UseMainnetConfig() {
	beaconConfig = MainnetConfig()
}

// UseMinimalConfig for beacon chain services.
func UseMinimalConfig() {
	beaconConfig = MinimalSpecConfig()
}

// OverrideBeaconConfig by replacing the config. The preferred pattern is to
// call BeaconConfig(), change the specific parameters, and then call
// OverrideBeaconConfig(c). Any subsequent calls to params.BeaconConfig() will
// return this new configuration.
func OverrideBeaconConfig(c *BeaconChainConfig) {
	beaconConfig = c
}

// Copy returns a copy of the config object.
func (b *BeaconChainConfig) Copy() *BeaconChainConfig {
	config := *b
	return &config
}
