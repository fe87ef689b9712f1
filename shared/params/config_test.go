package params

import (
	"testing"
)

func TestOverrideBeaconConfig(t *testing.T) {
	cfg := BeaconConfig().Copy()
	cfg.SlotsPerEpoch = 5
	OverrideBeaconConfig(cfg)
	defer UseMainnetConfig()
	if c := BeaconConfig(); c.SlotsPerEpoch != 5 {
		t.Errorf("SlotsPerEpoch in BeaconConfig incorrect. Wanted %d, got %d", 5, c.SlotsPerEpoch)
	}
}

func TestMinimalConfig(t *testing.T) {
	UseMinimalConfig()
	defer UseMainnetConfig()
	if BeaconConfig().SlotsPerEpoch != 8 {
		t.Errorf("Expected minimal SlotsPerEpoch of 8, got %d", BeaconConfig().SlotsPerEpoch)
	}
	if BeaconConfig().MinAttestationInclusionDelay != 1 {
		t.Errorf("Expected minimal MinAttestationInclusionDelay of 1, got %d",
			BeaconConfig().MinAttestationInclusionDelay)
	}
}

func TestMainnetConfigIsDefault(t *testing.T) {
	UseMainnetConfig()
	if BeaconConfig() != MainnetConfig() {
		t.Error("Expected BeaconConfig to return the mainnet config")
	}
}
