package slotutil

import (
	"testing"
	"time"

	eth2types "github.com/prysmaticlabs/eth2-types"

	"github.com/speculalabs/specula/shared/testutil/require"
)

func TestSlotTicker(t *testing.T) {
	ticker := &SlotTicker{
		c:    make(chan eth2types.Slot),
		done: make(chan struct{}),
	}
	defer ticker.Done()

	var sinceDuration time.Duration
	since := func(time.Time) time.Duration {
		return sinceDuration
	}

	var untilDuration time.Duration
	until := func(time.Time) time.Duration {
		return untilDuration
	}

	tick := make(chan time.Time)
	after := func(time.Duration) <-chan time.Time {
		return tick
	}

	genesisTime := time.Date(2020, 12, 1, 12, 0, 0, 0, time.UTC)
	secondsPerSlot := uint64(8)

	// One slot worth of time has passed since genesis: the first tick is
	// for slot 2.
	sinceDuration = 9 * time.Second
	ticker.start(genesisTime, secondsPerSlot, since, until, after)

	tick <- time.Now()
	require.Equal(t, eth2types.Slot(2), <-ticker.C())

	tick <- time.Now()
	require.Equal(t, eth2types.Slot(3), <-ticker.C())
}

func TestSlotTicker_BeforeGenesis(t *testing.T) {
	ticker := &SlotTicker{
		c:    make(chan eth2types.Slot),
		done: make(chan struct{}),
	}
	defer ticker.Done()

	since := func(time.Time) time.Duration {
		return -3 * time.Second
	}
	until := func(time.Time) time.Duration {
		return 3 * time.Second
	}
	tick := make(chan time.Time)
	after := func(time.Duration) <-chan time.Time {
		return tick
	}

	ticker.start(time.Now(), 8, since, until, after)

	// The first tick fires at genesis for slot 0.
	tick <- time.Now()
	require.Equal(t, eth2types.Slot(0), <-ticker.C())
}
