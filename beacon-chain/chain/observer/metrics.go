package observer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	headSlotGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "observer_head_slot",
		Help: "Slot of the current fork-choice head.",
	})
	headUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "observer_head_updates_total",
		Help: "Number of times the published head changed.",
	})
	stateEmissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "observer_state_emissions_total",
		Help: "Number of observable states published.",
	})
	attsPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "observer_attestations_purged_total",
		Help: "Number of cached attestations removed by the slot-tick purge.",
	})
	attsDuplicatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "observer_attestations_duplicates_total",
		Help: "Number of gossip attestations dropped as already seen.",
	})
)
