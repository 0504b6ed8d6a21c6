package tiles

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tileRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geomap",
		Subsystem: "tiles",
		Name:      "requests_total",
		Help:      "Tile fetches by layer and outcome",
	}, []string{"layer", "status"})

	// tileLookups counts render-loop lookups, one per visible tile per
	// frame. Only "scheduled" results turn into provider requests.
	tileLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geomap",
		Subsystem: "tiles",
		Name:      "lookups_total",
		Help:      "Render-loop tile lookups by layer and result (hit, pending, backoff, scheduled, dropped)",
	}, []string{"layer", "result"})
)
