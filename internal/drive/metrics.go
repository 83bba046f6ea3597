package drive

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mdrive",
			Subsystem: "drive",
			Name:      "operations_total",
			Help:      "Drive operations by name and outcome.",
		},
		[]string{"operation", "result"},
	)

	objectDeletesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mdrive",
			Subsystem: "drive",
			Name:      "object_deletes_total",
			Help:      "Object store deletions issued for removed files.",
		},
		[]string{"result"},
	)
)

func observe(operation string, err error) {
	operationsTotal.WithLabelValues(operation, Kind(err)).Inc()
}
