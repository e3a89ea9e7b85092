package app

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Tracker-side Prometheus counters, exposed on the tracker's metrics
// listener. Registered against the default registry; the tracker is the
// only process incrementing them.
var (
	sensorEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sun_sensor_events_total",
		Help: "Raw sensor events received over MQTT, labeled by stream.",
	}, []string{"stream"})

	tableLookups = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sun_table_lookups_total",
		Help: "Solar table lookups performed by the fusion step.",
	})

	tableMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sun_table_misses_total",
		Help: "Lookups that hit an empty heading bucket (sun never crosses that heading today).",
	})
)

func init() {
	prometheus.MustRegister(sensorEvents, tableLookups, tableMisses)
}
