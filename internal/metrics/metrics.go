// Package metrics holds the Prometheus instruments exposed by the service.
// All collectors are registered with the default registry, so serving
// promhttp.Handler() is enough to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Resolutions counts typed lookups by key and source layer.
	Resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pixelsconf_resolutions_total",
			Help: "Setting resolutions served, by key and the layer that supplied the value.",
		}, []string{"key", "source"})

	// ResolutionErrors counts lookups that failed to produce a value.
	ResolutionErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pixelsconf_resolution_errors_total",
			Help: "Setting resolutions that failed to produce a typed value.",
		}, []string{"key"})

	// StoreWrites counts values written through the API.
	StoreWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pixelsconf_store_writes_total",
			Help: "Values written into the global configuration store.",
		}, []string{"key"})
)

func init() {
	prometheus.MustRegister(
		Resolutions,
		ResolutionErrors,
		StoreWrites,
	)
}
