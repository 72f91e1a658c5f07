// Package metrics wires the Prometheus counters shared across services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	SearchableUpserts prometheus.Counter
	SearchableDeletes prometheus.Counter
	FederationImports *prometheus.CounterVec
	ImportErrors      *prometheus.CounterVec
	SeriesCreated     prometheus.Counter
	GeoipCacheHits    prometheus.Counter
	GeoipCacheMisses  prometheus.Counter
	GeoipErrors       prometheus.Counter
}

// New registers all collectors on the given registry. Passing a fresh
// registry per test keeps them isolated.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SearchableUpserts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gettogether_searchable_upserts_total",
			Help: "Searchable rows written from local event saves.",
		}),
		SearchableDeletes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gettogether_searchable_deletes_total",
			Help: "Searchable rows removed when local events are deleted.",
		}),
		FederationImports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gettogether_federation_imported_total",
			Help: "Searchable records imported from peer nodes.",
		}, []string{"node"}),
		ImportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gettogether_federation_import_errors_total",
			Help: "Records that failed to import from peer nodes.",
		}, []string{"node"}),
		SeriesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gettogether_series_events_created_total",
			Help: "Events generated from recurring series.",
		}),
		GeoipCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gettogether_geoip_cache_hits_total",
			Help: "IP geolocation lookups served from the in-process cache.",
		}),
		GeoipCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gettogether_geoip_cache_misses_total",
			Help: "IP geolocation lookups that went to the provider.",
		}),
		GeoipErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gettogether_geoip_errors_total",
			Help: "IP geolocation provider failures.",
		}),
	}

	reg.MustRegister(
		m.SearchableUpserts,
		m.SearchableDeletes,
		m.FederationImports,
		m.ImportErrors,
		m.SeriesCreated,
		m.GeoipCacheHits,
		m.GeoipCacheMisses,
		m.GeoipErrors,
	)
	return m
}
