package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meteowidget_upstream_calls_total",
			Help: "Total weather API calls",
		},
		[]string{"endpoint", "status"},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meteowidget_upstream_latency_seconds",
			Help:    "Weather API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	WidgetLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meteowidget_loads_total",
			Help: "Widget load cycles by outcome",
		},
		[]string{"outcome"},
	)

	CarouselNavigations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meteowidget_carousel_navigations_total",
			Help: "Carousel navigation commands by source",
		},
		[]string{"source"},
	)

	SelectionChanges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meteowidget_selection_changes_total",
			Help: "Times the selected district changed",
		},
	)
)
