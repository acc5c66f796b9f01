package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SelectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placepicker_selections_total",
		Help: "Total number of places added to the picked list",
	})
	SelectionsRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placepicker_selections_rejected_total",
		Help: "Total number of select calls with an id missing from the catalog",
	})
	DeselectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placepicker_deselections_total",
		Help: "Total number of places removed from the picked list",
	})
	StorageWriteFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placepicker_storage_write_failures_total",
		Help: "Total number of failed writes of the persisted selection",
	})
	RankingsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placepicker_rankings_total",
		Help: "Total number of catalog rankings computed",
	})
	LocateFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placepicker_locate_failures_total",
		Help: "Total number of failed or timed out position lookups",
	})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "placepicker_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"method", "status"})
)

// Register adds all collectors to reg. Call once from the composition root.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		SelectionsTotal,
		SelectionsRejectedTotal,
		DeselectionsTotal,
		StorageWriteFailuresTotal,
		RankingsTotal,
		LocateFailuresTotal,
		RequestDurationMs,
	)
}

// Handler exposes the collectors registered on g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
