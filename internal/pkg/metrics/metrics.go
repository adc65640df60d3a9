// internal/pkg/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Till-side counters. Labels stay low-cardinality: result is "ok" or the
// rejection code family, never a free-form message.
var (
	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "caisse",
		Name:      "scans_total",
		Help:      "Barcode scans processed, by result.",
	}, []string{"result"})

	CommitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "caisse",
		Name:      "commits_total",
		Help:      "Transaction commit attempts, by result.",
	}, []string{"result"})

	TendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "caisse",
		Name:      "tenders_total",
		Help:      "Accepted tenders, by kind.",
	}, []string{"kind"})

	ReturnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "caisse",
		Name:      "returns_total",
		Help:      "Return submissions, by result.",
	}, []string{"result"})

	OpenSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "caisse",
		Name:      "open_sessions",
		Help:      "Checkout sessions currently open.",
	})
)

// Handler exposes the default registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
