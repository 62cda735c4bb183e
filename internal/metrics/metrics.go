package metrics

import (
	"net/http"
	"time"

	"github.com/nirarg/esxi-console/internal/backend"
	"github.com/nirarg/esxi-console/internal/console"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "esxi_console"

// Outcome label values
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeTransport = "transport_error"
)

// Collector exports console view activity as Prometheus metrics
type Collector struct {
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fastWindow    *prometheus.GaugeVec
	submissions   *prometheus.CounterVec
}

// NewCollector creates the collectors and registers them with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "List fetches issued by console views.",
		}, []string{"view", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Backend round trip time of list fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"view"}),
		fastWindow: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fast_polling_active",
			Help:      "1 while a view is inside its fast polling window.",
		}, []string{"view"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Mutating requests sent to the backend.",
		}, []string{"view", "action", "outcome"}),
	}
	reg.MustRegister(c.fetches, c.fetchDuration, c.fastWindow, c.submissions)
	return c
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case backend.IsTransport(err):
		return OutcomeTransport
	}
	return OutcomeError
}

func (c *Collector) FetchCompleted(view string, elapsed time.Duration, err error) {
	c.fetches.WithLabelValues(view, outcome(err)).Inc()
	c.fetchDuration.WithLabelValues(view).Observe(elapsed.Seconds())
}

func (c *Collector) ActionSubmitted(s console.Submission) {
	c.submissions.WithLabelValues(s.View, s.Action, outcome(s.Err)).Inc()
}

func (c *Collector) FastWindowChanged(view string, active bool) {
	v := 0.0
	if active {
		v = 1
	}
	c.fastWindow.WithLabelValues(view).Set(v)
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
