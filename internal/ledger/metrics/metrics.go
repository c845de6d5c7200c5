package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Claim outcomes used as the "outcome" label.
const (
	OutcomeClaimed           = "claimed"
	OutcomeAlreadyClaimed    = "already_claimed"
	OutcomeDuplicateTemplate = "duplicate_template"
	OutcomeNotFound          = "not_found"
	OutcomeError             = "error"
)

// Metrics provides observability for the ownership ledger.
type Metrics struct {
	ClaimsTotal       *prometheus.CounterVec
	ClaimDuration     prometheus.Histogram
	ProjectorDuration *prometheus.HistogramVec
	PublishFailures   prometheus.Counter
	AlbumRepairs      prometheus.Counter
}

// New registers the ledger metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ClaimsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "almanah_claims_total",
			Help: "Claim attempts by outcome",
		}, []string{"outcome"}),
		ClaimDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "almanah_claim_duration_seconds",
			Help:    "Duration of the claim transaction",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ProjectorDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "almanah_projection_duration_seconds",
			Help:    "Duration of collection read projections",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"projection"}), // stats, top_events, recent, collected, event_templates, dashboard
		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "almanah_claim_event_publish_failures_total",
			Help: "Card-claimed events that could not be published",
		}),
		AlbumRepairs: factory.NewCounter(prometheus.CounterOpts{
			Name: "almanah_album_repairs_total",
			Help: "Albums rebuilt from the ledger because they had drifted",
		}),
	}
}

// ObserveClaim records one claim attempt. Call with time.Now() at the start.
func (m *Metrics) ObserveClaim(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.ClaimsTotal.WithLabelValues(outcome).Inc()
	m.ClaimDuration.Observe(time.Since(start).Seconds())
}

// ObserveProjection records the duration of a read projection.
func (m *Metrics) ObserveProjection(projection string, start time.Time) {
	if m != nil {
		m.ProjectorDuration.WithLabelValues(projection).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) IncrementPublishFailure() {
	if m != nil {
		m.PublishFailures.Inc()
	}
}

func (m *Metrics) IncrementAlbumRepair() {
	if m != nil {
		m.AlbumRepairs.Inc()
	}
}
