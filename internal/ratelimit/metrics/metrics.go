package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RateLimitRejectedTotal *prometheus.CounterVec
	RateLimitErrorsTotal   prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RateLimitRejectedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "almanah_ratelimit_rejected_total",
			Help: "Requests rejected by rate limiting, by endpoint class",
		}, []string{"class"}),
		RateLimitErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "almanah_ratelimit_errors_total",
			Help: "Rate limit checks that failed and let the request through",
		}),
	}
}

func (m *Metrics) IncrementRejected(class string) {
	if m == nil {
		return
	}
	m.RateLimitRejectedTotal.WithLabelValues(class).Inc()
}

func (m *Metrics) IncrementErrors() {
	if m == nil {
		return
	}
	m.RateLimitErrorsTotal.Inc()
}
