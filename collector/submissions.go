package collector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors/version"
)

type Submissions struct {
	total    *prometheus.CounterVec
	duration prometheus.Histogram
}

func NewSubmissions(registry prometheus.Registerer) *Submissions {
	registry = prometheus.WrapRegistererWithPrefix("attendance_", registry)

	s := &Submissions{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "submissions_total",
			Help: "Attendance submissions by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "request_duration_seconds",
			Help:    "Time spent waiting for the attendance endpoint.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	registry.MustRegister(s.total)
	registry.MustRegister(s.duration)

	return s
}

// RegisterBuildInfo exposes attendance_build_info.
func RegisterBuildInfo(registry prometheus.Registerer) {
	registry.MustRegister(version.NewCollector("attendance"))
}

func (s *Submissions) Observe(outcome string) {
	s.total.WithLabelValues(outcome).Inc()
}

func (s *Submissions) ObserveRequest(seconds float64) {
	s.duration.Observe(seconds)
}

func (s *Submissions) Count(outcome string) prometheus.Counter {
	return s.total.WithLabelValues(outcome)
}
