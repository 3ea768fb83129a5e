package apiclient

import "github.com/prometheus/client_golang/prometheus"

type CacheMetrics struct {
	Lookups *prometheus.CounterVec
	Fills   prometheus.Counter
	Shared  prometheus.Counter
}

func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		Lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "api_cache_lookups_total",
				Help: "API cache lookups by result",
			},
			[]string{"result"},
		),
		Fills: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "api_cache_fills_total",
			Help: "Responses written to the API cache",
		}),
		Shared: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "api_cache_shared_fetches_total",
			Help: "Callers that joined an in-flight fetch",
		}),
	}

	reg.MustRegister(m.Lookups, m.Fills, m.Shared)
	return m
}

func (m *CacheMetrics) hit() {
	if m != nil {
		m.Lookups.WithLabelValues("hit").Inc()
	}
}

func (m *CacheMetrics) miss() {
	if m != nil {
		m.Lookups.WithLabelValues("miss").Inc()
	}
}

func (m *CacheMetrics) fill() {
	if m != nil {
		m.Fills.Inc()
	}
}

func (m *CacheMetrics) share() {
	if m != nil {
		m.Shared.Inc()
	}
}
