package metrics

import (
	"errors"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/entity"
	"browser-harness/internal/usecase/query"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeTimeout = "timeout"
	OutcomeError   = "error"
)

var _ output.QueryObserver = (*Observer)(nil)

// Observer turns query records into Prometheus series.
type Observer struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	found    *prometheus.GaugeVec
}

type Config struct {
	Namespace string
	Buckets   []float64
}

func DefaultConfig() Config {
	return Config{
		Namespace: "harness",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}
}

func NewObserver(cfg Config, reg prometheus.Registerer) (*Observer, error) {
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	o := &Observer{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "query_duration_seconds",
				Help:      "Time spent in element queries",
				Buckets:   buckets,
			},
			[]string{"kind", "outcome"},
		),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "query_total",
				Help:      "Element queries by locator kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		found: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "query_found",
				Help:      "Valid elements returned by the last query",
			},
			[]string{"kind"},
		),
	}

	for _, c := range []prometheus.Collector{o.duration, o.total, o.found} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *Observer) ObserveQuery(r entity.QueryRecord) {
	kind := r.Locator.Kind().String()
	outcome := Outcome(r.Err)

	o.duration.WithLabelValues(kind, outcome).Observe(r.Elapsed.Seconds())
	o.total.WithLabelValues(kind, outcome).Inc()
	o.found.WithLabelValues(kind).Set(float64(r.Found))
}

func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	var te *query.TimeoutError
	if errors.As(err, &te) {
		return OutcomeTimeout
	}
	return OutcomeError
}
