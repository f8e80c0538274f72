package service

import (
	"github.com/brimdata/pqjson/convert"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	conversions *prometheus.CounterVec
	rows        prometheus.Counter
	inputBytes  prometheus.Counter
	outputBytes prometheus.Counter
	duration    prometheus.Histogram
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	factory := promauto.With(registerer)
	return &metrics{
		conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pqjson_conversions_total",
				Help: "Number of conversion requests by result.",
			},
			[]string{"result"},
		),
		rows: factory.NewCounter(prometheus.CounterOpts{
			Name: "pqjson_rows_total",
			Help: "Number of rows converted.",
		}),
		inputBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "pqjson_input_bytes_total",
			Help: "Bytes of Parquet input converted.",
		}),
		outputBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "pqjson_output_bytes_total",
			Help: "Bytes of JSON output produced.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pqjson_conversion_seconds",
			Help:    "Time spent converting one payload.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
}

func (m *metrics) success(stats convert.Stats, seconds float64) {
	m.conversions.WithLabelValues("success").Inc()
	m.rows.Add(float64(stats.Rows))
	m.inputBytes.Add(float64(stats.InputBytes))
	m.outputBytes.Add(float64(stats.OutputBytes))
	m.duration.Observe(seconds)
}

func (m *metrics) failure(kind string) {
	m.conversions.WithLabelValues(kind).Inc()
}
