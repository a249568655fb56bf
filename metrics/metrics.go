// Package metrics exposes conversion results as Prometheus metrics.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moffa90/go-mcp3208/adc"
	"github.com/moffa90/go-mcp3208/protocol"
)

// Result labels.
const (
	ResultOK        = "ok"
	ResultMalformed = "malformed"
	ResultChecksum  = "checksum"
	ResultTransport = "transport"
	ResultError     = "error"
)

// NewRegistry creates a registry with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler returns the HTTP handler serving reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// ADCMetrics records conversions. It implements adc.Observer.
type ADCMetrics struct {
	ConversionsTotal  *prometheus.CounterVec // labels: channel, result
	RetriesTotal      prometheus.Counter
	ConversionSeconds prometheus.Histogram
	Raw               *prometheus.GaugeVec // labels: channel, mode
}

// NewADCMetrics registers and returns the conversion metrics.
func NewADCMetrics(reg prometheus.Registerer) *ADCMetrics {
	m := &ADCMetrics{
		ConversionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mcp3208_conversions_total",
			Help: "Conversion attempts by channel and result.",
		}, []string{"channel", "result"}),
		RetriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mcp3208_retries_total",
			Help: "Conversion attempts after the first for the same read.",
		}),
		ConversionSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mcp3208_conversion_seconds",
			Help:    "Duration of one SPI exchange including decoding.",
			Buckets: prometheus.ExponentialBuckets(10e-6, 2, 12),
		}),
		Raw: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mcp3208_raw",
			Help: "Last raw 12-bit sample per channel.",
		}, []string{"channel", "mode"}),
	}
	reg.MustRegister(m.ConversionsTotal, m.RetriesTotal, m.ConversionSeconds, m.Raw)
	return m
}

// ObserveConversion implements adc.Observer.
func (m *ADCMetrics) ObserveConversion(c adc.Conversion) {
	ch := c.Channel.String()
	m.ConversionsTotal.WithLabelValues(ch, Result(c.Err)).Inc()
	m.ConversionSeconds.Observe(c.Elapsed.Seconds())
	if c.Attempt > 1 {
		m.RetriesTotal.Inc()
	}
	if c.Err == nil {
		m.Raw.WithLabelValues(ch, c.Mode.String()).Set(float64(c.Sample))
	}
}

// Result maps a conversion error onto its result label.
func Result(err error) string {
	var (
		malErr *protocol.MalformedResponseError
		sumErr *protocol.ChecksumMismatchError
		trErr  *adc.TransportError
	)
	switch {
	case err == nil:
		return ResultOK
	case errors.As(err, &malErr):
		return ResultMalformed
	case errors.As(err, &sumErr):
		return ResultChecksum
	case errors.As(err, &trErr):
		return ResultTransport
	default:
		return ResultError
	}
}
