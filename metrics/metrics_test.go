package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-mcp3208/adc"
	"github.com/moffa90/go-mcp3208/protocol"
	"github.com/moffa90/go-mcp3208/simulator"
)

func TestResult(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ResultOK},
		{name: "malformed", err: &protocol.MalformedResponseError{}, want: ResultMalformed},
		{name: "checksum", err: &protocol.ChecksumMismatchError{}, want: ResultChecksum},
		{name: "wrapped checksum", err: &adc.ConversionError{Err: &protocol.ChecksumMismatchError{}}, want: ResultChecksum},
		{name: "transport", err: &adc.TransportError{Err: io.ErrUnexpectedEOF}, want: ResultTransport},
		{name: "other", err: errors.New("boom"), want: ResultError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Result(tt.err))
		})
	}
}

func TestADCMetricsWithReader(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewADCMetrics(reg)

	dev := simulator.New(simulator.WithValue(protocol.Channel1, 1500))
	dev.InjectFault(simulator.FaultChecksum, 1)

	r := adc.New(dev, adc.WithObserver(m), adc.WithRetries(1), adc.WithRetryDelay(0))
	_, err := r.Read(context.Background(), protocol.Channel1)
	require.NoError(t, err)

	dev.InjectFault(simulator.FaultIO, 1)
	_, err = r.Read(context.Background(), protocol.Channel1)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConversionsTotal.WithLabelValues("CH1", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConversionsTotal.WithLabelValues("CH1", ResultChecksum)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConversionsTotal.WithLabelValues("CH1", ResultTransport)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RetriesTotal))
	assert.Equal(t, 1500.0, testutil.ToFloat64(m.Raw.WithLabelValues("CH1", "single")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.ConversionsTotal))
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	m := NewADCMetrics(reg)
	m.ObserveConversion(adc.Conversion{Channel: protocol.Channel0, Mode: protocol.SingleEnded, Sample: 7, Attempt: 1})

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, body, `mcp3208_raw{channel="CH0",mode="single"} 7`)
	assert.Contains(t, body, `mcp3208_conversions_total{channel="CH0",result="ok"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
