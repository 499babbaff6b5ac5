// Tests for Exporter, which records parsed metrics as OTel gauges.
// Uses the OTel SDK ManualReader to verify metric data points.
package metrics

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func newTestExporter(t *testing.T) (*Exporter, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	e, err := NewExporter(mp, nil)
	require.NoError(t, err)
	return e, reader
}

func TestExporterRecordsDuration(t *testing.T) {
	t.Parallel()

	e, reader := newTestExporter(t)
	ds, err := NewDataset(strings.NewReader(twoServerLog), "client.log")
	require.NoError(t, err)

	n := e.Export(context.Background(), ds)
	// duration plus one recoveryCount per server
	assert.Equal(t, 3, n)

	rm := collectMetrics(t, reader)
	m := findMetric(rm, "recovery.duration")
	require.NotNil(t, m, "recovery.duration metric should exist")
	assert.Equal(t, "ns", m.Unit)

	gauge, ok := m.Data.(metricdata.Gauge[int64])
	require.True(t, ok, "duration should be a Gauge[int64]")
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(1000000000), gauge.DataPoints[0].Value)
}

func TestExporterServerAttributes(t *testing.T) {
	t.Parallel()

	e, reader := newTestExporter(t)
	ds, err := NewDataset(strings.NewReader(logLines(
		"Metrics: begin server host=rc01",
		"Metrics: master.recoveryCount 1",
		"Metrics: backup.recoveryCount 1",
		"Metrics: transport.transmit.byteCount 4096",
		"Metrics: begin server host=rc02",
		"Metrics: backup.recoveryCount 1",
		"Metrics: transport.transmit.byteCount 1024",
	)), "client.log")
	require.NoError(t, err)

	e.Export(context.Background(), ds)

	rm := collectMetrics(t, reader)
	m := findMetric(rm, "recovery.transport.transmit.byteCount")
	require.NotNil(t, m)

	gauge, ok := m.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 2)

	byServer := make(map[string]metricdata.DataPoint[int64])
	for _, dp := range gauge.DataPoints {
		name, ok := dp.Attributes.Value(attribute.Key("server.name"))
		require.True(t, ok)
		byServer[name.AsString()] = dp
	}

	rc01 := byServer["rc01"]
	assert.Equal(t, int64(4096), rc01.Value)
	role, ok := rc01.Attributes.Value(attribute.Key("server.role"))
	require.True(t, ok)
	assert.Equal(t, "master+backup", role.AsString())

	rc02 := byServer["rc02"]
	assert.Equal(t, int64(1024), rc02.Value)
	role, _ = rc02.Attributes.Value(attribute.Key("server.role"))
	assert.Equal(t, "backup", role.AsString())

	assert.Nil(t, findMetric(rm, "recovery.duration"), "no recovery line, no duration gauge")
}

func TestExporterReusesInstruments(t *testing.T) {
	t.Parallel()

	e, _ := newTestExporter(t)
	ds, err := NewDataset(strings.NewReader(twoServerLog), "client.log")
	require.NoError(t, err)

	e.Export(context.Background(), ds)
	e.Export(context.Background(), ds)
	assert.Len(t, e.gauges, 2)
}

func TestExporterClampsUnsignedCounters(t *testing.T) {
	t.Parallel()

	e, reader := newTestExporter(t)
	ds, err := NewDataset(strings.NewReader(logLines(
		"Metrics: begin server host=rc01",
		"Metrics: master.recoveryCount 1",
		"Metrics: transport.sessionOpenSquaredTicks 18446744073709551615",
	)), "client.log")
	require.NoError(t, err)

	e.Export(context.Background(), ds)

	m := findMetric(collectMetrics(t, reader), "recovery.transport.sessionOpenSquaredTicks")
	require.NotNil(t, m)
	gauge, ok := m.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(math.MaxInt64), gauge.DataPoints[0].Value)
}
