// Exporter publishes parsed recovery metrics through the OTel Metrics API
// Every integer leaf becomes a gauge labelled with the server's name and role
package metrics

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricPrefix is prepended to every exported instrument name.
const MetricPrefix = "recovery."

// Exporter records a Dataset as OTel gauge measurements.
type Exporter struct {
	meter    metric.Meter
	gauges   map[string]metric.Int64Gauge
	duration metric.Int64Gauge
	warnings io.Writer
}

// NewExporter creates an Exporter backed by the given MeterProvider.
// Instruments that cannot be created are reported to warnings (if non-nil)
// and skipped.
func NewExporter(mp metric.MeterProvider, warnings io.Writer) (*Exporter, error) {
	meter := mp.Meter("recoverymetrics")

	duration, err := meter.Int64Gauge(MetricPrefix+"duration",
		metric.WithUnit("ns"),
		metric.WithDescription("Wall-clock recovery time reported by the client"),
	)
	if err != nil {
		return nil, err
	}

	return &Exporter{
		meter:    meter,
		gauges:   make(map[string]metric.Int64Gauge),
		duration: duration,
		warnings: warnings,
	}, nil
}

// Export records one measurement per integer leaf per server and returns
// the number of measurements recorded.
func (e *Exporter) Export(ctx context.Context, ds *Dataset) int {
	n := 0
	if ns, ok := ds.RecoveryNs(); ok {
		e.duration.Record(ctx, ns)
		n++
	}

	for _, s := range ds.Servers {
		attrs := metric.WithAttributes(
			attribute.String("server.name", s.Name),
			attribute.String("server.role", s.Role()),
		)
		for _, leaf := range intLeaves(s.Record) {
			g, ok := e.gauge(leaf.path)
			if !ok {
				continue
			}
			g.Record(ctx, leaf.value, attrs)
			n++
		}
	}
	return n
}

func (e *Exporter) gauge(p Path) (metric.Int64Gauge, bool) {
	name := MetricPrefix + p.String()
	if g, ok := e.gauges[name]; ok {
		return g, g != nil
	}
	g, err := e.meter.Int64Gauge(name)
	if err != nil {
		if e.warnings != nil {
			_, _ = fmt.Fprintf(e.warnings, "Warning: skipping metric %s: %v\n", name, err)
		}
		e.gauges[name] = nil
		return nil, false
	}
	e.gauges[name] = g
	return g, true
}

type intLeaf struct {
	path  Path
	value int64
}

// intLeaves lists a record's integer leaves sorted by path, so repeated
// exports create instruments in a stable order. Unsigned counters past
// math.MaxInt64 are clamped to fit an Int64Gauge.
func intLeaves(r Record) []intLeaf {
	var out []intLeaf
	r.Leaves(func(p Path, v any) {
		switch n := v.(type) {
		case int64:
			out = append(out, intLeaf{path: p, value: n})
		case int:
			out = append(out, intLeaf{path: p, value: int64(n)})
		case uint64:
			out = append(out, intLeaf{path: p, value: int64(min(n, math.MaxInt64))})
		}
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].path.String() < out[j].path.String()
	})
	return out
}
