// Recovery report generation: walks a Dataset and builds one Section per topic
// Lines whose metrics are missing are left out instead of failing the report
package analysis

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SimbaWei/RAMCloud/pkg/metrics"
	"github.com/SimbaWei/RAMCloud/pkg/report"
	"github.com/SimbaWei/RAMCloud/pkg/stats"
)

// ErrNoRecoveryTime is returned when the client log has no positive recovery duration.
var ErrNoRecoveryTime = errors.New(`no "Recovery completed" line in client log`)

// DefaultNetworkCapacityGbps is the per-node link speed the aggregate
// network utilisation is compared against.
const DefaultNetworkCapacityGbps = 25

const ofTotalRecovery = "of total recovery"

// Options tunes report generation.
type Options struct {
	// NetworkCapacityGbps is each node's link speed (default DefaultNetworkCapacityGbps).
	NetworkCapacityGbps float64
	// Warnings receives one line per report line left out for missing
	// metrics; nil discards them.
	Warnings io.Writer
}

type generator struct {
	ds       *metrics.Dataset
	opts     Options
	recovery float64 // seconds
}

// Generate builds the recovery report for ds.
func Generate(ds *metrics.Dataset, opts Options) (rep *report.Report, err error) {
	ns, ok := ds.RecoveryNs()
	if !ok || ns <= 0 {
		return nil, ErrNoRecoveryTime
	}
	if opts.NetworkCapacityGbps == 0 {
		opts.NetworkCapacityGbps = DefaultNetworkCapacityGbps
	}

	defer recoverInvariant(&rep, &err)

	g := &generator{ds: ds, opts: opts, recovery: float64(ns) / 1e9}
	rep = report.New()
	g.summary(rep.Section("Summary"))
	g.coordinatorTime(rep.Section("Coordinator Time"))
	if err := g.masterTime(rep.Section("Master Time")); err != nil {
		return nil, err
	}
	g.backupTime(rep.Section("Backup Time"))
	g.efficiency(rep.Section("Efficiency"))
	g.network(rep.Section("Network Utilization"))
	g.disk(rep.Section("Disk Utilization"))
	g.backupEvents(rep.Section("Backup Events"))
	g.slowest(rep.Section("Slowest Servers"))
	g.temporary(rep.Section("Temporary Metrics"))
	return rep, nil
}

// recoverInvariant turns a *stats.InvariantError panic from a composition
// policy into Generate's error. Any other panic is re-raised.
func recoverInvariant(rep **report.Report, err *error) {
	r := recover()
	if r == nil {
		return
	}
	ie, ok := r.(*stats.InvariantError)
	if !ok {
		panic(r)
	}
	*rep, *err = nil, fmt.Errorf("generating report: %w", ie)
}

// skipped notes a line left out because its metrics are missing.
func (g *generator) skipped(sec *report.Section, label string) {
	if g.opts.Warnings == nil {
		return
	}
	_, _ = fmt.Fprintf(g.opts.Warnings, "Warning: %s: skipping %q, metrics not present\n", sec.Title, strings.TrimSpace(label))
}

// ofTotal shows a line as a share of the overall recovery time.
func (g *generator) ofTotal(extra ...report.Option) []report.Option {
	return append([]report.Option{
		report.WithTotal(g.recovery),
		report.WithFractionLabel(ofTotalRecovery),
	}, extra...)
}

// ms adds a millisecond line for q evaluated on every server.
func (g *generator) ms(sec *report.Section, label string, servers []*metrics.Server, q quantity, opts ...report.Option) {
	points, ok := each(servers, q)
	if !ok {
		g.skipped(sec, label)
		return
	}
	report.Ms(sec, label, points, opts...)
}

// msOfTotal is ms with a percentage of the total recovery time.
func (g *generator) msOfTotal(sec *report.Section, label string, servers []*metrics.Server, q quantity, extra ...report.Option) {
	g.ms(sec, label, servers, q, g.ofTotal(extra...)...)
}

// compose adds a line for q on every server using one of the report policies.
func (g *generator) compose(sec *report.Section, label string, servers []*metrics.Server, q quantity,
	policy func(*report.Section, string, []float64, ...report.Option), opts ...report.Option) {
	points, ok := each(servers, q)
	if !ok {
		g.skipped(sec, label)
		return
	}
	policy(sec, label, points, opts...)
}

// composeCounts adds a line for an integer counter on every server.
func (g *generator) composeCounts(sec *report.Section, label string, servers []*metrics.Server, path metrics.Path,
	policy func(*report.Section, string, []int64, ...report.Option), opts ...report.Option) {
	points, ok := counts(servers, path)
	if !ok {
		g.skipped(sec, label)
		return
	}
	policy(sec, label, points, opts...)
}
