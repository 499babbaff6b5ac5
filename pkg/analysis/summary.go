// Summary section: recovery time, server counts, and recovered data volume
// Counts come from role classification; sizes are summed across masters
package analysis

import (
	"github.com/SimbaWei/RAMCloud/pkg/metrics"
	"github.com/SimbaWei/RAMCloud/pkg/report"
	"github.com/SimbaWei/RAMCloud/pkg/stats"
)

const mb = 1024.0 * 1024.0

var storageTypes = map[int64]string{
	1: "memory",
	2: "disk",
}

func (g *generator) summary(sec *report.Section) {
	masters, backups := g.ds.Masters, g.ds.Backups

	report.AvgStd(sec, "Recovery time", stats.Seq(g.recovery), report.WithFormat("%6.3f s"))
	report.AvgStd(sec, "Masters", stats.Seq(len(masters)))
	report.AvgStd(sec, "Backups", stats.Seq(len(backups)))
	if g.ds.Coordinator != nil {
		report.AvgStd(sec, "Total nodes", stats.Seq(g.ds.TotalNodes))
	}

	if len(masters) > 0 {
		if replicas, ok := masters[0].Record.Int(masterReplicas); ok {
			report.AvgStd(sec, "Replicas", stats.Seq(replicas))
		} else {
			g.skipped(sec, "Replicas")
		}
		g.composeCounts(sec, "Objects per master", masters, masterLiveObjectCount, report.AvgMaxFrac[int64])
		g.compose(sec, "Object size", masters,
			ratio(field(masterLiveObjectBytes), field(masterLiveObjectCount)),
			report.AvgMaxFrac[float64], report.WithFormat("%6.0f bytes"))
		g.sumCount(sec, "Total live objects", masters, masterLiveObjectCount)
		g.sumCount(sec, "Total recovery segment entries", masters, masterRecoverySegmentEntryCount)
		g.sumMB(sec, "Total live object space", masters, masterLiveObjectBytes)
		g.sumMB(sec, "Total recovery segment space w/ overhead", masters, masterSegmentReadByteCount)
	}

	if len(backups) > 0 {
		sec.Line("Storage type", []string{storageType(backups)}, "")
	}
	if g.ds.LogDir != "" {
		sec.Line("Log directory", []string{g.ds.LogDir}, "")
	}
}

func (g *generator) sumCount(sec *report.Section, label string, servers []*metrics.Server, path metrics.Path) {
	n, ok := totalCount(servers, path)
	if !ok {
		g.skipped(sec, label)
		return
	}
	report.AvgStd(sec, label, stats.Seq(n))
}

func (g *generator) sumMB(sec *report.Section, label string, servers []*metrics.Server, path metrics.Path) {
	bytes, ok := total(servers, field(path))
	if !ok {
		g.skipped(sec, label)
		return
	}
	report.AvgStd(sec, label, stats.Seq(bytes/mb), report.WithFormat("%6.2f MB"))
}

// storageType names the backups' storage medium, or "mixed" if they differ.
func storageType(backups []*metrics.Server) string {
	seen := make(map[int64]struct{})
	var kind int64
	for _, b := range backups {
		v, ok := b.Record.Int(backupStorageType)
		if !ok {
			v = -1
		}
		seen[v] = struct{}{}
		kind = v
	}
	if len(seen) > 1 {
		return "mixed"
	}
	if name, ok := storageTypes[kind]; ok {
		return name
	}
	return "unknown"
}
