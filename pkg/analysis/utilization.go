// Per-segment efficiency, network, and disk utilisation during recovery
package analysis

import (
	"github.com/SimbaWei/RAMCloud/pkg/metrics"
	"github.com/SimbaWei/RAMCloud/pkg/report"
	"github.com/SimbaWei/RAMCloud/pkg/stats"
)

const (
	gib = 1 << 30
	mib = 1 << 20

	gbpsFormat = "%4.2f Gb/s"
	mbpsFormat = "%6.2f MB/s"
	perSegment = "%6.2f ms avg"
)

func (g *generator) efficiency(sec *report.Section) {
	masters, backups := g.ds.Masters, g.ds.Backups

	g.perSegment(sec, "recoverSegment CPU", masters,
		seconds(masterRecoverSegmentTicks), field(masterSegmentReadCount), "per filtered segment")
	// Each segment takes two writes: one to open it and one for the data.
	g.perSegment(sec, "Writing a segment", backups,
		seconds(rpcBackupWriteTicks), scale(field(rpcBackupWriteCount), 0.5), "backup RPC thread")
	g.perSegment(sec, "Filtering a segment", backups,
		seconds(backupFilterTicks), field(backupStorageReadCount), "")

	g.compose(sec, "Memory bandwidth (backup copies)", backups,
		ratio(scale(field(backupWriteCopyBytes), 1.0/gib), seconds(backupWriteCopyTicks)),
		report.AvgMinFrac[float64], report.WithFormat("%6.2f GB/s"))
}

// perSegment adds the cluster-wide average milliseconds spent per segment:
// the total of busy over servers divided by the total of segs.
func (g *generator) perSegment(sec *report.Section, label string, servers []*metrics.Server, busy, segs quantity, note string) {
	if len(servers) == 0 {
		return
	}
	secs, ok := total(servers, busy)
	if !ok {
		g.skipped(sec, label)
		return
	}
	n, ok := total(servers, segs)
	if !ok || n == 0 {
		g.skipped(sec, label)
		return
	}
	report.AvgStd(sec, label, stats.Seq(secs*1000/n), report.WithFormat(perSegment), report.WithNote(note))
}

func (g *generator) network(sec *report.Section) {
	masters, backups := g.ds.Masters, g.ds.Backups

	// Servers that are both master and backup are counted in each role.
	hosts := make([]*metrics.Server, 0, len(masters)+len(backups)+1)
	if g.ds.Coordinator != nil {
		hosts = append(hosts, g.ds.Coordinator)
	}
	hosts = append(hosts, masters...)
	hosts = append(hosts, backups...)

	gbits := func(bytes quantity) quantity { return scale(bytes, 8.0/gib) }
	overRecovery := func(bytes quantity) quantity { return scale(gbits(bytes), 1/g.recovery) }
	overall := report.WithNote("overall")

	if sent, ok := total(hosts, field(transportTransmitBytes)); ok {
		report.AvgStdFrac(sec, "Aggregate", stats.Seq(sent*8/gib/g.recovery),
			report.WithFormat(gbpsFormat),
			report.WithTotal(float64(g.ds.TotalNodes)*g.opts.NetworkCapacityGbps),
			report.WithFractionLabel("of network capacity"),
			overall)
	} else {
		g.skipped(sec, "Aggregate")
	}

	bandwidth := func(label string, servers []*metrics.Server, q quantity) {
		g.compose(sec, label, servers, q, report.AvgMinSum[float64], report.WithFormat(gbpsFormat), overall)
	}
	bandwidth("Master in", masters, overRecovery(field(transportReceiveBytes)))
	bandwidth("Master out", masters, overRecovery(field(transportTransmitBytes)))
	bandwidth("  Master out during replication", masters,
		ratio(gbits(field(masterReplicationBytes)), seconds(masterReplicationTicks)))
	bandwidth("  Master out during log sync", masters,
		ratio(gbits(field(masterLogSyncBytes)), seconds(masterLogSyncTicks)))
	bandwidth("Backup in", backups, overRecovery(field(transportReceiveBytes)))
	bandwidth("Backup out", backups, overRecovery(field(transportTransmitBytes)))
}

func (g *generator) disk(sec *report.Section) {
	backups := g.ds.Backups

	storageBytes := sum(field(backupStorageReadBytes), field(backupStorageWriteBytes))
	storageSecs := sum(seconds(backupStorageReadTicks), seconds(backupStorageWriteTicks))
	mbps := report.WithFormat(mbpsFormat)

	g.compose(sec, "Effective bandwidth", backups,
		scale(storageBytes, 1.0/mib/g.recovery), report.AvgMinSum[float64], mbps)

	// Active bandwidths only count backups that spent time on the disk.
	report.AvgMinSum(sec, "Active bandwidth",
		present(backups, ratio(scale(storageBytes, 1.0/mib), storageSecs)), mbps)
	report.AvgMinSum(sec, "  Reading",
		present(backups, ratio(scale(field(backupStorageReadBytes), 1.0/mib), seconds(backupStorageReadTicks))), mbps)
	report.AvgMinSum(sec, "  Writing",
		present(backups, ratio(scale(field(backupStorageWriteBytes), 1.0/mib), seconds(backupStorageWriteTicks))), mbps)

	activePct := func(q quantity) quantity { return scale(q, 100/g.recovery) }
	ofRecovery := report.WithNote(ofTotalRecovery)
	pct := report.WithFormat("%6.2f%%")
	g.compose(sec, "Disk active", backups, activePct(storageSecs), report.AvgMaxFrac[float64], pct, ofRecovery)
	g.compose(sec, "  Reading", backups, activePct(seconds(backupStorageReadTicks)), report.AvgMaxFrac[float64], pct, ofRecovery)
	g.compose(sec, "  Writing", backups, activePct(seconds(backupStorageWriteTicks)), report.AvgMaxFrac[float64], pct, ofRecovery)
}
