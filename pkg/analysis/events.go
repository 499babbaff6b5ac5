// Backup event counts, slowest servers, and ad hoc temporary counters
package analysis

import (
	"fmt"

	"github.com/SimbaWei/RAMCloud/pkg/metrics"
	"github.com/SimbaWei/RAMCloud/pkg/report"
	"github.com/SimbaWei/RAMCloud/pkg/stats"
)

// tempSlots is how many temp.ticksN and temp.countN placeholders servers expose.
const tempSlots = 10

func (g *generator) backupEvents(sec *report.Section) {
	backups := g.ds.Backups
	g.composeCounts(sec, "Segments read", backups, backupStorageReadCount, report.AvgMaxFrac[int64])
	g.composeCounts(sec, "Primary segments loaded", backups, backupPrimaryLoadCount, report.AvgMaxFrac[int64])
	g.composeCounts(sec, "Secondary segments loaded", backups, backupSecondaryLoadCount, report.AvgMaxFrac[int64])
}

func (g *generator) slowest(sec *report.Section) {
	masters, backups := g.ds.Masters, g.ds.Backups

	if s, ok := stats.MaxTagged(tagged(masters,
		scale(residual(masterBackupManagerTicks, masterLogSyncTicks), 1e3))); ok {
		sec.Line("Backup opens, writes", []string{fmt.Sprintf("%s (%.1f ms)", s.Tag, s.Value)}, "")
	}
	if s, ok := stats.MaxTagged(tagged(masters, scale(seconds(masterSegmentReadStallTicks), 1e3))); ok {
		sec.Line("Stalled reading segs from backups", []string{fmt.Sprintf("%s (%.1f ms)", s.Tag, s.Value)}, "")
	}
	if s, ok := stats.MinTagged(tagged(backups,
		ratio(scale(field(backupStorageReadBytes), 1.0/mib), seconds(backupStorageReadTicks)))); ok {
		sec.Line("Reading from disk", []string{fmt.Sprintf("%s (%.1f MB/s)", s.Tag, s.Value)}, "")
	}
	if s, ok := stats.MinTagged(tagged(backups,
		ratio(scale(field(backupStorageWriteBytes), 1.0/mib), seconds(backupStorageWriteTicks)))); ok {
		sec.Line("Writing to disk", []string{fmt.Sprintf("%s (%.1f MB/s)", s.Tag, s.Value)}, "")
	}
}

// tagged pairs q with each server's name, leaving out servers where q is absent.
func tagged(servers []*metrics.Server, q quantity) []stats.Tagged {
	var out []stats.Tagged
	for _, s := range servers {
		if v, ok := q(s); ok {
			out = append(out, stats.Tagged{Value: v, Tag: s.Name})
		}
	}
	return out
}

// temporary reports the temp.ticksN and temp.countN scratch counters that
// developers wire up while investigating; unused slots are all zero.
func (g *generator) temporary(sec *report.Section) {
	servers := g.ds.Servers

	for i := range tempSlots {
		name := fmt.Sprintf("ticks%d", i)
		slot := tempMetrics.Child(name)
		points := make([]float64, len(servers))
		for j, s := range servers {
			// Servers without the slot, or without a clock, count as zero.
			if v, ok := s.Seconds(slot); ok {
				points[j] = v
			}
		}
		if anyNonZero(points) {
			report.Ms(sec, "temp."+name, points, g.ofTotal()...)
		}
	}

	for i := range tempSlots {
		name := fmt.Sprintf("count%d", i)
		slot := tempMetrics.Child(name)
		points := make([]int64, len(servers))
		for j, s := range servers {
			points[j], _ = s.Record.Int(slot)
		}
		if anyNonZero(points) {
			report.AvgMaxFrac(sec, "temp."+name, points)
		}
	}
}

func anyNonZero[T stats.Number](xs []T) bool {
	for _, x := range xs {
		if x != 0 {
			return true
		}
	}
	return false
}
