// Where coordinator, master, and backup time went during recovery
package analysis

import (
	"math"

	"github.com/SimbaWei/RAMCloud/pkg/metrics"
	"github.com/SimbaWei/RAMCloud/pkg/report"
	"github.com/SimbaWei/RAMCloud/pkg/stats"
)

const replicaNote = "for R-th replica"

func (g *generator) coordinatorTime(sec *report.Section) {
	if g.ds.Coordinator == nil {
		return
	}
	coord := []*metrics.Server{g.ds.Coordinator}

	g.msOfTotal(sec, "Total", coord, seconds(coordRecoveryTicks))
	g.msOfTotal(sec, "  Starting recovery on backups", coord, seconds(coordRecoveryConstructor))
	g.msOfTotal(sec, "  Starting recovery on masters", coord, seconds(coordRecoveryStartTicks))
	g.msOfTotal(sec, "  Tablets recovered", coord, seconds(rpcTabletsRecoveredTicks))
	g.msOfTotal(sec, "    Completing recovery on backups", coord, seconds(coordRecoveryCompleteTicks))
	g.msOfTotal(sec, "  Set will", coord, seconds(rpcSetWillTicks))
	g.msOfTotal(sec, "  Get tablet map", coord, seconds(rpcGetTabletMapTicks))
	g.msOfTotal(sec, "  Other", coord, residual(coordRecoveryTicks,
		coordRecoveryConstructor,
		coordRecoveryStartTicks,
		rpcSetWillTicks,
		rpcGetTabletMapTicks,
		rpcTabletsRecoveredTicks))
	g.msOfTotal(sec, "Receiving in transport", coord, seconds(transportReceiveTicks))
}

func (g *generator) masterTime(sec *report.Section) error {
	masters := g.ds.Masters

	g.msOfTotal(sec, "Total", masters, seconds(masterRecoveryTicks))
	g.msOfTotal(sec, "Waiting for incoming segments", masters, seconds(masterSegmentReadStallTicks))
	g.msOfTotal(sec, "Inside recoverSegment", masters, seconds(masterRecoverSegmentTicks))
	g.msOfTotal(sec, "  Backup.proceed", masters, seconds(masterBackupInRecoverTicks))
	g.msOfTotal(sec, "  Verify checksum", masters, seconds(masterVerifyChecksumTicks))
	g.msOfTotal(sec, "  Segment append", masters, seconds(masterSegmentAppendTicks))
	g.msOfTotal(sec, "    Segment append copy", masters, seconds(masterSegmentAppendCopyTicks))
	g.msOfTotal(sec, "    Segment append checksum", masters, seconds(masterSegmentAppendChecksum))
	g.msOfTotal(sec, "  Other (HT, etc.)", masters, residual(masterRecoverSegmentTicks,
		masterBackupInRecoverTicks,
		masterVerifyChecksumTicks,
		masterSegmentAppendTicks), report.WithNote("other"))
	g.msOfTotal(sec, "Final log sync", masters, seconds(masterLogSyncTicks))
	g.msOfTotal(sec, "Removing tombstones", masters, seconds(masterRemoveTombstoneTicks))
	g.msOfTotal(sec, "Other", masters, residual(masterRecoveryTicks,
		masterSegmentReadStallTicks,
		masterRecoverSegmentTicks,
		masterLogSyncTicks,
		masterRemoveTombstoneTicks))
	g.msOfTotal(sec, "Receiving in transport", masters, seconds(transportReceiveTicks))
	g.msOfTotal(sec, "Transmitting in transport", masters, seconds(transportTransmitTicks))

	if err := g.sessionOpens(sec, masters); err != nil {
		return err
	}

	replicas := field(masterReplicas)
	segments := func(bytes quantity) quantity {
		return ceil(ratio(bytes, field(segmentSize)))
	}
	perReplicatedSegment := func(ticks quantity, bytes quantity) quantity {
		return ratio(ratio(ticks, segments(bytes)), replicas)
	}
	replayTicks := residual(masterReplicationTicks, masterLogSyncTicks)
	replayBytes := sum(field(masterReplicationBytes), scale(field(masterLogSyncBytes), -1))

	g.ms(sec, "Replicating one segment", masters,
		perReplicatedSegment(seconds(masterReplicationTicks), field(masterReplicationBytes)))
	g.ms(sec, "  During replay", masters, perReplicatedSegment(replayTicks, replayBytes))
	g.ms(sec, "  During log sync", masters,
		perReplicatedSegment(seconds(masterLogSyncTicks), field(masterLogSyncBytes)))

	g.ms(sec, "RPC latency replicating one segment", masters,
		ratio(sum(seconds(masterBackupCloseTicks), seconds(masterLogSyncCloseTicks)),
			sum(field(masterBackupCloseCount), field(masterLogSyncCloseCount))),
		report.WithNote(replicaNote))
	g.ms(sec, "  During replay", masters,
		ratio(seconds(masterBackupCloseTicks), field(masterBackupCloseCount)),
		report.WithNote(replicaNote))
	g.ms(sec, "  During log sync", masters,
		ratio(seconds(masterLogSyncCloseTicks), field(masterLogSyncCloseCount)),
		report.WithNote(replicaNote))

	g.msOfTotal(sec, "Replication", masters, seconds(masterReplicationTicks))
	g.msOfTotal(sec, "Client RPCs Active", masters, seconds(transportClientRpcsActiveTck))
	g.ms(sec, "Average GRD completion time", masters,
		ratio(seconds(masterSegmentReadTicks), field(masterSegmentReadCount)))
	return nil
}

// maxExactSquare is the largest squared tick average that a server's
// 64-bit sum of squared ticks could have held without overflowing.
const maxExactSquare = float64(math.MaxUint64)

// sessionOpens reports transport session setup cost, but only when some
// master opened sessions at all.
func (g *generator) sessionOpens(sec *report.Section, masters []*metrics.Server) error {
	opened := false
	for _, m := range masters {
		if m.Record.Num(transportSessionOpenCount) != 0 {
			opened = true
			break
		}
	}
	if !opened {
		return nil
	}

	g.msOfTotal(sec, "Opening sessions", masters, seconds(transportSessionOpenTicks))
	if retries, ok := counts(masters, transportRetrySessionOpen); ok {
		var n int64
		for _, r := range retries {
			n += r
		}
		if n != 0 {
			report.AvgStd(sec, "  Timeouts", retries, report.WithNote("!!!"))
		}
	}

	avgs := make([]float64, 0, len(masters))
	stddevs := make([]float64, 0, len(masters))
	for _, m := range masters {
		avg, stddev, ok, err := sessionOpenStats(m)
		if err != nil {
			return err
		}
		if !ok {
			g.skipped(sec, "Avg per session")
			return nil
		}
		avgs = append(avgs, avg)
		stddevs = append(stddevs, stddev)
	}
	report.AvgMaxFrac(sec, "  Avg per session", avgs, report.WithFormat(report.MsFormat))
	report.AvgMaxFrac(sec, "  Std dev per session", stddevs, report.WithFormat(report.MsFormat))
	return nil
}

// sessionOpenStats returns one master's mean and standard deviation of
// session open time in milliseconds. A master that opened no sessions
// reports zeros; a standard deviation of -1 means the server's 64-bit sum
// of squares may have overflowed.
func sessionOpenStats(m *metrics.Server) (avg, stddev float64, ok bool, err error) {
	n := m.Record.Num(transportSessionOpenCount)
	if n <= 0 {
		return 0, 0, true, nil
	}
	ticks, ok := m.Record.Float(transportSessionOpenTicks)
	if !ok {
		return 0, 0, false, nil
	}
	hz, ok := m.ClockFrequency()
	if !ok {
		return 0, 0, false, nil
	}
	avg = ticks / n
	if avg*avg > maxExactSquare {
		stddev = -1
	} else {
		squared, ok := m.Record.Float(transportSessionOpenSquared)
		if !ok {
			return 0, 0, false, nil
		}
		stddev, err = stats.StdDevFromMoments(avg, squared/n)
		if err != nil {
			return 0, 0, false, err
		}
		stddev /= hz / 1e3
	}
	return avg / (hz / 1e3), stddev, true, nil
}

func (g *generator) backupTime(sec *report.Section) {
	backups := g.ds.Backups

	g.msOfTotal(sec, "RPC service time", backups, seconds(backupServiceTicks))
	g.msOfTotal(sec, "  startReadingData", backups, seconds(rpcStartReadingDataTicks))
	g.msOfTotal(sec, "  Open/write segment", backups, seconds(rpcBackupWriteTicks))
	g.msOfTotal(sec, "    Open segment memset", backups, seconds(backupWriteClearTicks))
	g.msOfTotal(sec, "    Copy", backups, seconds(backupWriteCopyTicks))
	g.msOfTotal(sec, "    Other", backups, residual(rpcBackupWriteTicks,
		backupWriteClearTicks,
		backupWriteCopyTicks))
	g.msOfTotal(sec, "  getRecoveryData", backups, seconds(rpcGetRecoveryDataTicks))
	g.msOfTotal(sec, "  Other", backups, residual(backupServiceTicks,
		rpcStartReadingDataTicks,
		rpcBackupWriteTicks,
		rpcGetRecoveryDataTicks))
	g.msOfTotal(sec, "Transmitting in transport", backups, seconds(transportTransmitTicks))
	g.msOfTotal(sec, "Filtering segments", backups, seconds(backupFilterTicks))
	g.msOfTotal(sec, "Reading segments", backups, seconds(backupReadingDataTicks))
	g.msOfTotal(sec, "  Using disk", backups, seconds(backupStorageReadTicks))

	g.composeCounts(sec, "getRecoveryData completions", backups, backupReadCompletionCnt,
		report.AvgMaxFrac[int64], report.WithFormat("%.0f"))

	// Only backups that served getRecoveryData at all have a retry fraction.
	var retryFractions []float64
	for _, b := range backups {
		requests, ok := b.Record.Float(rpcGetRecoveryDataCount)
		if !ok || requests <= 0 {
			continue
		}
		completions, ok := b.Record.Float(backupReadCompletionCnt)
		if !ok {
			continue
		}
		retryFractions = append(retryFractions, (requests-completions)/requests)
	}
	report.AvgMaxFrac(sec, "getRecoveryData retry fraction", retryFractions, report.WithFormat("%0.3f"))
}
