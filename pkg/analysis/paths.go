// Metric paths read by the report, grouped by the component that logs them
package analysis

import "github.com/SimbaWei/RAMCloud/pkg/metrics"

var p = metrics.MustPath

var (
	segmentSize = p("segmentSize")

	coordRecoveryTicks         = p("coordinator.recoveryTicks")
	coordRecoveryConstructor   = p("coordinator.recoveryConstructorTicks")
	coordRecoveryStartTicks    = p("coordinator.recoveryStartTicks")
	coordRecoveryCompleteTicks = p("coordinator.recoveryCompleteTicks")

	rpcTabletsRecoveredTicks     = p("rpc.tabletsRecoveredTicks")
	rpcSetWillTicks              = p("rpc.setWillTicks")
	rpcGetTabletMapTicks         = p("rpc.getTabletMapTicks")
	rpcStartReadingDataTicks     = p("rpc.backupStartReadingDataTicks")
	rpcBackupWriteTicks          = p("rpc.backupWriteTicks")
	rpcBackupWriteCount          = p("rpc.backupWriteCount")
	rpcGetRecoveryDataTicks      = p("rpc.backupGetRecoveryDataTicks")
	rpcGetRecoveryDataCount      = p("rpc.backupGetRecoveryDataCount")
	transportReceiveTicks        = p("transport.receive.ticks")
	transportReceiveBytes        = p("transport.receive.byteCount")
	transportTransmitTicks       = p("transport.transmit.ticks")
	transportTransmitBytes       = p("transport.transmit.byteCount")
	transportSessionOpenCount    = p("transport.sessionOpenCount")
	transportSessionOpenTicks    = p("transport.sessionOpenTicks")
	transportSessionOpenSquared  = p("transport.sessionOpenSquaredTicks")
	transportRetrySessionOpen    = p("transport.retrySessionOpenCount")
	transportClientRpcsActiveTck = p("transport.clientRpcsActiveTicks")

	masterReplicas                  = p("master.replicas")
	masterLiveObjectCount           = p("master.liveObjectCount")
	masterLiveObjectBytes           = p("master.liveObjectBytes")
	masterRecoverySegmentEntryCount = p("master.recoverySegmentEntryCount")
	masterSegmentReadByteCount      = p("master.segmentReadByteCount")
	masterRecoveryTicks             = p("master.recoveryTicks")
	masterSegmentReadStallTicks     = p("master.segmentReadStallTicks")
	masterRecoverSegmentTicks       = p("master.recoverSegmentTicks")
	masterBackupInRecoverTicks      = p("master.backupInRecoverTicks")
	masterVerifyChecksumTicks       = p("master.verifyChecksumTicks")
	masterSegmentAppendTicks        = p("master.segmentAppendTicks")
	masterSegmentAppendCopyTicks    = p("master.segmentAppendCopyTicks")
	masterSegmentAppendChecksum     = p("master.segmentAppendChecksumTicks")
	masterLogSyncTicks              = p("master.logSyncTicks")
	masterLogSyncBytes              = p("master.logSyncBytes")
	masterRemoveTombstoneTicks      = p("master.removeTombstoneTicks")
	masterReplicationTicks          = p("master.replicationTicks")
	masterReplicationBytes          = p("master.replicationBytes")
	masterBackupCloseTicks          = p("master.backupCloseTicks")
	masterBackupCloseCount          = p("master.backupCloseCount")
	masterLogSyncCloseTicks         = p("master.logSyncCloseTicks")
	masterLogSyncCloseCount         = p("master.logSyncCloseCount")
	masterSegmentReadTicks          = p("master.segmentReadTicks")
	masterSegmentReadCount          = p("master.segmentReadCount")
	masterBackupManagerTicks        = p("master.backupManagerTicks")

	backupStorageType        = p("backup.storageType")
	backupServiceTicks       = p("backup.serviceTicks")
	backupWriteClearTicks    = p("backup.writeClearTicks")
	backupWriteCopyTicks     = p("backup.writeCopyTicks")
	backupWriteCopyBytes     = p("backup.writeCopyBytes")
	backupFilterTicks        = p("backup.filterTicks")
	backupReadingDataTicks   = p("backup.readingDataTicks")
	backupStorageReadTicks   = p("backup.storageReadTicks")
	backupStorageReadBytes   = p("backup.storageReadBytes")
	backupStorageReadCount   = p("backup.storageReadCount")
	backupStorageWriteTicks  = p("backup.storageWriteTicks")
	backupStorageWriteBytes  = p("backup.storageWriteBytes")
	backupReadCompletionCnt  = p("backup.readCompletionCount")
	backupPrimaryLoadCount   = p("backup.primaryLoadCount")
	backupSecondaryLoadCount = p("backup.secondaryLoadCount")

	tempMetrics = p("temp")
)
