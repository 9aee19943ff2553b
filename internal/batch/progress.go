package batch

import "fmt"

// Progress is a read-only snapshot of batch and request counts, never
// independently maintained (spec §9 design note). ProjectProgress derives one
// from a StatusTracker; the CLI's status command builds one from the
// submitted and downloaded journals.
type Progress struct {
	BatchesSubmitted   int
	RequestsTotal      int
	RequestsFinished   int
	RequestsDownloaded int
}

// ProjectProgress derives a Progress snapshot from tracker.
func ProjectProgress(tracker *StatusTracker) Progress {
	totalBatches, totalRequests, finished, downloaded := tracker.Counts()
	return Progress{
		BatchesSubmitted:   totalBatches,
		RequestsTotal:      totalRequests,
		RequestsFinished:   finished,
		RequestsDownloaded: downloaded,
	}
}

// Percent returns the fraction of total requests that have been downloaded,
// as a percentage in [0, 100]. A zero-total tracker reports 0.
func (p Progress) Percent() float64 {
	if p.RequestsTotal == 0 {
		return 0
	}
	return float64(p.RequestsDownloaded) / float64(p.RequestsTotal) * 100
}

// String formats a one-line human-readable summary, mirroring the teacher's
// Monitor.FormatStatus.
func (p Progress) String() string {
	return fmt.Sprintf("batches submitted: %d | requests: %d/%d downloaded (%d finished, awaiting download) | %.1f%% complete",
		p.BatchesSubmitted, p.RequestsDownloaded, p.RequestsTotal, p.RequestsFinished, p.Percent())
}
