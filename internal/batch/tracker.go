// Package batch implements the batched-request orchestration engine: request
// and response file pairing, the on-disk journal, the status tracker, cost
// estimation, and the BatchManager state machine that drives submission,
// polling, and download.
package batch

import (
	"sync"

	"github.com/cormorant-labs/batchllm/pkg/models"
)

// StatusTracker holds the disjoint sets and counters described in spec §3/§4.1.
// It is pure in-memory bookkeeping. BatchManager mutates it from concurrent
// submit, poll and download goroutines, and progress projection may read it
// at any time; the mutex serializes all of these.
type StatusTracker struct {
	mu sync.Mutex

	unsubmitted map[string]struct{} // request file path -> present
	submitted   map[string]*models.BatchDescriptor
	finished    map[string]*models.BatchDescriptor
	downloaded  map[string]*models.BatchDescriptor

	nTotalBatches      int
	nTotalRequests     int
	nFinishedRequests  int
	nDownloadedRequests int
}

// NewStatusTracker seeds the unsubmitted set from requestFiles.
func NewStatusTracker(requestFiles []string) *StatusTracker {
	t := &StatusTracker{
		unsubmitted: make(map[string]struct{}, len(requestFiles)),
		submitted:   make(map[string]*models.BatchDescriptor),
		finished:    make(map[string]*models.BatchDescriptor),
		downloaded:  make(map[string]*models.BatchDescriptor),
	}
	for _, f := range requestFiles {
		t.unsubmitted[f] = struct{}{}
	}
	return t
}

// RemoveUnsubmitted drops a file from the unsubmitted set without moving it
// anywhere else; used by resume-from-downloaded-journal (§4.6.1 step 2),
// which has already satisfied the file from a prior run.
func (t *StatusTracker) RemoveUnsubmitted(requestFile string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.unsubmitted, requestFile)
}

// UnsubmittedFiles returns a snapshot of the unsubmitted set.
func (t *StatusTracker) UnsubmittedFiles() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.unsubmitted))
	for f := range t.unsubmitted {
		out = append(out, f)
	}
	return out
}

// MarkAsSubmitted transitions requestFile from unsubmitted to submitted,
// recording batch. Precondition: requestFile ∈ unsubmitted (violation is a
// no-op, matching the idempotent-resume requirement of §4.6.4).
func (t *StatusTracker) MarkAsSubmitted(requestFile string, batch *models.BatchDescriptor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.unsubmitted[requestFile]; !ok {
		return
	}
	delete(t.unsubmitted, requestFile)
	t.submitted[batch.ID] = batch
	t.nTotalBatches++
	t.nTotalRequests += batch.RequestCounts.Total
}

// MarkAsFinished moves batch.ID from submitted to finished and accumulates
// its completed+failed counts. Idempotent: a batch already finished or
// downloaded is left alone.
func (t *StatusTracker) MarkAsFinished(batch *models.BatchDescriptor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.finished[batch.ID]; ok {
		return
	}
	if _, ok := t.downloaded[batch.ID]; ok {
		return
	}
	if _, ok := t.submitted[batch.ID]; !ok {
		return
	}
	delete(t.submitted, batch.ID)
	t.finished[batch.ID] = batch
	t.nFinishedRequests += batch.RequestCounts.Completed + batch.RequestCounts.Failed
}

// MarkAsDownloaded moves batch.ID from finished to downloaded, shifting its
// completed+failed count from nFinishedRequests to nDownloadedRequests.
// Idempotent.
func (t *StatusTracker) MarkAsDownloaded(batch *models.BatchDescriptor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.downloaded[batch.ID]; ok {
		return
	}
	if _, ok := t.finished[batch.ID]; !ok {
		return
	}
	delete(t.finished, batch.ID)
	t.downloaded[batch.ID] = batch
	n := batch.RequestCounts.Completed + batch.RequestCounts.Failed
	t.nFinishedRequests -= n
	t.nDownloadedRequests += n
}

// SubmittedBatches returns a snapshot of currently submitted descriptors.
func (t *StatusTracker) SubmittedBatches() []*models.BatchDescriptor {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*models.BatchDescriptor, 0, len(t.submitted))
	for _, b := range t.submitted {
		out = append(out, b)
	}
	return out
}

// FinishedBatches returns a snapshot of currently finished (not yet
// downloaded) descriptors.
func (t *StatusTracker) FinishedBatches() []*models.BatchDescriptor {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*models.BatchDescriptor, 0, len(t.finished))
	for _, b := range t.finished {
		out = append(out, b)
	}
	return out
}

// DownloadedBatches returns a snapshot of downloaded descriptors.
func (t *StatusTracker) DownloadedBatches() []*models.BatchDescriptor {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*models.BatchDescriptor, 0, len(t.downloaded))
	for _, b := range t.downloaded {
		out = append(out, b)
	}
	return out
}

// Counts returns the three monotonicity-tracked counters plus batch count.
func (t *StatusTracker) Counts() (totalBatches, totalRequests, finishedRequests, downloadedRequests int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nTotalBatches, t.nTotalRequests, t.nFinishedRequests, t.nDownloadedRequests
}

// Done reports whether every request file has reached the submitted set and
// every submitted batch has been downloaded (i.e. both unsubmitted and
// submitted/finished are empty).
func (t *StatusTracker) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.unsubmitted) == 0 && len(t.submitted) == 0 && len(t.finished) == 0
}
