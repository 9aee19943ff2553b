package batch

import (
	"testing"

	"github.com/cormorant-labs/batchllm/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTracker_Lifecycle(t *testing.T) {
	cases := []struct {
		name string
		run  func(t *testing.T, tr *StatusTracker)
	}{
		{
			name: "submit moves file out of unsubmitted and counts requests",
			run: func(t *testing.T, tr *StatusTracker) {
				b := &models.BatchDescriptor{ID: "batch-1", RequestCounts: models.RequestCounts{Total: 3}}
				tr.MarkAsSubmitted("requests_0.jsonl", b)

				assert.Empty(t, tr.UnsubmittedFiles())
				totalBatches, totalRequests, finished, downloaded := tr.Counts()
				assert.Equal(t, 1, totalBatches)
				assert.Equal(t, 3, totalRequests)
				assert.Equal(t, 0, finished)
				assert.Equal(t, 0, downloaded)
			},
		},
		{
			name: "finish then download shifts counts without double counting",
			run: func(t *testing.T, tr *StatusTracker) {
				b := &models.BatchDescriptor{ID: "batch-1", RequestCounts: models.RequestCounts{Total: 3, Completed: 2, Failed: 1}}
				tr.MarkAsSubmitted("requests_0.jsonl", b)
				tr.MarkAsFinished(b)

				_, _, finished, downloaded := tr.Counts()
				assert.Equal(t, 3, finished)
				assert.Equal(t, 0, downloaded)

				tr.MarkAsDownloaded(b)
				_, _, finished, downloaded = tr.Counts()
				assert.Equal(t, 0, finished)
				assert.Equal(t, 3, downloaded)
			},
		},
		{
			name: "mark as finished is idempotent once downloaded",
			run: func(t *testing.T, tr *StatusTracker) {
				b := &models.BatchDescriptor{ID: "batch-1", RequestCounts: models.RequestCounts{Total: 1, Completed: 1}}
				tr.MarkAsSubmitted("requests_0.jsonl", b)
				tr.MarkAsFinished(b)
				tr.MarkAsDownloaded(b)
				tr.MarkAsFinished(b) // must not move it back or double count

				_, _, finished, downloaded := tr.Counts()
				assert.Equal(t, 0, finished)
				assert.Equal(t, 1, downloaded)
			},
		},
		{
			name: "Done reports true only once every set empties",
			run: func(t *testing.T, tr *StatusTracker) {
				require.False(t, tr.Done())
				b := &models.BatchDescriptor{ID: "batch-1", RequestCounts: models.RequestCounts{Total: 1, Completed: 1}}
				tr.MarkAsSubmitted("requests_0.jsonl", b)
				require.False(t, tr.Done())
				tr.MarkAsFinished(b)
				require.False(t, tr.Done())
				tr.MarkAsDownloaded(b)
				require.True(t, tr.Done())
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewStatusTracker([]string{"requests_0.jsonl"})
			tc.run(t, tr)
		})
	}
}

func TestStatusTracker_DisjointSets(t *testing.T) {
	tr := NewStatusTracker([]string{"requests_0.jsonl", "requests_1.jsonl"})
	b1 := &models.BatchDescriptor{ID: "batch-1", RequestCounts: models.RequestCounts{Total: 1}}
	b2 := &models.BatchDescriptor{ID: "batch-2", RequestCounts: models.RequestCounts{Total: 1}}

	tr.MarkAsSubmitted("requests_0.jsonl", b1)
	tr.MarkAsSubmitted("requests_1.jsonl", b2)
	tr.MarkAsFinished(b1)

	submittedIDs := idSet(tr.SubmittedBatches())
	finishedIDs := idSet(tr.FinishedBatches())
	downloadedIDs := idSet(tr.DownloadedBatches())

	assert.NotContains(t, submittedIDs, "batch-1")
	assert.Contains(t, submittedIDs, "batch-2")
	assert.Contains(t, finishedIDs, "batch-1")
	assert.Empty(t, downloadedIDs)
}

func idSet(batches []*models.BatchDescriptor) map[string]struct{} {
	out := make(map[string]struct{}, len(batches))
	for _, b := range batches {
		out[b.ID] = struct{}{}
	}
	return out
}
