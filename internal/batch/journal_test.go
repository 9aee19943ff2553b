package batch

import (
	"testing"

	"github.com/cormorant-labs/batchllm/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_AppendReadAll(t *testing.T) {
	ffs := newFakeFS()
	j := NewJournal(ffs, "batch_objects_submitted_abcd.jsonl")

	// empty journal reads as empty, not an error
	entries, err := j.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, entries)

	b1 := &models.BatchDescriptor{ID: "batch-1", Status: models.BatchStatusInProgress, RequestCounts: models.RequestCounts{Total: 2}}
	b2 := &models.BatchDescriptor{ID: "batch-2", Status: models.BatchStatusCompleted, RequestCounts: models.RequestCounts{Total: 1, Completed: 1}}

	require.NoError(t, j.Append(b1))
	require.NoError(t, j.Append(b2))

	entries, err = j.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "batch-1", entries[0].ID)
	assert.Equal(t, "batch-2", entries[1].ID)
	assert.Equal(t, 1, entries[1].RequestCounts.Completed)
}

func TestJournal_Cancel(t *testing.T) {
	t.Run("renames an existing journal to .cancelled", func(t *testing.T) {
		ffs := newFakeFS()
		j := NewJournal(ffs, "batch_objects_submitted_abcd.jsonl")
		require.NoError(t, j.Append(&models.BatchDescriptor{ID: "batch-1"}))

		require.NoError(t, j.Cancel())

		_, err := ffs.Stat("batch_objects_submitted_abcd.jsonl")
		assert.Error(t, err)
		_, err = ffs.Stat("batch_objects_submitted_abcd.jsonl.cancelled")
		assert.NoError(t, err)
	})

	t.Run("cancelling a journal that never existed is a no-op", func(t *testing.T) {
		ffs := newFakeFS()
		j := NewJournal(ffs, "batch_objects_submitted_never.jsonl")
		assert.NoError(t, j.Cancel())
	})
}
