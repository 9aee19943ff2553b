package batch

import (
	"testing"

	berrors "github.com/cormorant-labs/batchllm/pkg/errors"
	"github.com/cormorant-labs/batchllm/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuffix(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{path: "/tmp/work/requests_0001.jsonl", want: "0001"},
		{path: "requests_abcd-ef.jsonl", want: "abcd-ef"},
		{path: "noUnderscore.jsonl", want: "noUnderscore.jsonl"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, Suffix(tc.path))
		})
	}
}

func TestResponseFileName_PairsWithRequestFile(t *testing.T) {
	got := ResponseFileName("/tmp/work/requests_0001.jsonl")
	assert.Equal(t, "/tmp/work/responses_0001.jsonl", got)
}

func TestWriteReadGenericRequests_RoundTrip(t *testing.T) {
	ffs := newFakeFS()
	reqs := []models.GenericRequest{
		{OriginalRowIdx: 0, Model: "gpt-4o-mini", Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "hi"}}},
		{OriginalRowIdx: 1, Model: "gpt-4o-mini", Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "there"}}},
	}

	require.NoError(t, WriteGenericRequests(ffs, "dir/requests_0.jsonl", reqs))

	got, err := ReadGenericRequests(ffs, "dir/requests_0.jsonl")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[1].OriginalRowIdx)
}

func TestWriteGenericRequests_RejectsOverRequestLimit(t *testing.T) {
	ffs := newFakeFS()
	reqs := make([]models.GenericRequest, MaxBatchRequests+1)
	for i := range reqs {
		reqs[i] = models.GenericRequest{OriginalRowIdx: int64(i), Model: "gpt-4o-mini"}
	}

	err := WriteGenericRequests(ffs, "dir/requests_0.jsonl", reqs)

	require.Error(t, err)
	assert.True(t, berrors.IsBatchTooLarge(err))

	// the oversized write must never reach the filesystem
	_, statErr := ffs.Stat("dir/requests_0.jsonl")
	assert.Error(t, statErr)
}

func TestResponseFileExists(t *testing.T) {
	ffs := newFakeFS()
	assert.False(t, ResponseFileExists(ffs, "dir/responses_0.jsonl"))

	require.NoError(t, WriteGenericResponses(ffs, "dir/responses_0.jsonl", []models.GenericResponse{{}}))
	assert.True(t, ResponseFileExists(ffs, "dir/responses_0.jsonl"))
}
