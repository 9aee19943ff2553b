package batch

import (
	"testing"

	"github.com/cormorant-labs/batchllm/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultCache_StoreLoadRoundTrip(t *testing.T) {
	cache := NewResultCache(t.TempDir())

	_, found := cache.Load("abc123")
	assert.False(t, found)

	want := []models.GenericResponse{
		{GenericRequest: models.GenericRequest{OriginalRowIdx: 0, Model: "gpt-4o-mini"}, ResponseMessage: "hi"},
	}
	require.NoError(t, cache.Store("abc123", want))

	got, found := cache.Load("abc123")
	require.True(t, found)
	require.Len(t, got, 1)
	assert.Equal(t, "hi", got[0].ResponseMessage)
}

func TestResultCache_DistinctKeysDoNotCollide(t *testing.T) {
	cache := NewResultCache(t.TempDir())

	require.NoError(t, cache.Store("key-a", []models.GenericResponse{{ResponseMessage: "a"}}))
	require.NoError(t, cache.Store("key-b", []models.GenericResponse{{ResponseMessage: "b"}}))

	a, found := cache.Load("key-a")
	require.True(t, found)
	b, found := cache.Load("key-b")
	require.True(t, found)

	assert.Equal(t, "a", a[0].ResponseMessage)
	assert.Equal(t, "b", b[0].ResponseMessage)
}
