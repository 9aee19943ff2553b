package openai

import (
	"testing"

	"github.com/cormorant-labs/batchllm/internal/config"
	berrors "github.com/cormorant-labs/batchllm/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oa "github.com/openai/openai-go/v2"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(config.LLMConfig{})
	require.Error(t, err)
	assert.True(t, berrors.IsMissingAPIKey(err))
}

func TestBatchEndpoint(t *testing.T) {
	assert.Equal(t, oa.BatchNewParamsEndpointV1Responses, batchEndpoint("/v1/responses"))
	assert.Equal(t, oa.BatchNewParamsEndpointV1ChatCompletions, batchEndpoint("/v1/chat/completions"))
	assert.Equal(t, oa.BatchNewParamsEndpointV1ChatCompletions, batchEndpoint(""))
}

func TestBatchCompletionWindow(t *testing.T) {
	assert.Equal(t, oa.BatchNewParamsCompletionWindow24h, batchCompletionWindow(""))
	assert.Equal(t, oa.BatchNewParamsCompletionWindow24h, batchCompletionWindow("24h"))
}

func TestToDescriptor_MapsOptionalFileIDs(t *testing.T) {
	b := oa.Batch{
		ID:          "batch-1",
		Status:      "completed",
		InputFileID: "file-in",
	}
	d := toDescriptor(b)
	assert.Equal(t, "batch-1", d.ID)
	assert.Nil(t, d.OutputFileID)
	assert.Nil(t, d.ErrorFileID)

	b.OutputFileID = "file-out"
	d = toDescriptor(b)
	require.NotNil(t, d.OutputFileID)
	assert.Equal(t, "file-out", *d.OutputFileID)
}
