package batch

import (
	"testing"
	"time"

	"github.com/cormorant-labs/batchllm/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time { return time.Unix(1_700_000_000, 0) }

func TestResponseTransformer_TransformOutputFile(t *testing.T) {
	req0 := models.GenericRequest{OriginalRowIdx: 0, Model: "gpt-4o-mini"}
	req1 := models.GenericRequest{OriginalRowIdx: 1, Model: "gpt-4o-mini"}
	requestByIdx := map[int64]models.GenericRequest{0: req0, 1: req1}

	data := []byte(`{"custom_id":"0","response":{"status_code":200,"body":{"choices":[{"message":{"content":"hello"}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}}}
{"custom_id":"1","response":{"status_code":400,"body":{}},"error":{"message":"bad request","code":"invalid_request"}}
`)

	tr := NewResponseTransformer(NewDeterministicCostOracle(1.0), 0.5)
	tr.NowFn = fixedNow

	resps, err := tr.TransformOutputFile(data, 1_699_000_000, requestByIdx, nil)
	require.NoError(t, err)
	require.Len(t, resps, 2)

	ok := resps[0]
	assert.False(t, ok.IsFailure())
	assert.Equal(t, "hello", ok.ResponseMessage)
	require.NotNil(t, ok.TokenUsage)
	assert.Equal(t, 10, ok.TokenUsage.PromptTokens)
	require.NotNil(t, ok.ResponseCost)
	assert.InDelta(t, 0.5, *ok.ResponseCost, 1e-9)
	assert.Equal(t, fixedNow().Unix(), ok.FinishedAt)

	failed := resps[1]
	assert.True(t, failed.IsFailure())
	require.Len(t, failed.ResponseErrors, 1)
	assert.Contains(t, failed.ResponseErrors[0], "bad request")
	assert.Nil(t, failed.TokenUsage)
	assert.Nil(t, failed.ResponseCost)
}

func TestResponseTransformer_TransformErrorFile_AlwaysFails(t *testing.T) {
	req0 := models.GenericRequest{OriginalRowIdx: 0, Model: "gpt-4o-mini"}
	requestByIdx := map[int64]models.GenericRequest{0: req0}

	data := []byte(`{"custom_id":"0","response":{"status_code":200,"body":{"choices":[{"message":{"content":"ignored"}}]}}}`)

	tr := NewResponseTransformer(NewDeterministicCostOracle(1.0), 1.0)
	tr.NowFn = fixedNow

	resps, err := tr.TransformErrorFile(data, 1_699_000_000, requestByIdx)
	require.NoError(t, err)
	require.Len(t, resps, 1)
	assert.True(t, resps[0].IsFailure())
}

func TestResponseTransformer_UnknownCustomID(t *testing.T) {
	data := []byte(`{"custom_id":"99","response":{"status_code":200,"body":{}}}`)
	tr := NewResponseTransformer(NewDeterministicCostOracle(1.0), 1.0)

	_, err := tr.TransformOutputFile(data, 0, map[int64]models.GenericRequest{}, nil)
	assert.Error(t, err)
}

func TestResponseTransformer_SchemaParserFallbackOnMismatch(t *testing.T) {
	req0 := models.GenericRequest{OriginalRowIdx: 0, Model: "gpt-4o-mini"}
	requestByIdx := map[int64]models.GenericRequest{0: req0}

	data := []byte(`{"custom_id":"0","response":{"status_code":200,"body":{"choices":[{"message":{"content":"not json"}}],"usage":{"prompt_tokens":1,"completion_tokens":1}}}}`)

	schemaParser, err := NewJSONSchemaParser(map[string]any{"type": "object"})
	require.NoError(t, err)

	tr := NewResponseTransformer(NewDeterministicCostOracle(1.0), 1.0)
	resps, err := tr.TransformOutputFile(data, 0, requestByIdx, func(models.GenericRequest) ResponseFormatParser {
		return schemaParser
	})
	require.NoError(t, err)
	require.Len(t, resps, 1)
	assert.True(t, resps[0].IsFailure())
	require.NotNil(t, resps[0].TokenUsage)
	assert.Equal(t, 1, resps[0].TokenUsage.PromptTokens)
	require.NotNil(t, resps[0].ResponseCost)
	assert.Equal(t, 1.0, *resps[0].ResponseCost)
}
