package batch

import (
	"testing"

	"github.com/cormorant-labs/batchllm/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestTransformer_Transform(t *testing.T) {
	tr := NewRequestTransformer("/v1/chat/completions")
	temp := 0.2

	t.Run("maps custom_id from original_row_idx and sets method/url", func(t *testing.T) {
		req := models.GenericRequest{OriginalRowIdx: 42, Model: "gpt-4o-mini", Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "hi"}}}
		line := tr.Transform(req)

		assert.Equal(t, "42", line.CustomID)
		assert.Equal(t, "POST", line.Method)
		assert.Equal(t, "/v1/chat/completions", line.URL)
		assert.Equal(t, "gpt-4o-mini", line.Body["model"])
	})

	t.Run("optional fields are absent from body when nil", func(t *testing.T) {
		req := models.GenericRequest{OriginalRowIdx: 1, Model: "gpt-4o-mini"}
		line := tr.Transform(req)

		_, hasTemp := line.Body["temperature"]
		_, hasTopP := line.Body["top_p"]
		_, hasFormat := line.Body["response_format"]
		assert.False(t, hasTemp)
		assert.False(t, hasTopP)
		assert.False(t, hasFormat)
	})

	t.Run("optional fields are present when set", func(t *testing.T) {
		req := models.GenericRequest{OriginalRowIdx: 1, Model: "gpt-4o-mini", Temperature: &temp}
		line := tr.Transform(req)

		require.Contains(t, line.Body, "temperature")
		assert.Equal(t, temp, line.Body["temperature"])
	})

	t.Run("response_format wraps schema under json_schema without strict", func(t *testing.T) {
		req := models.GenericRequest{
			OriginalRowIdx: 1,
			Model:          "gpt-4o-mini",
			ResponseFormat: &models.ResponseFormat{Format: models.Format{
				Type:   "json_schema",
				Name:   "ignored_in_favor_of_output_schema",
				Schema: map[string]any{"type": "object"},
			}},
		}
		line := tr.Transform(req)

		require.Contains(t, line.Body, "response_format")
		rf := line.Body["response_format"].(map[string]any)
		assert.Equal(t, "json_schema", rf["type"])
		js := rf["json_schema"].(map[string]any)
		assert.Equal(t, "output_schema", js["name"])
		assert.NotContains(t, js, "strict")
	})
}

func TestRequestTransformer_TransformAll_PreservesOrder(t *testing.T) {
	tr := NewRequestTransformer("/v1/chat/completions")
	reqs := []models.GenericRequest{
		{OriginalRowIdx: 3, Model: "gpt-4o-mini"},
		{OriginalRowIdx: 1, Model: "gpt-4o-mini"},
	}
	lines := tr.TransformAll(reqs)
	require.Len(t, lines, 2)
	assert.Equal(t, "3", lines[0].CustomID)
	assert.Equal(t, "1", lines[1].CustomID)
}
