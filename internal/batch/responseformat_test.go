package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawContentParser_PassesThrough(t *testing.T) {
	p := NewRawContentParser()
	msg, errs := p.Parse("anything at all, not even json")
	assert.Empty(t, errs)
	assert.Equal(t, "anything at all, not even json", msg)
}

func TestJSONSchemaParser_Parse(t *testing.T) {
	p, err := NewJSONSchemaParser(map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"answer": map[string]any{"type": "string"}},
		"required":             []any{"answer"},
		"additionalProperties": false,
	})
	require.NoError(t, err)

	t.Run("valid content decodes and passes", func(t *testing.T) {
		msg, errs := p.Parse(`{"answer":"42"}`)
		assert.Empty(t, errs)
		assert.Equal(t, map[string]any{"answer": "42"}, msg)
	})

	t.Run("invalid JSON fails with an error", func(t *testing.T) {
		_, errs := p.Parse("not json")
		require.NotEmpty(t, errs)
	})

	t.Run("schema violation fails with an error", func(t *testing.T) {
		_, errs := p.Parse(`{"wrong_field":"42"}`)
		require.NotEmpty(t, errs)
	})
}
