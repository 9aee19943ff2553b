package batch

import (
	"strconv"

	"github.com/cormorant-labs/batchllm/pkg/models"
)

// jsonlLine is the provider batch-file line shape the transformer builds:
// { custom_id, method, url, body }. body is kept as map[string]any so
// optional fields are genuinely absent from the marshalled JSON rather than
// present with a null/zero value (spec §4.4).
type jsonlLine struct {
	CustomID string         `json:"custom_id"`
	Method   string         `json:"method"`
	URL      string         `json:"url"`
	Body     map[string]any `json:"body"`
}

// RequestTransformer converts GenericRequests into provider batch-file lines.
type RequestTransformer struct {
	Endpoint string
}

// NewRequestTransformer returns a RequestTransformer targeting endpoint
// (e.g. "/v1/chat/completions").
func NewRequestTransformer(endpoint string) *RequestTransformer {
	return &RequestTransformer{Endpoint: endpoint}
}

// Transform builds the single JSON-line object for req, per spec §4.4.
func (t *RequestTransformer) Transform(req models.GenericRequest) jsonlLine {
	body := map[string]any{
		"model":    req.Model,
		"messages": req.Messages,
	}
	if req.ResponseFormat != nil {
		body["response_format"] = map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "output_schema",
				"schema": req.ResponseFormat.Format.Schema,
			},
		}
	}
	if req.Temperature != nil {
		body["temperature"] = *req.Temperature
	}
	if req.TopP != nil {
		body["top_p"] = *req.TopP
	}
	if req.PresencePenalty != nil {
		body["presence_penalty"] = *req.PresencePenalty
	}
	if req.FrequencyPenalty != nil {
		body["frequency_penalty"] = *req.FrequencyPenalty
	}

	return jsonlLine{
		CustomID: strconv.FormatInt(req.OriginalRowIdx, 10),
		Method:   "POST",
		URL:      t.Endpoint,
		Body:     body,
	}
}

// TransformAll transforms every request, preserving order.
func (t *RequestTransformer) TransformAll(reqs []models.GenericRequest) []jsonlLine {
	out := make([]jsonlLine, len(reqs))
	for i, r := range reqs {
		out[i] = t.Transform(r)
	}
	return out
}
