package batch

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cormorant-labs/batchllm/pkg/models"
)

// batchLine is the shape of one line in a downloaded output/error file,
// mirroring the provider's batch response envelope (grounded on the
// teacher's result_parser.go typed intermediate structs).
type batchLine struct {
	CustomID string        `json:"custom_id"`
	Response *batchLineResp `json:"response"`
	Error    *batchLineErr  `json:"error"`
}

type batchLineResp struct {
	StatusCode int           `json:"status_code"`
	Body       *batchLineBody `json:"body"`
}

type batchLineBody struct {
	Choices []batchLineChoice `json:"choices"`
	Usage   *batchLineUsage   `json:"usage"`
}

type batchLineChoice struct {
	Message batchLineMessage `json:"message"`
}

type batchLineMessage struct {
	Content string `json:"content"`
}

type batchLineUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type batchLineErr struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ResponseTransformer converts downloaded provider lines into GenericResponses
// (spec §4.5).
type ResponseTransformer struct {
	Oracle   CostOracle
	Discount float64
	NowFn    func() time.Time
}

// NewResponseTransformer returns a ResponseTransformer using oracle and
// discount to compute response_cost.
func NewResponseTransformer(oracle CostOracle, discount float64) *ResponseTransformer {
	return &ResponseTransformer{Oracle: oracle, Discount: discount, NowFn: time.Now}
}

// TransformOutputFile parses a "completed" batch's output file. requestByIdx
// maps original_row_idx -> the originating GenericRequest (built from the
// request file, per §4.5 step 1). parserFor supplies the response-format
// parser per request (nil defaults to raw-content passthrough).
func (t *ResponseTransformer) TransformOutputFile(data []byte, createdAt int64, requestByIdx map[int64]models.GenericRequest, parserFor func(models.GenericRequest) ResponseFormatParser) ([]models.GenericResponse, error) {
	return t.transformLines(data, createdAt, requestByIdx, parserFor, false)
}

// TransformErrorFile parses a "failed" batch's error file: every line
// becomes a failure GenericResponse with no token_usage/response_cost.
func (t *ResponseTransformer) TransformErrorFile(data []byte, createdAt int64, requestByIdx map[int64]models.GenericRequest) ([]models.GenericResponse, error) {
	return t.transformLines(data, createdAt, requestByIdx, nil, true)
}

func (t *ResponseTransformer) transformLines(data []byte, createdAt int64, requestByIdx map[int64]models.GenericRequest, parserFor func(models.GenericRequest) ResponseFormatParser, forceFailure bool) ([]models.GenericResponse, error) {
	var out []models.GenericResponse

	err := scanJSONLBytes(data, func(lineBytes []byte) error {
		var raw map[string]any
		if err := json.Unmarshal(lineBytes, &raw); err != nil {
			return fmt.Errorf("batch: parse response line: %w", err)
		}
		var line batchLine
		if err := json.Unmarshal(lineBytes, &line); err != nil {
			return fmt.Errorf("batch: parse response line: %w", err)
		}

		idx, err := strconv.ParseInt(line.CustomID, 10, 64)
		if err != nil {
			return fmt.Errorf("batch: response custom_id %q is not a row index: %w", line.CustomID, err)
		}
		req, ok := requestByIdx[idx]
		if !ok {
			return fmt.Errorf("batch: response custom_id %q has no matching request", line.CustomID)
		}

		resp := models.GenericResponse{
			GenericRequest: req,
			RawRequest:     nil,
			RawResponse:    raw,
			CreatedAt:      createdAt,
			FinishedAt:     t.now().Unix(),
		}

		if forceFailure || line.Response == nil || line.Response.StatusCode != 200 {
			resp.ResponseErrors = []string{describeFailure(line)}
			out = append(out, resp)
			return nil
		}

		body := line.Response.Body
		var content string
		if body != nil && len(body.Choices) > 0 {
			content = body.Choices[0].Message.Content
		}

		usage := models.TokenUsage{}
		if body != nil && body.Usage != nil {
			usage.PromptTokens = body.Usage.PromptTokens
			usage.CompletionTokens = body.Usage.CompletionTokens
			usage.TotalTokens = body.Usage.TotalTokens
		}
		resp.TokenUsage = &usage

		cost := ResponseCost(t.Oracle, req.Model, usage, t.Discount)
		resp.ResponseCost = &cost

		parser := ResponseFormatParser(NewRawContentParser())
		if parserFor != nil {
			if p := parserFor(req); p != nil {
				parser = p
			}
		}
		message, parseErrs := parser.Parse(content)
		if len(parseErrs) > 0 {
			resp.ResponseErrors = parseErrs
		} else {
			resp.ResponseMessage = message
		}

		out = append(out, resp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (t *ResponseTransformer) now() time.Time {
	if t.NowFn != nil {
		return t.NowFn()
	}
	return time.Now()
}

func describeFailure(line batchLine) string {
	if line.Error != nil && line.Error.Message != "" {
		return fmt.Sprintf("provider error (%s): %s", line.Error.Code, line.Error.Message)
	}
	if line.Response != nil {
		return fmt.Sprintf("non-200 response status_code=%d", line.Response.StatusCode)
	}
	return "response missing both response and error fields"
}

// scanJSONLBytes scans data line by line, invoking fn with each non-blank
// line's raw bytes (grounded on the teacher's result_parser.go
// scanJSONLLines helper).
func scanJSONLBytes(data []byte, fn func([]byte) error) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}
