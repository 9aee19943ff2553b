package batch

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ResponseFormatParser turns a downloaded message's raw content string into
// either a parsed message or a list of error strings. The orchestrator never
// interprets the schema itself (spec §9 "dynamic schema handling") — it only
// forwards the caller-supplied schema to this parser.
type ResponseFormatParser interface {
	// Parse validates content against the parser's schema and returns the
	// decoded value on success, or a non-empty error list on failure.
	Parse(content string) (message any, errs []string)
}

// rawContentParser is used when a request carried no response_format: the
// content is returned verbatim as a string, never an error.
type rawContentParser struct{}

// NewRawContentParser returns a ResponseFormatParser that performs no
// validation, for requests without a response_format.
func NewRawContentParser() ResponseFormatParser { return rawContentParser{} }

func (rawContentParser) Parse(content string) (any, []string) { return content, nil }

// jsonSchemaParser validates content as JSON against a compiled schema and
// returns the decoded value on success.
type jsonSchemaParser struct {
	schema *jsonschema.Schema
}

// NewJSONSchemaParser compiles schema (the raw map attached to
// ResponseFormat.Format.Schema) and returns a parser that validates
// downloaded content against it.
func NewJSONSchemaParser(schema map[string]any) (ResponseFormatParser, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("batch: marshal response schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	const resourceName = "output_schema.json"
	if err := compiler.AddResource(resourceName, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("batch: add response schema resource: %w", err)
	}
	compiled, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("batch: compile response schema: %w", err)
	}
	return &jsonSchemaParser{schema: compiled}, nil
}

func (p *jsonSchemaParser) Parse(content string) (any, []string) {
	var decoded any
	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		return nil, []string{fmt.Sprintf("response content is not valid JSON: %v", err)}
	}
	if err := p.schema.Validate(decoded); err != nil {
		return nil, []string{fmt.Sprintf("response content failed schema validation: %v", err)}
	}
	return decoded, nil
}
