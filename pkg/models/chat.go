// pkg/models/chat.go
package models

// Role identifies the speaker of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleDeveloper Role = "developer"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry in a GenericRequest's message sequence.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Format describes a JSON-schema response envelope (e.g. "json_schema").
type Format struct {
	Type   string         `json:"type"`
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
}

// ResponseFormat wraps the caller-supplied schema attached to a request.
// The schema itself is kept as an opaque map[string]any: the orchestrator
// never interprets it, only forwards it and later hands response content
// to the caller's parser.
type ResponseFormat struct {
	Format Format `json:"format"`
}

// Usage represents token usage information for a single completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
