// pkg/models/batch.go
package models

// GenericRequest is the provider-independent shape of one batched LLM call.
// OriginalRowIdx is stable within a working directory and is echoed back by
// the provider as custom_id; it is what ties a GenericResponse back to it.
type GenericRequest struct {
	OriginalRowIdx    int64           `json:"original_row_idx"`
	Model             string          `json:"model"`
	Messages          []ChatMessage   `json:"messages"`
	ResponseFormat    *ResponseFormat `json:"response_format,omitempty"`
	Temperature       *float64        `json:"temperature,omitempty"`
	TopP              *float64        `json:"top_p,omitempty"`
	PresencePenalty   *float64        `json:"presence_penalty,omitempty"`
	FrequencyPenalty  *float64        `json:"frequency_penalty,omitempty"`
}

// TokenUsage mirrors Usage but is kept distinct: batch API responses carry
// their own usage shape that may diverge from the synchronous completion
// shape over time.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GenericResponse is produced 1:1 per GenericRequest once a batch downloads.
// Exactly one of ResponseMessage or a non-empty ResponseErrors is meaningful:
// IsFailure reports which.
type GenericResponse struct {
	GenericRequest GenericRequest `json:"generic_request"`
	ResponseMessage any           `json:"response_message,omitempty"`
	ResponseErrors  []string      `json:"response_errors,omitempty"`
	RawRequest      map[string]any `json:"raw_request,omitempty"`
	RawResponse     map[string]any `json:"raw_response,omitempty"`
	CreatedAt       int64          `json:"created_at"`
	FinishedAt      int64          `json:"finished_at"`
	TokenUsage      *TokenUsage    `json:"token_usage,omitempty"`
	ResponseCost    *float64       `json:"response_cost,omitempty"`
}

// IsFailure reports whether this response carries at least one error.
func (r GenericResponse) IsFailure() bool { return len(r.ResponseErrors) > 0 }

// BatchStatus is the provider's lifecycle status for a batch job.
type BatchStatus string

const (
	BatchStatusValidating BatchStatus = "validating"
	BatchStatusInProgress BatchStatus = "in_progress"
	BatchStatusFinalizing BatchStatus = "finalizing"
	BatchStatusCancelling BatchStatus = "cancelling"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusFailed     BatchStatus = "failed"
	BatchStatusExpired    BatchStatus = "expired"
	BatchStatusCancelled  BatchStatus = "cancelled"
)

// InProgress reports whether status is one the manager should keep polling.
// cancelling is treated as in-progress: the spec assumes no partial output
// is available until a batch reaches a genuinely terminal status.
func (s BatchStatus) InProgress() bool {
	switch s {
	case BatchStatusValidating, BatchStatusInProgress, BatchStatusFinalizing, BatchStatusCancelling:
		return true
	default:
		return false
	}
}

// Finished reports whether status is terminal (download-eligible).
func (s BatchStatus) Finished() bool {
	switch s {
	case BatchStatusCompleted, BatchStatusFailed, BatchStatusExpired, BatchStatusCancelled:
		return true
	default:
		return false
	}
}

// RequestCounts tracks total/completed/failed requests within a batch.
type RequestCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// BatchDescriptor is the opaque provider-issued batch handle plus the
// metadata the manager needs to resume and pair files across a restart.
// Metadata MUST carry "request_file_name".
type BatchDescriptor struct {
	ID            string            `json:"id"`
	Status        BatchStatus       `json:"status"`
	CreatedAt     int64             `json:"created_at"`
	RequestCounts RequestCounts     `json:"request_counts"`
	InputFileID   string            `json:"input_file_id"`
	OutputFileID  *string           `json:"output_file_id,omitempty"`
	ErrorFileID   *string           `json:"error_file_id,omitempty"`
	Errors        []string          `json:"errors,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// RequestFileName returns the originating request file recorded in metadata.
func (b *BatchDescriptor) RequestFileName() string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata["request_file_name"]
}

// CostEstimate is a pre-submission estimate of batch spend.
type CostEstimate struct {
	EstimatedCost      float64 `json:"estimated_cost"`
	SavingsVsSync      float64 `json:"savings_vs_sync"`
	EstimatedTokensIn  int     `json:"estimated_tokens_in"`
	EstimatedTokensOut int     `json:"estimated_tokens_out"`
}
