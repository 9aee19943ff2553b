package batch

import (
	"context"
	"io"

	"github.com/cormorant-labs/batchllm/pkg/models"
)

// ProviderClient is the thin async wrapper over the remote Batch API that
// BatchManager drives (spec §4.3). Implementations (internal/provider/openai)
// surface remote errors unchanged; policy (retry semantics, fail-safe
// handling of unknown statuses) lives in the manager, not here.
type ProviderClient interface {
	// UploadFile uploads body (purpose "batch") and returns the file id.
	UploadFile(ctx context.Context, filename string, body io.Reader) (fileID string, err error)

	// AwaitFileReady blocks (one-second initial grace plus poll) until the
	// uploaded file reaches a ready state.
	AwaitFileReady(ctx context.Context, fileID string) error

	// CreateBatch creates a batch against endpoint for inputFileID, tagging
	// it with metadata (which MUST include "request_file_name").
	CreateBatch(ctx context.Context, inputFileID, endpoint, completionWindow string, metadata map[string]string) (*models.BatchDescriptor, error)

	// RetrieveBatch fetches the current descriptor for batchID.
	RetrieveBatch(ctx context.Context, batchID string) (*models.BatchDescriptor, error)

	// CancelBatch issues a cancel request for batchID.
	CancelBatch(ctx context.Context, batchID string) (*models.BatchDescriptor, error)

	// DownloadFile streams the raw bytes of fileID (output or error file).
	DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error)

	// DeleteFile deletes fileID; used by the delete_*_batch_files policies.
	DeleteFile(ctx context.Context, fileID string) error
}
