// Package openai implements batch.ProviderClient against the OpenAI Batch
// API via the openai-go/v2 SDK, with the teacher's HTTP resilience stack
// (rate limiting, retry, middleware chain) wired underneath it.
package openai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cormorant-labs/batchllm/internal/config"
	berrors "github.com/cormorant-labs/batchllm/pkg/errors"
	"github.com/cormorant-labs/batchllm/pkg/models"
	pkgopenai "github.com/cormorant-labs/batchllm/pkg/openai"

	oa "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

// Client implements batch.ProviderClient against the OpenAI Batch API.
type Client struct {
	sdk *oa.Client
}

// NewClient builds a Client from cfg, routing every SDK HTTP call through
// the teacher's resilience stack (rate limiter + retry + middleware chain)
// via option.WithHTTPClient.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, berrors.MissingAPIKeyError("openai")
	}

	baseDoer := pkgopenai.NewHTTPClient()
	resilient := pkgopenai.NewClient(baseDoer, cfg.OpenAI)

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{
			Timeout:   baseDoer.Timeout,
			Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) { return resilient.Do(req.Context(), req) }),
		}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.OpenAI.OrganizationID != "" {
		opts = append(opts, option.WithOrganization(cfg.OpenAI.OrganizationID))
	}
	if cfg.OpenAI.ProjectID != "" {
		opts = append(opts, option.WithProject(cfg.OpenAI.ProjectID))
	}

	sdk := oa.NewClient(opts...)
	return &Client{sdk: &sdk}, nil
}

// roundTripperFunc adapts the teacher's pkg/openai.Client (rate limiter +
// retry + middleware chain) into a plain http.RoundTripper so the SDK's
// option.WithHTTPClient can use it transparently.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// UploadFile uploads body with purpose "batch".
func (c *Client) UploadFile(ctx context.Context, filename string, body io.Reader) (string, error) {
	f, err := c.sdk.Files.New(ctx, oa.FileNewParams{
		File:    oa.File(body, filename, "application/jsonl"),
		Purpose: oa.FilePurposeBatch,
	})
	if err != nil {
		return "", berrors.APIRequestError("openai", err)
	}
	return f.ID, nil
}

// AwaitFileReady polls the file's processing status until it reports
// "processed" (the SDK's ready state for batch input files), with a
// one-second initial grace period before the first poll (spec §4.3).
func (c *Client) AwaitFileReady(ctx context.Context, fileID string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Second):
	}

	for {
		f, err := c.sdk.Files.Get(ctx, fileID)
		if err != nil {
			return err
		}
		if f.Status == "processed" || f.Status == "" {
			return nil
		}
		if f.Status == "error" {
			return fmt.Errorf("openai: file %s failed processing: %s", fileID, f.StatusDetails)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

// CreateBatch creates a batch job for inputFileID against endpoint.
func (c *Client) CreateBatch(ctx context.Context, inputFileID, endpoint, completionWindow string, metadata map[string]string) (*models.BatchDescriptor, error) {
	b, err := c.sdk.Batches.New(ctx, oa.BatchNewParams{
		InputFileID:      inputFileID,
		Endpoint:         batchEndpoint(endpoint),
		CompletionWindow: batchCompletionWindow(completionWindow),
		Metadata:         shared.Metadata(metadata),
	})
	if err != nil {
		return nil, err
	}
	return toDescriptor(b), nil
}

// RetrieveBatch fetches the current descriptor for batchID.
func (c *Client) RetrieveBatch(ctx context.Context, batchID string) (*models.BatchDescriptor, error) {
	b, err := c.sdk.Batches.Get(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return toDescriptor(b), nil
}

// CancelBatch cancels batchID.
func (c *Client) CancelBatch(ctx context.Context, batchID string) (*models.BatchDescriptor, error) {
	b, err := c.sdk.Batches.Cancel(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return toDescriptor(b), nil
}

// DownloadFile streams fileID's raw content.
func (c *Client) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	resp, err := c.sdk.Files.Content(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// DeleteFile deletes fileID.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	_, err := c.sdk.Files.Delete(ctx, fileID)
	return err
}

func batchEndpoint(endpoint string) oa.BatchNewParamsEndpoint {
	if endpoint == "/v1/responses" {
		return oa.BatchNewParamsEndpointV1Responses
	}
	return oa.BatchNewParamsEndpointV1ChatCompletions
}

func batchCompletionWindow(window string) oa.BatchNewParamsCompletionWindow {
	if window == "" {
		return oa.BatchNewParamsCompletionWindow24h
	}
	return oa.BatchNewParamsCompletionWindow(window)
}

func toDescriptor(b oa.Batch) *models.BatchDescriptor {
	d := &models.BatchDescriptor{
		ID:        b.ID,
		Status:    models.BatchStatus(b.Status),
		CreatedAt: b.CreatedAt,
		RequestCounts: models.RequestCounts{
			Total:     int(b.RequestCounts.Total),
			Completed: int(b.RequestCounts.Completed),
			Failed:    int(b.RequestCounts.Failed),
		},
		InputFileID: b.InputFileID,
		Metadata:    map[string]string(b.Metadata),
	}
	if b.OutputFileID != "" {
		out := b.OutputFileID
		d.OutputFileID = &out
	}
	if b.ErrorFileID != "" {
		errID := b.ErrorFileID
		d.ErrorFileID = &errID
	}
	if b.Errors.Data != nil {
		for _, e := range b.Errors.Data {
			d.Errors = append(d.Errors, fmt.Sprintf("%s: %s", e.Code, e.Message))
		}
	}
	return d
}
