package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cormorant-labs/batchllm/internal/batch"
	"github.com/cormorant-labs/batchllm/internal/config"
	"github.com/cormorant-labs/batchllm/pkg/fs"
	"github.com/cormorant-labs/batchllm/pkg/models"
)

// RunInput is the narrow interface the façade consumes in place of a
// higher-level dataset/prompt-formatting abstraction (explicit non-goal):
// the caller has already turned its dataset into GenericRequests via its own
// prompt formatter, and original_row_idx is the caller's stable row key.
type RunInput struct {
	Requests      []models.GenericRequest
	WorkingDir    string
	ParseFuncHash string
	// ParserFor resolves the response-format parser per request; nil means
	// every request is treated as schema-less (raw content passthrough).
	ParserFor batch.ParserFor
}

// Facade exposes the orchestrator's two entry points, run() and cancel()
// (spec §4.7), over a configured provider and filesystem.
type Facade struct {
	cfg              *config.Config
	provider         batch.ProviderClient
	fs               fs.FS
	oracle           batch.CostOracle
	credentialSuffix string
	cache            *batch.ResultCache
}

// NewFacade builds a Facade. credentialSuffix is the last 4 characters of
// the provider credential, used to name journal files (spec §4.2).
func NewFacade(cfg *config.Config, provider batch.ProviderClient, filesystem fs.FS, oracle batch.CostOracle, credentialSuffix string) *Facade {
	return &Facade{
		cfg:              cfg,
		provider:         provider,
		fs:               filesystem,
		oracle:           oracle,
		credentialSuffix: credentialSuffix,
		cache:            batch.NewResultCache(cfg.CacheDir),
	}
}

// Run materializes in.Requests into GenericResponses: it first consults the
// local result cache keyed by ParseFuncHash, then on a miss chunks the
// requests into request files, drives a BatchManager through submission and
// polling, and assembles the response dataset from the per-file response
// files (spec §4.7).
func (f *Facade) Run(ctx context.Context, in RunInput) ([]models.GenericResponse, error) {
	if in.ParseFuncHash != "" {
		if cached, ok := f.cache.Load(in.ParseFuncHash); ok {
			slog.Info("orchestrator: cache hit", "parse_func_hash", in.ParseFuncHash)
			return cached, nil
		}
	}

	if len(in.Requests) > 0 {
		limits := RateLimits(in.Requests[0].Model)
		slog.Info("orchestrator: rate limit", "model", in.Requests[0].Model, "max_tokens_per_day", limits.MaxTokensPerDay)
	}

	requestFiles, err := f.writeRequestFiles(in.WorkingDir, in.Requests)
	if err != nil {
		return nil, err
	}

	mgr := batch.NewBatchManager(batch.ManagerConfig{
		WorkingDir:                 in.WorkingDir,
		CredentialSuffix:           f.credentialSuffix,
		Endpoint:                   f.cfg.Batch.Endpoint,
		CompletionWindow:           f.cfg.Batch.CompletionWindow,
		Concurrency:                f.cfg.Batch.Concurrency,
		CheckInterval:              time.Duration(f.cfg.Batch.CheckInterval) * time.Second,
		DeleteSuccessfulBatchFiles: f.cfg.Batch.DeleteSuccessfulBatchFiles,
		DeleteFailedBatchFiles:     f.cfg.Batch.DeleteFailedBatchFiles,
		BatchDiscount:              f.cfg.Batch.BatchDiscount,
	}, f.provider, f.fs, f.oracle, in.ParserFor, requestFiles)

	if err := mgr.Run(ctx); err != nil {
		return nil, fmt.Errorf("orchestrator: run failed: %w", err)
	}

	responses, err := f.collectResponses(requestFiles)
	if err != nil {
		return nil, err
	}

	if in.ParseFuncHash != "" {
		if err := f.cache.Store(in.ParseFuncHash, responses); err != nil {
			slog.Warn("orchestrator: failed to persist result cache", "err", err)
		}
	}
	return responses, nil
}

// Cancel reads the submitted journal for workingDir and cancels every
// non-completed batch (spec §4.6.5). The caller is expected to exit with a
// non-zero status afterward per spec §6.
func (f *Facade) Cancel(ctx context.Context, workingDir string) (failures int, err error) {
	mgr := batch.NewBatchManager(batch.ManagerConfig{
		WorkingDir:       workingDir,
		CredentialSuffix: f.credentialSuffix,
		Concurrency:      f.cfg.Batch.Concurrency,
	}, f.provider, f.fs, f.oracle, nil, nil)
	return mgr.Cancel(ctx)
}

// writeRequestFiles chunks requests into files of at most Batch.BatchSize
// rows each and writes them under workingDir.
func (f *Facade) writeRequestFiles(workingDir string, requests []models.GenericRequest) ([]string, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("orchestrator: no requests to run")
	}

	size := f.cfg.Batch.BatchSize
	if size <= 0 || size > batch.MaxBatchRequests {
		size = batch.MaxBatchRequests
	}

	var files []string
	for start := 0; start < len(requests); start += size {
		end := min(start+size, len(requests))
		chunk := requests[start:end]
		path := batch.RequestFileName(workingDir, batch.NewRequestFileSuffix())
		if err := batch.WriteGenericRequests(f.fs, path, chunk); err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	return files, nil
}

func (f *Facade) collectResponses(requestFiles []string) ([]models.GenericResponse, error) {
	var out []models.GenericResponse
	for _, reqFile := range requestFiles {
		resps, err := batch.ReadGenericResponses(f.fs, batch.ResponseFileName(reqFile))
		if err != nil {
			return nil, err
		}
		out = append(out, resps...)
	}
	return out, nil
}
