package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	berrors "github.com/cormorant-labs/batchllm/pkg/errors"
	"github.com/cormorant-labs/batchllm/pkg/fs"
	"github.com/cormorant-labs/batchllm/pkg/models"
	"github.com/sourcegraph/conc/pool"
)

// ManagerConfig holds the tunables BatchManager needs beyond its
// collaborators (grounded on config.BatchConfig; duplicated here narrowly so
// this package doesn't import internal/config).
type ManagerConfig struct {
	WorkingDir                 string
	CredentialSuffix           string
	Endpoint                   string
	CompletionWindow           string
	Concurrency                int
	CheckInterval              time.Duration
	DeleteSuccessfulBatchFiles bool
	DeleteFailedBatchFiles     bool
	BatchDiscount              float64
}

// ParserFor resolves the ResponseFormatParser for a request's response
// format; nil means "no schema, use raw content".
type ParserFor func(models.GenericRequest) ResponseFormatParser

// BatchManager is the orchestration engine of spec §4.6: submission loop,
// polling loop, download loop, resume logic, and cancellation.
type BatchManager struct {
	cfg      ManagerConfig
	provider ProviderClient
	fs       fs.FS
	tracker  *StatusTracker
	oracle   CostOracle
	parserFor ParserFor

	submittedJournal *Journal
	downloadedJournal *Journal

	requestTransformer  *RequestTransformer
	responseTransformer *ResponseTransformer
}

// NewBatchManager constructs a BatchManager over requestFiles, ready to Run.
func NewBatchManager(cfg ManagerConfig, provider ProviderClient, filesystem fs.FS, oracle CostOracle, parserFor ParserFor, requestFiles []string) *BatchManager {
	submittedPath := SubmittedJournalPath(cfg.WorkingDir, cfg.CredentialSuffix)
	downloadedPath := DownloadedJournalPath(cfg.WorkingDir, cfg.CredentialSuffix)

	return &BatchManager{
		cfg:                 cfg,
		provider:            provider,
		fs:                  filesystem,
		tracker:             NewStatusTracker(requestFiles),
		oracle:              oracle,
		parserFor:           parserFor,
		submittedJournal:    NewJournal(filesystem, submittedPath),
		downloadedJournal:   NewJournal(filesystem, downloadedPath),
		requestTransformer:  NewRequestTransformer(cfg.Endpoint),
		responseTransformer: NewResponseTransformer(oracle, cfg.BatchDiscount),
	}
}

// Tracker exposes the manager's StatusTracker for progress projection.
func (m *BatchManager) Tracker() *StatusTracker { return m.tracker }

// Run drives the manager through resume-scan, submit, and poll-and-download
// (spec §4.6.1–§4.6.2). It returns a fatal orchestration error if the
// downloaded set ends up empty.
func (m *BatchManager) Run(ctx context.Context) error {
	if err := m.resumeFromDownloaded(); err != nil {
		return err
	}
	if err := m.resumeFromSubmitted(ctx); err != nil {
		return err
	}
	if err := m.submitRemaining(ctx); err != nil {
		return err
	}
	return m.pollAndDownload(ctx)
}

// resumeFromDownloaded implements spec §4.6.1 step 2 / §4.6.4: a request
// file already downloaded in a prior run is dropped from this run's work,
// provided its response file genuinely exists on disk.
func (m *BatchManager) resumeFromDownloaded() error {
	entries, err := m.downloadedJournal.ReadAll()
	if err != nil {
		return err
	}
	unsubmitted := make(map[string]struct{})
	for _, f := range m.tracker.UnsubmittedFiles() {
		unsubmitted[f] = struct{}{}
	}

	for _, d := range entries {
		reqFile := d.RequestFileName()
		if reqFile == "" {
			continue
		}
		if _, stillPending := unsubmitted[reqFile]; !stillPending {
			continue
		}
		respFile := ResponseFileName(reqFile)
		if !ResponseFileExists(m.fs, respFile) {
			return berrors.ConsistencyError(fmt.Sprintf(
				"downloaded journal references %s but response file %s is missing", reqFile, respFile))
		}
		m.tracker.RemoveUnsubmitted(reqFile)
	}
	return nil
}

// resumeFromSubmitted implements spec §4.6.1 step 3: re-retrieve every
// batch named in the submitted journal and fold it back into the tracker's
// submitted set so the normal poll loop picks it up.
func (m *BatchManager) resumeFromSubmitted(ctx context.Context) error {
	entries, err := m.submittedJournal.ReadAll()
	if err != nil {
		return err
	}

	pending := make(map[string]struct{})
	for _, f := range m.tracker.UnsubmittedFiles() {
		pending[f] = struct{}{}
	}

	for _, d := range entries {
		reqFile := d.RequestFileName()
		if _, ok := pending[reqFile]; !ok {
			continue // already resumed-downloaded, or not part of this run
		}
		fresh, err := m.provider.RetrieveBatch(ctx, d.ID)
		if err != nil {
			slog.Warn("batch: resume retrieve failed, will retry during polling", "batch_id", d.ID, "err", err)
			fresh = d
		}
		m.tracker.MarkAsSubmitted(reqFile, fresh)
	}
	return nil
}

// submitRemaining implements spec §4.6.1 step 4: every still-unsubmitted
// file is packed, uploaded, and turned into a batch, bounded by Concurrency.
func (m *BatchManager) submitRemaining(ctx context.Context) error {
	files := m.tracker.UnsubmittedFiles()
	if len(files) == 0 {
		return nil
	}

	p := pool.New().WithContext(ctx).WithMaxGoroutines(m.concurrency()).WithCancelOnError()
	for _, f := range files {
		f := f
		p.Go(func(ctx context.Context) error { return m.submitOne(ctx, f) })
	}
	return p.Wait()
}

func (m *BatchManager) submitOne(ctx context.Context, requestFile string) error {
	reqs, err := ReadGenericRequests(m.fs, requestFile)
	if err != nil {
		return err
	}

	lines := m.requestTransformer.TransformAll(reqs)
	body, err := marshalJSONL(lines)
	if err != nil {
		return err
	}
	if len(reqs) > MaxBatchRequests {
		return berrors.BatchTooLargeError(fmt.Sprintf("%s: %d requests exceeds max %d", requestFile, len(reqs), MaxBatchRequests))
	}
	if len(body) > MaxBatchBytes {
		return berrors.BatchTooLargeError(fmt.Sprintf("%s: %d bytes exceeds max %d", requestFile, len(body), MaxBatchBytes))
	}

	fileID, err := m.provider.UploadFile(ctx, requestFile, bytesReader(body))
	if err != nil {
		return fmt.Errorf("batch: upload %s: %w", requestFile, err)
	}
	if err := m.provider.AwaitFileReady(ctx, fileID); err != nil {
		return fmt.Errorf("batch: await file ready for %s: %w", requestFile, err)
	}

	descriptor, err := m.provider.CreateBatch(ctx, fileID, m.cfg.Endpoint, m.cfg.CompletionWindow, map[string]string{
		"request_file_name": requestFile,
	})
	if err != nil {
		return fmt.Errorf("batch: create batch for %s: %w", requestFile, err)
	}

	if err := m.submittedJournal.Append(descriptor); err != nil {
		return err
	}
	m.tracker.MarkAsSubmitted(requestFile, descriptor)
	slog.Info("batch: submitted", "request_file", requestFile, "batch_id", descriptor.ID)
	return nil
}

// pollAndDownload implements spec §4.6.2: repeatedly retrieve submitted
// batches, move terminal ones to finished, download+transform finished ones,
// and sleep CheckInterval between cycles until nothing remains.
func (m *BatchManager) pollAndDownload(ctx context.Context) error {
	for {
		if err := m.pollOnce(ctx); err != nil {
			return err
		}
		if err := m.downloadFinished(ctx); err != nil {
			return err
		}
		if m.tracker.Done() {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.checkInterval()):
		}
	}

	if len(m.tracker.DownloadedBatches()) == 0 {
		return fmt.Errorf("batch: no batches were downloaded; orchestration failed")
	}
	return nil
}

func (m *BatchManager) pollOnce(ctx context.Context) error {
	batches := m.tracker.SubmittedBatches()
	if len(batches) == 0 {
		return nil
	}

	p := pool.New().WithContext(ctx).WithMaxGoroutines(m.concurrency())
	for _, b := range batches {
		b := b
		p.Go(func(ctx context.Context) error {
			fresh, err := m.provider.RetrieveBatch(ctx, b.ID)
			if err != nil {
				slog.Warn("batch: retrieve failed, will retry next cycle", "batch_id", b.ID, "err", err)
				return nil
			}
			switch {
			case fresh.Status.Finished():
				m.tracker.MarkAsFinished(fresh)
			case fresh.Status.InProgress():
				// still running, re-poll next cycle
			default:
				slog.Warn("batch: unknown status, treating as in-progress", "batch_id", fresh.ID, "status", fresh.Status)
			}
			return nil
		})
	}
	return p.Wait()
}

func (m *BatchManager) downloadFinished(ctx context.Context) error {
	batches := m.tracker.FinishedBatches()
	if len(batches) == 0 {
		return nil
	}

	p := pool.New().WithContext(ctx).WithMaxGoroutines(m.concurrency())
	for _, b := range batches {
		b := b
		p.Go(func(ctx context.Context) error { return m.downloadOne(ctx, b) })
	}
	return p.Wait()
}

// downloadOne implements the per-status download policy of spec §4.6.3.
func (m *BatchManager) downloadOne(ctx context.Context, b *models.BatchDescriptor) error {
	reqFile := b.RequestFileName()
	var responses []models.GenericResponse
	produceResponseFile := false

	switch b.Status {
	case models.BatchStatusCompleted:
		if b.OutputFileID != nil && *b.OutputFileID != "" {
			data, err := m.downloadFile(ctx, *b.OutputFileID)
			if err != nil {
				return err
			}
			requestByIdx, err := m.requestIndex(reqFile)
			if err != nil {
				return err
			}
			responses, err = m.responseTransformer.TransformOutputFile(data, b.CreatedAt, requestByIdx, m.parserFor)
			if err != nil {
				return err
			}
			produceResponseFile = true
			if m.cfg.DeleteSuccessfulBatchFiles {
				m.deleteFileLogged(ctx, b.InputFileID)
				m.deleteFileLogged(ctx, *b.OutputFileID)
			}
		}

	case models.BatchStatusFailed:
		if b.ErrorFileID != nil && *b.ErrorFileID != "" {
			data, err := m.downloadFile(ctx, *b.ErrorFileID)
			if err != nil {
				return err
			}
			requestByIdx, err := m.requestIndex(reqFile)
			if err != nil {
				return err
			}
			responses, err = m.responseTransformer.TransformErrorFile(data, b.CreatedAt, requestByIdx)
			if err != nil {
				return err
			}
			produceResponseFile = true
			if m.cfg.DeleteFailedBatchFiles {
				m.deleteFileLogged(ctx, b.InputFileID)
				m.deleteFileLogged(ctx, *b.ErrorFileID)
			}
		} else {
			slog.Error("batch: failed with no error file", "batch_id", b.ID, "errors", b.Errors)
			if m.cfg.DeleteFailedBatchFiles {
				m.deleteFileLogged(ctx, b.InputFileID)
			}
		}

	case models.BatchStatusCancelled, models.BatchStatusExpired:
		slog.Warn("batch: terminal without output", "batch_id", b.ID, "status", b.Status)
		if m.cfg.DeleteFailedBatchFiles {
			m.deleteFileLogged(ctx, b.InputFileID)
		}
	}

	if produceResponseFile {
		if err := WriteGenericResponses(m.fs, ResponseFileName(reqFile), responses); err != nil {
			return err
		}
	}

	if err := m.downloadedJournal.Append(b); err != nil {
		return err
	}
	m.tracker.MarkAsDownloaded(b)
	slog.Info("batch: downloaded", "batch_id", b.ID, "status", b.Status, "responses", len(responses))
	return nil
}

func (m *BatchManager) requestIndex(requestFile string) (map[int64]models.GenericRequest, error) {
	reqs, err := ReadGenericRequests(m.fs, requestFile)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]models.GenericRequest, len(reqs))
	for _, r := range reqs {
		out[r.OriginalRowIdx] = r
	}
	return out, nil
}

func (m *BatchManager) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	rc, err := m.provider.DownloadFile(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("batch: download file %s: %w", fileID, err)
	}
	defer rc.Close()
	return readAll(rc)
}

func (m *BatchManager) deleteFileLogged(ctx context.Context, fileID string) {
	if fileID == "" {
		return
	}
	if err := m.provider.DeleteFile(ctx, fileID); err != nil {
		slog.Warn("batch: delete file failed", "file_id", fileID, "err", err)
	}
}

// Cancel implements spec §4.6.5: retrieve every batch in the submitted
// journal and cancel every non-completed one, then rename the journal.
func (m *BatchManager) Cancel(ctx context.Context) (failures int, err error) {
	entries, err := m.submittedJournal.ReadAll()
	if err != nil {
		return 0, err
	}

	var failureCount int
	p := pool.New().WithMaxGoroutines(m.concurrency())
	var mu = &countingMutex{}
	for _, d := range entries {
		d := d
		p.Go(func() {
			fresh, err := m.provider.RetrieveBatch(ctx, d.ID)
			if err != nil {
				mu.incr(&failureCount)
				slog.Error("batch: cancel retrieve failed", "batch_id", d.ID, "err", err)
				return
			}
			if fresh.Status == models.BatchStatusCompleted {
				slog.Info("batch: already completed, not cancelling", "batch_id", d.ID)
				return
			}
			if _, err := m.provider.CancelBatch(ctx, d.ID); err != nil {
				mu.incr(&failureCount)
				slog.Error("batch: cancel failed", "batch_id", d.ID, "err", err)
			}
		})
	}
	p.Wait()

	if err := m.submittedJournal.Cancel(); err != nil {
		return failureCount, err
	}
	return failureCount, nil
}

func (m *BatchManager) concurrency() int {
	if m.cfg.Concurrency <= 0 {
		return 100
	}
	return m.cfg.Concurrency
}

func (m *BatchManager) checkInterval() time.Duration {
	if m.cfg.CheckInterval <= 0 {
		return 60 * time.Second
	}
	return m.cfg.CheckInterval
}
