package batch

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cormorant-labs/batchllm/pkg/fs"
	"github.com/cormorant-labs/batchllm/pkg/models"
)

const (
	submittedJournalPrefix  = "batch_objects_submitted_"
	downloadedJournalPrefix = "batch_objects_downloaded_"
	cancelledSuffix         = ".cancelled"
)

// Journal is an append-only on-disk log of BatchDescriptor lines, one of a
// submitted/downloaded pair, suffixed by the credential so multiple accounts
// can share a working directory without colliding (spec §4.2).
type Journal struct {
	mu   sync.Mutex
	fs   fs.FS
	path string
}

// SubmittedJournalPath returns the path of the submitted journal for suffix
// within workingDir.
func SubmittedJournalPath(workingDir, suffix string) string {
	return filepath.Join(workingDir, fmt.Sprintf("%s%s.jsonl", submittedJournalPrefix, suffix))
}

// DownloadedJournalPath returns the path of the downloaded journal for
// suffix within workingDir.
func DownloadedJournalPath(workingDir, suffix string) string {
	return filepath.Join(workingDir, fmt.Sprintf("%s%s.jsonl", downloadedJournalPrefix, suffix))
}

// NewJournal returns a Journal for path. It does no I/O: the file is only
// created by the first Append.
func NewJournal(filesystem fs.FS, path string) *Journal {
	return &Journal{fs: filesystem, path: path}
}

// Append writes one BatchDescriptor as a single JSON line, flushing before
// returning so a crash immediately after Append leaves a complete line.
func (j *Journal) Append(b *models.BatchDescriptor) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	line, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("batch: marshal journal entry: %w", err)
	}
	w, err := j.fs.OpenAppend(j.path)
	if err != nil {
		return fmt.Errorf("batch: open journal %s: %w", j.path, err)
	}
	defer w.Close()

	if _, err := w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("batch: append journal %s: %w", j.path, err)
	}
	if f, ok := w.(interface{ Sync() error }); ok {
		_ = f.Sync()
	}
	return nil
}

// ReadAll returns every BatchDescriptor line currently in the journal. A
// missing file is treated as an empty journal (nothing submitted/downloaded
// yet), not an error.
func (j *Journal) ReadAll() ([]*models.BatchDescriptor, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := j.fs.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("batch: read journal %s: %w", j.path, err)
	}

	var out []*models.BatchDescriptor
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var b models.BatchDescriptor
		if err := json.Unmarshal(line, &b); err != nil {
			return nil, fmt.Errorf("batch: parse journal line in %s: %w", j.path, err)
		}
		out = append(out, &b)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("batch: scan journal %s: %w", j.path, err)
	}
	return out, nil
}

// Cancel renames the journal to path+".cancelled", removing it from the
// resume path while preserving history (spec §4.2, §4.6.5).
func (j *Journal) Cancel() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.fs.Stat(j.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("batch: stat journal %s: %w", j.path, err)
	}
	return j.fs.Rename(j.path, j.path+cancelledSuffix)
}
