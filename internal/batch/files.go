package batch

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	berrors "github.com/cormorant-labs/batchllm/pkg/errors"
	"github.com/cormorant-labs/batchllm/pkg/fs"
	"github.com/cormorant-labs/batchllm/pkg/models"
	"github.com/google/uuid"
)

const (
	requestFilePrefix  = "requests_"
	responseFilePrefix = "responses_"

	// MaxBatchRequests is the provider's hard cap on requests per batch file.
	MaxBatchRequests = 50_000
	// MaxBatchBytes is the provider's hard cap on serialized body bytes per
	// batch file.
	MaxBatchBytes = 200 * 1024 * 1024
)

// Suffix returns the substring after the first underscore in the basename of
// path, with its file extension removed, used to pair requests_<suffix> with
// responses_<suffix> (spec §4.6.6). A basename without an underscore is
// returned whole, extension included.
func Suffix(path string) string {
	base := filepath.Base(path)
	i := strings.IndexByte(base, '_')
	if i < 0 {
		return base
	}
	base = base[i+1:]
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// RequestFileName builds a requests_<suffix>.jsonl path in dir. A caller
// without a natural suffix should pass a fresh uuid.
func RequestFileName(dir, suffix string) string {
	return filepath.Join(dir, fmt.Sprintf("%s%s.jsonl", requestFilePrefix, suffix))
}

// ResponseFileName derives the paired responses_<suffix>.jsonl path for a
// given requests_<suffix>.jsonl path, per the total/bijective mapping of
// spec §4.6.6.
func ResponseFileName(requestFile string) string {
	dir := filepath.Dir(requestFile)
	return filepath.Join(dir, fmt.Sprintf("%s%s.jsonl", responseFilePrefix, Suffix(requestFile)))
}

// NewRequestFileSuffix generates a fresh suffix for a request file that has
// no natural index, e.g. when the façade splits a dataset into chunks.
func NewRequestFileSuffix() string { return uuid.NewString() }

// ReadGenericRequests reads every GenericRequest line from path.
func ReadGenericRequests(filesystem fs.FS, path string) ([]models.GenericRequest, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batch: read request file %s: %w", path, err)
	}
	var out []models.GenericRequest
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var r models.GenericRequest
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("batch: parse request line in %s: %w", path, err)
		}
		out = append(out, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("batch: scan request file %s: %w", path, err)
	}
	return out, nil
}

// WriteGenericRequests writes reqs as one JSON line each to path, enforcing
// the provider's hard limits before any write occurs (spec §3, §8 property
// "Limit enforcement").
func WriteGenericRequests(filesystem fs.FS, path string, reqs []models.GenericRequest) error {
	if len(reqs) > MaxBatchRequests {
		return berrors.BatchTooLargeError(fmt.Sprintf("%d requests exceeds max %d", len(reqs), MaxBatchRequests))
	}

	var buf bytes.Buffer
	for _, r := range reqs {
		line, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("batch: marshal request: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	if buf.Len() > MaxBatchBytes {
		return berrors.BatchTooLargeError(fmt.Sprintf("%d bytes exceeds max %d", buf.Len(), MaxBatchBytes))
	}

	if err := filesystem.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("batch: mkdir for %s: %w", path, err)
	}
	if err := filesystem.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("batch: write request file %s: %w", path, err)
	}
	return nil
}

// WriteGenericResponses writes resps as one JSON line each to path, in the
// order given (provider order, per spec §3).
func WriteGenericResponses(filesystem fs.FS, path string, resps []models.GenericResponse) error {
	var buf bytes.Buffer
	for _, r := range resps {
		line, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("batch: marshal response: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	if err := filesystem.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("batch: mkdir for %s: %w", path, err)
	}
	if err := filesystem.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("batch: write response file %s: %w", path, err)
	}
	return nil
}

// ResponseFileExists reports whether a response file exists at path.
func ResponseFileExists(filesystem fs.FS, path string) bool {
	_, err := filesystem.Stat(path)
	return err == nil
}

// ReadGenericResponses reads every GenericResponse line from path, in file order.
func ReadGenericResponses(filesystem fs.FS, path string) ([]models.GenericResponse, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batch: read response file %s: %w", path, err)
	}
	var out []models.GenericResponse
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var r models.GenericResponse
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("batch: parse response line in %s: %w", path, err)
		}
		out = append(out, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("batch: scan response file %s: %w", path, err)
	}
	return out, nil
}
