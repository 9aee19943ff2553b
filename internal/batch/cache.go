package batch

import (
	"fmt"

	"github.com/cormorant-labs/batchllm/pkg/models"
	"github.com/cormorant-labs/batchllm/pkg/persist"
)

// ResultCache is a local, on-disk cache of fully materialized result
// datasets keyed by a caller-supplied parse_func_hash, so that façade.Run can
// skip all orchestration work when an identical run has already completed
// (grounded on the original's attempt_loading_cached_dataset, backed by the
// teacher's pkg/persist.Manager).
type ResultCache struct {
	manager *persist.Manager
}

// NewResultCache returns a ResultCache rooted at cacheDir.
func NewResultCache(cacheDir string) *ResultCache {
	return &ResultCache{manager: persist.New(cacheDir)}
}

type cacheEntry struct {
	Responses []models.GenericResponse `json:"responses"`
}

func cacheRelPath(parseFuncHash string) string {
	return fmt.Sprintf("%s.json", parseFuncHash)
}

// Load returns the cached responses for parseFuncHash, and whether a cache
// entry was found.
func (c *ResultCache) Load(parseFuncHash string) ([]models.GenericResponse, bool) {
	var entry cacheEntry
	if err := c.manager.ReadJSON(cacheRelPath(parseFuncHash), &entry); err != nil {
		return nil, false
	}
	return entry.Responses, true
}

// Store persists responses under parseFuncHash for future Load calls.
func (c *ResultCache) Store(parseFuncHash string, responses []models.GenericResponse) error {
	_, err := c.manager.WriteJSON(cacheRelPath(parseFuncHash), cacheEntry{Responses: responses})
	return err
}
