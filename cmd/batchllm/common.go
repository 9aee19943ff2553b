package main

import (
	"fmt"

	"github.com/cormorant-labs/batchllm/internal/batch"
	"github.com/cormorant-labs/batchllm/internal/config"
	"github.com/cormorant-labs/batchllm/internal/orchestrator"
	openaiprovider "github.com/cormorant-labs/batchllm/internal/provider/openai"
	"github.com/cormorant-labs/batchllm/pkg/fs"
)

// credentialSuffix derives the journal-naming suffix from the configured
// API key's last 4 characters (spec §4.2, §9 "per-process globals").
func credentialSuffix(cfg *config.Config) string {
	key := cfg.LLM.APIKey
	if len(key) < 4 {
		return "0000"
	}
	return key[len(key)-4:]
}

// newFacade builds the orchestrator façade for the configured provider.
func newFacade(cfg *config.Config) (*orchestrator.Facade, error) {
	if cfg.LLM.Provider != "openai" {
		return nil, fmt.Errorf("batchllm: unsupported provider %q", cfg.LLM.Provider)
	}
	client, err := openaiprovider.NewClient(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("batchllm: build provider client: %w", err)
	}

	filesystem := fs.New()
	oracle := batch.NewStaticCostOracle()
	return orchestrator.NewFacade(cfg, client, filesystem, oracle, credentialSuffix(cfg)), nil
}
