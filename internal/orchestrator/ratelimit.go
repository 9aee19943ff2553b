// Package orchestrator wires the batch package's StatusTracker, Journal,
// ProviderClient, and BatchManager into the two entry points an application
// actually calls: run() and cancel() (spec §4.7).
package orchestrator

// RateLimitInfo carries a model's daily token budget, used by callers that
// want to pace submission against the provider's account-level limits.
type RateLimitInfo struct {
	MaxTokensPerDay int64
}

// defaultMaxTokensPerDay is the conservative fallback for models absent from
// modelTokensPerDay (spec §4.7, SUPPLEMENTED FEATURES).
const defaultMaxTokensPerDay = 1_000_000_000

// modelTokensPerDay mirrors the original Python implementation's per-model
// daily token ceilings. Facade.Run logs the entry for the run's model;
// submission is not paced by it.
var modelTokensPerDay = map[string]int64{
	"gpt-4o-mini": 15_000_000_000,
	"gpt-4o":      5_000_000_000,
	"gpt-5-mini":  15_000_000_000,
	"gpt-5":       5_000_000_000,
}

// RateLimits returns the daily token budget for model, defaulting to a
// conservative 1e9 when the model is unrecognized.
func RateLimits(model string) RateLimitInfo {
	if tpd, ok := modelTokensPerDay[model]; ok {
		return RateLimitInfo{MaxTokensPerDay: tpd}
	}
	return RateLimitInfo{MaxTokensPerDay: defaultMaxTokensPerDay}
}
