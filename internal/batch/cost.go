package batch

import (
	"strings"

	"github.com/cormorant-labs/batchllm/pkg/models"
)

// CostOracle computes the non-batch unit cost of one completion, in USD.
// BatchManager applies the configured batch discount on top of this value
// (spec §9 design note, Open Question decision #1).
type CostOracle interface {
	// Cost returns the synchronous (non-batch) price for one request given
	// its model and prompt/completion token counts.
	Cost(model string, promptTokens, completionTokens int) float64
}

// perMillionRate holds USD-per-1M-token input/output rates.
type perMillionRate struct {
	input, output float64
}

// staticCostOracle is the default CostOracle: a hardcoded per-model rate
// table, mirroring the teacher's CostOptimizer pricing maps but expressed
// per-million-tokens (the provider's own pricing page unit) rather than
// per-1K, and consulted by exact match then substring-contains fallback.
type staticCostOracle struct {
	rates map[string]perMillionRate
}

// NewStaticCostOracle returns the default model-priced CostOracle.
func NewStaticCostOracle() CostOracle {
	return &staticCostOracle{rates: map[string]perMillionRate{
		"gpt-5":        {input: 5.00, output: 15.00},
		"gpt-5-mini":   {input: 0.60, output: 2.40},
		"gpt-4o":       {input: 2.50, output: 10.00},
		"gpt-4o-mini":  {input: 0.15, output: 0.60},
		"default":      {input: 1.00, output: 3.00},
	}}
}

func (o *staticCostOracle) Cost(model string, promptTokens, completionTokens int) float64 {
	r := o.rateFor(model)
	return float64(promptTokens)/1_000_000*r.input + float64(completionTokens)/1_000_000*r.output
}

func (o *staticCostOracle) rateFor(model string) perMillionRate {
	if r, ok := o.rates[model]; ok {
		return r
	}
	for name, r := range o.rates {
		if name != "default" && strings.Contains(model, name) {
			return r
		}
	}
	return o.rates["default"]
}

// NewDeterministicCostOracle returns a CostOracle that always reports
// unitCost regardless of model or token counts, for tests that need exact
// expected values (spec §8 "Cost discount" property).
func NewDeterministicCostOracle(unitCost float64) CostOracle {
	return deterministicCostOracle{unitCost: unitCost}
}

type deterministicCostOracle struct{ unitCost float64 }

func (o deterministicCostOracle) Cost(string, int, int) float64 { return o.unitCost }

// ResponseCost applies discount to the oracle's unit cost for usage,
// matching spec §4.5 step 3: response_cost = discount * unit_cost(...).
func ResponseCost(oracle CostOracle, model string, usage models.TokenUsage, discount float64) float64 {
	return discount * oracle.Cost(model, usage.PromptTokens, usage.CompletionTokens)
}
