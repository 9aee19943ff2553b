// Command batchllm drives the batched LLM request orchestrator: it submits
// prepared request files as OpenAI Batch API jobs, polls them to
// completion, downloads and transforms results, and supports cancellation
// and resume across restarts.
package main

import (
	"fmt"
	"os"

	"github.com/cormorant-labs/batchllm/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// RootCmd builds the batchllm command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "batchllm",
		Short: "Batched LLM request orchestrator",
	}

	cfg := config.MustLoadConfig()

	root.AddCommand(
		newRunCommand(cfg),
		newCancelCommand(cfg),
		newStatusCommand(cfg),
		newConfigCommand(cfg),
	)
	return root
}
