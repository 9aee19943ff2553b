package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cormorant-labs/batchllm/internal/config"
	"github.com/cormorant-labs/batchllm/internal/orchestrator"
	"github.com/cormorant-labs/batchllm/pkg/models"
	"github.com/spf13/cobra"
)

func newRunCommand(cfg *config.Config) *cobra.Command {
	var (
		requestsPath  string
		parseFuncHash string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Submit and drive a batch run to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			requests, err := readRequestsFile(requestsPath)
			if err != nil {
				return err
			}

			facade, err := newFacade(cfg)
			if err != nil {
				return err
			}

			responses, err := facade.Run(cmd.Context(), orchestrator.RunInput{
				Requests:      requests,
				WorkingDir:    cfg.WorkingDir,
				ParseFuncHash: parseFuncHash,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "completed: %d responses\n", len(responses))
			return nil
		},
	}

	cmd.Flags().StringVar(&requestsPath, "requests", "", "path to a JSONL file of GenericRequest records")
	cmd.Flags().StringVar(&parseFuncHash, "cache-key", "", "result cache key; empty disables caching")
	_ = cmd.MarkFlagRequired("requests")

	return cmd
}

func readRequestsFile(path string) ([]models.GenericRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("batchllm: open requests file %s: %w", path, err)
	}
	defer f.Close()

	var out []models.GenericRequest
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r models.GenericRequest
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("batchllm: parse request line: %w", err)
		}
		out = append(out, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
