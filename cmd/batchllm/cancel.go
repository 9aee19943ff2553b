package main

import (
	"fmt"
	"os"

	"github.com/cormorant-labs/batchllm/internal/config"
	"github.com/spf13/cobra"
)

func newCancelCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel every non-completed batch in the working directory and exit non-zero",
		RunE: func(cmd *cobra.Command, args []string) error {
			facade, err := newFacade(cfg)
			if err != nil {
				return err
			}

			failures, err := facade.Cancel(cmd.Context(), cfg.WorkingDir)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "cancel requested; %d failures\n", failures)
			os.Exit(1) // spec §6: cancel() always terminates the process with exit code 1
			return nil
		},
	}
	return cmd
}
