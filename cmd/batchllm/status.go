package main

import (
	"fmt"

	"github.com/cormorant-labs/batchllm/internal/batch"
	"github.com/cormorant-labs/batchllm/internal/config"
	"github.com/cormorant-labs/batchllm/pkg/fs"
	"github.com/spf13/cobra"
)

func newStatusCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print submitted/downloaded batch counts for the working directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			suffix := credentialSuffix(cfg)
			filesystem := fs.New()

			submitted, err := batch.NewJournal(filesystem, batch.SubmittedJournalPath(cfg.WorkingDir, suffix)).ReadAll()
			if err != nil {
				return err
			}
			downloaded, err := batch.NewJournal(filesystem, batch.DownloadedJournalPath(cfg.WorkingDir, suffix)).ReadAll()
			if err != nil {
				return err
			}

			var totalRequests, finishedRequests, downloadedRequests int
			downloadedIDs := make(map[string]struct{}, len(downloaded))
			for _, d := range downloaded {
				downloadedIDs[d.ID] = struct{}{}
				downloadedRequests += d.RequestCounts.Completed + d.RequestCounts.Failed
			}
			for _, s := range submitted {
				totalRequests += s.RequestCounts.Total
				if _, done := downloadedIDs[s.ID]; !done {
					finishedRequests += s.RequestCounts.Completed + s.RequestCounts.Failed
				}
			}

			p := batch.Progress{
				BatchesSubmitted:   len(submitted),
				RequestsTotal:      totalRequests,
				RequestsFinished:   finishedRequests,
				RequestsDownloaded: downloadedRequests,
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.String())
			return nil
		},
	}
	return cmd
}
