package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"campus-steps-server/config"
	"campus-steps-server/observability"
	"campus-steps-server/preprocessing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newIndexCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Write a JSON summary of the dataset (rooms, corridors, connected sections)",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Get().Dataset.Path
			logger := observability.GetLogger()
			logger.Info("Loading dataset", zap.String("path", path))

			graph, err := preprocessing.Load(path)
			if err != nil {
				return err
			}
			summary := preprocessing.Summarize(graph)

			if out == "" || out == "-" {
				return preprocessing.WriteSummary(cmd.OutOrStdout(), summary)
			}

			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("failed to ensure output dir: %w", err)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create output file %s: %w", out, err)
			}
			defer f.Close()
			if err := preprocessing.WriteSummary(f, summary); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Dataset index written to %s\n", out)
			fmt.Fprintf(cmd.OutOrStdout(), "Summary: rooms=%d corridors=%d components=%d\n",
				summary.Counts["rooms"], summary.Counts["corridors"], summary.Counts["components"])
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "file to write the JSON summary to (default stdout)")
	return cmd
}
