package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"campus-steps-server/preprocessing"

	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> [output]",
		Short: "Convert a JSON or CSV dataset into a gob snapshot",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]
			var outputPath string
			if len(args) > 1 {
				outputPath = args[1]
			} else {
				ext := filepath.Ext(inputPath)
				base := strings.TrimSuffix(filepath.Base(inputPath), ext)
				outputPath = filepath.Join(filepath.Dir(inputPath), base+".gob")
			}

			nodes, edges, err := convertToGOB(inputPath, outputPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully converted %s to %s\n", inputPath, outputPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Rooms: %d, Corridors: %d\n", nodes, edges)
			return nil
		},
	}
}

func convertToGOB(inputPath, outputPath string) (int, int, error) {
	graph, err := preprocessing.Load(inputPath)
	if err != nil {
		return 0, 0, err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return 0, 0, fmt.Errorf("failed to create output directory for %s: %w", outputPath, err)
	}
	gobFile, err := os.Create(outputPath)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create GOB file %s: %w", outputPath, err)
	}
	defer gobFile.Close()

	if err := preprocessing.WriteSnapshot(gobFile, graph); err != nil {
		return 0, 0, fmt.Errorf("failed to encode GOB to %s: %w", outputPath, err)
	}
	return len(graph.Nodes), graph.EdgeCount(), nil
}
