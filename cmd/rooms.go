package cmd

import (
	"fmt"

	"campus-steps-server/config"
	"campus-steps-server/preprocessing"

	"github.com/spf13/cobra"
)

func newRoomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List every classroom in the dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := preprocessing.Load(config.Get().Dataset.Path)
			if err != nil {
				return err
			}
			for _, room := range graph.SortedNodes() {
				fmt.Fprintln(cmd.OutOrStdout(), room)
			}
			return nil
		},
	}
}
