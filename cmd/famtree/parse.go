package main

import (
	"fmt"

	"github.com/OFFIS-RIT/famtree/backend/pkg/graph"

	"github.com/spf13/cobra"
)

func newParseCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file|->",
		Short: "Print the person graph of a family table as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readTable(cmd.Context(), cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			tree, err := graph.ParseTable(text)
			if err != nil {
				return fmt.Errorf("failed to parse CSV: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), tree, root.pretty)
		},
	}
}
