package main

import (
	"fmt"

	"github.com/OFFIS-RIT/famtree/backend/pkg/graph"

	"github.com/spf13/cobra"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|->",
		Short: "Check a family table for dangling references",
		Long:  "Check a family table for dangling references. Exits with status 1 when the report contains errors.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readTable(cmd.Context(), cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			report, err := graph.ValidateTable(text)
			if err != nil {
				return fmt.Errorf("failed to parse CSV: %w", err)
			}
			if err := writeJSON(cmd.OutOrStdout(), report, root.pretty); err != nil {
				return err
			}
			if !report.Valid {
				return errInvalidTable
			}
			return nil
		},
	}
}
