package main

import (
	"fmt"

	"github.com/OFFIS-RIT/famtree/backend/pkg/graph"

	"github.com/spf13/cobra"
)

func newSchemaCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the tree and report formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := graph.MarshalSchemas(root.pretty)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
