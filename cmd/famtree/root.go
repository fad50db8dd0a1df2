package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/OFFIS-RIT/famtree/backend/pkg/loader"
	loaderio "github.com/OFFIS-RIT/famtree/backend/pkg/loader/io"
	"github.com/OFFIS-RIT/famtree/backend/pkg/loader/web"

	"github.com/spf13/cobra"
)

// errInvalidTable makes the process exit with status 1 after a report with
// errors has been printed.
var errInvalidTable = errors.New("family table has integrity errors")

type rootOptions struct {
	pretty bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "famtree",
		Short:         "Turn family tables into person graphs and check them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "Indent JSON output")

	cmd.AddCommand(
		newParseCmd(opts),
		newValidateCmd(opts),
		newSchemaCmd(opts),
	)
	return cmd
}

// readTable reads CSV text from a path or an http(s) URL, or from stdin
// when path is "-".
func readTable(ctx context.Context, stdin io.Reader, path string) (string, error) {
	if path == "-" {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return loader.DecodeText(content)
	}

	var l loader.TableFileLoader = loaderio.NewIOTableFileLoader()
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		l = web.NewWebTableFileLoader()
	}

	file := loader.NewCSVTableFile(loader.NewTableFileParams{
		ID:       "cli",
		FilePath: path,
		Loader:   l,
	})
	text, err := file.GetText(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return text, nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
