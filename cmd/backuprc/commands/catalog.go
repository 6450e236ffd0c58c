package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/backuprc/cmd/backuprc/opts"
	"github.com/walteh/backuprc/pkg/catalog"
	"github.com/walteh/backuprc/pkg/config"
	"github.com/walteh/backuprc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// NewCatalogCmd creates the catalog command
func NewCatalogCmd(rootOpts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the files the next backup would copy",
		Long: `Catalog walks source_dir exactly like a backup run and prints every file
that would be copied, without touching backup_dir.
It will:
1. Load the configuration
2. Walk the source tree in lexical order, honouring ignore_patterns
3. Print a table of files and the totals`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx, rootOpts.ConfigFile)
			if err != nil {
				return err
			}

			cat, err := catalog.New(catalog.WithIgnore(cfg.IgnorePatterns...))
			if err != nil {
				return errors.Errorf("creating catalog: %w", err)
			}

			entries, err := catalog.Collect(cat.Walk(cfg.SourceDir))
			if err != nil {
				return errors.Errorf("cataloging %s: %w", cfg.SourceDir, err)
			}

			return renderCatalog(rootOpts, entries)
		},
	}

	return cmd
}

func renderCatalog(rootOpts *opts.RootOpts, entries []catalog.Entry) error {
	data := pterm.TableData{{"Path", "Size", "Bytes"}}

	var total int64
	for _, e := range entries {
		data = append(data, []string{e.RelativePath, text.FormatBytes(e.Size), strconv.FormatInt(e.Size, 10)})
		total += e.Size
	}

	if len(entries) > 0 {
		err := pterm.DefaultTable.
			WithHasHeader().
			WithWriter(rootOpts.Out).
			WithData(data).
			Render()
		if err != nil {
			return errors.Errorf("rendering catalog: %w", err)
		}
	}

	_, err := fmt.Fprintf(rootOpts.Out, "%d files, %s\n", len(entries), text.FormatBytes(total))
	return err
}
