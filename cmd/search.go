package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/lunarpine/resona/internal/formatter"
	"github.com/lunarpine/resona/internal/shared"
)

// Search queries the external catalog and prints the results.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	config := r.loadConfig(cmd)
	provider := r.newProvider(config)

	results, err := provider.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", formatter.FormatSearchResults(results))
}

// Detail resolves one external reference and prints its metadata.
func (r *Runner) Detail(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("ref")
	if ref == "" {
		return fmt.Errorf("%w: external reference", shared.ErrMissingArgument)
	}

	config := r.loadConfig(cmd)
	provider := r.newProvider(config)

	detail, err := provider.GetDetail(ctx, ref)
	if err != nil {
		return fmt.Errorf("detail lookup failed: %w", err)
	}
	if detail == nil {
		return fmt.Errorf("%w: %s", shared.ErrMusicNotFound, ref)
	}

	if cmd.Bool("json") {
		return r.writeJSON(detail, true)
	}

	return r.writePlain("%s", formatter.FormatSongDetail(detail))
}
