package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/lunarpine/resona/internal/formatter"
	"github.com/lunarpine/resona/internal/library"
	"github.com/lunarpine/resona/internal/repositories"
	"github.com/lunarpine/resona/internal/shared"
)

// Export loads a playlist with its songs and writes it to a file in the
// requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("playlist")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	config := r.loadConfig(cmd)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	songs := repositories.NewSongRepository(db)
	playlists := repositories.NewPlaylistRepository(db)
	materializer := library.NewMaterializer(songs, r.newProvider(config), r.logger)
	service := library.NewPlaylistService(playlists, songs, materializer, r.logger)

	detail, err := service.GetDetail(id)
	if err != nil {
		return fmt.Errorf("failed to load playlist: %w", err)
	}

	path, err := formatter.WriteExport(detail, cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	return r.writePlain("exported %q (%d songs) to %s\n", detail.Playlist.Name(), len(detail.Songs), path)
}
