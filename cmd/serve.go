package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/lunarpine/resona/internal/cache"
	"github.com/lunarpine/resona/internal/library"
	"github.com/lunarpine/resona/internal/repositories"
	"github.com/lunarpine/resona/internal/server"
)

// Serve wires repositories, services, and handlers together and runs the
// HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	songs := repositories.NewSongRepository(db)
	playlists := repositories.NewPlaylistRepository(db)
	users := repositories.NewUserRepository(db)
	posts := repositories.NewPostRepository(db)

	provider := r.newProvider(config)
	materializer := library.NewMaterializer(songs, provider, r.logger)

	playlistService := library.NewPlaylistService(playlists, songs, materializer, r.logger)
	userService := library.NewUserService(users, r.logger)
	userMusicService := library.NewUserMusicService(users, songs, materializer, r.logger)
	postService := library.NewPostService(posts, playlists, materializer, r.logger)
	songService := library.NewSongService(songs)

	responseCache := cache.New(config.Cache.Addr, config.Cache.TTL(), r.logger)
	defer responseCache.Close()

	router := server.NewBasicRouter()
	router.Use(
		server.Recover(r.logger),
		server.RequestLogger(r.logger),
		server.Identity(users, r.logger),
	)

	router.Handler(server.NewMusicHandler(materializer, responseCache, r.logger))
	router.Handler(server.NewSongHandler(songService, r.logger))
	router.Handler(server.NewPlaylistHandler(playlistService, r.logger))
	router.Handler(server.NewUserHandler(userService, userMusicService, responseCache, r.logger))
	router.Handler(server.NewPostHandler(postService, r.logger))

	addr := cmd.String("addr")
	if addr == "" {
		addr = config.Server.Addr()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(addr, router, r.logger)
	return srv.Start(ctx)
}
