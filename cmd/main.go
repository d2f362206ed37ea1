package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lunarpine/resona/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "resona",
		Usage:    "Music social platform: playlists, favorites, and posts over an external catalog",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
