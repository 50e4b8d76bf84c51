package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/karmaboard/internal/client/cli"
	"github.com/dmitrijs2005/karmaboard/internal/server"
	"github.com/dmitrijs2005/karmaboard/internal/server/config"
)

func open(ctx context.Context, cfg *config.Config, required ...config.Requirement) (cli.Backend, error) {
	app, err := server.NewApp(ctx, cfg, required...)
	if err != nil {
		return nil, err
	}
	return app, nil
}

func main() {
	cfg := config.LoadConfig()

	if err := cli.NewRootCommand(cfg, open).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
