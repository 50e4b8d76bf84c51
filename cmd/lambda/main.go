package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/dmitrijs2005/karmaboard/internal/server"
	"github.com/dmitrijs2005/karmaboard/internal/server/config"
	"github.com/dmitrijs2005/karmaboard/internal/server/function"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg, config.RequireDatabase)

	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	lambda.Start(function.New(app, cfg.SyncToken, app.Logger()))
}
