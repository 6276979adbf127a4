package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/sesdash/internal/buildinfo"
	"github.com/dmitrijs2005/sesdash/internal/logging"
	"github.com/dmitrijs2005/sesdash/internal/server"
	"github.com/dmitrijs2005/sesdash/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	app, err := server.NewApp(cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

}
