package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/sesdash/internal/buildinfo"
	"github.com/dmitrijs2005/sesdash/internal/client/api"
	"github.com/dmitrijs2005/sesdash/internal/client/config"
	"github.com/dmitrijs2005/sesdash/internal/client/monitor"
	"github.com/dmitrijs2005/sesdash/internal/client/session"
	"github.com/dmitrijs2005/sesdash/internal/client/storage"
	"github.com/dmitrijs2005/sesdash/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	repo, err := storage.Open(ctx, cfg.StoragePath)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer repo.Close()

	tokens := &monitor.Session{Repo: repo, Fallback: session.NewStore(repo, nil, logger)}
	client, err := api.New(cfg.BaseURL, tokens, api.WithLogger(logger))
	if err != nil {
		log.Fatalf("%v", err)
	}

	m := monitor.New(client, monitor.WithLogger(logger), monitor.WithInterval(cfg.PollInterval))
	m.Start(ctx)
	defer m.Stop()

	if err := monitor.Console(ctx, m, os.Stdin, os.Stdout); err != nil {
		log.Printf("%v", err)
	}

}
