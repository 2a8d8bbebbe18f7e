package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gamma-omg/backtester/internal/config"
	"github.com/gamma-omg/backtester/internal/feed"
	"github.com/gamma-omg/backtester/internal/store"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.ReadFromFile(os.Getenv("CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.Default()

	st, err := store.Create(cfg.Fetch.StoreRef)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	if err := feed.NewFetcher(logger, cfg.Fetch, st).Run(ctx); err != nil {
		log.Fatal(err)
	}
}
