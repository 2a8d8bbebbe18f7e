package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gamma-omg/backtester/internal/backtest"
	"github.com/gamma-omg/backtester/internal/config"
	"github.com/gamma-omg/backtester/internal/feed"
	"github.com/gamma-omg/backtester/internal/report"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.ReadFromFile(os.Getenv("CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.Default()

	src, err := feed.Create(logger, cfg)
	if err != nil {
		log.Fatal(err)
	}

	results, err := backtest.NewRunner(logger, cfg, src).Run(ctx)
	if err != nil {
		log.Fatal(err)
	}

	r := report.NewJsonReportBuilder(logger)
	for _, res := range results {
		r.SubmitResult(res)
	}

	if cfg.Report != "" {
		if err := r.WriteToFile(cfg.Report); err != nil {
			log.Fatal(err)
		}
	} else if err := r.Write(os.Stdout); err != nil {
		log.Fatal(err)
	}

	if cfg.Plot != "" {
		if err := report.Render(results, cfg.Plot); err != nil {
			log.Fatal(err)
		}
	}
}
