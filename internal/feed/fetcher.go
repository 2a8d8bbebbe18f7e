package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/gamma-omg/backtester/internal/config"
	"github.com/gamma-omg/backtester/internal/market"
)

type multiBarsApi interface {
	GetMultiBars(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error)
}

type barStore interface {
	WriteBars(ctx context.Context, symbol string, bars []market.Bar) error
}

// Fetcher downloads daily bars for the configured symbols in one batch
// request, persists them to the bar store, and optionally dumps one CSV
// per symbol into the data directory.
type Fetcher struct {
	log   *slog.Logger
	cfg   config.Fetch
	api   multiBarsApi
	store barStore
}

func NewFetcher(log *slog.Logger, cfg config.Fetch, store barStore) *Fetcher {
	return &Fetcher{
		log:   log,
		cfg:   cfg,
		api:   newMarketDataClient(cfg.BaseUrl, cfg.ApiKey, cfg.Secret),
		store: store,
	}
}

func (f *Fetcher) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	multiBars, err := f.api.GetMultiBars(f.cfg.Symbols, barsRequest(f.cfg.Feed, f.cfg.Start, f.cfg.End))
	if err != nil {
		return fmt.Errorf("failed to fetch bars: %w", err)
	}

	for _, symbol := range f.cfg.Symbols {
		symbol = strings.ToUpper(symbol)
		bars := toBars(multiBars[symbol])
		if len(bars) == 0 {
			f.log.Warn("no bars returned for symbol", slog.String("symbol", symbol))
			continue
		}

		if err := f.store.WriteBars(ctx, symbol, bars); err != nil {
			return fmt.Errorf("failed to store bars for %s: %w", symbol, err)
		}

		if f.cfg.DataDir != "" {
			if err := f.dump(symbol, bars); err != nil {
				return err
			}
		}

		f.log.Info("fetched bars", slog.String("symbol", symbol), slog.Int("bars", len(bars)))
	}

	return nil
}

func (f *Fetcher) dump(symbol string, bars []market.Bar) (err error) {
	if err := os.MkdirAll(f.cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s.csv", symbol, time.Now().UTC().Format("20060102"))
	file, err := os.Create(filepath.Join(f.cfg.DataDir, name))
	if err != nil {
		return fmt.Errorf("failed to create bars dump: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	d := newCsvBarsDump(file)
	for _, b := range bars {
		if err := d.Dump(b); err != nil {
			return err
		}
	}

	return nil
}
