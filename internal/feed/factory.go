package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gamma-omg/backtester/internal/config"
	"github.com/gamma-omg/backtester/internal/market"
	"github.com/gamma-omg/backtester/internal/store"
)

type barSource interface {
	Bars(ctx context.Context) ([]market.Bar, error)
}

func Create(log *slog.Logger, cfg *config.Config) (barSource, error) {
	csvCfg, ok := cfg.SourceRef.Source.(config.CSV)
	if ok {
		return NewCSVSource(log, csvCfg), nil
	}

	alpacaCfg, ok := cfg.SourceRef.Source.(config.Alpaca)
	if ok {
		return NewAlpacaSource(alpacaCfg), nil
	}

	parquetCfg, ok := cfg.SourceRef.Source.(config.Parquet)
	if ok {
		return NewStoreSource(store.NewParquetStore(parquetCfg.Dir), parquetCfg.Symbol, parquetCfg.Start, parquetCfg.End)
	}

	sqliteCfg, ok := cfg.SourceRef.Source.(config.SQLite)
	if ok {
		db, err := store.NewSQLiteStore(sqliteCfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}

		return NewStoreSource(db, sqliteCfg.Symbol, sqliteCfg.Start, sqliteCfg.End)
	}

	return nil, errors.New("unknown bars source")
}
