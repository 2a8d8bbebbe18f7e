// Package store caches daily bars on disk so backtests can replay a
// fetch without hitting the market data API again.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/gamma-omg/backtester/internal/config"
	"github.com/gamma-omg/backtester/internal/market"
)

// BarStore persists and retrieves daily bars per symbol. ReadBars
// treats zero start or end times as unbounded and returns bars in
// chronological order.
type BarStore interface {
	WriteBars(ctx context.Context, symbol string, bars []market.Bar) error
	ReadBars(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error)
	ListSymbols(ctx context.Context) ([]string, error)
	Close() error
}

func Create(cfg config.StoreReference) (BarStore, error) {
	parquetCfg, ok := cfg.Store.(config.ParquetStore)
	if ok {
		return NewParquetStore(parquetCfg.Dir), nil
	}

	sqliteCfg, ok := cfg.Store.(config.SQLiteStore)
	if ok {
		return NewSQLiteStore(sqliteCfg.Path)
	}

	return nil, errors.New("unknown bar store")
}
