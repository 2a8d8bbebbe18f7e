package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gamma-omg/backtester/internal/market"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

var _ BarStore = (*SQLiteStore)(nil)

const createBarsTable = `
CREATE TABLE IF NOT EXISTS bars (
	symbol TEXT NOT NULL,
	ts INTEGER NOT NULL,
	open TEXT NOT NULL,
	high TEXT NOT NULL,
	low TEXT NOT NULL,
	close TEXT NOT NULL,
	volume TEXT NOT NULL,
	PRIMARY KEY (symbol, ts)
);`

// SQLiteStore keeps daily bars in a single SQLite database. Prices are
// stored as decimal strings so reads give back exactly what was
// written.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bars database: %w", err)
	}

	if _, err := db.Exec(createBarsTable); err != nil {
		return nil, fmt.Errorf("failed to create bars table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) WriteBars(ctx context.Context, symbol string, bars []market.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin bars transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO bars (symbol, ts, open, high, low, close, volume) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare bars insert: %w", err)
	}
	defer stmt.Close()

	symbol = strings.ToUpper(symbol)
	for _, b := range bars {
		_, err := stmt.ExecContext(ctx, symbol, b.Time.Unix(),
			b.Open.String(), b.High.String(), b.Low.String(), b.Close.String(), b.Volume.String())
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert bar for %s: %w", symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bars: %w", err)
	}

	return nil
}

func (s *SQLiteStore) ReadBars(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error) {
	from := start.Unix()
	to := end.Unix()
	if end.IsZero() {
		to = math.MaxInt64
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, open, high, low, close, volume FROM bars WHERE symbol = ? AND ts >= ? AND ts <= ? ORDER BY ts`,
		strings.ToUpper(symbol), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars for %s: %w", symbol, err)
	}
	defer rows.Close()

	var bars []market.Bar
	for rows.Next() {
		var ts int64
		var open, high, low, closePrice, volume string
		if err := rows.Scan(&ts, &open, &high, &low, &closePrice, &volume); err != nil {
			return nil, fmt.Errorf("failed to scan bar row: %w", err)
		}

		bar, err := barFromRow(ts, open, high, low, closePrice, volume)
		if err != nil {
			return nil, err
		}

		bars = append(bars, bar)
	}

	return bars, rows.Err()
}

func (s *SQLiteStore) ListSymbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM bars ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to list symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan symbol row: %w", err)
		}
		symbols = append(symbols, symbol)
	}

	return symbols, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func barFromRow(ts int64, open, high, low, closePrice, volume string) (market.Bar, error) {
	bar := market.Bar{Time: time.Unix(ts, 0).UTC()}

	var err error
	if bar.Open, err = decimal.NewFromString(open); err != nil {
		return market.Bar{}, fmt.Errorf("failed to parse open price: %w", err)
	}
	if bar.High, err = decimal.NewFromString(high); err != nil {
		return market.Bar{}, fmt.Errorf("failed to parse high price: %w", err)
	}
	if bar.Low, err = decimal.NewFromString(low); err != nil {
		return market.Bar{}, fmt.Errorf("failed to parse low price: %w", err)
	}
	if bar.Close, err = decimal.NewFromString(closePrice); err != nil {
		return market.Bar{}, fmt.Errorf("failed to parse close price: %w", err)
	}
	if bar.Volume, err = decimal.NewFromString(volume); err != nil {
		return market.Bar{}, fmt.Errorf("failed to parse volume: %w", err)
	}

	return bar, nil
}
