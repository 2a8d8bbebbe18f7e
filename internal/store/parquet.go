package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gamma-omg/backtester/internal/market"
	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"
)

var _ BarStore = (*ParquetStore)(nil)

// ParquetStore keeps one Parquet file per symbol and year:
//
//	<dir>/daily/<SYMBOL>/<YYYY>.parquet
//
// Writes merge into the existing file, deduplicating by timestamp with
// incoming bars winning.
type ParquetStore struct {
	dir string
}

func NewParquetStore(dir string) *ParquetStore {
	return &ParquetStore{dir: dir}
}

type barRecord struct {
	Symbol    string  `parquet:"symbol"`
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"`
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
}

func (s *ParquetStore) WriteBars(_ context.Context, symbol string, bars []market.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	symbol = strings.ToUpper(symbol)
	groups := make(map[int][]barRecord)
	for _, b := range bars {
		year := b.Time.UTC().Year()
		groups[year] = append(groups[year], toRecord(symbol, b))
	}

	for year, records := range groups {
		path := s.barPath(symbol, year)
		existing, _ := readParquetFile[barRecord](path)
		merged := mergeRecords(existing, records)

		if err := writeParquetFile(path, merged); err != nil {
			return fmt.Errorf("failed to write bars for %s/%d: %w", symbol, year, err)
		}
	}

	return nil
}

func (s *ParquetStore) ReadBars(_ context.Context, symbol string, start, end time.Time) ([]market.Bar, error) {
	dir := filepath.Join(s.dir, "daily", strings.ToUpper(symbol))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list bar files for %s: %w", symbol, err)
	}

	var bars []market.Bar
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".parquet" {
			continue
		}

		records, err := readParquetFile[barRecord](filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read bar file %s: %w", e.Name(), err)
		}

		for _, r := range records {
			ts := time.UnixMilli(r.Timestamp).UTC()
			if !start.IsZero() && ts.Before(start) {
				continue
			}
			if !end.IsZero() && ts.After(end) {
				continue
			}

			bars = append(bars, fromRecord(r))
		}
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	return bars, nil
}

func (s *ParquetStore) ListSymbols(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, "daily"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list symbols: %w", err)
	}

	var symbols []string
	for _, e := range entries {
		if e.IsDir() {
			symbols = append(symbols, e.Name())
		}
	}
	sort.Strings(symbols)

	return symbols, nil
}

func (s *ParquetStore) Close() error {
	return nil
}

func (s *ParquetStore) barPath(symbol string, year int) string {
	return filepath.Join(s.dir, "daily", symbol, fmt.Sprintf("%d.parquet", year))
}

func toRecord(symbol string, b market.Bar) barRecord {
	return barRecord{
		Symbol:    symbol,
		Timestamp: b.Time.UnixMilli(),
		Open:      b.Open.InexactFloat64(),
		High:      b.High.InexactFloat64(),
		Low:       b.Low.InexactFloat64(),
		Close:     b.Close.InexactFloat64(),
		Volume:    b.Volume.InexactFloat64(),
	}
}

func fromRecord(r barRecord) market.Bar {
	return market.Bar{
		Time:   time.UnixMilli(r.Timestamp).UTC(),
		Open:   decimal.NewFromFloat(r.Open),
		High:   decimal.NewFromFloat(r.High),
		Low:    decimal.NewFromFloat(r.Low),
		Close:  decimal.NewFromFloat(r.Close),
		Volume: decimal.NewFromFloat(r.Volume),
	}
}

func mergeRecords(existing, incoming []barRecord) []barRecord {
	seen := make(map[int64]barRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[r.Timestamp] = r
	}
	for _, r := range incoming {
		seen[r.Timestamp] = r
	}

	merged := make([]barRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Timestamp < merged[j].Timestamp })

	return merged
}

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	return parquet.ReadFile[T](path)
}
