package feed

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gamma-omg/backtester/internal/config"
	"github.com/gamma-omg/backtester/internal/market"
	"github.com/shopspring/decimal"
)

// CSVSource loads daily bars from a csv file. Columns are located by
// header name, rows may come in any order, and intraday rows collapse
// into one bar per day. Rows without a parsable date or close price are
// dropped.
type CSVSource struct {
	log *slog.Logger
	cfg config.CSV
}

func NewCSVSource(log *slog.Logger, cfg config.CSV) *CSVSource {
	return &CSVSource{
		log: log,
		cfg: cfg,
	}
}

func (s *CSVSource) Bars(ctx context.Context) ([]market.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open bars file: %w", err)
	}
	defer f.Close()

	rdr := csv.NewReader(bufio.NewReader(f))
	header, err := rdr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var bars []market.Bar
	for {
		data, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if errors.Is(err, csv.ErrFieldCount) {
			s.log.Warn("dropping malformed csv row", slog.String("error", err.Error()))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read bar data: %w", err)
		}

		bar, err := parseRow(cols, data)
		if err != nil {
			s.log.Warn("dropping unparsable bar",
				slog.String("row", strings.Join(data, ",")),
				slog.String("error", err.Error()))
			continue
		}

		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	return aggregateDaily(bars), nil
}

type columnMap struct {
	time   int
	open   int
	high   int
	low    int
	close  int
	volume int
}

func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{time: -1, open: -1, high: -1, low: -1, close: -1, volume: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date", "timestamp", "time":
			cols.time = i
		case "open":
			cols.open = i
		case "high":
			cols.high = i
		case "low":
			cols.low = i
		case "close":
			cols.close = i
		case "volume":
			cols.volume = i
		}
	}

	if cols.time < 0 {
		return cols, errors.New("csv header misses a date or timestamp column")
	}

	if cols.close < 0 {
		return cols, errors.New("csv header misses a close column")
	}

	return cols, nil
}

func parseRow(cols columnMap, data []string) (market.Bar, error) {
	t, err := parseTime(data[cols.time])
	if err != nil {
		return market.Bar{}, err
	}

	closePrice, err := decimal.NewFromString(strings.TrimSpace(data[cols.close]))
	if err != nil {
		return market.Bar{}, fmt.Errorf("failed to parse close price: %w", err)
	}

	return market.Bar{
		Time:   t,
		Open:   parseOptional(cols.open, data),
		High:   parseOptional(cols.high, data),
		Low:    parseOptional(cols.low, data),
		Close:  closePrice,
		Volume: parseOptional(cols.volume, data),
	}, nil
}

func parseTime(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}

	sec, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("unsupported date format: %s", s)
	}

	return time.Unix(int64(sec), 0).UTC(), nil
}

func parseOptional(col int, data []string) decimal.Decimal {
	if col < 0 {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(strings.TrimSpace(data[col]))
	if err != nil {
		return decimal.Zero
	}

	return d
}

func aggregateDaily(bars []market.Bar) []market.Bar {
	in := make(chan market.Bar, len(bars))
	for _, b := range bars {
		in <- b
	}
	close(in)

	agg := market.DailyAggregator{}
	var daily []market.Bar
	for b := range agg.Aggregate(in) {
		daily = append(daily, b)
	}

	return daily
}
