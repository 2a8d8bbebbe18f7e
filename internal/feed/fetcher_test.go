package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/gamma-omg/backtester/internal/config"
	"github.com/gamma-omg/backtester/internal/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBarStore struct {
	bars map[string][]market.Bar
	err  error
}

func (m *mockBarStore) WriteBars(_ context.Context, symbol string, bars []market.Bar) error {
	if m.err != nil {
		return m.err
	}

	if m.bars == nil {
		m.bars = make(map[string][]market.Bar)
	}
	m.bars[symbol] = bars
	return nil
}

func TestFetcherRun(t *testing.T) {
	var gotSymbols []string
	var gotReq marketdata.GetBarsRequest

	dataDir := t.TempDir()
	st := &mockBarStore{}
	f := Fetcher{
		log: slog.New(slog.DiscardHandler),
		cfg: config.Fetch{
			Symbols: []string{"aapl", "MSFT"},
			Start:   day(2024, 3, 1),
			End:     day(2024, 3, 29),
			DataDir: dataDir,
		},
		api: &mockBarsApi{
			getMultiBars: func(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error) {
				gotSymbols = symbols
				gotReq = req
				return map[string][]marketdata.Bar{
					"AAPL": {{Timestamp: day(2024, 3, 1), Open: 10, High: 12, Low: 9, Close: 11, Volume: 100}},
					"MSFT": {{Timestamp: day(2024, 3, 1), Open: 20, High: 22, Low: 19, Close: 21, Volume: 200}},
				}, nil
			},
		},
		store: st,
	}

	require.NoError(t, f.Run(context.Background()))

	assert.Equal(t, []string{"aapl", "MSFT"}, gotSymbols)
	assert.Equal(t, marketdata.OneDay, gotReq.TimeFrame)
	assert.Equal(t, day(2024, 3, 1), gotReq.Start)
	assert.Equal(t, day(2024, 3, 29), gotReq.End)

	require.Len(t, st.bars["AAPL"], 1)
	require.Len(t, st.bars["MSFT"], 1)
	assert.Equal(t, decimal.NewFromInt(11), st.bars["AAPL"][0].Close)
	assert.Equal(t, decimal.NewFromInt(21), st.bars["MSFT"][0].Close)

	name := fmt.Sprintf("AAPL_%s.csv", time.Now().UTC().Format("20060102"))
	data, err := os.ReadFile(filepath.Join(dataDir, name))
	require.NoError(t, err)
	assert.Equal(t, string(data), `date,open,high,low,close,volume
2024-03-01,10,12,9,11,100
`)
}

func TestFetcherRun_skipsSymbolWithoutBars(t *testing.T) {
	st := &mockBarStore{}
	f := Fetcher{
		log: slog.New(slog.DiscardHandler),
		cfg: config.Fetch{Symbols: []string{"AAPL", "TSLA"}},
		api: &mockBarsApi{
			getMultiBars: func(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error) {
				return map[string][]marketdata.Bar{
					"AAPL": {{Timestamp: day(2024, 3, 1), Close: 11}},
				}, nil
			},
		},
		store: st,
	}

	require.NoError(t, f.Run(context.Background()))
	require.Len(t, st.bars, 1)
	assert.Len(t, st.bars["AAPL"], 1)
}

func TestFetcherRun_apiError(t *testing.T) {
	f := Fetcher{
		log: slog.New(slog.DiscardHandler),
		cfg: config.Fetch{Symbols: []string{"AAPL"}},
		api: &mockBarsApi{
			getMultiBars: func(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error) {
				return nil, errors.New("some error")
			},
		},
		store: &mockBarStore{},
	}

	err := f.Run(context.Background())
	assert.ErrorContains(t, err, "failed to fetch bars")
}

func TestFetcherRun_storeError(t *testing.T) {
	f := Fetcher{
		log: slog.New(slog.DiscardHandler),
		cfg: config.Fetch{Symbols: []string{"AAPL"}},
		api: &mockBarsApi{
			getMultiBars: func(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error) {
				return map[string][]marketdata.Bar{
					"AAPL": {{Timestamp: day(2024, 3, 1), Close: 11}},
				}, nil
			},
		},
		store: &mockBarStore{err: errors.New("some error")},
	}

	err := f.Run(context.Background())
	assert.ErrorContains(t, err, "failed to store bars for AAPL")
}

func TestFetcherRun_skipsDumpWithoutDataDir(t *testing.T) {
	st := &mockBarStore{}
	f := Fetcher{
		log: slog.New(slog.DiscardHandler),
		cfg: config.Fetch{Symbols: []string{"AAPL"}},
		api: &mockBarsApi{
			getMultiBars: func(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error) {
				return map[string][]marketdata.Bar{
					"AAPL": {{Timestamp: day(2024, 3, 1), Close: 11}},
				}, nil
			},
		},
		store: st,
	}

	require.NoError(t, f.Run(context.Background()))
	assert.Len(t, st.bars["AAPL"], 1)
}

func TestFetcherRun_cancelledContext(t *testing.T) {
	called := false
	f := Fetcher{
		log: slog.New(slog.DiscardHandler),
		cfg: config.Fetch{Symbols: []string{"AAPL"}},
		api: &mockBarsApi{
			getMultiBars: func(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error) {
				called = true
				return nil, nil
			},
		},
		store: &mockBarStore{},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
