package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gamma-omg/backtester/internal/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBarReader struct {
	bars   []market.Bar
	err    error
	symbol string
	start  time.Time
	end    time.Time
}

func (m *mockBarReader) ReadBars(_ context.Context, symbol string, start, end time.Time) ([]market.Bar, error) {
	m.symbol = symbol
	m.start = start
	m.end = end
	return m.bars, m.err
}

func TestStoreBars(t *testing.T) {
	rdr := &mockBarReader{
		bars: []market.Bar{{Time: day(2024, 3, 1), Close: decimal.NewFromInt(11)}},
	}
	src, err := NewStoreSource(rdr, "AAPL", day(2024, 3, 1), day(2024, 3, 29))
	require.NoError(t, err)

	bars, err := src.Bars(context.Background())
	require.NoError(t, err)

	assert.Equal(t, rdr.bars, bars)
	assert.Equal(t, "AAPL", rdr.symbol)
	assert.Equal(t, day(2024, 3, 1), rdr.start)
	assert.Equal(t, day(2024, 3, 29), rdr.end)
}

func TestStoreBars_readError(t *testing.T) {
	src, err := NewStoreSource(&mockBarReader{err: errors.New("some error")}, "AAPL", time.Time{}, time.Time{})
	require.NoError(t, err)

	_, err = src.Bars(context.Background())
	assert.ErrorContains(t, err, "failed to read bars for AAPL")
}

func TestNewStoreSource_requiresSymbol(t *testing.T) {
	_, err := NewStoreSource(&mockBarReader{}, "", time.Time{}, time.Time{})
	assert.ErrorContains(t, err, "symbol")
}
