package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gamma-omg/backtester/internal/market"
)

type barReader interface {
	ReadBars(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error)
}

// StoreSource reads one symbol's daily bars back from a bar store. Zero
// start or end times leave that side of the range unbounded.
type StoreSource struct {
	store  barReader
	symbol string
	start  time.Time
	end    time.Time
}

func NewStoreSource(store barReader, symbol string, start, end time.Time) (*StoreSource, error) {
	if symbol == "" {
		return nil, errors.New("store source requires a symbol")
	}

	return &StoreSource{
		store:  store,
		symbol: symbol,
		start:  start,
		end:    end,
	}, nil
}

func (s *StoreSource) Bars(ctx context.Context) ([]market.Bar, error) {
	bars, err := s.store.ReadBars(ctx, s.symbol, s.start, s.end)
	if err != nil {
		return nil, fmt.Errorf("failed to read bars for %s: %w", s.symbol, err)
	}

	return bars, nil
}
