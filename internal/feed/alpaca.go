package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/gamma-omg/backtester/internal/config"
	"github.com/gamma-omg/backtester/internal/market"
	"github.com/shopspring/decimal"
)

type barsApi interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaSource loads historical daily bars for a single symbol from the
// Alpaca market data API.
type AlpacaSource struct {
	cfg config.Alpaca
	api barsApi
}

func NewAlpacaSource(cfg config.Alpaca) *AlpacaSource {
	return &AlpacaSource{
		cfg: cfg,
		api: newMarketDataClient(cfg.BaseUrl, cfg.ApiKey, cfg.Secret),
	}
}

func (s *AlpacaSource) Bars(ctx context.Context) ([]market.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	alpacaBars, err := s.api.GetBars(s.cfg.Symbol, barsRequest(s.cfg.Feed, s.cfg.Start, s.cfg.End))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bars for %s: %w", s.cfg.Symbol, err)
	}

	return toBars(alpacaBars), nil
}

func newMarketDataClient(baseUrl string, apiKey string, secret string) *marketdata.Client {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: secret,
	}
	if baseUrl != "" {
		opts.BaseURL = baseUrl
	}

	return marketdata.NewClient(opts)
}

func barsRequest(feed string, start, end time.Time) marketdata.GetBarsRequest {
	req := marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		End:       end,
		Feed:      "iex",
	}
	if feed != "" {
		req.Feed = marketdata.Feed(feed)
	}

	return req
}

func toBars(alpacaBars []marketdata.Bar) []market.Bar {
	bars := make([]market.Bar, len(alpacaBars))
	for i, ab := range alpacaBars {
		bars[i] = market.Bar{
			Time:   ab.Timestamp,
			Open:   decimal.NewFromFloat(ab.Open),
			High:   decimal.NewFromFloat(ab.High),
			Low:    decimal.NewFromFloat(ab.Low),
			Close:  decimal.NewFromFloat(ab.Close),
			Volume: decimal.NewFromInt(int64(ab.Volume)),
		}
	}

	return bars
}
