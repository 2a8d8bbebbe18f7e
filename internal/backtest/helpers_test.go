package backtest

import (
	"time"

	"github.com/gamma-omg/backtester/internal/market"
	"github.com/shopspring/decimal"
)

func closeBars(closes ...float64) []market.Bar {
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Time:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Close: decimal.NewFromFloat(c),
		}
	}

	return bars
}
