package store

import (
	"time"

	"github.com/gamma-omg/backtester/internal/market"
	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dailyBar(d int, closePrice float64) market.Bar {
	return market.Bar{
		Time:   day(2024, 3, d),
		Open:   decimal.NewFromFloat(closePrice - 1),
		High:   decimal.NewFromFloat(closePrice + 2),
		Low:    decimal.NewFromFloat(closePrice - 3),
		Close:  decimal.NewFromFloat(closePrice),
		Volume: decimal.NewFromInt(1000),
	}
}
