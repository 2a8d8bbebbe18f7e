package backtest

import (
	"math"
	"time"

	"github.com/gamma-omg/backtester/internal/market"
	"github.com/gamma-omg/backtester/internal/strategy"
	"github.com/shopspring/decimal"
)

const tradingDaysPerYear = 252

type EquityPoint struct {
	Time  time.Time
	Value float64
}

type Metrics struct {
	TotalReturn    float64
	ProfitLoss     decimal.Decimal
	SharpeRatio    float64
	MaxDrawdown    float64
	WinRate        float64
	AvgTradeReturn float64
	TradeCount     int
}

func computeMetrics(initial, final decimal.Decimal, curve []EquityPoint, trades []Trade) Metrics {
	rets := closedReturns(trades)
	totalReturn, _ := final.Sub(initial).Div(initial).Float64()

	return Metrics{
		TotalReturn:    totalReturn * 100,
		ProfitLoss:     final.Sub(initial),
		SharpeRatio:    sharpe(dailyReturns(curve)),
		MaxDrawdown:    maxDrawdown(curve),
		WinRate:        winRate(rets),
		AvgTradeReturn: mean(rets),
		TradeCount:     len(trades),
	}
}

// equityCurve replays the trade log against the full bar sequence,
// including the warmup prefix, so every bar date gets a portfolio
// value. Trades apply on their bar date in log order.
func equityCurve(initial decimal.Decimal, bars []market.Bar, trades []Trade) []EquityPoint {
	cash := initial
	var shares int64

	curve := make([]EquityPoint, len(bars))
	next := 0
	for i, bar := range bars {
		for next < len(trades) && trades[next].Time.Equal(bar.Time) {
			t := trades[next]
			switch t.Action {
			case strategy.SigBuy:
				cash = cash.Sub(t.Price.Mul(decimal.NewFromInt(t.Shares)))
				shares += t.Shares
			case strategy.SigSell:
				cash = cash.Add(t.Price.Mul(decimal.NewFromInt(t.Shares)))
				shares -= t.Shares
			}
			next++
		}

		v, _ := cash.Add(bar.Close.Mul(decimal.NewFromInt(shares))).Float64()
		curve[i] = EquityPoint{Time: bar.Time, Value: v}
	}

	return curve
}

// dailyReturns computes the percentage change between consecutive
// equity points. The first point has no prior and is dropped.
func dailyReturns(curve []EquityPoint) []float64 {
	if len(curve) < 2 {
		return nil
	}

	rets := make([]float64, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Value
		if prev == 0 {
			continue
		}

		rets[i-1] = curve[i].Value/prev - 1
	}

	return rets
}

// sharpe annualizes the mean daily return over its sample standard
// deviation. Series shorter than two entries or with zero variance
// score 0.
func sharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	m := mean(returns)
	var sq float64
	for _, r := range returns {
		d := r - m
		sq += d * d
	}

	std := math.Sqrt(sq / float64(len(returns)-1))
	if std == 0 {
		return 0
	}

	return m / std * math.Sqrt(tradingDaysPerYear)
}

// maxDrawdown returns the deepest percentage decline from a running
// peak, as a non-positive number.
func maxDrawdown(curve []EquityPoint) float64 {
	var maxDD, peak float64
	for _, p := range curve {
		if p.Value > peak {
			peak = p.Value
		}

		if peak == 0 {
			continue
		}

		dd := (p.Value - peak) / peak * 100
		if dd < maxDD {
			maxDD = dd
		}
	}

	return maxDD
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}

	var sum float64
	for _, v := range vals {
		sum += v
	}

	return sum / float64(len(vals))
}
