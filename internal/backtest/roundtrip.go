package backtest

import (
	"github.com/gamma-omg/backtester/internal/strategy"
	"github.com/shopspring/decimal"
)

// closedReturns pairs buys with the sell that liquidates them and
// yields one percentage return per round trip. Consecutive buys merge
// into a weighted average cost basis. A position still open after the
// last trade is not counted.
func closedReturns(trades []Trade) []float64 {
	var rets []float64
	var shares int64
	cost := decimal.Zero

	for _, t := range trades {
		switch t.Action {
		case strategy.SigBuy:
			cost = cost.Add(t.Price.Mul(decimal.NewFromInt(t.Shares)))
			shares += t.Shares
		case strategy.SigSell:
			if shares == 0 {
				continue
			}

			avg := cost.Div(decimal.NewFromInt(shares))
			ret, _ := t.Price.Sub(avg).Div(avg).Float64()
			rets = append(rets, ret*100)
			shares = 0
			cost = decimal.Zero
		}
	}

	return rets
}

// winRate is the share of closed round trips with a positive return,
// as a percentage. An empty log scores 0.
func winRate(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	wins := 0
	for _, r := range returns {
		if r > 0 {
			wins++
		}
	}

	return float64(wins) / float64(len(returns)) * 100
}
