package strategy

import (
	"fmt"
	"math"

	"github.com/gamma-omg/backtester/internal/config"
	"github.com/gamma-omg/backtester/internal/market"
)

// RSIStrategy computes the relative strength index from simple rolling
// means of bar-over-bar gains and losses. Readings below the oversold
// threshold buy, readings above the overbought threshold sell.
type RSIStrategy struct {
	cfg config.RSI
}

func NewRSI(cfg config.RSI) (*RSIStrategy, error) {
	if cfg.Period < 1 {
		return nil, fmt.Errorf("rsi period must be positive, got %d", cfg.Period)
	}

	if cfg.Oversold < 0 || cfg.Overbought > 100 || cfg.Oversold >= cfg.Overbought {
		return nil, fmt.Errorf("rsi thresholds must satisfy 0 <= oversold < overbought <= 100, got oversold=%v overbought=%v",
			cfg.Oversold, cfg.Overbought)
	}

	return &RSIStrategy{cfg: cfg}, nil
}

func (s *RSIStrategy) Name() string {
	return fmt.Sprintf("rsi(%d,%v,%v)", s.cfg.Period, s.cfg.Oversold, s.cfg.Overbought)
}

func (s *RSIStrategy) Signals(bars []market.Bar) []Signal {
	prices := closes(bars)
	gains, losses := gainsLosses(prices)
	avgG := rollingMean(gains, s.cfg.Period)
	avgL := rollingMean(losses, s.cfg.Period)

	signals := make([]Signal, len(bars))
	for k := range avgG {
		if math.IsNaN(avgG[k]) {
			continue
		}

		g, l := avgG[k], avgL[k]
		if g == 0 && l == 0 {
			continue
		}

		rsi := 100.0
		if l > 0 {
			rsi = 100 - 100/(1+g/l)
		}

		// entry k describes the move into bar k+1
		i := k + 1
		switch {
		case rsi < s.cfg.Oversold:
			signals[i] = SigBuy
		case rsi > s.cfg.Overbought:
			signals[i] = SigSell
		}
	}

	return signals
}
