package strategy

import (
	"fmt"
	"math"

	"github.com/gamma-omg/backtester/internal/config"
	"github.com/gamma-omg/backtester/internal/market"
)

// CrossoverStrategy compares short and long trailing simple moving
// averages of the close. It holds until both windows are full, then
// buys while the short average sits above the long one and sells while
// it sits below.
type CrossoverStrategy struct {
	cfg config.Crossover
}

func NewCrossover(cfg config.Crossover) (*CrossoverStrategy, error) {
	if cfg.ShortWindow < 1 || cfg.LongWindow < 1 {
		return nil, fmt.Errorf("crossover windows must be positive, got short=%d long=%d", cfg.ShortWindow, cfg.LongWindow)
	}

	if cfg.ShortWindow >= cfg.LongWindow {
		return nil, fmt.Errorf("crossover short window %d must be below long window %d", cfg.ShortWindow, cfg.LongWindow)
	}

	return &CrossoverStrategy{cfg: cfg}, nil
}

func (s *CrossoverStrategy) Name() string {
	return fmt.Sprintf("crossover(%d,%d)", s.cfg.ShortWindow, s.cfg.LongWindow)
}

func (s *CrossoverStrategy) Signals(bars []market.Bar) []Signal {
	prices := closes(bars)
	short := rollingMean(prices, s.cfg.ShortWindow)
	long := rollingMean(prices, s.cfg.LongWindow)

	signals := make([]Signal, len(bars))
	for i := range prices {
		if math.IsNaN(short[i]) || math.IsNaN(long[i]) {
			continue
		}

		switch {
		case short[i] > long[i]:
			signals[i] = SigBuy
		case short[i] < long[i]:
			signals[i] = SigSell
		}
	}

	return signals
}
