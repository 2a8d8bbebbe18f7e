package strategy

import (
	"github.com/gamma-omg/backtester/internal/market"
)

// MomentumStrategy buys when the close rises over the previous bar and
// sells when it falls. The first bar has no reference and holds.
type MomentumStrategy struct {
}

func NewMomentum() *MomentumStrategy {
	return &MomentumStrategy{}
}

func (s *MomentumStrategy) Name() string {
	return "momentum"
}

func (s *MomentumStrategy) Signals(bars []market.Bar) []Signal {
	signals := make([]Signal, len(bars))
	for i := 1; i < len(bars); i++ {
		switch bars[i].Close.Cmp(bars[i-1].Close) {
		case 1:
			signals[i] = SigBuy
		case -1:
			signals[i] = SigSell
		}
	}

	return signals
}
