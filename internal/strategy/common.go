package strategy

import (
	"math"

	"github.com/gamma-omg/backtester/internal/market"
)

func closes(bars []market.Bar) []float64 {
	prices := make([]float64, len(bars))
	for i, b := range bars {
		prices[i], _ = b.Close.Float64()
	}

	return prices
}

// rollingMean computes the trailing simple mean over a window of period
// values ending at each index. Positions where the window is not yet
// full are NaN.
func rollingMean(data []float64, period int) []float64 {
	res := make([]float64, len(data))
	var sum float64
	for i, v := range data {
		sum += v
		if i >= period {
			sum -= data[i-period]
		}

		if i >= period-1 {
			res[i] = sum / float64(period)
		} else {
			res[i] = math.NaN()
		}
	}

	return res
}

// gainsLosses splits bar-over-bar close changes into gain and loss
// series. Both have one element less than the input, entry k describing
// the move from bar k to bar k+1.
func gainsLosses(prices []float64) (gains, losses []float64) {
	if len(prices) < 2 {
		return []float64{}, []float64{}
	}

	gains = make([]float64, len(prices)-1)
	losses = make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		diff := prices[i] - prices[i-1]
		if diff > 0 {
			gains[i-1] = diff
		} else {
			losses[i-1] = -diff
		}
	}

	return gains, losses
}
