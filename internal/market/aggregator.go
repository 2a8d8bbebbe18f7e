package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyAggregator folds a stream of bars into one bar per UTC calendar
// day. Bars that already carry daily granularity pass through unchanged.
type DailyAggregator struct {
}

func (a *DailyAggregator) Aggregate(bars <-chan Bar) <-chan Bar {
	res := make(chan Bar)
	go func() {
		defer close(res)

		var cur *Bar
		var day time.Time
		for b := range bars {
			d := b.Time.UTC().Truncate(24 * time.Hour)
			if cur != nil && !d.Equal(day) {
				res <- *cur
				cur = nil
			}

			if cur == nil {
				day = d
				cur = &Bar{
					Time: d,
					Open: b.Open,
					High: b.High,
					Low:  b.Low,
				}
			}

			cur.Close = b.Close
			cur.High = decimal.Max(cur.High, b.High)
			cur.Low = decimal.Min(cur.Low, b.Low)
			cur.Volume = cur.Volume.Add(b.Volume)
		}

		if cur != nil {
			res <- *cur
		}
	}()

	return res
}
