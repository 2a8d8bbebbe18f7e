package market

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type testBar struct {
	time time.Time
	o    float64
	h    float64
	l    float64
	c    float64
	v    float64
}

func newTestBar(b Bar) testBar {
	o, _ := b.Open.Float64()
	h, _ := b.High.Float64()
	l, _ := b.Low.Float64()
	c, _ := b.Close.Float64()
	v, _ := b.Volume.Float64()
	return testBar{b.Time, o, h, l, c, v}
}

func (b *testBar) ToBar() Bar {
	return Bar{
		Time:   b.time,
		Open:   decimal.NewFromFloat(b.o),
		High:   decimal.NewFromFloat(b.h),
		Low:    decimal.NewFromFloat(b.l),
		Close:  decimal.NewFromFloat(b.c),
		Volume: decimal.NewFromFloat(b.v),
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestAggregate(t *testing.T) {
	tbl := []struct {
		in  []testBar
		out []testBar
	}{
		{
			in: []testBar{
				{time: at(2024, 3, 1, 9, 30), o: 10, h: 12, l: 9, c: 11, v: 100},
				{time: at(2024, 3, 1, 12, 0), o: 11, h: 13, l: 10, c: 12, v: 200},
				{time: at(2024, 3, 1, 16, 0), o: 12, h: 12.5, l: 8.5, c: 11.5, v: 150},
				{time: at(2024, 3, 4, 9, 30), o: 20, h: 21, l: 19, c: 20.5, v: 300},
				{time: at(2024, 3, 4, 16, 0), o: 20.5, h: 22, l: 20, c: 21, v: 100},
			},
			out: []testBar{
				{time: day(2024, 3, 1), o: 10, h: 13, l: 8.5, c: 11.5, v: 450},
				{time: day(2024, 3, 4), o: 20, h: 22, l: 19, c: 21, v: 400},
			},
		},
		{
			in: []testBar{
				{time: day(2024, 3, 1), o: 1, h: 2, l: 0.5, c: 1.5, v: 10},
				{time: day(2024, 3, 4), o: 2, h: 3, l: 1.5, c: 2.5, v: 20},
				{time: day(2024, 3, 5), o: 3, h: 4, l: 2.5, c: 3.5, v: 30},
			},
			out: []testBar{
				{time: day(2024, 3, 1), o: 1, h: 2, l: 0.5, c: 1.5, v: 10},
				{time: day(2024, 3, 4), o: 2, h: 3, l: 1.5, c: 2.5, v: 20},
				{time: day(2024, 3, 5), o: 3, h: 4, l: 2.5, c: 3.5, v: 30},
			},
		},
		{
			in: []testBar{
				{time: at(2024, 3, 1, 15, 45), o: 5, h: 6, l: 4.5, c: 5.5, v: 10},
			},
			out: []testBar{
				{time: day(2024, 3, 1), o: 5, h: 6, l: 4.5, c: 5.5, v: 10},
			},
		},
		{
			in:  []testBar{},
			out: []testBar{},
		},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			a := DailyAggregator{}
			in := make(chan Bar, len(c.in))
			for _, b := range c.in {
				in <- b.ToBar()
			}
			close(in)

			out := []testBar{}
			for b := range a.Aggregate(in) {
				out = append(out, newTestBar(b))
			}

			assert.Equal(t, c.out, out)
		})
	}
}
