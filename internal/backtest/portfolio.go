package backtest

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// portfolio tracks the cash and share holdings of a single run. Trades
// settle at the bar close with no fees, so cash never goes negative and
// shares stay whole.
type portfolio struct {
	cash   decimal.Decimal
	shares int64
}

func newPortfolio(cash decimal.Decimal) *portfolio {
	return &portfolio{cash: cash}
}

// buy converts as much cash as possible into whole shares at the given
// price. It returns the number of shares bought, zero when not even one
// share is affordable.
func (p *portfolio) buy(price decimal.Decimal) (int64, error) {
	if !price.IsPositive() {
		return 0, fmt.Errorf("invalid price: %s", price)
	}

	q, r := p.cash.QuoRem(price, 0)
	n := q.IntPart()
	if n < 1 {
		return 0, nil
	}

	p.cash = r
	p.shares += n
	return n, nil
}

// sell liquidates the entire position at the given price and returns
// the number of shares sold.
func (p *portfolio) sell(price decimal.Decimal) (int64, error) {
	if !price.IsPositive() {
		return 0, fmt.Errorf("invalid price: %s", price)
	}

	n := p.shares
	p.cash = p.cash.Add(price.Mul(decimal.NewFromInt(n)))
	p.shares = 0
	return n, nil
}

func (p *portfolio) value(price decimal.Decimal) decimal.Decimal {
	return p.cash.Add(price.Mul(decimal.NewFromInt(p.shares)))
}
