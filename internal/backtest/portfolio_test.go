package backtest

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioBuy(t *testing.T) {
	p := newPortfolio(decimal.NewFromInt(1000))

	n, err := p.buy(decimal.NewFromInt(102))
	require.NoError(t, err)

	assert.Equal(t, int64(9), n)
	assert.Equal(t, int64(9), p.shares)
	assert.True(t, p.cash.Equal(decimal.NewFromInt(82)))
}

func TestPortfolioBuy_insufficientCash(t *testing.T) {
	p := newPortfolio(decimal.NewFromInt(50))

	n, err := p.buy(decimal.NewFromInt(102))
	require.NoError(t, err)

	assert.Equal(t, int64(0), n)
	assert.Equal(t, int64(0), p.shares)
	assert.True(t, p.cash.Equal(decimal.NewFromInt(50)))
}

func TestPortfolioBuy_accumulates(t *testing.T) {
	p := newPortfolio(decimal.NewFromInt(100))

	n, err := p.buy(decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = p.buy(decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	assert.Equal(t, int64(8), p.shares)
	assert.True(t, p.cash.Equal(decimal.Zero))
}

func TestPortfolioBuy_fractionalPrice(t *testing.T) {
	p := newPortfolio(decimal.NewFromInt(10))

	n, err := p.buy(decimal.NewFromFloat(3.33))
	require.NoError(t, err)

	assert.Equal(t, int64(3), n)
	assert.True(t, p.cash.Equal(decimal.NewFromFloat(0.01)))
}

func TestPortfolioBuy_invalidPrice(t *testing.T) {
	p := newPortfolio(decimal.NewFromInt(100))

	_, err := p.buy(decimal.Zero)
	assert.Error(t, err)

	_, err = p.buy(decimal.NewFromInt(-5))
	assert.Error(t, err)
}

func TestPortfolioSell(t *testing.T) {
	p := newPortfolio(decimal.NewFromInt(1000))
	_, err := p.buy(decimal.NewFromInt(102))
	require.NoError(t, err)

	n, err := p.sell(decimal.NewFromInt(105))
	require.NoError(t, err)

	assert.Equal(t, int64(9), n)
	assert.Equal(t, int64(0), p.shares)
	assert.True(t, p.cash.Equal(decimal.NewFromInt(1027)))
}

func TestPortfolioSell_withoutShares(t *testing.T) {
	p := newPortfolio(decimal.NewFromInt(100))

	n, err := p.sell(decimal.NewFromInt(10))
	require.NoError(t, err)

	assert.Equal(t, int64(0), n)
	assert.True(t, p.cash.Equal(decimal.NewFromInt(100)))
}

func TestPortfolioValue(t *testing.T) {
	p := newPortfolio(decimal.NewFromInt(1000))
	_, err := p.buy(decimal.NewFromInt(100))
	require.NoError(t, err)

	assert.True(t, p.value(decimal.NewFromInt(110)).Equal(decimal.NewFromInt(1100)))
}
