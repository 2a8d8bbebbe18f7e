package backtest

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gamma-omg/backtester/internal/config"
	"github.com/gamma-omg/backtester/internal/market"
	"github.com/gamma-omg/backtester/internal/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type signalGenerator interface {
	Name() string
	Signals(bars []market.Bar) []strategy.Signal
}

type Trade struct {
	Time   time.Time
	Action strategy.Signal
	Price  decimal.Decimal
	Shares int64
	Cash   decimal.Decimal
	Value  decimal.Decimal
}

type Result struct {
	RunID          uuid.UUID
	Strategy       string
	InitialCapital decimal.Decimal
	FinalValue     decimal.Decimal
	Trades         []Trade
	Equity         []EquityPoint
	Metrics        Metrics
}

// Engine replays a signal sequence over historical bars against a
// single long-only portfolio. Buys go all in on whole shares, sells
// liquidate the entire position, and everything fills at the bar close.
type Engine struct {
	log            *slog.Logger
	initialCapital decimal.Decimal
	warmupPeriod   int
}

func NewEngine(log *slog.Logger, cfg config.Backtest) (*Engine, error) {
	if cfg.InitialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive, got %v", cfg.InitialCapital)
	}

	if cfg.WarmupPeriod < 0 {
		return nil, fmt.Errorf("warmup period cannot be negative, got %d", cfg.WarmupPeriod)
	}

	return &Engine{
		log:            log,
		initialCapital: decimal.NewFromFloat(cfg.InitialCapital),
		warmupPeriod:   cfg.WarmupPeriod,
	}, nil
}

func (e *Engine) Run(s signalGenerator, bars []market.Bar) (*Result, error) {
	signals := s.Signals(bars)
	if len(signals) != len(bars) {
		return nil, fmt.Errorf("strategy %s emitted %d signals for %d bars", s.Name(), len(signals), len(bars))
	}

	pf := newPortfolio(e.initialCapital)
	var trades []Trade
	for i, bar := range bars {
		if i < e.warmupPeriod {
			continue
		}

		if signals[i] == strategy.SigBuy && pf.cash.IsPositive() {
			n, err := pf.buy(bar.Close)
			if err != nil {
				return nil, fmt.Errorf("failed to execute buy: %w", err)
			}

			if n > 0 {
				trades = append(trades, e.record(pf, bar, strategy.SigBuy, n))
			}
		}

		if signals[i] == strategy.SigSell && pf.shares > 0 {
			n, err := pf.sell(bar.Close)
			if err != nil {
				return nil, fmt.Errorf("failed to execute sell: %w", err)
			}

			trades = append(trades, e.record(pf, bar, strategy.SigSell, n))
		}
	}

	final := e.initialCapital
	if len(bars) > 0 {
		final = pf.value(bars[len(bars)-1].Close)
	}

	equity := equityCurve(e.initialCapital, bars, trades)
	return &Result{
		RunID:          uuid.New(),
		Strategy:       s.Name(),
		InitialCapital: e.initialCapital,
		FinalValue:     final,
		Trades:         trades,
		Equity:         equity,
		Metrics:        computeMetrics(e.initialCapital, final, equity, trades),
	}, nil
}

func (e *Engine) record(pf *portfolio, bar market.Bar, act strategy.Signal, shares int64) Trade {
	t := Trade{
		Time:   bar.Time,
		Action: act,
		Price:  bar.Close,
		Shares: shares,
		Cash:   pf.cash,
		Value:  pf.value(bar.Close),
	}

	e.log.Debug("executed trade",
		slog.Time("time", t.Time),
		slog.String("action", t.Action.String()),
		slog.String("price", t.Price.String()),
		slog.Int64("shares", t.Shares),
		slog.String("cash", t.Cash.String()))

	return t
}
