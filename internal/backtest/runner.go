package backtest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gamma-omg/backtester/internal/config"
	"github.com/gamma-omg/backtester/internal/market"
	"github.com/gamma-omg/backtester/internal/strategy"
	"golang.org/x/sync/errgroup"
)

type barSource interface {
	Bars(ctx context.Context) ([]market.Bar, error)
}

// Runner evaluates every configured strategy over the same bar
// sequence. Runs share nothing but the immutable bars, so they proceed
// in parallel.
type Runner struct {
	log  *slog.Logger
	cfg  *config.Config
	bars barSource
}

func NewRunner(log *slog.Logger, cfg *config.Config, bars barSource) *Runner {
	return &Runner{
		log:  log,
		cfg:  cfg,
		bars: bars,
	}
}

func createStrategy(ref config.StrategyReference) (signalGenerator, error) {
	_, ok := ref.Strategy.(config.Momentum)
	if ok {
		return strategy.NewMomentum(), nil
	}

	crossover, ok := ref.Strategy.(config.Crossover)
	if ok {
		return strategy.NewCrossover(crossover)
	}

	rsi, ok := ref.Strategy.(config.RSI)
	if ok {
		return strategy.NewRSI(rsi)
	}

	return nil, fmt.Errorf("unknown strategy: %v", ref)
}

func (r *Runner) Run(ctx context.Context) ([]*Result, error) {
	bars, err := r.bars.Bars(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bars: %w", err)
	}

	r.log.Info("loaded market data", slog.Int("bars", len(bars)))

	results := make([]*Result, len(r.cfg.Strategies))
	var g errgroup.Group
	for i, ref := range r.cfg.Strategies {
		g.Go(func() error {
			s, err := createStrategy(ref)
			if err != nil {
				return fmt.Errorf("failed to create strategy: %w", err)
			}

			eng, err := NewEngine(r.log, r.cfg.Backtest)
			if err != nil {
				return fmt.Errorf("failed to create engine: %w", err)
			}

			res, err := eng.Run(s, bars)
			if err != nil {
				return fmt.Errorf("failed to run strategy %s: %w", s.Name(), err)
			}

			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
