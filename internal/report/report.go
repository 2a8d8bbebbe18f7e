package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/gamma-omg/backtester/internal/backtest"
)

type JsonReportBuilder struct {
	log    *slog.Logger
	report JsonReport
	mu     sync.Mutex
}

type JsonReport struct {
	Results []JsonResult `json:"results,omitempty"`
}

type JsonResult struct {
	RunID             string      `json:"run_id,omitempty"`
	Strategy          string      `json:"strategy,omitempty"`
	InitialCapital    string      `json:"initial_capital,omitempty"`
	FinalValue        string      `json:"final_value,omitempty"`
	TotalReturnPct    float64     `json:"total_return_pct,omitempty"`
	ProfitLoss        string      `json:"profit_loss,omitempty"`
	SharpeRatio       float64     `json:"sharpe_ratio,omitempty"`
	MaxDrawdownPct    float64     `json:"max_drawdown_pct,omitempty"`
	WinRatePct        float64     `json:"win_rate_pct,omitempty"`
	AvgTradeReturnPct float64     `json:"avg_trade_return_pct,omitempty"`
	TradeCount        int         `json:"trade_count,omitempty"`
	Trades            []JsonTrade `json:"trades,omitempty"`
}

type JsonTrade struct {
	Date   string `json:"date,omitempty"`
	Action string `json:"action,omitempty"`
	Price  string `json:"price,omitempty"`
	Shares int64  `json:"shares,omitempty"`
	Cash   string `json:"cash,omitempty"`
	Value  string `json:"value,omitempty"`
}

func NewJsonReportBuilder(log *slog.Logger) *JsonReportBuilder {
	return &JsonReportBuilder{log: log}
}

func (r *JsonReportBuilder) SubmitResult(res *backtest.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	jr := JsonResult{
		RunID:             res.RunID.String(),
		Strategy:          res.Strategy,
		InitialCapital:    res.InitialCapital.String(),
		FinalValue:        res.FinalValue.String(),
		TotalReturnPct:    res.Metrics.TotalReturn,
		SharpeRatio:       res.Metrics.SharpeRatio,
		MaxDrawdownPct:    res.Metrics.MaxDrawdown,
		WinRatePct:        res.Metrics.WinRate,
		AvgTradeReturnPct: res.Metrics.AvgTradeReturn,
		TradeCount:        res.Metrics.TradeCount,
	}
	if !res.Metrics.ProfitLoss.IsZero() {
		jr.ProfitLoss = res.Metrics.ProfitLoss.String()
	}

	for _, t := range res.Trades {
		jr.Trades = append(jr.Trades, JsonTrade{
			Date:   t.Time.Format("2006-01-02"),
			Action: t.Action.String(),
			Price:  t.Price.String(),
			Shares: t.Shares,
			Cash:   t.Cash.String(),
			Value:  t.Value.String(),
		})
	}

	r.report.Results = append(r.report.Results, jr)

	r.log.Info("backtest complete",
		slog.String("strategy", res.Strategy),
		slog.Float64("total_return_pct", res.Metrics.TotalReturn),
		slog.Float64("sharpe_ratio", res.Metrics.SharpeRatio),
		slog.Int("trades", res.Metrics.TradeCount))
}

func (r *JsonReportBuilder) Write(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := json.NewEncoder(w)
	if err := e.Encode(r.report); err != nil {
		return fmt.Errorf("failed to write backtest report: %w", err)
	}

	return nil
}

func (r *JsonReportBuilder) WriteToFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	return r.Write(f)
}
