package report

import (
	"errors"
	"fmt"
	"os"

	"github.com/gamma-omg/backtester/internal/backtest"
	"github.com/pplcc/plotext"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// EquityPlot stacks panels that share one time axis into a single PNG.
type EquityPlot struct {
	plots   []*plot.Plot
	heights []float64
	w       int
	h       int
}

func NewEquityPlot(w, h int) *EquityPlot {
	return &EquityPlot{w: w, h: h}
}

func (d *EquityPlot) Add(p *plot.Plot, height float64) {
	d.plots = append(d.plots, p)
	d.heights = append(d.heights, height)
}

func (d *EquityPlot) Save(path string) (err error) {
	var axis []*plot.Axis
	for _, p := range d.plots {
		axis = append(axis, &p.X)
	}
	plotext.UniteAxisRanges(axis)

	tbl := plotext.Table{
		RowHeights: d.heights,
		ColWidths:  []float64{1},
	}

	var plots2d [][]*plot.Plot
	for _, p := range d.plots {
		plots2d = append(plots2d, []*plot.Plot{p})
	}

	h := 0.0
	for _, v := range d.heights {
		h += v * float64(d.h)
	}

	img := vgimg.New(vg.Points(float64(d.w)), vg.Points(float64(h)))
	dc := draw.New(img)

	canvases := tbl.Align(plots2d, dc)
	for i, p := range d.plots {
		p.Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write plot to file: %w", err)
	}

	return nil
}

// Render draws every strategy's equity curve over a shared drawdown
// panel and saves the stack as a PNG.
func Render(results []*backtest.Result, path string) error {
	equity := plot.New()
	equity.Title.Text = "Equity"
	equity.Y.Label.Text = "Value"
	equity.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}

	drawdown := plot.New()
	drawdown.Title.Text = "Drawdown"
	drawdown.Y.Label.Text = "%"
	drawdown.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}

	for i, res := range results {
		line, err := plotter.NewLine(equityPoints(res.Equity))
		if err != nil {
			return fmt.Errorf("failed to create equity graph: %w", err)
		}
		line.Color = plotutil.Color(i)
		equity.Add(line)
		equity.Legend.Add(res.Strategy, line)

		ddLine, err := plotter.NewLine(drawdownPoints(res.Equity))
		if err != nil {
			return fmt.Errorf("failed to create drawdown graph: %w", err)
		}
		ddLine.Color = plotutil.Color(i)
		drawdown.Add(ddLine)
	}

	d := NewEquityPlot(1200, 300)
	d.Add(equity, 2)
	d.Add(drawdown, 1)

	return d.Save(path)
}

func equityPoints(curve []backtest.EquityPoint) plotter.XYs {
	pts := make(plotter.XYs, len(curve))
	for i, p := range curve {
		pts[i] = plotter.XY{X: float64(p.Time.Unix()), Y: p.Value}
	}

	return pts
}

func drawdownPoints(curve []backtest.EquityPoint) plotter.XYs {
	pts := make(plotter.XYs, len(curve))
	var peak float64
	for i, p := range curve {
		if p.Value > peak {
			peak = p.Value
		}

		dd := 0.0
		if peak != 0 {
			dd = (p.Value - peak) / peak * 100
		}

		pts[i] = plotter.XY{X: float64(p.Time.Unix()), Y: dd}
	}

	return pts
}
