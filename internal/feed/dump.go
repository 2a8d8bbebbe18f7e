package feed

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gamma-omg/backtester/internal/market"
)

type csvBarsDump struct {
	w           *csv.Writer
	writeHeader bool
}

func newCsvBarsDump(w io.Writer) *csvBarsDump {
	return &csvBarsDump{csv.NewWriter(w), true}
}

// Dump appends one daily bar in the layout CSVSource reads back.
func (d *csvBarsDump) Dump(bar market.Bar) error {
	if d.writeHeader {
		if err := d.w.Write([]string{"date", "open", "high", "low", "close", "volume"}); err != nil {
			return fmt.Errorf("failed to write bars dump csv header: %w", err)
		}
		d.writeHeader = false
	}

	err := d.w.Write([]string{
		bar.Time.UTC().Format("2006-01-02"),
		bar.Open.String(),
		bar.High.String(),
		bar.Low.String(),
		bar.Close.String(),
		bar.Volume.String()})

	if err != nil {
		return fmt.Errorf("failed to dump bar: %w", err)
	}

	d.w.Flush()
	return d.w.Error()
}
