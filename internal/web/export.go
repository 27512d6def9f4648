package web

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/yourusername/trackodds/internal/models"
	"github.com/yourusername/trackodds/internal/stats"
)

// GridCSVRow is one line of the stats export
type GridCSVRow struct {
	DriverID string `csv:"driver_id"`
	Driver   string `csv:"driver"`
	Number   string `csv:"number"`
	Team     string `csv:"team"`
	models.AggregatedStats
}

// WriteGridCSV writes the grid rows as CSV with a header line, also when
// there are no rows
func WriteGridCSV(w io.Writer, rows []stats.GridRow) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	if err := enc.EncodeHeader(GridCSVRow{}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		rec := GridCSVRow{
			DriverID:        row.Driver.ID,
			Driver:          row.Driver.Name,
			Number:          row.Driver.Number,
			Team:            row.Driver.Team,
			AggregatedStats: row.Stats,
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", row.Driver.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
