package odds

import (
	"math"
	"strconv"

	"github.com/yourusername/trackodds/internal/models"
)

// ComputeMovement describes the move from an opening quote to the current one
func ComputeMovement(open, current int) models.OddsMovement {
	change := current - open
	m := models.OddsMovement{
		Open:      open,
		Current:   current,
		Change:    change,
		Direction: models.MovementStable,
	}

	switch {
	case change > 0:
		m.Direction = models.MovementUp
	case change < 0:
		m.Direction = models.MovementDown
	}

	if open != 0 {
		m.PercentChange = math.Round(float64(change)/math.Abs(float64(open))*1000) / 10
	}
	return m
}

// FormatMovement renders a change as "↑ 50", "↓ 50" or "—"
func FormatMovement(change int) string {
	switch {
	case change > 0:
		return "↑ " + strconv.Itoa(change)
	case change < 0:
		return "↓ " + strconv.Itoa(-change)
	default:
		return "—"
	}
}
