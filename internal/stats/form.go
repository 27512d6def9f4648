package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/yourusername/trackodds/internal/models"
)

// FormStatus classifies a driver's last three races
type FormStatus string

const (
	FormHot     FormStatus = "hot"
	FormWarm    FormStatus = "warm"
	FormCold    FormStatus = "cold"
	FormNeutral FormStatus = "neutral"
)

// Form is the badge shown next to a driver
type Form struct {
	Status FormStatus
	Label  string
}

// Momentum is the trend of finishing positions over recent races
type Momentum string

const (
	MomentumImproving Momentum = "improving"
	MomentumDeclining Momentum = "declining"
	MomentumNeutral   Momentum = "neutral"
)

const (
	formWindow        = 3
	momentumWindow    = 10
	momentumThreshold = 2.0
	coldAverage       = 25.0
)

// SortNewestFirst returns a copy of results ordered by race date, newest first
func SortNewestFirst(results []models.RaceResult) []models.RaceResult {
	out := make([]models.RaceResult, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// ComputeForm classifies the three most recent races. results must be newest first.
// It returns nil with fewer than three races.
func ComputeForm(results []models.RaceResult) *Form {
	if len(results) < formWindow {
		return nil
	}

	last := results[:formWindow]
	top5, top10, total := 0, 0, 0
	for i := range last {
		total += last[i].FinishPos
		if last[i].IsTop5() {
			top5++
		}
		if last[i].IsTop10() {
			top10++
		}
	}
	avg := float64(total) / formWindow

	switch {
	case top5 >= 2:
		return &Form{Status: FormHot, Label: fmt.Sprintf("Top 5 in %d/%d", top5, formWindow)}
	case top10 >= 2:
		return &Form{Status: FormWarm, Label: fmt.Sprintf("Top 10 in %d/%d", top10, formWindow)}
	case avg > coldAverage:
		return &Form{Status: FormCold, Label: fmt.Sprintf("Avg %s last %d", Ordinal(int(math.Round(avg))), formWindow)}
	default:
		return &Form{Status: FormNeutral, Label: fmt.Sprintf("Avg %s last %d", Ordinal(int(math.Round(avg))), formWindow)}
	}
}

// LastN returns up to n of the most recent results in chronological order.
// results must be newest first.
func LastN(results []models.RaceResult, n int) []models.RaceResult {
	if len(results) > n {
		results = results[:n]
	}
	out := make([]models.RaceResult, len(results))
	for i, r := range results {
		out[len(results)-1-i] = r
	}
	return out
}

// ComputeMomentum compares the older and newer halves of the last ten races.
// results must be newest first.
func ComputeMomentum(results []models.RaceResult) Momentum {
	chrono := LastN(results, momentumWindow)
	if len(chrono) < formWindow {
		return MomentumNeutral
	}

	mid := len(chrono) / 2
	firstAvg := averageFinish(chrono[:mid])
	secondAvg := averageFinish(chrono[mid:])

	switch {
	case secondAvg < firstAvg-momentumThreshold:
		return MomentumImproving
	case secondAvg > firstAvg+momentumThreshold:
		return MomentumDeclining
	default:
		return MomentumNeutral
	}
}

// LastNAverage is the mean finish of the n most recent results. results must be newest first.
func LastNAverage(results []models.RaceResult, n int) float64 {
	if len(results) > n {
		results = results[:n]
	}
	return averageFinish(results)
}

func averageFinish(results []models.RaceResult) float64 {
	if len(results) == 0 {
		return 0
	}
	total := 0
	for i := range results {
		total += results[i].FinishPos
	}
	return float64(total) / float64(len(results))
}

// Ordinal renders 1 as "1st", 22 as "22nd", 13 as "13th"
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
