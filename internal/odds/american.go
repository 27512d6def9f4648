// Package odds implements American odds arithmetic used across the board and profile pages.
package odds

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yourusername/trackodds/internal/models"
)

// NotAvailable is the display text for the no-odds sentinel
const NotAvailable = "N/A"

// Validate reports whether o is a usable American odds value.
// 0 is the no-odds sentinel; values strictly between -100 and +100 do not exist.
func Validate(o int) error {
	if o == 0 {
		return models.ErrNoOdds
	}
	if o > -100 && o < 100 {
		return fmt.Errorf("%w: %d", models.ErrInvalidOdds, o)
	}
	return nil
}

// Format renders American odds with an explicit sign: "+450", "-110"
func Format(o int) string {
	if o == 0 {
		return NotAvailable
	}
	if o > 0 {
		return "+" + strconv.Itoa(o)
	}
	return strconv.Itoa(o)
}

// Parse reads a display string back into American odds
func Parse(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "", NotAvailable, "0":
		return 0, models.ErrNoOdds
	case "EVEN", "EV":
		return 100, nil
	}

	digits := s
	if strings.HasPrefix(digits, "+") {
		digits = digits[1:]
		if strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
			return 0, fmt.Errorf("%w: %q", models.ErrInvalidOdds, s)
		}
	}

	o, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", models.ErrInvalidOdds, s)
	}
	if err := Validate(o); err != nil {
		return 0, err
	}
	return o, nil
}

// ImpliedProbability converts American odds to the break-even win probability in [0, 1]
func ImpliedProbability(o int) (float64, error) {
	if err := Validate(o); err != nil {
		return 0, err
	}
	if o > 0 {
		return 100 / float64(o+100), nil
	}
	abs := float64(-o)
	return abs / (abs + 100), nil
}

// FormatImpliedProbability renders the implied probability as "18.2%".
// The sentinel and invalid values render as N/A.
func FormatImpliedProbability(o int) string {
	p, err := ImpliedProbability(o)
	if err != nil {
		return NotAvailable
	}
	return strconv.FormatFloat(p*100, 'f', 1, 64) + "%"
}

// ToDecimal converts American odds to decimal odds (+150 → 2.50, -150 → 1.67)
func ToDecimal(o int) (float64, error) {
	if err := Validate(o); err != nil {
		return 0, err
	}
	if o > 0 {
		return float64(o)/100 + 1, nil
	}
	return 100/float64(-o) + 1, nil
}

// Payout returns the profit on stake at odds o, excluding the stake itself
func Payout(o int, stake decimal.Decimal) (decimal.Decimal, error) {
	if err := Validate(o); err != nil {
		return decimal.Zero, err
	}
	hundred := decimal.NewFromInt(100)
	if o > 0 {
		return stake.Mul(decimal.NewFromInt(int64(o))).Div(hundred), nil
	}
	return stake.Mul(hundred).Div(decimal.NewFromInt(int64(-o))), nil
}

// FormatCurrency renders an amount as US dollars: "$1,234.50"
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}

// Edge returns the percentage edge of a true probability estimate over the
// probability implied by o
func Edge(o int, trueProb float64) (float64, error) {
	implied, err := ImpliedProbability(o)
	if err != nil {
		return 0, err
	}
	return (trueProb - implied) / implied * 100, nil
}
