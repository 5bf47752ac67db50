// Package margin computes the combined bookmaker margin of a three-way market
// from the best decimal odds of each outcome.
package margin

import (
	"github.com/shopspring/decimal"

	"github.com/XavierBriggs/oddsboard/pkg/models"
)

// Places is the number of decimals a margin is displayed with
const Places = 3

// Compute returns 100 × (1 − (1/home + 1/draw + 1/away)).
// ok is false unless all three odds are positive finite numbers.
func Compute(home, draw, away models.Odd) (float64, bool) {
	h, ok := home.Value()
	if !ok {
		return 0, false
	}
	d, ok := draw.Value()
	if !ok {
		return 0, false
	}
	a, ok := away.Value()
	if !ok {
		return 0, false
	}

	return FromValues(h, d, a), true
}

// FromValues applies the margin formula to already validated odds
func FromValues(h, d, a float64) float64 {
	implied := 1/h + 1/d + 1/a
	return 100 * (1 - implied)
}

// Format renders a margin with exactly three decimals, rounding half away from zero
func Format(m float64) string {
	return decimal.NewFromFloat(m).StringFixed(Places) + "%"
}

// ColorFor maps the sign of a margin to its display color.
// Only a strictly positive margin is green.
func ColorFor(m float64) models.Color {
	if m > 0 {
		return models.ColorGreen
	}
	return models.ColorRed
}

// Cell builds the margin cell of a match row
func Cell(match models.MatchOdds) models.MarginCell {
	m, ok := Compute(match.BestHome.Odd, match.BestDraw.Odd, match.BestAway.Odd)
	if !ok {
		return models.MarginCell{Text: models.Placeholder, Missing: true}
	}

	return models.MarginCell{
		Text:  Format(m),
		Value: &m,
		Color: ColorFor(m),
	}
}
