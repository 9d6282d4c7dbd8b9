package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/penwyp/go-breathfree/internal/core/constants"
)

// MinUnitLifetimeDays guards the daily cost against division by zero.
const MinUnitLifetimeDays = 0.1

// DefaultUnitLifetimeDays is the starting value offered by the setup prompt.
const DefaultUnitLifetimeDays = 4

var ErrInvalidFinancial = errors.New("invalid financial model")

// FinancialModel describes what the habit used to cost.
type FinancialModel struct {
	UnitCost         float64 `json:"costPerUnit"`
	UnitLifetimeDays float64 `json:"daysPerUnit"`
	CurrencySymbol   string  `json:"currencySymbol"`
}

// ParseFinancialModel validates user input. Cost must be non-negative and
// the lifetime positive.
func ParseFinancialModel(cost, lifetimeDays, symbol string) (*FinancialModel, error) {
	c, err := decimal.NewFromString(strings.TrimSpace(cost))
	if err != nil {
		return nil, fmt.Errorf("%w: cost %q is not a number", ErrInvalidFinancial, cost)
	}
	if c.IsNegative() {
		return nil, fmt.Errorf("%w: cost cannot be negative", ErrInvalidFinancial)
	}

	d, err := decimal.NewFromString(strings.TrimSpace(lifetimeDays))
	if err != nil {
		return nil, fmt.Errorf("%w: days per unit %q is not a number", ErrInvalidFinancial, lifetimeDays)
	}
	if !d.IsPositive() {
		return nil, fmt.Errorf("%w: days per unit must be positive", ErrInvalidFinancial)
	}

	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = "$"
	}

	return &FinancialModel{
		UnitCost:         c.Round(2).InexactFloat64(),
		UnitLifetimeDays: d.InexactFloat64(),
		CurrencySymbol:   symbol,
	}, nil
}

// DailyCost is unitCost / max(unitLifetimeDays, 0.1). A nil model costs 0.
func (f *FinancialModel) DailyCost() float64 {
	if f == nil {
		return 0
	}
	return f.UnitCost / math.Max(f.UnitLifetimeDays, MinUnitLifetimeDays)
}

// Symbol returns the currency symbol, defaulting to "$".
func (f *FinancialModel) Symbol() string {
	if f == nil || f.CurrencySymbol == "" {
		return "$"
	}
	return f.CurrencySymbol
}

// Period is a savings simulation horizon.
type Period string

const (
	PeriodDays   Period = "days"
	PeriodWeeks  Period = "weeks"
	PeriodMonths Period = "months"
	PeriodYears  Period = "years"
)

// ParsePeriod accepts singular or plural period names.
func ParsePeriod(s string) (Period, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s") {
	case "day":
		return PeriodDays, nil
	case "week":
		return PeriodWeeks, nil
	case "month":
		return PeriodMonths, nil
	case "year":
		return PeriodYears, nil
	default:
		return "", fmt.Errorf("unknown period %q (use days, weeks, months or years)", s)
	}
}

// Days converts n periods into days.
func (p Period) Days(n float64) float64 {
	switch p {
	case PeriodWeeks:
		return n * constants.DaysPerWeek
	case PeriodMonths:
		return n * constants.DaysPerMonth
	case PeriodYears:
		return n * constants.DaysPerYear
	default:
		return n
	}
}

// Simulate projects savings for n periods of abstinence.
func (f *FinancialModel) Simulate(p Period, n float64) float64 {
	if n <= 0 {
		return 0
	}
	return p.Days(n) * f.DailyCost()
}

// DaysToGoal is ceil(goal / dailyCost). It reports false when the goal is
// not reachable (no model, zero cost, or a non-positive goal).
func (f *FinancialModel) DaysToGoal(goal float64) (int, bool) {
	daily := f.DailyCost()
	if daily <= 0 || goal <= 0 {
		return 0, false
	}
	return int(math.Ceil(goal / daily)), true
}
