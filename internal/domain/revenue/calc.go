// Package revenue computes the simplified revenue-tax regime: an effective
// rate derived from the trailing-12-period revenue bracket, applied to the
// current period's revenue.
package revenue

import (
	"errors"

	"folha/internal/domain/tax"
)

var (
	ErrNoApplicableRevenue = errors.New("no applicable revenue in current period")
	ErrUnknownCategory     = errors.New("unknown revenue category")
	ErrNegativeRevenue     = errors.New("revenue must not be negative")
)

type Input struct {
	Category        tax.RevenueCategory `json:"category"`
	CurrentRevenue  float64             `json:"currentRevenue"`
	TrailingRevenue float64             `json:"trailingRevenue"`
}

type Result struct {
	Category      tax.RevenueCategory `json:"category"`
	NominalRate   float64             `json:"nominalRate"`
	Deduction     float64             `json:"deduction"`
	EffectiveRate float64             `json:"effectiveRate"`
	Tax           float64             `json:"tax"`
}

// Calculate resolves the bracket on trailing revenue and taxes the current
// period at the derived effective rate. Zero current revenue is reported as
// ErrNoApplicableRevenue to keep "nothing to tax" distinct from a computed
// zero. Zero trailing revenue falls back to the nominal rate.
func Calculate(in Input, tables tax.TableSet) (Result, error) {
	if in.CurrentRevenue < 0 || in.TrailingRevenue < 0 {
		return Result{}, ErrNegativeRevenue
	}
	table, ok := tables.Revenue[in.Category]
	if !ok {
		return Result{}, ErrUnknownCategory
	}
	if in.CurrentRevenue == 0 {
		return Result{}, ErrNoApplicableRevenue
	}

	bracket := table.Resolve(in.TrailingRevenue)
	effective := table.EffectiveRate(in.TrailingRevenue)
	amount := in.CurrentRevenue * effective
	if amount < 0 {
		amount = 0
	}
	return Result{
		Category:      in.Category,
		NominalRate:   bracket.Rate,
		Deduction:     bracket.Deduction,
		EffectiveRate: effective,
		Tax:           amount,
	}, nil
}
