package payroll

import "folha/internal/domain/tax"

// contributionBase sums every event whose rubrica feeds the contribution
// base. Deduction-kind events with the flag reduce the base; the result never
// goes below zero.
func contributionBase(events []Event) float64 {
	base := 0.0
	for _, ev := range events {
		if !ev.Rubrica.IncContribution || ev.Rubrica.SystemDerived() {
			continue
		}
		base += ev.Earning - ev.Deduction
	}
	if base < 0 {
		return 0
	}
	return base
}

// ComputeContribution derives the capped, bracket-based social contribution.
// Base above the ceiling is ignored: the contribution is flat past it.
func ComputeContribution(events []Event, table tax.Table, ceiling float64) ContributionResult {
	base := contributionBase(events)
	capped := base
	if ceiling > 0 && capped > ceiling {
		capped = ceiling
	}
	return ContributionResult{
		Base:       base,
		CappedBase: capped,
		Amount:     table.Withholding(capped),
	}
}
