package payroll

import (
	"folha/internal/domain/subject"
	"folha/internal/domain/tax"
)

func withholdingBase(events []Event) float64 {
	base := 0.0
	for _, ev := range events {
		if !ev.Rubrica.IncWithholding || ev.Rubrica.SystemDerived() {
			continue
		}
		base += ev.Earning - ev.Deduction
	}
	return base
}

// ComputeWithholding derives the income withholding from the flagged events
// net of the contribution already paid and of the per-dependent allowance.
// Must run after ComputeContribution: its base subtracts that result.
func ComputeWithholding(events []Event, contribution float64, dependents []subject.Dependent, table tax.Table, allowance float64) WithholdingResult {
	eligible := 0
	for _, dep := range dependents {
		if dep.WithholdingEligible {
			eligible++
		}
	}

	base := withholdingBase(events) - contribution - float64(eligible)*allowance
	if base < 0 {
		base = 0
	}
	return WithholdingResult{
		Base:   base,
		Amount: table.Withholding(base),
	}
}
