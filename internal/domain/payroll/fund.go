package payroll

// ComputeFund applies the flat fund rate over the fund-incident base. The
// deposit is employer-borne: it shows on the settlement for reporting but is
// never a ledger line.
func ComputeFund(events []Event, rate float64) FundResult {
	base := 0.0
	for _, ev := range events {
		if !ev.Rubrica.IncFund || ev.Rubrica.SystemDerived() {
			continue
		}
		base += ev.Earning - ev.Deduction
	}
	if base < 0 {
		base = 0
	}
	return FundResult{Base: base, Amount: base * rate}
}
