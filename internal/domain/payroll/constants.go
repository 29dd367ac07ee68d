package payroll

const (
	KindEarning       = "earning"
	KindDeduction     = "deduction"
	KindSystemDerived = "system"

	PeriodStatusDraft     = "draft"
	PeriodStatusFinalized = "finalized"

	// Well-known rubrica codes. Base salary is seeded on every ledger; the
	// two system codes are rebuilt by the engine on each recompute.
	CodeBaseSalary   = 1
	CodeContribution = 9001
	CodeWithholding  = 9002

	// MonthlyHoursDivisor converts a monthly salary into an hourly value for
	// automatic-calculation rubricas such as overtime.
	MonthlyHoursDivisor = 220.0
)
