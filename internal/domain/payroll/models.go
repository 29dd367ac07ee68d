package payroll

import "time"

// Rubrica is a pay-code definition. The three incidence flags control which
// taxable bases an event under this code feeds. Protection and system
// derivation are explicit fields, never inferred from code or description.
type Rubrica struct {
	ID          string `json:"id"`
	Code        int    `json:"code"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Protected   bool   `json:"protected"`

	IncContribution bool `json:"incContribution"`
	IncFund         bool `json:"incFund"`
	IncWithholding  bool `json:"incWithholding"`

	// AutoMultiplier, when nonzero, marks an automatic-calculation rubrica:
	// the event amount derives from the ledger's base-salary line as
	// (base / MonthlyHoursDivisor) * multiplier * reference units.
	AutoMultiplier float64 `json:"autoMultiplier,omitempty"`
}

// SystemDerived reports whether events under this rubrica are rebuilt by the
// engine on every recompute.
func (r Rubrica) SystemDerived() bool {
	return r.Kind == KindSystemDerived
}

// Event is one ledger line: a rubrica reference plus a unit count and the
// monetary pair. Exactly one of Earning/Deduction is normally nonzero,
// matching the rubrica kind.
type Event struct {
	ID        string  `json:"id"`
	Rubrica   Rubrica `json:"rubrica"`
	Reference float64 `json:"reference"`
	Earning   float64 `json:"earning"`
	Deduction float64 `json:"deduction"`
}

// Ledger is the ordered event list for one subject and period. Order matters
// for display only; every total is a commutative sum.
type Ledger struct {
	Events []Event `json:"events"`
}

// SettlementResult is a pure recomputation output, rebuilt in full on every
// pass and never mutated.
type SettlementResult struct {
	Events           []Event `json:"events"`
	TotalEarnings    float64 `json:"totalEarnings"`
	TotalDeductions  float64 `json:"totalDeductions"`
	Net              float64 `json:"net"`
	ContributionBase float64 `json:"contributionBase"`
	WithholdingBase  float64 `json:"withholdingBase"`
	FundBase         float64 `json:"fundBase"`
	FundAmount       float64 `json:"fundAmount"`
}

// Period scopes one subject's ledger to a competence month. Finalization is
// enforced by the service layer; the engine itself stays stateless.
type Period struct {
	ID          string    `json:"id"`
	SubjectID   string    `json:"subjectId"`
	Competence  string    `json:"competence"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	FinalizedAt time.Time `json:"finalizedAt,omitempty"`
}

type ContributionResult struct {
	Base       float64 `json:"base"`
	CappedBase float64 `json:"cappedBase"`
	Amount     float64 `json:"amount"`
}

type WithholdingResult struct {
	Base   float64 `json:"base"`
	Amount float64 `json:"amount"`
}

type FundResult struct {
	Base   float64 `json:"base"`
	Amount float64 `json:"amount"`
}
