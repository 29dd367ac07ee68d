package termination

import (
	"time"

	"folha/internal/domain/subject"
)

const (
	ReasonWithoutCause = "without-cause"
	ReasonResignation  = "resignation"

	NoticeIndemnified = "indemnified"
	NoticeWorked      = "worked"

	// NoticePeriodDays is the projection added to the 13th-month proration
	// window when notice is indemnified.
	NoticePeriodDays = 30
)

// Input carries the termination parameters. Date, reason and notice modality
// are required; the calculator never guesses a default for them.
type Input struct {
	Subject         subject.CompensationSubject
	TerminationDate time.Time
	Reason          string
	NoticeModality  string
	FundBalance     float64
}

// LineItem is one prorated entitlement. Reference is the quantity the amount
// was derived from: days for salary and notice lines, a fraction of twelve
// months for the 13th and leave lines.
type LineItem struct {
	Description string  `json:"description"`
	Reference   float64 `json:"reference"`
	Earning     float64 `json:"earning"`
	Deduction   float64 `json:"deduction"`
}

// Result mirrors the settlement invariant: net equals earnings minus
// deductions, each line summed exactly once.
type Result struct {
	Items           []LineItem `json:"items"`
	TotalEarnings   float64    `json:"totalEarnings"`
	TotalDeductions float64    `json:"totalDeductions"`
	Net             float64    `json:"net"`
}
