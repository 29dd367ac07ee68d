package termination

import (
	"time"

	"folha/internal/domain/tax"
)

// Calculate prorates the contract-end entitlements into line items. It is
// stateless: the same input and table set always produce the same result.
func Calculate(in Input, tables tax.TableSet) (Result, error) {
	if err := validate(in); err != nil {
		return Result{}, err
	}

	salary := in.Subject.BaseCompensation()
	admission := in.Subject.AdmissionDate()
	end := in.TerminationDate
	indemnified := in.NoticeModality == NoticeIndemnified

	var items []LineItem

	// Salary balance for days worked in the final month.
	daysWorked := float64(end.Day())
	items = append(items, LineItem{
		Description: "Salary balance",
		Reference:   daysWorked,
		Earning:     salary * daysWorked / 30,
	})

	// Notice: without-cause and indemnified, the employer pays it out; a
	// resignation with notice not worked is deducted from the person.
	if indemnified {
		switch in.Reason {
		case ReasonWithoutCause:
			items = append(items, LineItem{
				Description: "Indemnified notice",
				Reference:   NoticePeriodDays,
				Earning:     salary,
			})
		case ReasonResignation:
			items = append(items, LineItem{
				Description: "Notice not worked",
				Reference:   NoticePeriodDays,
				Deduction:   salary,
			})
		}
	}

	// The indemnified-notice projection lengthens the 13th window only;
	// accrued leave counts actual service.
	end13 := end
	if indemnified && in.Reason == ReasonWithoutCause {
		end13 = end13.AddDate(0, 0, NoticePeriodDays)
	}

	// The window is anchored to the year the contract actually ends; the
	// projection may push end13 into January without restarting the count.
	start13 := time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, end.Location())
	if admission.After(start13) {
		start13 = admission
	}
	months13 := completedMonths(start13, end13, tables.MinQualifyingDays)
	if months13 > 12 {
		months13 = 12
	}
	items = append(items, LineItem{
		Description: "13th salary fraction",
		Reference:   float64(months13) / 12,
		Earning:     salary * float64(months13) / 12,
	})

	leaveStart := lastAnniversary(admission, end)
	leaveMonths := completedMonths(leaveStart, end, tables.MinQualifyingDays)
	if leaveMonths > 12 {
		leaveMonths = 12
	}
	leaveValue := salary * float64(leaveMonths) / 12
	items = append(items, LineItem{
		Description: "Accrued leave fraction",
		Reference:   float64(leaveMonths) / 12,
		Earning:     leaveValue,
	})
	items = append(items, LineItem{
		Description: "Leave bonus (1/3)",
		Reference:   float64(leaveMonths) / 12,
		Earning:     leaveValue / 3,
	})

	if in.Reason == ReasonWithoutCause && in.FundBalance > 0 {
		items = append(items, LineItem{
			Description: "Fund penalty",
			Reference:   tables.FundPenaltyRate,
			Earning:     in.FundBalance * tables.FundPenaltyRate,
		})
	}

	result := Result{Items: items}
	for _, item := range items {
		result.TotalEarnings += item.Earning
		result.TotalDeductions += item.Deduction
	}
	result.Net = result.TotalEarnings - result.TotalDeductions
	return result, nil
}

func validate(in Input) error {
	if in.TerminationDate.IsZero() {
		return ErrMissingDate
	}
	switch in.Reason {
	case "":
		return ErrMissingReason
	case ReasonWithoutCause, ReasonResignation:
	default:
		return ErrUnknownReason
	}
	switch in.NoticeModality {
	case "":
		return ErrMissingModality
	case NoticeIndemnified, NoticeWorked:
	default:
		return ErrUnknownModality
	}
	if in.FundBalance < 0 {
		return ErrNegativeBalance
	}
	if in.Subject != nil && in.TerminationDate.Before(in.Subject.AdmissionDate()) {
		return ErrAdmissionAfterDate
	}
	return nil
}

// completedMonths counts whole months between start and end, with a trailing
// partial month qualifying once it reaches minDays.
func completedMonths(start, end time.Time, minDays int) int {
	if end.Before(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	days := end.Day() - start.Day() + 1
	if days < 0 {
		months--
		days += daysIn(end.Year(), end.Month()-1)
	}
	if months < 0 {
		return 0
	}
	if days >= minDays {
		months++
	}
	return months
}

// lastAnniversary returns the admission anniversary on or before end, which
// marks the start of the current leave-vesting cycle.
func lastAnniversary(admission, end time.Time) time.Time {
	anniversary := time.Date(end.Year(), admission.Month(), admission.Day(), 0, 0, 0, 0, end.Location())
	if anniversary.After(end) {
		anniversary = anniversary.AddDate(-1, 0, 0)
	}
	if anniversary.Before(admission) {
		return admission
	}
	return anniversary
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
