package payroll

import (
	"math"

	"folha/internal/domain/subject"
	"folha/internal/domain/tax"
)

// System event ids are fixed so that back-to-back recomputes with no edits
// return bit-identical results.
const (
	contributionEventID = "event-contribution"
	withholdingEventID  = "event-withholding"
)

// overrideTolerance is one cent: a caller-supplied gross total within this
// distance of the summed total is treated as equal.
const overrideTolerance = 0.01

// Settle turns a ledger into a full settlement. It is a pure function of
// (subject, ledger, tables): the incoming ledger is not mutated and the
// result is rebuilt from scratch on every call.
//
// Recompute protocol, in order:
//  1. strip previously derived system events
//  2. re-derive automatic-calculation lines from the base-salary line
//  3. social contribution over the flagged events, appended as an event
//  4. income withholding net of step 3, appended as an event
//  5. benefit fund for reporting only, then totals
func Settle(subj subject.CompensationSubject, ledger Ledger, tables tax.TableSet) SettlementResult {
	working := Ledger{Events: ledger.stripSystemEvents()}
	working.applyAutoRules()

	contribution := ComputeContribution(working.Events, tables.Contribution, tables.ContributionCeiling)
	working.Events = append(working.Events, Event{
		ID:        contributionEventID,
		Rubrica:   ContributionRubrica(),
		Reference: contribution.CappedBase,
		Deduction: contribution.Amount,
	})

	withholding := ComputeWithholding(working.Events, contribution.Amount, subj.DependentList(), tables.Withholding, tables.DependentAllowance)
	working.Events = append(working.Events, Event{
		ID:        withholdingEventID,
		Rubrica:   WithholdingRubrica(),
		Reference: withholding.Base,
		Deduction: withholding.Amount,
	})

	fund := ComputeFund(working.Events, tables.FundRate)

	result := SettlementResult{
		Events:           working.Events,
		ContributionBase: contribution.CappedBase,
		WithholdingBase:  withholding.Base,
		FundBase:         fund.Base,
		FundAmount:       fund.Amount,
	}
	for _, ev := range working.Events {
		result.TotalEarnings += ev.Earning
		result.TotalDeductions += ev.Deduction
	}
	result.Net = result.TotalEarnings - result.TotalDeductions
	return result
}

// SettleWithOverride runs Settle and validates a caller-supplied gross total
// against the summed one. The summed total is authoritative; a mismatching
// override is rejected, never silently preferred.
func SettleWithOverride(subj subject.CompensationSubject, ledger Ledger, tables tax.TableSet, overrideGross float64) (SettlementResult, error) {
	if overrideGross < 0 {
		return SettlementResult{}, ErrNegativeAmount
	}
	result := Settle(subj, ledger, tables)
	if overrideGross != 0 && math.Abs(overrideGross-result.TotalEarnings) > overrideTolerance {
		return SettlementResult{}, ErrTotalMismatch
	}
	return result, nil
}
