package payroll

import (
	"github.com/google/uuid"

	"folha/internal/domain/subject"
)

// BaseSalaryRubrica is the foundational earning line. Seeded once per ledger,
// feeds all three bases, not removable.
func BaseSalaryRubrica() Rubrica {
	return Rubrica{
		ID:              "rubrica-base-salary",
		Code:            CodeBaseSalary,
		Description:     "Base salary",
		Kind:            KindEarning,
		Protected:       true,
		IncContribution: true,
		IncFund:         true,
		IncWithholding:  true,
	}
}

// ContributionRubrica and WithholdingRubrica back the two system-derived
// events the engine rebuilds on every recompute.
func ContributionRubrica() Rubrica {
	return Rubrica{
		ID:          "rubrica-contribution",
		Code:        CodeContribution,
		Description: "Social contribution",
		Kind:        KindSystemDerived,
		Protected:   true,
	}
}

func WithholdingRubrica() Rubrica {
	return Rubrica{
		ID:          "rubrica-withholding",
		Code:        CodeWithholding,
		Description: "Income withholding",
		Kind:        KindSystemDerived,
		Protected:   true,
	}
}

// NewLedger seeds a ledger for a subject with its base compensation line.
// Reference is in days; a full month is 30.
func NewLedger(subj subject.CompensationSubject) Ledger {
	return Ledger{Events: []Event{{
		ID:        uuid.NewString(),
		Rubrica:   BaseSalaryRubrica(),
		Reference: 30,
		Earning:   subj.BaseCompensation(),
	}}}
}

func (l *Ledger) find(eventID string) (int, bool) {
	for i, ev := range l.Events {
		if ev.ID == eventID {
			return i, true
		}
	}
	return -1, false
}

func (l *Ledger) baseSalaryEvent() (Event, bool) {
	for _, ev := range l.Events {
		if ev.Rubrica.Code == CodeBaseSalary {
			return ev, true
		}
	}
	return Event{}, false
}

// AddEvent appends a zero-valued event for the rubrica, or a pre-populated
// one when the rubrica carries an automatic-calculation rule keyed to the
// ledger's base-salary line. One event per rubrica per ledger.
func (l *Ledger) AddEvent(r Rubrica) (Event, error) {
	for _, ev := range l.Events {
		if ev.Rubrica.Code == r.Code {
			return Event{}, ErrDuplicateRubrica
		}
	}
	if r.SystemDerived() {
		return Event{}, ErrSystemManaged
	}

	ev := Event{ID: uuid.NewString(), Rubrica: r}
	if r.AutoMultiplier > 0 {
		if base, ok := l.baseSalaryEvent(); ok {
			ev.Reference = 1
			amount := base.Earning / MonthlyHoursDivisor * r.AutoMultiplier * ev.Reference
			if r.Kind == KindDeduction {
				ev.Deduction = amount
			} else {
				ev.Earning = amount
			}
		}
	}
	l.Events = append(l.Events, ev)
	return ev, nil
}

// UpdateEvent sets one numeric field of a user-entered event. System-derived
// events are rebuilt by recompute and cannot be edited directly.
func (l *Ledger) UpdateEvent(eventID, field string, value float64) error {
	if value < 0 {
		return ErrNegativeAmount
	}
	i, ok := l.find(eventID)
	if !ok {
		return ErrEventNotFound
	}
	if l.Events[i].Rubrica.SystemDerived() {
		return ErrSystemManaged
	}

	switch field {
	case "reference":
		l.Events[i].Reference = value
	case "earning":
		l.Events[i].Earning = value
	case "deduction":
		l.Events[i].Deduction = value
	default:
		return ErrUnknownField
	}
	l.applyAutoRules()
	return nil
}

// RemoveEvent deletes a user-entered event. Protected rubricas (base salary)
// and system-derived events stay put; the UI blocks the action but the
// engine guards it as well.
func (l *Ledger) RemoveEvent(eventID string) error {
	i, ok := l.find(eventID)
	if !ok {
		return ErrEventNotFound
	}
	ev := l.Events[i]
	if ev.Rubrica.SystemDerived() {
		return ErrSystemManaged
	}
	if ev.Rubrica.Protected {
		return ErrProtectedRubrica
	}
	l.Events = append(l.Events[:i], l.Events[i+1:]...)
	return nil
}

// applyAutoRules re-derives automatic-calculation events from the current
// base-salary line. Runs after every user edit and at the start of a
// settlement pass.
func (l *Ledger) applyAutoRules() {
	base, ok := l.baseSalaryEvent()
	if !ok {
		return
	}
	for i, ev := range l.Events {
		r := ev.Rubrica
		if r.AutoMultiplier <= 0 {
			continue
		}
		// A zeroed reference zeroes the derived amount as well; leaving the
		// previous value in place would carry it into the settlement.
		var amount float64
		if ev.Reference > 0 {
			amount = base.Earning / MonthlyHoursDivisor * r.AutoMultiplier * ev.Reference
		}
		if r.Kind == KindDeduction {
			l.Events[i].Deduction = amount
		} else {
			l.Events[i].Earning = amount
		}
	}
}

// stripSystemEvents drops previously derived events. Stored or UI-supplied
// system lines are never trusted; the settlement pass rebuilds them.
func (l Ledger) stripSystemEvents() []Event {
	out := make([]Event, 0, len(l.Events))
	for _, ev := range l.Events {
		if ev.Rubrica.SystemDerived() {
			continue
		}
		out = append(out, ev)
	}
	return out
}
