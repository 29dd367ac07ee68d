package payroll

import (
	"testing"

	"folha/internal/domain/tax"
)

func overtimeRubrica() Rubrica {
	return Rubrica{
		ID:              "r-overtime",
		Code:            101,
		Description:     "Overtime 50%",
		Kind:            KindEarning,
		IncContribution: true,
		IncFund:         true,
		IncWithholding:  true,
		AutoMultiplier:  1.5,
	}
}

func TestNewLedgerSeedsBaseSalary(t *testing.T) {
	emp := testEmployee(2200, 0)
	ledger := NewLedger(emp)

	if len(ledger.Events) != 1 {
		t.Fatalf("expected 1 seeded event, got %d", len(ledger.Events))
	}
	base := ledger.Events[0]
	if base.Rubrica.Code != CodeBaseSalary || !base.Rubrica.Protected {
		t.Fatalf("expected protected base-salary event, got %+v", base.Rubrica)
	}
	if base.Earning != 2200 || base.Reference != 30 {
		t.Fatalf("expected earning 2200 over 30 days, got %+v", base)
	}
}

func TestAddEventRejectsDuplicates(t *testing.T) {
	ledger := NewLedger(testEmployee(2200, 0))
	if _, err := ledger.AddEvent(BaseSalaryRubrica()); err != ErrDuplicateRubrica {
		t.Fatalf("expected ErrDuplicateRubrica, got %v", err)
	}
}

func TestAddEventRejectsSystemRubricas(t *testing.T) {
	ledger := NewLedger(testEmployee(2200, 0))
	if _, err := ledger.AddEvent(ContributionRubrica()); err != ErrSystemManaged {
		t.Fatalf("expected ErrSystemManaged, got %v", err)
	}
}

func TestAddEventAutoPopulatesFromBaseSalary(t *testing.T) {
	ledger := NewLedger(testEmployee(2200, 0))
	ev, err := ledger.AddEvent(overtimeRubrica())
	if err != nil {
		t.Fatalf("add overtime: %v", err)
	}

	want := 2200 / MonthlyHoursDivisor * 1.5
	if !almostEqual(ev.Earning, want) {
		t.Fatalf("expected auto earning %v for one unit, got %v", want, ev.Earning)
	}
}

func TestUpdateEventReappliesAutoRule(t *testing.T) {
	ledger := NewLedger(testEmployee(2200, 0))
	ev, err := ledger.AddEvent(overtimeRubrica())
	if err != nil {
		t.Fatalf("add overtime: %v", err)
	}
	if err := ledger.UpdateEvent(ev.ID, "reference", 10); err != nil {
		t.Fatalf("update reference: %v", err)
	}

	want := 2200 / MonthlyHoursDivisor * 1.5 * 10
	if !almostEqual(ledger.Events[1].Earning, want) {
		t.Fatalf("expected recomputed earning %v, got %v", want, ledger.Events[1].Earning)
	}
}

func TestUpdateEventZeroReferenceClearsAutoAmount(t *testing.T) {
	emp := testEmployee(2200, 0)
	ledger := NewLedger(emp)
	ev, err := ledger.AddEvent(overtimeRubrica())
	if err != nil {
		t.Fatalf("add overtime: %v", err)
	}
	if err := ledger.UpdateEvent(ev.ID, "reference", 10); err != nil {
		t.Fatalf("update reference: %v", err)
	}
	if err := ledger.UpdateEvent(ev.ID, "reference", 0); err != nil {
		t.Fatalf("zero reference: %v", err)
	}

	if got := ledger.Events[1].Earning; got != 0 {
		t.Fatalf("expected zeroed auto earning, got %v", got)
	}

	// Gross must fall back to the base salary alone.
	result := Settle(emp, ledger, tax.DefaultTables())
	if !almostEqual(result.TotalEarnings, 2200) {
		t.Fatalf("expected gross 2200 after zeroing overtime, got %v", result.TotalEarnings)
	}
}

func TestUpdateEventGuards(t *testing.T) {
	ledger := NewLedger(testEmployee(2200, 0))
	baseID := ledger.Events[0].ID

	if err := ledger.UpdateEvent(baseID, "earning", -5); err != ErrNegativeAmount {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
	if err := ledger.UpdateEvent(baseID, "bogus", 1); err != ErrUnknownField {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := ledger.UpdateEvent("missing", "earning", 1); err != ErrEventNotFound {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}

	ledger.Events = append(ledger.Events, Event{ID: "sys", Rubrica: ContributionRubrica(), Deduction: 10})
	if err := ledger.UpdateEvent("sys", "deduction", 1); err != ErrSystemManaged {
		t.Fatalf("expected ErrSystemManaged, got %v", err)
	}
}

func TestRemoveEventProtections(t *testing.T) {
	emp := testEmployee(2200, 0)
	ledger := NewLedger(emp)
	ledger.Events = append(ledger.Events, Event{ID: "sys", Rubrica: WithholdingRubrica(), Deduction: 10})

	before := len(ledger.Events)
	if err := ledger.RemoveEvent(ledger.Events[0].ID); err != ErrProtectedRubrica {
		t.Fatalf("expected ErrProtectedRubrica, got %v", err)
	}
	if err := ledger.RemoveEvent("sys"); err != ErrSystemManaged {
		t.Fatalf("expected ErrSystemManaged, got %v", err)
	}
	if len(ledger.Events) != before {
		t.Fatalf("protected removal must leave the ledger unchanged")
	}

	// The settlement is unchanged as well since the ledger is.
	tablesBefore := Settle(emp, ledger, tax.DefaultTables())
	tablesAfter := Settle(emp, ledger, tax.DefaultTables())
	if tablesBefore.Net != tablesAfter.Net {
		t.Fatalf("settlement changed after rejected removals")
	}
}

func TestRemoveEventDeletesUserLines(t *testing.T) {
	ledger := NewLedger(testEmployee(2200, 0))
	ev, err := ledger.AddEvent(Rubrica{ID: "r-advance", Code: 60, Description: "Advance", Kind: KindDeduction})
	if err != nil {
		t.Fatalf("add advance: %v", err)
	}
	if err := ledger.RemoveEvent(ev.ID); err != nil {
		t.Fatalf("remove advance: %v", err)
	}
	if len(ledger.Events) != 1 {
		t.Fatalf("expected advance removed, got %d events", len(ledger.Events))
	}
}
