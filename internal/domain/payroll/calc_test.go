package payroll

import (
	"math"
	"reflect"
	"testing"
	"time"

	"folha/internal/domain/subject"
	"folha/internal/domain/tax"
)

func testEmployee(salary float64, dependents int) *subject.Employee {
	emp := &subject.Employee{
		ID:        "emp-1",
		Salary:    salary,
		Admission: time.Date(2022, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	for i := 0; i < dependents; i++ {
		emp.Dependents = append(emp.Dependents, subject.Dependent{WithholdingEligible: true})
	}
	return emp
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSettleGrossToNet(t *testing.T) {
	tables := tax.DefaultTables()
	emp := testEmployee(3000, 1)
	ledger := NewLedger(emp)

	result := Settle(emp, ledger, tables)

	wantContribution := 3000*0.12 - 101.18
	wantWithholdingBase := 3000 - wantContribution - tables.DependentAllowance
	wantWithholding := wantWithholdingBase*0.075 - 169.44

	if !almostEqual(result.TotalEarnings, 3000) {
		t.Fatalf("expected earnings 3000, got %v", result.TotalEarnings)
	}
	if !almostEqual(result.TotalDeductions, wantContribution+wantWithholding) {
		t.Fatalf("expected deductions %v, got %v", wantContribution+wantWithholding, result.TotalDeductions)
	}
	if !almostEqual(result.Net, result.TotalEarnings-result.TotalDeductions) {
		t.Fatalf("net invariant broken: %v != %v - %v", result.Net, result.TotalEarnings, result.TotalDeductions)
	}
	if !almostEqual(result.FundAmount, 3000*tables.FundRate) {
		t.Fatalf("expected fund %v, got %v", 3000*tables.FundRate, result.FundAmount)
	}

	// Base line plus the two system-derived events.
	if len(result.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(result.Events))
	}
}

func TestSettleSumInvariant(t *testing.T) {
	tables := tax.DefaultTables()
	emp := testEmployee(4200, 0)
	ledger := NewLedger(emp)
	if _, err := ledger.AddEvent(Rubrica{ID: "r-bonus", Code: 50, Description: "Bonus", Kind: KindEarning, IncContribution: true, IncWithholding: true}); err != nil {
		t.Fatalf("add bonus: %v", err)
	}
	if err := ledger.UpdateEvent(ledger.Events[1].ID, "earning", 800); err != nil {
		t.Fatalf("update bonus: %v", err)
	}
	if _, err := ledger.AddEvent(Rubrica{ID: "r-advance", Code: 60, Description: "Advance", Kind: KindDeduction}); err != nil {
		t.Fatalf("add advance: %v", err)
	}
	if err := ledger.UpdateEvent(ledger.Events[2].ID, "deduction", 300); err != nil {
		t.Fatalf("update advance: %v", err)
	}

	result := Settle(emp, ledger, tables)

	var earnings, deductions float64
	for _, ev := range result.Events {
		earnings += ev.Earning
		deductions += ev.Deduction
	}
	if !almostEqual(result.TotalEarnings, earnings) || !almostEqual(result.TotalDeductions, deductions) {
		t.Fatalf("totals must sum the final event list exactly once")
	}
	if !almostEqual(result.Net, earnings-deductions) {
		t.Fatalf("net invariant broken")
	}
}

func TestSettleIdempotent(t *testing.T) {
	tables := tax.DefaultTables()
	emp := testEmployee(5500, 2)
	ledger := NewLedger(emp)

	first := Settle(emp, ledger, tables)
	// Feeding the settled event list back in must strip and rebuild the
	// system events to a bit-identical result.
	second := Settle(emp, Ledger{Events: first.Events}, tables)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("recompute not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestContributionCapped(t *testing.T) {
	tables := tax.DefaultTables()

	atCeiling := Settle(testEmployee(tables.ContributionCeiling, 0), NewLedger(testEmployee(tables.ContributionCeiling, 0)), tables)
	above := Settle(testEmployee(20000, 0), NewLedger(testEmployee(20000, 0)), tables)

	capAmount := contributionOf(t, atCeiling)
	aboveAmount := contributionOf(t, above)
	if !almostEqual(capAmount, aboveAmount) {
		t.Fatalf("base above ceiling must not increase contribution: %v != %v", capAmount, aboveAmount)
	}
	if above.ContributionBase != tables.ContributionCeiling {
		t.Fatalf("expected capped base %v, got %v", tables.ContributionCeiling, above.ContributionBase)
	}
}

func TestWithholdingDependsOnContribution(t *testing.T) {
	tables := tax.DefaultTables()
	emp := testEmployee(3000, 0)
	result := Settle(emp, NewLedger(emp), tables)

	wantBase := 3000 - contributionOf(t, result)
	if !almostEqual(result.WithholdingBase, wantBase) {
		t.Fatalf("withholding base must subtract the contribution: expected %v, got %v", wantBase, result.WithholdingBase)
	}

	// Dropping the contribution (zero-rate table) must move the withholding.
	noContribution := tables
	noContribution.Contribution = tax.Table{{Limit: 999999999, Rate: 0, Deduction: 0}}
	changed := Settle(emp, NewLedger(emp), noContribution)
	if almostEqual(withholdingOf(t, result), withholdingOf(t, changed)) {
		t.Fatalf("changing the contribution result must change the withholding result")
	}
}

func TestSettleZeroBase(t *testing.T) {
	tables := tax.DefaultTables()
	emp := testEmployee(0, 0)
	result := Settle(emp, NewLedger(emp), tables)

	if result.TotalDeductions != 0 || result.Net != 0 {
		t.Fatalf("zero base must settle to zero, got %+v", result)
	}
}

func TestSettleWithOverride(t *testing.T) {
	tables := tax.DefaultTables()
	emp := testEmployee(3000, 0)
	ledger := NewLedger(emp)

	if _, err := SettleWithOverride(emp, ledger, tables, 3000); err != nil {
		t.Fatalf("matching override rejected: %v", err)
	}
	if _, err := SettleWithOverride(emp, ledger, tables, 3000.005); err != nil {
		t.Fatalf("override within tolerance rejected: %v", err)
	}
	if _, err := SettleWithOverride(emp, ledger, tables, 2900); err != ErrTotalMismatch {
		t.Fatalf("expected ErrTotalMismatch, got %v", err)
	}
	if _, err := SettleWithOverride(emp, ledger, tables, -1); err != ErrNegativeAmount {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

func contributionOf(t *testing.T, result SettlementResult) float64 {
	t.Helper()
	for _, ev := range result.Events {
		if ev.Rubrica.Code == CodeContribution {
			return ev.Deduction
		}
	}
	t.Fatalf("settlement has no contribution event")
	return 0
}

func withholdingOf(t *testing.T, result SettlementResult) float64 {
	t.Helper()
	for _, ev := range result.Events {
		if ev.Rubrica.Code == CodeWithholding {
			return ev.Deduction
		}
	}
	t.Fatalf("settlement has no withholding event")
	return 0
}
