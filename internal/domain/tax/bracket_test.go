package tax

import (
	"math"
	"testing"
)

func sampleTable() Table {
	return Table{
		{Limit: 1000, Rate: 0.05, Deduction: 0},
		{Limit: 2000, Rate: 0.10, Deduction: 50},
		{Limit: 3000, Rate: 0.20, Deduction: 250},
	}
}

func TestResolveMatchesFirstCoveringBracket(t *testing.T) {
	table := sampleTable()

	cases := []struct {
		base      float64
		wantLimit float64
	}{
		{0, 1000},
		{1000, 1000},
		{1000.01, 2000},
		{2500, 3000},
		{99999, 3000}, // above every limit resolves to the ceiling bracket
	}
	for _, tc := range cases {
		got := table.Resolve(tc.base)
		if got.Limit != tc.wantLimit {
			t.Fatalf("Resolve(%v): expected limit %v, got %v", tc.base, tc.wantLimit, got.Limit)
		}
	}
}

func TestResolveEmptyTable(t *testing.T) {
	var table Table
	if got := table.Resolve(500); got != (Bracket{}) {
		t.Fatalf("expected zero bracket, got %+v", got)
	}
}

func TestWithholdingFlooredAtZero(t *testing.T) {
	table := Table{{Limit: 1000, Rate: 0.05, Deduction: 100}}
	if got := table.Withholding(500); got != 0 {
		t.Fatalf("expected floored withholding 0, got %v", got)
	}
}

func TestWithholdingZeroBase(t *testing.T) {
	if got := sampleTable().Withholding(0); got != 0 {
		t.Fatalf("expected zero tax on zero base, got %v", got)
	}
}

func TestWithholdingMonotonic(t *testing.T) {
	table := sampleTable()
	previous := 0.0
	for base := 0.0; base <= 4000; base += 7.5 {
		got := table.Withholding(base)
		if got < previous {
			t.Fatalf("withholding decreased at base %v: %v < %v", base, got, previous)
		}
		previous = got
	}
}

func TestEffectiveRateConversion(t *testing.T) {
	table := sampleTable()

	trailing := 1500.0
	want := (trailing*0.10 - 50) / trailing
	if got := table.EffectiveRate(trailing); math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected effective rate %v, got %v", want, got)
	}
}

func TestEffectiveRateZeroTrailingFallsBackToNominal(t *testing.T) {
	if got := sampleTable().EffectiveRate(0); got != 0.05 {
		t.Fatalf("expected nominal-rate fallback 0.05, got %v", got)
	}
}

func TestEffectiveRateClampedAtZero(t *testing.T) {
	table := Table{{Limit: 1000, Rate: 0.05, Deduction: 500}}
	if got := table.EffectiveRate(100); got != 0 {
		t.Fatalf("expected clamped effective rate 0, got %v", got)
	}
}

func TestDefaultTablesOrdered(t *testing.T) {
	set := DefaultTables()
	for name, table := range map[string]Table{
		"contribution": set.Contribution,
		"withholding":  set.Withholding,
		"goods":        set.Revenue[CategoryGoods],
		"services":     set.Revenue[CategoryServices],
	} {
		for i := 1; i < len(table); i++ {
			if table[i].Limit <= table[i-1].Limit {
				t.Fatalf("%s table not ascending at position %d", name, i)
			}
		}
	}
	if set.ContributionCeiling != set.Contribution[len(set.Contribution)-1].Limit {
		t.Fatalf("contribution ceiling should match the last bracket limit")
	}
}
