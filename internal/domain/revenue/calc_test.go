package revenue

import (
	"math"
	"testing"

	"folha/internal/domain/tax"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateEffectiveRate(t *testing.T) {
	tables := tax.DefaultTables()

	// Trailing 300000 on the services table: 11.2% nominal, 9360 deduction.
	trailing := 300000.0
	current := 25000.0
	result, err := Calculate(Input{Category: tax.CategoryServices, CurrentRevenue: current, TrailingRevenue: trailing}, tables)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	wantEffective := (trailing*0.112 - 9360) / trailing
	if !almostEqual(result.EffectiveRate, wantEffective) {
		t.Fatalf("expected effective rate %v, got %v", wantEffective, result.EffectiveRate)
	}
	if !almostEqual(result.Tax, current*wantEffective) {
		t.Fatalf("expected tax %v, got %v", current*wantEffective, result.Tax)
	}
	if result.NominalRate != 0.112 || result.Deduction != 9360 {
		t.Fatalf("expected nominal 0.112 / deduction 9360, got %v / %v", result.NominalRate, result.Deduction)
	}
}

func TestCalculateZeroTrailingFallsBackToNominal(t *testing.T) {
	tables := tax.DefaultTables()
	result, err := Calculate(Input{Category: tax.CategoryGoods, CurrentRevenue: 12000, TrailingRevenue: 0}, tables)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result.EffectiveRate != 0.04 {
		t.Fatalf("expected nominal-rate fallback 0.04, got %v", result.EffectiveRate)
	}
	if !almostEqual(result.Tax, 12000*0.04) {
		t.Fatalf("expected tax %v, got %v", 12000*0.04, result.Tax)
	}
}

func TestCalculateZeroCurrentIsNotAZeroTax(t *testing.T) {
	tables := tax.DefaultTables()
	if _, err := Calculate(Input{Category: tax.CategoryServices, CurrentRevenue: 0, TrailingRevenue: 500000}, tables); err != ErrNoApplicableRevenue {
		t.Fatalf("expected ErrNoApplicableRevenue, got %v", err)
	}
}

func TestCalculateRejectsNegativeRevenue(t *testing.T) {
	tables := tax.DefaultTables()
	if _, err := Calculate(Input{Category: tax.CategoryServices, CurrentRevenue: -1, TrailingRevenue: 100}, tables); err != ErrNegativeRevenue {
		t.Fatalf("expected ErrNegativeRevenue, got %v", err)
	}
}

func TestCalculateUnknownCategory(t *testing.T) {
	tables := tax.DefaultTables()
	if _, err := Calculate(Input{Category: "transport", CurrentRevenue: 100, TrailingRevenue: 100}, tables); err != ErrUnknownCategory {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestCategoriesUseDistinctTables(t *testing.T) {
	tables := tax.DefaultTables()

	goods, err := Calculate(Input{Category: tax.CategoryGoods, CurrentRevenue: 10000, TrailingRevenue: 150000}, tables)
	if err != nil {
		t.Fatalf("goods: %v", err)
	}
	services, err := Calculate(Input{Category: tax.CategoryServices, CurrentRevenue: 10000, TrailingRevenue: 150000}, tables)
	if err != nil {
		t.Fatalf("services: %v", err)
	}
	if goods.Tax >= services.Tax {
		t.Fatalf("goods and services must tax differently: %v vs %v", goods.Tax, services.Tax)
	}
}
