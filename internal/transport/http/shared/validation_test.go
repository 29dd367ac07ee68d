package shared

import "testing"

func TestValidatorRequired(t *testing.T) {
	v := NewValidator()
	v.Required("name", "  ", "name is required")
	if !v.HasIssues() {
		t.Fatal("expected issue for blank value")
	}
}

func TestValidatorEnum(t *testing.T) {
	v := NewValidator()
	v.Enum("kind", "Earning", []string{"earning", "deduction"}, "bad kind")
	if v.HasIssues() {
		t.Fatalf("expected case-insensitive match, got %+v", v.Issues())
	}
	v.Enum("kind", "bonus", []string{"earning", "deduction"}, "bad kind")
	if !v.HasIssues() {
		t.Fatal("expected issue for unknown value")
	}
}

func TestValidatorCompetence(t *testing.T) {
	v := NewValidator()
	if _, ok := v.Competence("competence", "2024-07"); !ok {
		t.Fatalf("expected valid competence, got %+v", v.Issues())
	}
	if _, ok := v.Competence("competence", "2024-13"); ok {
		t.Fatal("expected invalid month to fail")
	}
	if _, ok := v.Competence("competence", "07/2024"); ok {
		t.Fatal("expected wrong format to fail")
	}
}

func TestValidatorNonNegative(t *testing.T) {
	v := NewValidator()
	v.NonNegative("salary", 100)
	if v.HasIssues() {
		t.Fatal("did not expect issue for positive value")
	}
	v.NonNegative("salary", -1)
	if !v.HasIssues() {
		t.Fatal("expected issue for negative value")
	}
}

func TestIssuesSorted(t *testing.T) {
	v := NewValidator()
	v.Add("b", "second")
	v.Add("a", "first")
	issues := v.Issues()
	if len(issues) != 2 || issues[0].Field != "a" {
		t.Fatalf("expected sorted issues, got %+v", issues)
	}
}
