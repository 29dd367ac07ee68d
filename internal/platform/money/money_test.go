package money

import "testing"

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{258.8199999, 258.82},
		{0.005, 0.01},
		{1412.0, 1412.0},
		{-10.555, -10.56},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format(1234.5); got != "1234.50" {
		t.Fatalf("Format(1234.5) = %q", got)
	}
	if got := Format(0); got != "0.00" {
		t.Fatalf("Format(0) = %q", got)
	}
}
