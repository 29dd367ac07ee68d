// Package money handles presentation rounding. Engine math stays float64;
// values are rounded to two digits only when they leave the system through
// handlers, reports or PDFs.
package money

import "github.com/shopspring/decimal"

func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

func Format(v float64) string {
	return decimal.NewFromFloat(v).Round(2).StringFixed(2)
}
