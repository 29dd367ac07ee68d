package tax

// Bracket is one row of a progressive table. Limit is the upper bound of the
// range; Rate and Deduction follow the published rate-minus-deduction form.
type Bracket struct {
	Limit     float64
	Rate      float64
	Deduction float64
}

// Table is an ordered bracket list, ascending by Limit. The last bracket acts
// as the catch-all for bases above every limit.
type Table []Bracket

// Resolve returns the first bracket whose limit covers base, or the last
// bracket when base exceeds every limit. An empty table yields a zero bracket.
func (t Table) Resolve(base float64) Bracket {
	if len(t) == 0 {
		return Bracket{}
	}
	for _, b := range t {
		if base <= b.Limit {
			return b
		}
	}
	return t[len(t)-1]
}

// Withholding applies the matched bracket marginally: base*rate - deduction,
// floored at zero. A zero base is valid input and produces zero.
func (t Table) Withholding(base float64) float64 {
	b := t.Resolve(base)
	amount := base*b.Rate - b.Deduction
	if amount < 0 {
		return 0
	}
	return amount
}

// EffectiveRate converts the bracket matched on trailing revenue into an
// effective rate. With zero trailing revenue the nominal rate applies
// directly. The result never goes below zero.
func (t Table) EffectiveRate(trailing float64) float64 {
	b := t.Resolve(trailing)
	if trailing == 0 {
		return b.Rate
	}
	rate := (trailing*b.Rate - b.Deduction) / trailing
	if rate < 0 {
		return 0
	}
	return rate
}
