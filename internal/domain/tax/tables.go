package tax

// RevenueCategory selects which revenue bracket table applies.
type RevenueCategory string

const (
	CategoryGoods    RevenueCategory = "goods"
	CategoryServices RevenueCategory = "services"
)

// TableSet bundles the rates and tables for one calendar year. Tables are
// reference data owned outside the engine; calculators only read them.
type TableSet struct {
	Year int

	Contribution        Table
	ContributionCeiling float64

	Withholding        Table
	DependentAllowance float64

	FundRate        float64
	FundPenaltyRate float64

	Revenue map[RevenueCategory]Table

	// MinQualifyingDays is the threshold for a partial month to count as a
	// completed month in time-based proration.
	MinQualifyingDays int
}

// DefaultTables returns the compiled-in current-year table set. Fresh
// databases are seeded from it and tests run against it; year-over-year
// updates land in the tax_tables schema, not here.
func DefaultTables() TableSet {
	return TableSet{
		Year: 2024,

		Contribution: Table{
			{Limit: 1412.00, Rate: 0.075, Deduction: 0},
			{Limit: 2666.68, Rate: 0.09, Deduction: 21.18},
			{Limit: 4000.03, Rate: 0.12, Deduction: 101.18},
			{Limit: 7786.02, Rate: 0.14, Deduction: 181.18},
		},
		ContributionCeiling: 7786.02,

		Withholding: Table{
			{Limit: 2259.20, Rate: 0, Deduction: 0},
			{Limit: 2826.65, Rate: 0.075, Deduction: 169.44},
			{Limit: 3751.05, Rate: 0.15, Deduction: 381.44},
			{Limit: 4664.68, Rate: 0.225, Deduction: 662.77},
			{Limit: 999999999, Rate: 0.275, Deduction: 896.00},
		},
		DependentAllowance: 189.59,

		FundRate:        0.08,
		FundPenaltyRate: 0.40,

		Revenue: map[RevenueCategory]Table{
			CategoryGoods: {
				{Limit: 180000.00, Rate: 0.04, Deduction: 0},
				{Limit: 360000.00, Rate: 0.073, Deduction: 5940.00},
				{Limit: 720000.00, Rate: 0.095, Deduction: 13860.00},
				{Limit: 1800000.00, Rate: 0.107, Deduction: 22500.00},
				{Limit: 3600000.00, Rate: 0.143, Deduction: 87300.00},
				{Limit: 4800000.00, Rate: 0.19, Deduction: 378000.00},
			},
			CategoryServices: {
				{Limit: 180000.00, Rate: 0.06, Deduction: 0},
				{Limit: 360000.00, Rate: 0.112, Deduction: 9360.00},
				{Limit: 720000.00, Rate: 0.135, Deduction: 17640.00},
				{Limit: 1800000.00, Rate: 0.16, Deduction: 35640.00},
				{Limit: 3600000.00, Rate: 0.21, Deduction: 125640.00},
				{Limit: 4800000.00, Rate: 0.33, Deduction: 648000.00},
			},
		},

		MinQualifyingDays: 15,
	}
}
