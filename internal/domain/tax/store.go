package tax

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrYearNotFound = errors.New("no tax tables for requested year")

const (
	tableContribution = "contribution"
	tableWithholding  = "withholding"
	tableRevenueGoods = "revenue_goods"
	tableRevenueServ  = "revenue_services"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// TableSetForYear loads one year's tables and scalar rates. Bracket rows come
// back ordered by position so ascending-limit resolution holds without
// re-sorting here.
func (s *Store) TableSetForYear(ctx context.Context, year int) (TableSet, error) {
	set := TableSet{Year: year, Revenue: map[RevenueCategory]Table{}}

	rows, err := s.DB.Query(ctx, `
    SELECT kind, bracket_limit, rate, deduction
    FROM tax_brackets
    WHERE year = $1
    ORDER BY kind, position
  `, year)
	if err != nil {
		return set, err
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var kind string
		var b Bracket
		if err := rows.Scan(&kind, &b.Limit, &b.Rate, &b.Deduction); err != nil {
			return set, err
		}
		found = true
		switch kind {
		case tableContribution:
			set.Contribution = append(set.Contribution, b)
		case tableWithholding:
			set.Withholding = append(set.Withholding, b)
		case tableRevenueGoods:
			set.Revenue[CategoryGoods] = append(set.Revenue[CategoryGoods], b)
		case tableRevenueServ:
			set.Revenue[CategoryServices] = append(set.Revenue[CategoryServices], b)
		}
	}
	if err := rows.Err(); err != nil {
		return set, err
	}
	if !found {
		return set, ErrYearNotFound
	}

	err = s.DB.QueryRow(ctx, `
    SELECT contribution_ceiling, dependent_allowance, fund_rate, fund_penalty_rate, min_qualifying_days
    FROM tax_rates
    WHERE year = $1
  `, year).Scan(&set.ContributionCeiling, &set.DependentAllowance, &set.FundRate, &set.FundPenaltyRate, &set.MinQualifyingDays)
	if err != nil {
		return set, err
	}
	return set, nil
}

// SaveTableSet replaces one year's tables. Used by the seed step and the
// yearly table-update endpoint.
func (s *Store) SaveTableSet(ctx context.Context, set TableSet) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM tax_brackets WHERE year = $1", set.Year); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM tax_rates WHERE year = $1", set.Year); err != nil {
		return err
	}

	insert := func(kind string, table Table) error {
		for i, b := range table {
			if _, err := tx.Exec(ctx, `
        INSERT INTO tax_brackets (year, kind, position, bracket_limit, rate, deduction)
        VALUES ($1,$2,$3,$4,$5,$6)
      `, set.Year, kind, i, b.Limit, b.Rate, b.Deduction); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert(tableContribution, set.Contribution); err != nil {
		return err
	}
	if err := insert(tableWithholding, set.Withholding); err != nil {
		return err
	}
	if err := insert(tableRevenueGoods, set.Revenue[CategoryGoods]); err != nil {
		return err
	}
	if err := insert(tableRevenueServ, set.Revenue[CategoryServices]); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO tax_rates (year, contribution_ceiling, dependent_allowance, fund_rate, fund_penalty_rate, min_qualifying_days)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, set.Year, set.ContributionCeiling, set.DependentAllowance, set.FundRate, set.FundPenaltyRate, set.MinQualifyingDays); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
