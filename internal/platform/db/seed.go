package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"folha/internal/domain/auth"
	"folha/internal/domain/payroll"
	"folha/internal/domain/tax"
	"folha/internal/platform/config"
)

// Seed installs the baseline data a fresh database needs: an admin user,
// the canonical rubrica catalog, and the tax tables for the configured year.
// Every step is idempotent.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}

	if err := ensureRubricaCatalog(ctx, pool); err != nil {
		return err
	}

	return ensureTaxTables(ctx, pool, cfg.TaxYear)
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, "INSERT INTO users (email, password_hash, role) VALUES ($1, $2, 'admin')", email, hash)
	return err
}

func ensureRubricaCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	catalog := []payroll.Rubrica{
		payroll.BaseSalaryRubrica(),
		payroll.ContributionRubrica(),
		payroll.WithholdingRubrica(),
		{
			ID:              "rubrica-overtime-50",
			Code:            101,
			Description:     "Overtime 50%",
			Kind:            payroll.KindEarning,
			IncContribution: true,
			IncFund:         true,
			IncWithholding:  true,
			AutoMultiplier:  1.5,
		},
		{
			ID:              "rubrica-overtime-100",
			Code:            102,
			Description:     "Overtime 100%",
			Kind:            payroll.KindEarning,
			IncContribution: true,
			IncFund:         true,
			IncWithholding:  true,
			AutoMultiplier:  2.0,
		},
		{
			ID:          "rubrica-health-plan",
			Code:        201,
			Description: "Health plan",
			Kind:        payroll.KindDeduction,
		},
		{
			ID:          "rubrica-advance",
			Code:        202,
			Description: "Salary advance",
			Kind:        payroll.KindDeduction,
		},
	}

	for _, r := range catalog {
		_, err := pool.Exec(ctx, `
      INSERT INTO rubricas (id, code, description, kind, protected, inc_contribution, inc_fund, inc_withholding, auto_multiplier)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
      ON CONFLICT (code) DO NOTHING
    `, r.ID, r.Code, r.Description, r.Kind, r.Protected, r.IncContribution, r.IncFund, r.IncWithholding, r.AutoMultiplier)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureTaxTables(ctx context.Context, pool *pgxpool.Pool, year int) error {
	store := tax.NewStore(pool)

	_, err := store.TableSetForYear(ctx, year)
	if err == nil {
		return nil
	}
	if !errors.Is(err, tax.ErrYearNotFound) {
		return err
	}

	set := tax.DefaultTables()
	set.Year = year
	return store.SaveTableSet(ctx, set)
}
