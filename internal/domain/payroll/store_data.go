package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListRubricas(ctx context.Context) ([]Rubrica, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, code, description, kind, protected, inc_contribution, inc_fund, inc_withholding, auto_multiplier
    FROM rubricas
    ORDER BY code
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rubrica
	for rows.Next() {
		var r Rubrica
		if err := rows.Scan(&r.ID, &r.Code, &r.Description, &r.Kind, &r.Protected,
			&r.IncContribution, &r.IncFund, &r.IncWithholding, &r.AutoMultiplier); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) GetRubrica(ctx context.Context, rubricaID string) (Rubrica, error) {
	var r Rubrica
	err := s.DB.QueryRow(ctx, `
    SELECT id, code, description, kind, protected, inc_contribution, inc_fund, inc_withholding, auto_multiplier
    FROM rubricas
    WHERE id = $1
  `, rubricaID).Scan(&r.ID, &r.Code, &r.Description, &r.Kind, &r.Protected,
		&r.IncContribution, &r.IncFund, &r.IncWithholding, &r.AutoMultiplier)
	return r, err
}

func (s *Store) CreateRubrica(ctx context.Context, r Rubrica) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO rubricas (code, description, kind, protected, inc_contribution, inc_fund, inc_withholding, auto_multiplier)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, r.Code, r.Description, r.Kind, r.Protected, r.IncContribution, r.IncFund, r.IncWithholding, r.AutoMultiplier).Scan(&id)
	return id, err
}

func (s *Store) GetPeriod(ctx context.Context, periodID string) (Period, error) {
	var p Period
	var finalized *time.Time
	err := s.DB.QueryRow(ctx, `
    SELECT id, subject_id, competence, status, created_at, finalized_at
    FROM payroll_periods
    WHERE id = $1
  `, periodID).Scan(&p.ID, &p.SubjectID, &p.Competence, &p.Status, &p.CreatedAt, &finalized)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, ErrPeriodNotFound
	}
	if err != nil {
		return p, err
	}
	if finalized != nil {
		p.FinalizedAt = *finalized
	}
	return p, nil
}

func (s *Store) ListPeriods(ctx context.Context, subjectID string, limit, offset int) ([]Period, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, subject_id, competence, status, created_at
    FROM payroll_periods
    WHERE subject_id = $1
    ORDER BY competence DESC
    LIMIT $2 OFFSET $3
  `, subjectID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Period
	for rows.Next() {
		var p Period
		if err := rows.Scan(&p.ID, &p.SubjectID, &p.Competence, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CreatePeriod(ctx context.Context, subjectID, competence string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_periods (subject_id, competence, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, subjectID, competence, PeriodStatusDraft).Scan(&id)
	return id, err
}

func (s *Store) UpdatePeriodStatus(ctx context.Context, periodID, status string) error {
	if status == PeriodStatusFinalized {
		_, err := s.DB.Exec(ctx, `
      UPDATE payroll_periods SET status = $1, finalized_at = now() WHERE id = $2
    `, status, periodID)
		return err
	}
	_, err := s.DB.Exec(ctx, `
    UPDATE payroll_periods SET status = $1, finalized_at = NULL WHERE id = $2
  `, status, periodID)
	return err
}

func (s *Store) LoadLedger(ctx context.Context, periodID string) (Ledger, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.reference, e.earning, e.deduction,
           r.id, r.code, r.description, r.kind, r.protected,
           r.inc_contribution, r.inc_fund, r.inc_withholding, r.auto_multiplier
    FROM payroll_events e
    JOIN rubricas r ON e.rubrica_id = r.id
    WHERE e.period_id = $1
    ORDER BY e.position
  `, periodID)
	if err != nil {
		return Ledger{}, err
	}
	defer rows.Close()

	var ledger Ledger
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Reference, &ev.Earning, &ev.Deduction,
			&ev.Rubrica.ID, &ev.Rubrica.Code, &ev.Rubrica.Description, &ev.Rubrica.Kind, &ev.Rubrica.Protected,
			&ev.Rubrica.IncContribution, &ev.Rubrica.IncFund, &ev.Rubrica.IncWithholding, &ev.Rubrica.AutoMultiplier); err != nil {
			return Ledger{}, err
		}
		ledger.Events = append(ledger.Events, ev)
	}
	return ledger, rows.Err()
}

// ReplaceLedger rewrites the period's event rows from the in-memory ledger,
// preserving display order through the position column.
func (s *Store) ReplaceLedger(ctx context.Context, periodID string, ledger Ledger) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM payroll_events WHERE period_id = $1", periodID); err != nil {
		return err
	}
	for i, ev := range ledger.Events {
		if _, err := tx.Exec(ctx, `
      INSERT INTO payroll_events (id, period_id, rubrica_id, position, reference, earning, deduction)
      VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, ev.ID, periodID, ev.Rubrica.ID, i, ev.Reference, ev.Earning, ev.Deduction); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// SaveSettlement stores the settlement snapshot for a period, replacing any
// previous one. The event list rides along as JSON for audit display.
func (s *Store) SaveSettlement(ctx context.Context, periodID string, result SettlementResult) error {
	eventsJSON, err := json.Marshal(result.Events)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO settlements (period_id, total_earnings, total_deductions, net,
                             contribution_base, withholding_base, fund_base, fund_amount, events_json)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    ON CONFLICT (period_id)
    DO UPDATE SET total_earnings = EXCLUDED.total_earnings,
                  total_deductions = EXCLUDED.total_deductions,
                  net = EXCLUDED.net,
                  contribution_base = EXCLUDED.contribution_base,
                  withholding_base = EXCLUDED.withholding_base,
                  fund_base = EXCLUDED.fund_base,
                  fund_amount = EXCLUDED.fund_amount,
                  events_json = EXCLUDED.events_json,
                  computed_at = now()
  `, periodID, result.TotalEarnings, result.TotalDeductions, result.Net,
		result.ContributionBase, result.WithholdingBase, result.FundBase, result.FundAmount, eventsJSON)
	return err
}

func (s *Store) GetSettlement(ctx context.Context, periodID string) (SettlementResult, error) {
	var result SettlementResult
	var eventsJSON []byte
	err := s.DB.QueryRow(ctx, `
    SELECT total_earnings, total_deductions, net,
           contribution_base, withholding_base, fund_base, fund_amount, events_json
    FROM settlements
    WHERE period_id = $1
  `, periodID).Scan(&result.TotalEarnings, &result.TotalDeductions, &result.Net,
		&result.ContributionBase, &result.WithholdingBase, &result.FundBase, &result.FundAmount, &eventsJSON)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(eventsJSON, &result.Events); err != nil {
		return result, err
	}
	return result, nil
}
