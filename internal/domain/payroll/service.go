package payroll

import (
	"context"
	"errors"
	"strconv"

	"folha/internal/domain/subject"
	"folha/internal/domain/tax"
)

type Service struct {
	store    *Store
	subjects *subject.Store
	taxes    *tax.Store
}

func NewService(store *Store, subjects *subject.Store, taxes *tax.Store) *Service {
	return &Service{store: store, subjects: subjects, taxes: taxes}
}

func (s *Service) Store() *Store {
	return s.store
}

// tablesFor resolves the table set for a competence ("YYYY-MM"). Years not
// yet loaded into the database fall back to the compiled-in defaults.
func (s *Service) tablesFor(ctx context.Context, competence string) (tax.TableSet, error) {
	year := 0
	if len(competence) >= 4 {
		year, _ = strconv.Atoi(competence[:4])
	}
	set, err := s.taxes.TableSetForYear(ctx, year)
	if errors.Is(err, tax.ErrYearNotFound) {
		return tax.DefaultTables(), nil
	}
	return set, err
}

func (s *Service) editablePeriod(ctx context.Context, periodID string) (Period, error) {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return period, err
	}
	if period.Status == PeriodStatusFinalized {
		return period, ErrPeriodFinalized
	}
	return period, nil
}

// OpenPeriod creates a draft period for a subject, seeds its ledger with the
// base compensation line and runs the first settlement pass.
func (s *Service) OpenPeriod(ctx context.Context, subjectID, competence string) (Period, SettlementResult, error) {
	subj, err := s.subjects.GetSubject(ctx, subjectID)
	if err != nil {
		return Period{}, SettlementResult{}, err
	}

	periodID, err := s.store.CreatePeriod(ctx, subjectID, competence)
	if err != nil {
		return Period{}, SettlementResult{}, err
	}

	ledger := NewLedger(subj)
	if err := s.store.ReplaceLedger(ctx, periodID, ledger); err != nil {
		return Period{}, SettlementResult{}, err
	}

	result, err := s.recompute(ctx, periodID, subj, ledger, competence)
	if err != nil {
		return Period{}, SettlementResult{}, err
	}
	period, err := s.store.GetPeriod(ctx, periodID)
	return period, result, err
}

// AddEvent seeds an event for the rubrica on a draft period and recomputes.
func (s *Service) AddEvent(ctx context.Context, periodID, rubricaID string) (SettlementResult, error) {
	period, err := s.editablePeriod(ctx, periodID)
	if err != nil {
		return SettlementResult{}, err
	}
	rubrica, err := s.store.GetRubrica(ctx, rubricaID)
	if err != nil {
		return SettlementResult{}, err
	}
	ledger, err := s.store.LoadLedger(ctx, periodID)
	if err != nil {
		return SettlementResult{}, err
	}
	if _, err := ledger.AddEvent(rubrica); err != nil {
		return SettlementResult{}, err
	}
	return s.persistAndRecompute(ctx, period, ledger)
}

// UpdateEvent edits one field of a user-entered event and recomputes.
func (s *Service) UpdateEvent(ctx context.Context, periodID, eventID, field string, value float64) (SettlementResult, error) {
	period, err := s.editablePeriod(ctx, periodID)
	if err != nil {
		return SettlementResult{}, err
	}
	ledger, err := s.store.LoadLedger(ctx, periodID)
	if err != nil {
		return SettlementResult{}, err
	}
	if err := ledger.UpdateEvent(eventID, field, value); err != nil {
		return SettlementResult{}, err
	}
	return s.persistAndRecompute(ctx, period, ledger)
}

// RemoveEvent deletes a non-protected event and recomputes.
func (s *Service) RemoveEvent(ctx context.Context, periodID, eventID string) (SettlementResult, error) {
	period, err := s.editablePeriod(ctx, periodID)
	if err != nil {
		return SettlementResult{}, err
	}
	ledger, err := s.store.LoadLedger(ctx, periodID)
	if err != nil {
		return SettlementResult{}, err
	}
	if err := ledger.RemoveEvent(eventID); err != nil {
		return SettlementResult{}, err
	}
	return s.persistAndRecompute(ctx, period, ledger)
}

// Recompute re-runs the settlement pass over the stored ledger. Idempotent:
// with no intervening edits the stored snapshot comes out identical.
func (s *Service) Recompute(ctx context.Context, periodID string) (SettlementResult, error) {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return SettlementResult{}, err
	}
	ledger, err := s.store.LoadLedger(ctx, periodID)
	if err != nil {
		return SettlementResult{}, err
	}
	subj, err := s.subjects.GetSubject(ctx, period.SubjectID)
	if err != nil {
		return SettlementResult{}, err
	}
	return s.recompute(ctx, periodID, subj, ledger, period.Competence)
}

// RecomputeWithOverride validates an informed gross total against the ledger
// before settling. A zero override behaves exactly like Recompute.
func (s *Service) RecomputeWithOverride(ctx context.Context, periodID string, overrideGross float64) (SettlementResult, error) {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return SettlementResult{}, err
	}
	ledger, err := s.store.LoadLedger(ctx, periodID)
	if err != nil {
		return SettlementResult{}, err
	}
	subj, err := s.subjects.GetSubject(ctx, period.SubjectID)
	if err != nil {
		return SettlementResult{}, err
	}
	tables, err := s.tablesFor(ctx, period.Competence)
	if err != nil {
		return SettlementResult{}, err
	}
	result, err := SettleWithOverride(subj, ledger, tables, overrideGross)
	if err != nil {
		return SettlementResult{}, err
	}
	if err := s.store.ReplaceLedger(ctx, periodID, Ledger{Events: result.Events}); err != nil {
		return SettlementResult{}, err
	}
	if err := s.store.SaveSettlement(ctx, periodID, result); err != nil {
		return SettlementResult{}, err
	}
	return result, nil
}

func (s *Service) persistAndRecompute(ctx context.Context, period Period, ledger Ledger) (SettlementResult, error) {
	subj, err := s.subjects.GetSubject(ctx, period.SubjectID)
	if err != nil {
		return SettlementResult{}, err
	}
	return s.recompute(ctx, period.ID, subj, ledger, period.Competence)
}

func (s *Service) recompute(ctx context.Context, periodID string, subj subject.CompensationSubject, ledger Ledger, competence string) (SettlementResult, error) {
	tables, err := s.tablesFor(ctx, competence)
	if err != nil {
		return SettlementResult{}, err
	}
	result := Settle(subj, ledger, tables)
	if err := s.store.ReplaceLedger(ctx, periodID, Ledger{Events: result.Events}); err != nil {
		return SettlementResult{}, err
	}
	if err := s.store.SaveSettlement(ctx, periodID, result); err != nil {
		return SettlementResult{}, err
	}
	return result, nil
}

// Finalize marks a period read-only. The engine never checks finalization;
// this service is the layer that rejects further mutation.
func (s *Service) Finalize(ctx context.Context, periodID string) error {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return err
	}
	if period.Status == PeriodStatusFinalized {
		return ErrPeriodFinalized
	}
	return s.store.UpdatePeriodStatus(ctx, periodID, PeriodStatusFinalized)
}

func (s *Service) Reopen(ctx context.Context, periodID string) error {
	if _, err := s.store.GetPeriod(ctx, periodID); err != nil {
		return err
	}
	return s.store.UpdatePeriodStatus(ctx, periodID, PeriodStatusDraft)
}
