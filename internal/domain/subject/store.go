package subject

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("subject not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, COALESCE(employee_number, ''), first_name, last_name, email,
           salary, admission_date, status, created_at, updated_at
    FROM employees
    WHERE id = $1
  `, employeeID)

	var emp Employee
	err := row.Scan(&emp.ID, &emp.EmployeeNumber, &emp.FirstName, &emp.LastName, &emp.Email,
		&emp.Salary, &emp.Admission, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	deps, err := s.listDependents(ctx, emp.ID)
	if err != nil {
		return nil, err
	}
	emp.Dependents = deps
	return &emp, nil
}

func (s *Store) GetPartner(ctx context.Context, partnerID string) (*Partner, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, first_name, last_name, email, pro_labore, admission_date, status, created_at, updated_at
    FROM partners
    WHERE id = $1
  `, partnerID)

	var p Partner
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email,
		&p.ProLabore, &p.Admission, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	deps, err := s.listDependents(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Dependents = deps
	return &p, nil
}

// GetSubject resolves an id against employees first, then partners, returning
// whichever variant matches.
func (s *Store) GetSubject(ctx context.Context, subjectID string) (CompensationSubject, error) {
	emp, err := s.GetEmployee(ctx, subjectID)
	if err == nil {
		return emp, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.GetPartner(ctx, subjectID)
}

func (s *Store) ListEmployees(ctx context.Context, status string, limit, offset int) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, COALESCE(employee_number, ''), first_name, last_name, email,
           salary, admission_date, status, created_at, updated_at
    FROM employees
    WHERE status = $1
    ORDER BY last_name, first_name
    LIMIT $2 OFFSET $3
  `, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.EmployeeNumber, &emp.FirstName, &emp.LastName, &emp.Email,
			&emp.Salary, &emp.Admission, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) ListPartners(ctx context.Context, status string, limit, offset int) ([]Partner, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, first_name, last_name, email, pro_labore, admission_date, status, created_at, updated_at
    FROM partners
    WHERE status = $1
    ORDER BY last_name, first_name
    LIMIT $2 OFFSET $3
  `, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Partner
	for rows.Next() {
		var p Partner
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email,
			&p.ProLabore, &p.Admission, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CreateEmployee(ctx context.Context, emp Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (employee_number, first_name, last_name, email, salary, admission_date, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, emp.EmployeeNumber, emp.FirstName, emp.LastName, emp.Email, emp.Salary, emp.Admission, emp.Status).Scan(&id)
	return id, err
}

func (s *Store) CreatePartner(ctx context.Context, p Partner) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO partners (first_name, last_name, email, pro_labore, admission_date, status)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, p.FirstName, p.LastName, p.Email, p.ProLabore, p.Admission, p.Status).Scan(&id)
	return id, err
}

func (s *Store) AddDependent(ctx context.Context, subjectID string, dep Dependent) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO dependents (subject_id, name, birth_date, withholding_eligible, allowance_eligible)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, subjectID, dep.Name, dep.BirthDate, dep.WithholdingEligible, dep.AllowanceEligible).Scan(&id)
	return id, err
}

func (s *Store) listDependents(ctx context.Context, subjectID string) ([]Dependent, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, birth_date, withholding_eligible, allowance_eligible
    FROM dependents
    WHERE subject_id = $1
    ORDER BY name
  `, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Dependent
	for rows.Next() {
		var dep Dependent
		if err := rows.Scan(&dep.ID, &dep.Name, &dep.BirthDate, &dep.WithholdingEligible, &dep.AllowanceEligible); err != nil {
			return nil, err
		}
		out = append(out, dep)
	}
	return out, rows.Err()
}
