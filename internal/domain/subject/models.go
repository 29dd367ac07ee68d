package subject

import "time"

// Dependent is carried by both employees and partners. The two eligibility
// flags feed different calculations: withholding eligibility changes the
// income-withholding base, family-allowance eligibility is reporting-only.
type Dependent struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	BirthDate           *time.Time `json:"birthDate,omitempty"`
	WithholdingEligible bool       `json:"withholdingEligible"`
	AllowanceEligible   bool       `json:"allowanceEligible"`
}

// CompensationSubject is what the calculation engine sees. Employees and
// partners both satisfy it; the engine never distinguishes the two.
type CompensationSubject interface {
	SubjectID() string
	BaseCompensation() float64
	DependentList() []Dependent
	AdmissionDate() time.Time
}

type Employee struct {
	ID             string      `json:"id"`
	EmployeeNumber string      `json:"employeeNumber"`
	FirstName      string      `json:"firstName"`
	LastName       string      `json:"lastName"`
	Email          string      `json:"email"`
	Salary         float64     `json:"salary"`
	Admission      time.Time   `json:"admissionDate"`
	Dependents     []Dependent `json:"dependents"`
	Status         string      `json:"status"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

func (e *Employee) SubjectID() string          { return e.ID }
func (e *Employee) BaseCompensation() float64  { return e.Salary }
func (e *Employee) DependentList() []Dependent { return e.Dependents }
func (e *Employee) AdmissionDate() time.Time   { return e.Admission }

// Partner is a company partner drawing pro-labore instead of salary.
type Partner struct {
	ID         string      `json:"id"`
	FirstName  string      `json:"firstName"`
	LastName   string      `json:"lastName"`
	Email      string      `json:"email"`
	ProLabore  float64     `json:"proLabore"`
	Admission  time.Time   `json:"admissionDate"`
	Dependents []Dependent `json:"dependents"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

func (p *Partner) SubjectID() string          { return p.ID }
func (p *Partner) BaseCompensation() float64  { return p.ProLabore }
func (p *Partner) DependentList() []Dependent { return p.Dependents }
func (p *Partner) AdmissionDate() time.Time   { return p.Admission }
