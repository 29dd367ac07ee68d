package subjecthandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"folha/internal/domain/subject"
	"folha/internal/transport/http/api"
	"folha/internal/transport/http/middleware"
	"folha/internal/transport/http/shared"
)

type Handler struct {
	Store *subject.Store
}

func NewHandler(store *subject.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleListEmployees)
		r.With(middleware.RequireRole("admin")).Post("/", h.handleCreateEmployee)
		r.Get("/{employeeID}", h.handleGetEmployee)
	})
	r.Route("/partners", func(r chi.Router) {
		r.Get("/", h.handleListPartners)
		r.With(middleware.RequireRole("admin")).Post("/", h.handleCreatePartner)
		r.Get("/{partnerID}", h.handleGetPartner)
	})
	r.With(middleware.RequireRole("admin")).
		Post("/subjects/{subjectID}/dependents", h.handleAddDependent)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	status := r.URL.Query().Get("status")
	employees, err := h.Store.ListEmployees(r.Context(), status, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

type employeePayload struct {
	EmployeeNumber string  `json:"employeeNumber"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	Salary         float64 `json:"salary"`
	AdmissionDate  string  `json:"admissionDate"`
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "first name is required")
	v.Required("lastName", payload.LastName, "last name is required")
	v.Required("email", payload.Email, "email is required")
	v.NonNegative("salary", payload.Salary)
	admission, _ := v.Date("admissionDate", payload.AdmissionDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateEmployee(r.Context(), subject.Employee{
		EmployeeNumber: payload.EmployeeNumber,
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		Email:          payload.Email,
		Salary:         payload.Salary,
		Admission:      admission,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, subject.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPartners(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	status := r.URL.Query().Get("status")
	partners, err := h.Store.ListPartners(r.Context(), status, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "partner_list_failed", "failed to list partners", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, partners, middleware.GetRequestID(r.Context()))
}

type partnerPayload struct {
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Email         string  `json:"email"`
	ProLabore     float64 `json:"proLabore"`
	AdmissionDate string  `json:"admissionDate"`
}

func (h *Handler) handleCreatePartner(w http.ResponseWriter, r *http.Request) {
	var payload partnerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "first name is required")
	v.Required("lastName", payload.LastName, "last name is required")
	v.Required("email", payload.Email, "email is required")
	v.NonNegative("proLabore", payload.ProLabore)
	admission, _ := v.Date("admissionDate", payload.AdmissionDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreatePartner(r.Context(), subject.Partner{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		ProLabore: payload.ProLabore,
		Admission: admission,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "partner_create_failed", "failed to create partner", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetPartner(w http.ResponseWriter, r *http.Request) {
	partner, err := h.Store.GetPartner(r.Context(), chi.URLParam(r, "partnerID"))
	if errors.Is(err, subject.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "partner not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "partner_get_failed", "failed to load partner", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, partner, middleware.GetRequestID(r.Context()))
}

type dependentPayload struct {
	Name                string `json:"name"`
	BirthDate           string `json:"birthDate"`
	WithholdingEligible bool   `json:"withholdingEligible"`
	AllowanceEligible   bool   `json:"allowanceEligible"`
}

func (h *Handler) handleAddDependent(w http.ResponseWriter, r *http.Request) {
	var payload dependentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	dep := subject.Dependent{
		Name:                payload.Name,
		WithholdingEligible: payload.WithholdingEligible,
		AllowanceEligible:   payload.AllowanceEligible,
	}
	if payload.BirthDate != "" {
		birth, err := shared.ParseDate(payload.BirthDate)
		if err != nil {
			shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "birthDate", Reason: "must be a valid date in YYYY-MM-DD format"}})
			return
		}
		dep.BirthDate = &birth
	}

	id, err := h.Store.AddDependent(r.Context(), chi.URLParam(r, "subjectID"), dep)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dependent_create_failed", "failed to add dependent", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}
