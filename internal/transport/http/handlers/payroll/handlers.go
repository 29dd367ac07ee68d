package payrollhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"folha/internal/domain/audit"
	"folha/internal/domain/payroll"
	"folha/internal/domain/subject"
	"folha/internal/platform/metrics"
	"folha/internal/transport/http/api"
	"folha/internal/transport/http/middleware"
	"folha/internal/transport/http/shared"
)

type Handler struct {
	Service     *payroll.Service
	Audit       *audit.Service
	Metrics     *metrics.Collector
	Idempotency *middleware.IdempotencyStore
	PayslipDir  string
}

func NewHandler(service *payroll.Service, auditSvc *audit.Service, collector *metrics.Collector, idem *middleware.IdempotencyStore, payslipDir string) *Handler {
	return &Handler{Service: service, Audit: auditSvc, Metrics: collector, Idempotency: idem, PayslipDir: payslipDir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Get("/rubricas", h.handleListRubricas)
		r.With(middleware.RequireRole("admin")).Post("/rubricas", h.handleCreateRubrica)

		r.Get("/periods", h.handleListPeriods)
		r.Post("/periods", h.handleOpenPeriod)
		r.Get("/periods/{periodID}", h.handleGetPeriod)
		r.Post("/periods/{periodID}/events", h.handleAddEvent)
		r.Patch("/periods/{periodID}/events/{eventID}", h.handleUpdateEvent)
		r.Delete("/periods/{periodID}/events/{eventID}", h.handleRemoveEvent)
		r.Post("/periods/{periodID}/recompute", h.handleRecompute)
		r.With(middleware.RequireRole("admin")).Post("/periods/{periodID}/finalize", h.handleFinalize)
		r.With(middleware.RequireRole("admin")).Post("/periods/{periodID}/reopen", h.handleReopen)
		r.Get("/periods/{periodID}/payslip", h.handleDownloadPayslip)
	})
}

// failDomain maps calculation and ledger errors onto response codes. Anything
// unrecognized is a 500.
func failDomain(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, payroll.ErrPeriodNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "period not found", requestID)
	case errors.Is(err, payroll.ErrEventNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "event not found", requestID)
	case errors.Is(err, subject.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "subject not found", requestID)
	case errors.Is(err, payroll.ErrPeriodFinalized):
		api.Fail(w, http.StatusConflict, "period_finalized", "period is finalized", requestID)
	case errors.Is(err, payroll.ErrDuplicateRubrica):
		api.Fail(w, http.StatusConflict, "duplicate_rubrica", "rubrica already present in ledger", requestID)
	case errors.Is(err, payroll.ErrProtectedRubrica):
		api.Fail(w, http.StatusBadRequest, "protected_rubrica", "rubrica cannot be removed", requestID)
	case errors.Is(err, payroll.ErrSystemManaged):
		api.Fail(w, http.StatusBadRequest, "system_managed", "event is managed by the engine", requestID)
	case errors.Is(err, payroll.ErrUnknownField):
		api.Fail(w, http.StatusBadRequest, "unknown_field", "field must be reference, earning or deduction", requestID)
	case errors.Is(err, payroll.ErrNegativeAmount):
		api.Fail(w, http.StatusBadRequest, "negative_amount", "amounts must not be negative", requestID)
	case errors.Is(err, payroll.ErrTotalMismatch):
		api.Fail(w, http.StatusUnprocessableEntity, "total_mismatch", "informed total does not match computed earnings", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "operation failed", requestID)
	}
}

func (h *Handler) handleListRubricas(w http.ResponseWriter, r *http.Request) {
	rubricas, err := h.Service.Store().ListRubricas(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "rubrica_list_failed", "failed to list rubricas", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rubricas, middleware.GetRequestID(r.Context()))
}

type rubricaPayload struct {
	Code            int     `json:"code"`
	Description     string  `json:"description"`
	Kind            string  `json:"kind"`
	Protected       bool    `json:"protected"`
	IncContribution bool    `json:"incContribution"`
	IncFund         bool    `json:"incFund"`
	IncWithholding  bool    `json:"incWithholding"`
	AutoMultiplier  float64 `json:"autoMultiplier"`
}

func (h *Handler) handleCreateRubrica(w http.ResponseWriter, r *http.Request) {
	var payload rubricaPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("description", payload.Description, "description is required")
	v.Enum("kind", payload.Kind, []string{payroll.KindEarning, payroll.KindDeduction}, "kind must be earning or deduction")
	v.NonNegative("autoMultiplier", payload.AutoMultiplier)
	if payload.Code <= 0 {
		v.Add("code", "code must be positive")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.Store().CreateRubrica(r.Context(), payroll.Rubrica{
		Code:            payload.Code,
		Description:     payload.Description,
		Kind:            payload.Kind,
		Protected:       payload.Protected,
		IncContribution: payload.IncContribution,
		IncFund:         payload.IncFund,
		IncWithholding:  payload.IncWithholding,
		AutoMultiplier:  payload.AutoMultiplier,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "rubrica_create_failed", "failed to create rubrica", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, "payroll.rubrica.create", "rubrica", id, nil, payload)
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	subjectID := r.URL.Query().Get("subjectId")
	if subjectID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "subjectId query parameter required", middleware.GetRequestID(r.Context()))
		return
	}
	page := shared.ParsePagination(r, 24, 120)
	periods, err := h.Service.Store().ListPeriods(r.Context(), subjectID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "period_list_failed", "failed to list periods", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, periods, middleware.GetRequestID(r.Context()))
}

type openPeriodPayload struct {
	SubjectID  string `json:"subjectId"`
	Competence string `json:"competence"`
}

func (h *Handler) handleOpenPeriod(w http.ResponseWriter, r *http.Request) {
	var payload openPeriodPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("subjectId", payload.SubjectID, "subject id is required")
	competence, _ := v.Competence("competence", payload.Competence)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	period, result, err := h.Service.OpenPeriod(r.Context(), payload.SubjectID, competence)
	if err != nil {
		failDomain(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.Metrics.RecordSettlement()
	h.record(r, "payroll.period.open", "payroll_period", period.ID, nil, payload)
	api.Created(w, map[string]any{"period": period, "settlement": result}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	period, err := h.Service.Store().GetPeriod(r.Context(), periodID)
	if err != nil {
		failDomain(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	settlement, err := h.Service.Store().GetSettlement(r.Context(), periodID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "period_get_failed", "failed to load settlement", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"period": period, "settlement": settlement}, middleware.GetRequestID(r.Context()))
}

type addEventPayload struct {
	RubricaID string `json:"rubricaId"`
}

func (h *Handler) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var payload addEventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.RubricaID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "rubrica id required", middleware.GetRequestID(r.Context()))
		return
	}

	periodID := chi.URLParam(r, "periodID")
	result, err := h.Service.AddEvent(r.Context(), periodID, payload.RubricaID)
	if err != nil {
		failDomain(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.Metrics.RecordSettlement()
	h.record(r, "payroll.event.add", "payroll_period", periodID, nil, payload)
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

type updateEventPayload struct {
	Field string  `json:"field"`
	Value float64 `json:"value"`
}

func (h *Handler) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var payload updateEventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	periodID := chi.URLParam(r, "periodID")
	eventID := chi.URLParam(r, "eventID")
	result, err := h.Service.UpdateEvent(r.Context(), periodID, eventID, payload.Field, payload.Value)
	if err != nil {
		failDomain(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.Metrics.RecordSettlement()
	h.record(r, "payroll.event.update", "payroll_event", eventID, nil, payload)
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRemoveEvent(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	eventID := chi.URLParam(r, "eventID")
	result, err := h.Service.RemoveEvent(r.Context(), periodID, eventID)
	if err != nil {
		failDomain(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.Metrics.RecordSettlement()
	h.record(r, "payroll.event.remove", "payroll_event", eventID, nil, nil)
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

type recomputePayload struct {
	OverrideGross float64 `json:"overrideGross"`
}

func (h *Handler) handleRecompute(w http.ResponseWriter, r *http.Request) {
	var payload recomputePayload
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	periodID := chi.URLParam(r, "periodID")
	var result payroll.SettlementResult
	var err error
	if payload.OverrideGross != 0 {
		result, err = h.Service.RecomputeWithOverride(r.Context(), periodID, payload.OverrideGross)
	} else {
		result, err = h.Service.Recompute(r.Context(), periodID)
	}
	if err != nil {
		failDomain(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.Metrics.RecordSettlement()
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	claims, _ := middleware.GetUser(r.Context())

	idempotencyKey := r.Header.Get("Idempotency-Key")
	requestHash := middleware.RequestHash([]byte(periodID))
	if idempotencyKey != "" && claims != nil {
		stored, found, err := h.Idempotency.Check(r.Context(), claims.UserID, "payroll.finalize", idempotencyKey, requestHash)
		if err != nil {
			slog.Warn("idempotency check failed", "err", err)
		}
		if found {
			api.Success(w, json.RawMessage(stored), middleware.GetRequestID(r.Context()))
			return
		}
	}

	if err := h.Service.Finalize(r.Context(), periodID); err != nil {
		failDomain(w, err, middleware.GetRequestID(r.Context()))
		return
	}

	response := map[string]string{"status": payroll.PeriodStatusFinalized}
	if idempotencyKey != "" && claims != nil {
		encoded, err := json.Marshal(response)
		if err == nil {
			if err := h.Idempotency.Save(r.Context(), claims.UserID, "payroll.finalize", idempotencyKey, requestHash, encoded); err != nil {
				slog.Warn("idempotency save failed", "err", err)
			}
		}
	}
	h.record(r, "payroll.period.finalize", "payroll_period", periodID, nil, nil)
	api.Success(w, response, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReopen(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	if err := h.Service.Reopen(r.Context(), periodID); err != nil {
		failDomain(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, "payroll.period.reopen", "payroll_period", periodID, nil, nil)
	api.Success(w, map[string]string{"status": payroll.PeriodStatusDraft}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDownloadPayslip(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	path, err := h.Service.GeneratePayslipPDF(r.Context(), periodID, h.PayslipDir)
	if err != nil {
		failDomain(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	http.ServeFile(w, r, path)
}

func (h *Handler) record(r *http.Request, action, entityType, entityID string, before, after any) {
	claims, _ := middleware.GetUser(r.Context())
	actorID := ""
	if claims != nil {
		actorID = claims.UserID
	}
	if err := h.Audit.Record(r.Context(), actorID, action, entityType, entityID, middleware.GetRequestID(r.Context()), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
