package terminationhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"folha/internal/domain/subject"
	"folha/internal/domain/tax"
	"folha/internal/domain/termination"
	"folha/internal/platform/metrics"
	"folha/internal/transport/http/api"
	"folha/internal/transport/http/middleware"
	"folha/internal/transport/http/shared"
)

type Handler struct {
	Subjects *subject.Store
	Taxes    *tax.Store
	Metrics  *metrics.Collector
	OutDir   string
}

func NewHandler(subjects *subject.Store, taxes *tax.Store, collector *metrics.Collector, outDir string) *Handler {
	return &Handler{Subjects: subjects, Taxes: taxes, Metrics: collector, OutDir: outDir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/terminations/calculate", h.handleCalculate)
	r.Post("/terminations/receipt", h.handleReceipt)
}

type calculatePayload struct {
	SubjectID       string  `json:"subjectId"`
	TerminationDate string  `json:"terminationDate"`
	Reason          string  `json:"reason"`
	NoticeModality  string  `json:"noticeModality"`
	FundBalance     float64 `json:"fundBalance"`
}

// calculate runs the shared decode, validate and compute path. The bool
// reports whether a response has already been written.
func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) (termination.Input, termination.Result, bool) {
	var payload calculatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return termination.Input{}, termination.Result{}, false
	}

	v := shared.NewValidator()
	v.Required("subjectId", payload.SubjectID, "subject id is required")
	v.Required("terminationDate", payload.TerminationDate, "termination date is required")
	v.Enum("reason", payload.Reason,
		[]string{termination.ReasonWithoutCause, termination.ReasonResignation},
		"reason must be without-cause or resignation")
	v.Enum("noticeModality", payload.NoticeModality,
		[]string{termination.NoticeIndemnified, termination.NoticeWorked},
		"notice modality must be indemnified or worked")
	terminationDate, _ := v.Date("terminationDate", payload.TerminationDate)
	v.NonNegative("fundBalance", payload.FundBalance)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return termination.Input{}, termination.Result{}, false
	}

	subj, err := h.Subjects.GetSubject(r.Context(), payload.SubjectID)
	if errors.Is(err, subject.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "subject not found", middleware.GetRequestID(r.Context()))
		return termination.Input{}, termination.Result{}, false
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "termination_failed", "failed to load subject", middleware.GetRequestID(r.Context()))
		return termination.Input{}, termination.Result{}, false
	}

	tables, err := h.Taxes.TableSetForYear(r.Context(), terminationDate.Year())
	if errors.Is(err, tax.ErrYearNotFound) {
		tables = tax.DefaultTables()
	} else if err != nil {
		api.Fail(w, http.StatusInternalServerError, "termination_failed", "failed to load tax tables", middleware.GetRequestID(r.Context()))
		return termination.Input{}, termination.Result{}, false
	}

	in := termination.Input{
		Subject:         subj,
		TerminationDate: terminationDate,
		Reason:          payload.Reason,
		NoticeModality:  payload.NoticeModality,
		FundBalance:     payload.FundBalance,
	}
	result, err := termination.Calculate(in, tables)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "termination_invalid", err.Error(), middleware.GetRequestID(r.Context()))
		return termination.Input{}, termination.Result{}, false
	}

	h.Metrics.RecordTermination()
	return in, result, true
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	_, result, ok := h.calculate(w, r)
	if !ok {
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReceipt(w http.ResponseWriter, r *http.Request) {
	in, result, ok := h.calculate(w, r)
	if !ok {
		return
	}
	path, err := termination.WriteReceiptPDF(in, result, h.OutDir)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "termination_failed", "failed to render receipt", middleware.GetRequestID(r.Context()))
		return
	}
	http.ServeFile(w, r, path)
}
