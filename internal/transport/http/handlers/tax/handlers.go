package taxhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"folha/internal/domain/audit"
	"folha/internal/domain/tax"
	"folha/internal/transport/http/api"
	"folha/internal/transport/http/middleware"
)

type Handler struct {
	Store *tax.Store
	Audit *audit.Service
}

func NewHandler(store *tax.Store, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tax/tables", func(r chi.Router) {
		r.Get("/{year}", h.handleGetTables)
		r.With(middleware.RequireRole("admin")).Put("/{year}", h.handlePutTables)
	})
}

func (h *Handler) handleGetTables(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "year must be numeric", middleware.GetRequestID(r.Context()))
		return
	}

	set, err := h.Store.TableSetForYear(r.Context(), year)
	if errors.Is(err, tax.ErrYearNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "no tax tables for requested year", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "tax_tables_failed", "failed to load tax tables", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, set, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePutTables(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "year must be numeric", middleware.GetRequestID(r.Context()))
		return
	}

	var set tax.TableSet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	set.Year = year

	if err := h.Store.SaveTableSet(r.Context(), set); err != nil {
		api.Fail(w, http.StatusInternalServerError, "tax_tables_failed", "failed to save tax tables", middleware.GetRequestID(r.Context()))
		return
	}

	claims, _ := middleware.GetUser(r.Context())
	actorID := ""
	if claims != nil {
		actorID = claims.UserID
	}
	_ = h.Audit.Record(r.Context(), actorID, "tax.tables.update", "tax_tables", strconv.Itoa(year), middleware.GetRequestID(r.Context()), nil, set)

	api.Success(w, map[string]int{"year": year}, middleware.GetRequestID(r.Context()))
}
