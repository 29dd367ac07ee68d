package revenuehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"folha/internal/domain/revenue"
	"folha/internal/domain/tax"
	"folha/internal/platform/metrics"
	"folha/internal/transport/http/api"
	"folha/internal/transport/http/middleware"
)

type Handler struct {
	Taxes   *tax.Store
	Metrics *metrics.Collector
}

func NewHandler(taxes *tax.Store, collector *metrics.Collector) *Handler {
	return &Handler{Taxes: taxes, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/revenue/calculate", h.handleCalculate)
}

type calculatePayload struct {
	Category        string  `json:"category"`
	CurrentRevenue  float64 `json:"currentRevenue"`
	TrailingRevenue float64 `json:"trailingRevenue"`
	Year            int     `json:"year"`
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var payload calculatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	tables := tax.DefaultTables()
	if payload.Year != 0 {
		loaded, err := h.Taxes.TableSetForYear(r.Context(), payload.Year)
		if err == nil {
			tables = loaded
		} else if !errors.Is(err, tax.ErrYearNotFound) {
			api.Fail(w, http.StatusInternalServerError, "revenue_failed", "failed to load tax tables", middleware.GetRequestID(r.Context()))
			return
		}
	}

	result, err := revenue.Calculate(revenue.Input{
		Category:        tax.RevenueCategory(payload.Category),
		CurrentRevenue:  payload.CurrentRevenue,
		TrailingRevenue: payload.TrailingRevenue,
	}, tables)
	switch {
	case errors.Is(err, revenue.ErrNoApplicableRevenue):
		api.Fail(w, http.StatusUnprocessableEntity, "no_applicable_revenue", "current revenue is zero", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, revenue.ErrUnknownCategory):
		api.Fail(w, http.StatusBadRequest, "unknown_category", "category must be goods or services", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, revenue.ErrNegativeRevenue):
		api.Fail(w, http.StatusBadRequest, "negative_revenue", "revenue must not be negative", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "revenue_failed", "failed to calculate revenue tax", middleware.GetRequestID(r.Context()))
		return
	}

	h.Metrics.RecordRevenueCalc()
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}
