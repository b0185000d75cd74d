package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"pos-dashboard/internal/errors"
	"pos-dashboard/internal/services"
)

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

var cacheHeaders = map[string]string{
	"Cache-Control": "public, max-age=300",
}

func (h *APIHandlers) requireData(w http.ResponseWriter, r *http.Request) bool {
	if h.analytics.Loaded() {
		return true
	}
	err := errors.NotFound("no analytics available: no sales records have been loaded")
	errors.WriteError(w, h.logger, err, r.Header.Get("X-Request-ID"))
	return false
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if !h.requireData(w, r) {
		return
	}
	errors.WriteSuccessWithHeaders(w, h.analytics.Summary(), cacheHeaders)
}

func (h *APIHandlers) HandleProducts(w http.ResponseWriter, r *http.Request) {
	if !h.requireData(w, r) {
		return
	}
	errors.WriteSuccessWithHeaders(w, h.analytics.Products(), cacheHeaders)
}

func (h *APIHandlers) HandleHourly(w http.ResponseWriter, r *http.Request) {
	if !h.requireData(w, r) {
		return
	}
	errors.WriteSuccessWithHeaders(w, h.analytics.Hourly(), cacheHeaders)
}

func (h *APIHandlers) HandlePayments(w http.ResponseWriter, r *http.Request) {
	if !h.requireData(w, r) {
		return
	}
	errors.WriteSuccessWithHeaders(w, h.analytics.Payments(), cacheHeaders)
}

func (h *APIHandlers) HandleFrequency(w http.ResponseWriter, r *http.Request) {
	if !h.requireData(w, r) {
		return
	}
	errors.WriteSuccessWithHeaders(w, h.analytics.Frequency(), cacheHeaders)
}

func (h *APIHandlers) HandlePriceVolume(w http.ResponseWriter, r *http.Request) {
	if !h.requireData(w, r) {
		return
	}
	errors.WriteSuccessWithHeaders(w, h.analytics.PriceVolume(), cacheHeaders)
}

func (h *APIHandlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	if !h.requireData(w, r) {
		return
	}
	errors.WriteSuccessWithHeaders(w, h.analytics.Insights(), cacheHeaders)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {

	stats := h.analytics.Stats()

	errors.WriteSuccess(w, stats)
}
