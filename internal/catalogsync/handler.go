package catalogsync

import (
	"context"
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-catalog-sync/internal/auth"
	"github.com/fekuna/omnipos-catalog-sync/internal/logger"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/fekuna/omnipos-catalog-sync/internal/synclock"
	"github.com/fekuna/omnipos-catalog-sync/internal/woocommerce"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handler struct {
	runner    Runner
	verifier  *auth.Verifier
	adminRole string
	logger    logger.ZapLogger
}

func NewHandler(runner Runner, verifier *auth.Verifier, adminRole string, log logger.ZapLogger) *Handler {
	return &Handler{runner: runner, verifier: verifier, adminRole: adminRole, logger: log}
}

type runResponse struct {
	Success    bool   `json:"success"`
	Resource   string `json:"resource,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Total      int    `json:"total"`
	Imported   int    `json:"imported"`
	Updated    int    `json:"updated"`
	Skipped    int    `json:"skipped"`
	Errors     int    `json:"errors"`
	Unresolved int    `json:"unresolved"`
	Message    string `json:"message"`
}

type statusResponse struct {
	Success bool                        `json:"success"`
	Reports map[string]model.SyncReport `json:"reports"`
}

// Routes mounts the admin sync API plus health and metrics endpoints.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/sync", func(r chi.Router) {
		r.Use(auth.RequireRole(h.verifier, h.adminRole, h.logger))

		r.Post("/categories", h.trigger(model.ResourceCategories, ""))
		r.Post("/products/import", h.trigger(model.ResourceProducts, model.ModeImport))
		r.Post("/products/resync", h.trigger(model.ResourceProducts, model.ModeResync))
		r.Post("/orders/import", h.trigger(model.ResourceOrders, ""))

		// Action-style aliases used by the admin dashboard.
		r.Post("/sync-categories", h.trigger(model.ResourceCategories, ""))
		r.Post("/import-products", h.trigger(model.ResourceProducts, model.ModeImport))
		r.Post("/resync-products", h.trigger(model.ResourceProducts, model.ModeResync))
		r.Post("/import-orders", h.trigger(model.ResourceOrders, ""))

		r.Get("/status", h.status)
	})

	return r
}

func (h *Handler) trigger(resource, mode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := Request{Resource: resource, Mode: mode}
		if u, ok := auth.UserFromContext(r.Context()); ok {
			req.RequestedBy = u.UserID
		}

		// A run outlives a dropped client connection; the coordinator's own
		// deadline still applies.
		report, err := h.runner.Run(context.WithoutCancel(r.Context()), req)
		if err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				h.logger.Error("sync request failed", zap.String("resource", resource), zap.String("mode", mode), zap.Error(err))
			}
			writeJSON(w, status, runResponse{Resource: resource, Mode: mode, Message: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, runResponse{
			Success:    true,
			Resource:   report.Resource,
			Mode:       report.Mode,
			Total:      report.Total,
			Imported:   report.Imported,
			Updated:    report.Updated,
			Skipped:    report.Skipped,
			Errors:     report.Errors,
			Unresolved: report.Unresolved,
			Message:    report.Message,
		})
	}
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	reports, err := h.runner.LastReports(r.Context())
	if err != nil {
		h.logger.Error("failed to load sync reports", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "failed to load sync reports"})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Reports: reports})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, synclock.ErrLocked):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownResource):
		return http.StatusNotFound
	case errors.Is(err, woocommerce.ErrFetchFailed):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
