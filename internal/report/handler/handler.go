// Package handler wires the transaction report endpoints to the report
// service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/export"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/pkg/apperrors"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/pkg/httputil"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/pkg/requestcontext"
)

// PermissionViewReports gates every report endpoint. The capability check
// runs before any source adapter does.
const PermissionViewReports = "reports.view"

// Service defines the report operations the handler depends on.
type Service interface {
	Generate(ctx context.Context, f models.Filters) (*models.Report, error)
}

// Handler serves the transaction report endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a report handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the report endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/reports/transactions", h.HandleTransactionReport)
	r.Get("/reports/transactions/export", h.HandleTransactionExport)
}

// HandleTransactionReport handles GET /reports/transactions.
func (h *Handler) HandleTransactionReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !requestcontext.HasPermission(ctx, PermissionViewReports) {
		h.logger.WarnContext(ctx, "transaction report access denied",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", requestcontext.UserID(ctx),
		)
		httputil.WriteError(w, apperrors.New(apperrors.CodeAccessDenied, "missing reports.view permission"))
		return
	}

	report, err := h.service.Generate(ctx, models.ParseFilters(r.URL.Query()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleTransactionExport handles GET /reports/transactions/export. It
// re-runs the pipeline with the page size raised to cover the whole filtered
// set and renders CSV over the same response shape.
func (h *Handler) HandleTransactionExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !requestcontext.HasPermission(ctx, PermissionViewReports) {
		httputil.WriteError(w, apperrors.New(apperrors.CodeAccessDenied, "missing reports.view permission"))
		return
	}

	f := models.ParseFilters(r.URL.Query())
	f.Page = models.DefaultPage
	f.PageSize = models.ExportPageSize

	report, err := h.service.Generate(ctx, f)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := export.WriteCSV(w, report); err != nil {
		h.logger.ErrorContext(ctx, "csv export failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}
