package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/pkg/apperrors"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/pkg/requestcontext"
)

type stubService struct {
	calls   int
	filters models.Filters
	report  *models.Report
	err     error
}

func (s *stubService) Generate(_ context.Context, f models.Filters) (*models.Report, error) {
	s.calls++
	s.filters = f
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func sampleReport() *models.Report {
	date := time.Date(2025, time.May, 2, 10, 30, 0, 0, time.UTC)
	cost := 1200.0
	actor := "jane.cooper"
	return &models.Report{
		Transactions: []models.UnifiedTransaction{{
			ID:               "add-a-1",
			TransactionType:  models.TypeAddAsset,
			TransactionDate:  date,
			AssetTagID:       "AD-0001",
			AssetDescription: "Dell Latitude 5440",
			Category:         "Computers",
			Location:         "HQ-3F",
			Site:             "HQ",
			ActionBy:         &actor,
			AssetCost:        &cost,
		}},
		Summary: models.Summary{
			TotalTransactions: 1,
			ByType:            []models.TypeSummary{{Type: models.TypeAddAsset, Count: 1, TotalValue: 1200}},
		},
		GeneratedAt: date,
		Pagination:  models.Pagination{Page: 1, PageSize: 50, Total: 1, TotalPages: 1},
	}
}

func newRequest(t *testing.T, target string, perms []string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	ctx := requestcontext.WithUserID(req.Context(), "u-1")
	if perms != nil {
		ctx = requestcontext.WithPermissions(ctx, perms)
	}
	return req.WithContext(ctx)
}

func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestTransactionReportDeniedWithoutPermission(t *testing.T) {
	svc := &stubService{report: sampleReport()}
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := serve(h, newRequest(t, "/reports/transactions", []string{"assets.view"}))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if svc.calls != 0 {
		t.Fatalf("service called %d times before the permission check", svc.calls)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	if body["error"] != string(apperrors.CodeAccessDenied) {
		t.Fatalf("error code = %q", body["error"])
	}
}

func TestTransactionReportOK(t *testing.T) {
	svc := &stubService{report: sampleReport()}
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := serve(h, newRequest(t, "/reports/transactions?transactionType=Add+Asset&page=2", []string{PermissionViewReports}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if svc.filters.TransactionType != "Add Asset" || svc.filters.Page != 2 {
		t.Fatalf("filters not parsed: %+v", svc.filters)
	}

	var got models.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	if len(got.Transactions) != 1 || got.Transactions[0].ID != "add-a-1" {
		t.Fatalf("unexpected transactions: %+v", got.Transactions)
	}
	if got.Summary.TotalTransactions != 1 {
		t.Fatalf("summary lost in round trip: %+v", got.Summary)
	}
}

func TestTransactionReportSourceUnavailable(t *testing.T) {
	svc := &stubService{err: apperrors.New(apperrors.CodeUnavailable, "movements query failed")}
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := serve(h, newRequest(t, "/reports/transactions", []string{PermissionViewReports}))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}

func TestTransactionExportCSV(t *testing.T) {
	svc := &stubService{report: sampleReport()}
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := serve(h, newRequest(t, "/reports/transactions/export?page=7&pageSize=5", []string{PermissionViewReports}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "transactions.csv") {
		t.Fatalf("content disposition = %q", cd)
	}

	// Export ignores caller paging and covers the whole filtered set.
	if svc.filters.Page != models.DefaultPage || svc.filters.PageSize != models.ExportPageSize {
		t.Fatalf("export paging not forced: page=%d pageSize=%d", svc.filters.Page, svc.filters.PageSize)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv has %d lines, want header plus one row", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,") {
		t.Fatalf("csv header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "AD-0001") || !strings.Contains(lines[1], "1200.00") {
		t.Fatalf("csv row = %q", lines[1])
	}
}
