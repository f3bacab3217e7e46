// Package service runs the report pipeline: concurrent source fetches, then
// the strictly sequential in-memory stages (merge, actor filter, sort,
// summarize, paginate).
package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/adapters"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/metrics"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/pkg/requestcontext"
)

// Service generates unified transaction reports.
type Service struct {
	adapters []adapters.Adapter
	actions  adapters.Adapter
	cache    *PayloadCache
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New constructs the report service. mergeAdapters must be the canonical
// registry order; actions is the audit-log replay adapter. cache may be nil.
func New(mergeAdapters []adapters.Adapter, actions adapters.Adapter, cache *PayloadCache, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		adapters: mergeAdapters,
		actions:  actions,
		cache:    cache,
		logger:   logger,
		metrics:  m,
	}
}

// Generate runs the full pipeline for one request. Output is deterministic:
// identical filters over unchanged data produce identical bytes.
func (s *Service) Generate(ctx context.Context, f models.Filters) (*models.Report, error) {
	start := time.Now()
	typeLabel := f.TransactionType
	if typeLabel == "" {
		typeLabel = "all"
	}
	s.metrics.IncrementRequests(typeLabel)
	defer func() {
		s.metrics.ObserveReportDuration(time.Since(start))
	}()

	key := cacheKey(f)
	if s.cache != nil {
		if report, ok := s.cache.Get(ctx, key); ok {
			s.metrics.RecordCacheHit()
			return report, nil
		}
		s.metrics.RecordCacheMiss()
	}

	var working []models.UnifiedTransaction
	var err error
	if f.ActionsByUsersMode() {
		// Alternate mode: the audit-log replay runs alone; the actor filter
		// was already applied at storage.
		working, err = s.fetchOne(ctx, s.actions, f)
	} else {
		working, err = s.merge(ctx, f)
		if err == nil {
			working = filterByActor(working, f.ActionBy)
		}
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "report generation failed",
			"request_id", requestcontext.RequestID(ctx),
			"type", typeLabel,
			"error", err,
		)
		return nil, err
	}

	// Stable sort keeps merge order (adapter order, then within-adapter
	// fetch order) as the tie-break for equal instants.
	sort.SliceStable(working, func(i, j int) bool {
		return working[i].TransactionDate.After(working[j].TransactionDate)
	})

	report := &models.Report{
		Transactions: paginate(working, f.Page, f.PageSize),
		Summary:      summarize(working),
		GeneratedAt:  requestcontext.Now(ctx).UTC(),
		Pagination:   paging(len(working), f.Page, f.PageSize),
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, report)
	}

	s.logger.InfoContext(ctx, "report generated",
		"request_id", requestcontext.RequestID(ctx),
		"type", typeLabel,
		"total", len(working),
		"page", f.Page,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// merge fans out over every applicable adapter concurrently and
// concatenates the results in adapter order. Any single source failure
// aborts the whole merge; there is no partial-results mode.
func (s *Service) merge(ctx context.Context, f models.Filters) ([]models.UnifiedTransaction, error) {
	applicable := make([]adapters.Adapter, 0, len(s.adapters))
	for _, a := range s.adapters {
		if f.TransactionType == "" || a.Produces(models.TransactionType(f.TransactionType)) {
			applicable = append(applicable, a)
		}
	}

	results := make([][]models.UnifiedTransaction, len(applicable))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range applicable {
		i, a := i, a
		g.Go(func() error {
			rows, err := s.fetchOne(gctx, a, f)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []models.UnifiedTransaction
	for _, rows := range results {
		merged = append(merged, rows...)
	}
	return merged, nil
}

func (s *Service) fetchOne(ctx context.Context, a adapters.Adapter, f models.Filters) ([]models.UnifiedTransaction, error) {
	start := time.Now()
	rows, err := a.Fetch(ctx, f)
	s.metrics.ObserveSourceFetch(a.Name(), time.Since(start))
	return rows, err
}

// filterByActor applies the residual case-insensitive actor containment
// filter. It runs post-merge because move attribution only exists after
// correlation.
func filterByActor(rows []models.UnifiedTransaction, actionBy string) []models.UnifiedTransaction {
	if actionBy == "" {
		return rows
	}
	needle := strings.ToLower(actionBy)
	out := rows[:0]
	for _, tx := range rows {
		if tx.ActionBy != nil && strings.Contains(strings.ToLower(*tx.ActionBy), needle) {
			out = append(out, tx)
		}
	}
	return out
}

// summarize counts and totals the full filtered set per type, in canonical
// tag order.
func summarize(rows []models.UnifiedTransaction) models.Summary {
	counts := make(map[models.TransactionType]int)
	totals := make(map[models.TransactionType]float64)
	for _, tx := range rows {
		counts[tx.TransactionType]++
		if tx.AssetCost != nil {
			totals[tx.TransactionType] += *tx.AssetCost
		}
	}

	byType := make([]models.TypeSummary, 0, len(counts))
	for _, t := range models.AllTransactionTypes {
		if counts[t] == 0 {
			continue
		}
		byType = append(byType, models.TypeSummary{
			Type:       t,
			Count:      counts[t],
			TotalValue: totals[t],
		})
	}

	return models.Summary{
		TotalTransactions: len(rows),
		ByType:            byType,
	}
}

// paginate windows the fully sorted set. A page past the end yields an
// empty page, never an error.
func paginate(rows []models.UnifiedTransaction, page, pageSize int) []models.UnifiedTransaction {
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return []models.UnifiedTransaction{}
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	out := make([]models.UnifiedTransaction, end-start)
	copy(out, rows[start:end])
	return out
}

func paging(total, page, pageSize int) models.Pagination {
	totalPages := (total + pageSize - 1) / pageSize
	return models.Pagination{
		Page:            page,
		PageSize:        pageSize,
		Total:           total,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}
