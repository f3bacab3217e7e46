package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/pkg/backoff"
)

const assetColumns = "a.id, a.tag, a.description, a.category, a.sub_category, a.location, a.site, a.department, a.cost"

// PostgresStore runs the per-source reads against PostgreSQL. Each read
// borrows a connection from the pool for the duration of one query only;
// nothing is held across the in-memory report stages.
type PostgresStore struct {
	pool        *pgxpool.Pool
	maxAttempts int
}

// NewPostgresStore constructs a PostgresStore with a bounded retry policy
// per read.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, maxAttempts: 3}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// retry runs fn up to maxAttempts times with jittered backoff. The final
// failure is reported as ErrUnavailable; the raw cause stays server-side.
func (s *PostgresStore) retry(ctx context.Context, op string, fn func(context.Context) error) error {
	bo := backoff.New(100*time.Millisecond, 2*time.Second, 2.0)
	var err error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}
		select {
		case <-time.After(bo.Next()):
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}
	}
	return fmt.Errorf("%s (last error: %v): %w", op, err, ErrUnavailable)
}

// queryBuilder accumulates WHERE conditions with positional args.
type queryBuilder struct {
	conds []string
	args  []any
}

func (b *queryBuilder) add(expr string, val any) {
	b.args = append(b.args, val)
	b.conds = append(b.conds, fmt.Sprintf(expr, len(b.args)))
}

func (b *queryBuilder) addStatic(expr string) {
	b.conds = append(b.conds, expr)
}

func (b *queryBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// limitArg appends the cap as the final positional arg and returns its
// placeholder.
func (b *queryBuilder) limitArg(limit int) string {
	b.args = append(b.args, limit)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *queryBuilder) assetFilters(q SourceQuery) {
	if q.Category != "" {
		b.add("a.category = $%d", q.Category)
	}
	if q.Location != "" {
		b.add("a.location = $%d", q.Location)
	}
	if q.Site != "" {
		b.add("a.site = $%d", q.Site)
	}
	if q.Department != "" {
		b.add("a.department = $%d", q.Department)
	}
	if q.AssetTag != "" {
		b.add("a.tag = $%d", q.AssetTag)
	}
}

func (b *queryBuilder) anchorRange(col string, q SourceQuery) {
	if q.From != nil {
		b.add(col+" >= $%d", *q.From)
	}
	if q.To != nil {
		b.add(col+" <= $%d", *q.To)
	}
}

func assetInfoDest(a *AssetInfo) []any {
	return []any{&a.ID, &a.Tag, &a.Description, &a.Category, &a.SubCategory, &a.Location, &a.Site, &a.Department, &a.Cost}
}

func (s *PostgresStore) ListCreatedAssets(ctx context.Context, q SourceQuery) ([]AssetRow, error) {
	return s.listAssets(ctx, q, "list created assets", false)
}

func (s *PostgresStore) ListDeletedAssets(ctx context.Context, q SourceQuery) ([]AssetRow, error) {
	return s.listAssets(ctx, q, "list deleted assets", true)
}

func (s *PostgresStore) listAssets(ctx context.Context, q SourceQuery, op string, deleted bool) ([]AssetRow, error) {
	b := &queryBuilder{}
	anchor := "a.created_at"
	if deleted {
		b.addStatic("a.deleted_at IS NOT NULL")
		anchor = "a.deleted_at"
	} else {
		b.addStatic("a.deleted_at IS NULL")
	}
	b.assetFilters(q)
	b.anchorRange(anchor, q)

	sql := fmt.Sprintf(`SELECT %s, a.created_at, a.created_by, a.deleted_at, a.deleted_by
FROM assets a%s
ORDER BY %s DESC LIMIT %s`, assetColumns, b.where(), anchor, b.limitArg(q.Limit))

	var out []AssetRow
	err := s.retry(ctx, op, func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, sql, b.args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = out[:0]
		for rows.Next() {
			var r AssetRow
			dest := assetInfoDest(&r.Asset)
			dest = append(dest, &r.CreatedAt, &r.CreatedBy, &r.DeletedAt, &r.DeletedBy)
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) ListEditEvents(ctx context.Context, q SourceQuery) ([]AuditRow, error) {
	b := &queryBuilder{}
	b.addStatic("e.event_type = 'edited'")
	b.addStatic("a.deleted_at IS NULL")
	b.assetFilters(q)
	b.anchorRange("e.occurred_at", q)
	return s.listAudit(ctx, "list edit events", b, q.Limit)
}

func (s *PostgresStore) ListAuditTrail(ctx context.Context, q SourceQuery) ([]AuditRow, error) {
	b := &queryBuilder{}
	b.assetFilters(q)
	b.anchorRange("e.occurred_at", q)
	if q.ActionBy != "" {
		b.add("e.actor ILIKE '%%' || $%d || '%%'", q.ActionBy)
	}
	return s.listAudit(ctx, "list audit trail", b, q.Limit)
}

func (s *PostgresStore) listAudit(ctx context.Context, op string, b *queryBuilder, limit int) ([]AuditRow, error) {
	sql := fmt.Sprintf(`SELECT e.id, e.asset_id, e.event_type, e.field, e.old_value, e.new_value, e.actor, e.occurred_at, %s
FROM audit_events e
JOIN assets a ON a.id = e.asset_id%s
ORDER BY e.occurred_at DESC LIMIT %s`, assetColumns, b.where(), b.limitArg(limit))

	var out []AuditRow
	err := s.retry(ctx, op, func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, sql, b.args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = out[:0]
		for rows.Next() {
			var r AuditRow
			dest := []any{&r.ID, &r.AssetID, &r.EventType, &r.Field, &r.OldValue, &r.NewValue, &r.Actor, &r.OccurredAt}
			dest = append(dest, assetInfoDest(&r.Asset)...)
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) ListDisposals(ctx context.Context, method string, q SourceQuery) ([]DisposalRow, error) {
	b := &queryBuilder{}
	b.add("d.method = $%d", method)
	b.addStatic("a.deleted_at IS NULL")
	b.assetFilters(q)
	b.anchorRange("d.disposed_at", q)
	if q.ActionBy != "" {
		b.add("d.disposed_by ILIKE '%%' || $%d || '%%'", q.ActionBy)
	}

	sql := fmt.Sprintf(`SELECT d.id, d.method, d.disposed_at, d.reason, d.value, d.disposed_by, %s
FROM disposals d
JOIN assets a ON a.id = d.asset_id%s
ORDER BY d.disposed_at DESC LIMIT %s`, assetColumns, b.where(), b.limitArg(q.Limit))

	var out []DisposalRow
	err := s.retry(ctx, "list disposals", func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, sql, b.args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = out[:0]
		for rows.Next() {
			var r DisposalRow
			dest := []any{&r.ID, &r.Method, &r.DisposedAt, &r.Reason, &r.Value, &r.DisposedBy}
			dest = append(dest, assetInfoDest(&r.Asset)...)
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) ListLeases(ctx context.Context, q SourceQuery) ([]LeaseRow, error) {
	b := &queryBuilder{}
	b.addStatic("a.deleted_at IS NULL")
	b.assetFilters(q)
	b.anchorRange("l.lease_start", q)

	sql := fmt.Sprintf(`SELECT l.id, l.lessee, l.lease_start, l.lease_end, l.conditions, l.created_by, %s
FROM leases l
JOIN assets a ON a.id = l.asset_id%s
ORDER BY l.lease_start DESC LIMIT %s`, assetColumns, b.where(), b.limitArg(q.Limit))

	var out []LeaseRow
	err := s.retry(ctx, "list leases", func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, sql, b.args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = out[:0]
		for rows.Next() {
			var r LeaseRow
			dest := []any{&r.ID, &r.Lessee, &r.LeaseStart, &r.LeaseEnd, &r.Conditions, &r.CreatedBy}
			dest = append(dest, assetInfoDest(&r.Asset)...)
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) ListLeaseReturns(ctx context.Context, q SourceQuery) ([]LeaseReturnRow, error) {
	b := &queryBuilder{}
	b.addStatic("a.deleted_at IS NULL")
	b.assetFilters(q)
	b.anchorRange("lr.returned_at", q)

	sql := fmt.Sprintf(`SELECT lr.id, lr.returned_at, lr.condition, lr.notes, lr.received_by, %s
FROM lease_returns lr
JOIN assets a ON a.id = lr.asset_id%s
ORDER BY lr.returned_at DESC LIMIT %s`, assetColumns, b.where(), b.limitArg(q.Limit))

	var out []LeaseReturnRow
	err := s.retry(ctx, "list lease returns", func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, sql, b.args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = out[:0]
		for rows.Next() {
			var r LeaseReturnRow
			dest := []any{&r.ID, &r.ReturnedAt, &r.Condition, &r.Notes, &r.ReceivedBy}
			dest = append(dest, assetInfoDest(&r.Asset)...)
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) ListRepairs(ctx context.Context, q SourceQuery) ([]RepairRow, error) {
	b := &queryBuilder{}
	b.addStatic("a.deleted_at IS NULL")
	b.assetFilters(q)
	b.anchorRange("m.scheduled_at", q)

	sql := fmt.Sprintf(`SELECT m.id, m.title, m.maintenance_by, m.scheduled_at, m.due_date, m.status, m.cost, m.completed_at, m.created_by, %s
FROM maintenance m
JOIN assets a ON a.id = m.asset_id%s
ORDER BY m.scheduled_at DESC LIMIT %s`, assetColumns, b.where(), b.limitArg(q.Limit))

	var out []RepairRow
	err := s.retry(ctx, "list repairs", func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, sql, b.args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = out[:0]
		for rows.Next() {
			var r RepairRow
			dest := []any{&r.ID, &r.Title, &r.MaintenanceBy, &r.ScheduledAt, &r.DueDate, &r.Status, &r.Cost, &r.CompletedAt, &r.CreatedBy}
			dest = append(dest, assetInfoDest(&r.Asset)...)
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) ListMoves(ctx context.Context, q SourceQuery) ([]MoveRow, error) {
	b := &queryBuilder{}
	b.addStatic("a.deleted_at IS NULL")
	b.assetFilters(q)
	b.anchorRange("mv.moved_at", q)

	sql := fmt.Sprintf(`SELECT mv.id, mv.move_type, mv.moved_at, mv.employee_name, mv.reason, %s
FROM movements mv
JOIN assets a ON a.id = mv.asset_id%s
ORDER BY mv.moved_at DESC LIMIT %s`, assetColumns, b.where(), b.limitArg(q.Limit))

	var out []MoveRow
	err := s.retry(ctx, "list moves", func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, sql, b.args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = out[:0]
		for rows.Next() {
			var r MoveRow
			dest := []any{&r.ID, &r.MoveType, &r.MovedAt, &r.EmployeeName, &r.Reason}
			dest = append(dest, assetInfoDest(&r.Asset)...)
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) ListCheckouts(ctx context.Context, q SourceQuery) ([]CheckoutRow, error) {
	b := &queryBuilder{}
	b.addStatic("a.deleted_at IS NULL")
	b.assetFilters(q)
	b.anchorRange("c.checkout_at", q)
	return s.listCheckoutRows(ctx, "list checkouts", b, "c.checkout_at", q.Limit)
}

func (s *PostgresStore) ListCheckins(ctx context.Context, q SourceQuery) ([]CheckoutRow, error) {
	b := &queryBuilder{}
	b.addStatic("c.checkin_at IS NOT NULL")
	b.addStatic("a.deleted_at IS NULL")
	b.assetFilters(q)
	b.anchorRange("c.checkin_at", q)
	return s.listCheckoutRows(ctx, "list checkins", b, "c.checkin_at", q.Limit)
}

func (s *PostgresStore) listCheckoutRows(ctx context.Context, op string, b *queryBuilder, anchor string, limit int) ([]CheckoutRow, error) {
	sql := fmt.Sprintf(`SELECT c.id, c.checkout_at, c.expected_return_at, c.checkin_at, c.checked_out_to, c.checked_out_by, c.checked_in_by, %s
FROM checkouts c
JOIN assets a ON a.id = c.asset_id%s
ORDER BY %s DESC LIMIT %s`, assetColumns, b.where(), anchor, b.limitArg(limit))

	var out []CheckoutRow
	err := s.retry(ctx, op, func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, sql, b.args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = out[:0]
		for rows.Next() {
			var r CheckoutRow
			dest := []any{&r.ID, &r.CheckoutAt, &r.ExpectedReturnAt, &r.CheckinAt, &r.CheckedOutTo, &r.CheckedOutBy, &r.CheckedInBy}
			dest = append(dest, assetInfoDest(&r.Asset)...)
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) ListMoveEditCandidates(ctx context.Context, assetIDs []string) ([]AuditRow, error) {
	if len(assetIDs) == 0 {
		return nil, nil
	}

	sql := fmt.Sprintf(`SELECT e.id, e.asset_id, e.event_type, e.field, e.old_value, e.new_value, e.actor, e.occurred_at, %s
FROM audit_events e
JOIN assets a ON a.id = e.asset_id
WHERE e.event_type = 'edited' AND e.field IN ('location', 'department') AND e.asset_id = ANY($1)
ORDER BY e.occurred_at ASC, e.id ASC`, assetColumns)

	var out []AuditRow
	err := s.retry(ctx, "list move edit candidates", func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, sql, assetIDs)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = out[:0]
		for rows.Next() {
			var r AuditRow
			dest := []any{&r.ID, &r.AssetID, &r.EventType, &r.Field, &r.OldValue, &r.NewValue, &r.Actor, &r.OccurredAt}
			dest = append(dest, assetInfoDest(&r.Asset)...)
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
