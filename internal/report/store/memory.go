package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by unit tests and dev mode. Source
// rows reference assets by ID; reads join the asset's current state exactly
// like the SQL implementation does, so soft-delete visibility and toLocation
// staleness behave identically.
type MemoryStore struct {
	mu        sync.RWMutex
	assets    map[string]AssetRow
	order     []string
	audits    []AuditRow
	disposals []DisposalRow
	leases    []LeaseRow
	returns   []LeaseReturnRow
	repairs   []RepairRow
	moves     []MoveRow
	checkouts []CheckoutRow
	calls     map[string]int
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		assets: make(map[string]AssetRow),
		calls:  make(map[string]int),
	}
}

// PutAsset registers an asset row (keyed by Asset.ID), replacing any
// previous state.
func (s *MemoryStore) PutAsset(row AssetRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[row.Asset.ID]; !ok {
		s.order = append(s.order, row.Asset.ID)
	}
	s.assets[row.Asset.ID] = row
}

// AddAudit appends a raw audit log entry.
func (s *MemoryStore) AddAudit(row AuditRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits = append(s.audits, row)
}

// AddDisposal appends a disposal record; the row's Asset.ID links it to its
// asset.
func (s *MemoryStore) AddDisposal(row DisposalRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposals = append(s.disposals, row)
}

// AddLease appends a lease record.
func (s *MemoryStore) AddLease(row LeaseRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leases = append(s.leases, row)
}

// AddLeaseReturn appends a lease return record.
func (s *MemoryStore) AddLeaseReturn(row LeaseReturnRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.returns = append(s.returns, row)
}

// AddRepair appends a maintenance record.
func (s *MemoryStore) AddRepair(row RepairRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repairs = append(s.repairs, row)
}

// AddMove appends a movement record.
func (s *MemoryStore) AddMove(row MoveRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moves = append(s.moves, row)
}

// AddCheckout appends a checkout record.
func (s *MemoryStore) AddCheckout(row CheckoutRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkouts = append(s.checkouts, row)
}

// CallCount reports how many times the named read ran. Tests use it to
// verify the type-filter short-circuit.
func (s *MemoryStore) CallCount(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[name]
}

func (s *MemoryStore) record(name string) {
	s.calls[name]++
}

func (s *MemoryStore) ListCreatedAssets(_ context.Context, q SourceQuery) ([]AssetRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ListCreatedAssets")

	var out []AssetRow
	for _, id := range s.order {
		row := s.assets[id]
		if row.DeletedAt != nil {
			continue
		}
		if !matchAsset(q, row.Asset) || !inRange(q, row.CreatedAt) {
			continue
		}
		out = append(out, row)
	}
	sortDesc(out, func(r AssetRow) time.Time { return r.CreatedAt })
	return capRows(out, q.Limit), nil
}

func (s *MemoryStore) ListDeletedAssets(_ context.Context, q SourceQuery) ([]AssetRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ListDeletedAssets")

	var out []AssetRow
	for _, id := range s.order {
		row := s.assets[id]
		if row.DeletedAt == nil {
			continue
		}
		if !matchAsset(q, row.Asset) || !inRange(q, *row.DeletedAt) {
			continue
		}
		out = append(out, row)
	}
	sortDesc(out, func(r AssetRow) time.Time { return *r.DeletedAt })
	return capRows(out, q.Limit), nil
}

func (s *MemoryStore) ListEditEvents(_ context.Context, q SourceQuery) ([]AuditRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ListEditEvents")

	var out []AuditRow
	for _, row := range s.audits {
		if row.EventType != AuditEventEdited {
			continue
		}
		asset, ok := s.liveAsset(row.AssetID)
		if !ok {
			continue
		}
		row.Asset = asset
		if !matchAsset(q, asset) || !inRange(q, row.OccurredAt) {
			continue
		}
		out = append(out, row)
	}
	sortDesc(out, func(r AuditRow) time.Time { return r.OccurredAt })
	return capRows(out, q.Limit), nil
}

func (s *MemoryStore) ListAuditTrail(_ context.Context, q SourceQuery) ([]AuditRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ListAuditTrail")

	var out []AuditRow
	for _, row := range s.audits {
		asset, ok := s.anyAsset(row.AssetID)
		if ok {
			row.Asset = asset
		}
		if !matchAsset(q, row.Asset) || !inRange(q, row.OccurredAt) {
			continue
		}
		if q.ActionBy != "" && !actorContains(row.Actor, q.ActionBy) {
			continue
		}
		out = append(out, row)
	}
	sortDesc(out, func(r AuditRow) time.Time { return r.OccurredAt })
	return capRows(out, q.Limit), nil
}

func (s *MemoryStore) ListDisposals(_ context.Context, method string, q SourceQuery) ([]DisposalRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ListDisposals")

	var out []DisposalRow
	for _, row := range s.disposals {
		if row.Method != method {
			continue
		}
		asset, ok := s.liveAsset(row.Asset.ID)
		if !ok {
			continue
		}
		row.Asset = asset
		if !matchAsset(q, asset) || !inRange(q, row.DisposedAt) {
			continue
		}
		if q.ActionBy != "" && !actorContains(row.DisposedBy, q.ActionBy) {
			continue
		}
		out = append(out, row)
	}
	sortDesc(out, func(r DisposalRow) time.Time { return r.DisposedAt })
	return capRows(out, q.Limit), nil
}

func (s *MemoryStore) ListLeases(_ context.Context, q SourceQuery) ([]LeaseRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ListLeases")

	var out []LeaseRow
	for _, row := range s.leases {
		asset, ok := s.liveAsset(row.Asset.ID)
		if !ok {
			continue
		}
		row.Asset = asset
		if !matchAsset(q, asset) || !inRange(q, row.LeaseStart) {
			continue
		}
		out = append(out, row)
	}
	sortDesc(out, func(r LeaseRow) time.Time { return r.LeaseStart })
	return capRows(out, q.Limit), nil
}

func (s *MemoryStore) ListLeaseReturns(_ context.Context, q SourceQuery) ([]LeaseReturnRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ListLeaseReturns")

	var out []LeaseReturnRow
	for _, row := range s.returns {
		asset, ok := s.liveAsset(row.Asset.ID)
		if !ok {
			continue
		}
		row.Asset = asset
		if !matchAsset(q, asset) || !inRange(q, row.ReturnedAt) {
			continue
		}
		out = append(out, row)
	}
	sortDesc(out, func(r LeaseReturnRow) time.Time { return r.ReturnedAt })
	return capRows(out, q.Limit), nil
}

func (s *MemoryStore) ListRepairs(_ context.Context, q SourceQuery) ([]RepairRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ListRepairs")

	var out []RepairRow
	for _, row := range s.repairs {
		asset, ok := s.liveAsset(row.Asset.ID)
		if !ok {
			continue
		}
		row.Asset = asset
		if !matchAsset(q, asset) || !inRange(q, row.ScheduledAt) {
			continue
		}
		out = append(out, row)
	}
	sortDesc(out, func(r RepairRow) time.Time { return r.ScheduledAt })
	return capRows(out, q.Limit), nil
}

func (s *MemoryStore) ListMoves(_ context.Context, q SourceQuery) ([]MoveRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ListMoves")

	var out []MoveRow
	for _, row := range s.moves {
		asset, ok := s.liveAsset(row.Asset.ID)
		if !ok {
			continue
		}
		row.Asset = asset
		if !matchAsset(q, asset) || !inRange(q, row.MovedAt) {
			continue
		}
		out = append(out, row)
	}
	sortDesc(out, func(r MoveRow) time.Time { return r.MovedAt })
	return capRows(out, q.Limit), nil
}

func (s *MemoryStore) ListCheckouts(_ context.Context, q SourceQuery) ([]CheckoutRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ListCheckouts")

	var out []CheckoutRow
	for _, row := range s.checkouts {
		asset, ok := s.liveAsset(row.Asset.ID)
		if !ok {
			continue
		}
		row.Asset = asset
		if !matchAsset(q, asset) || !inRange(q, row.CheckoutAt) {
			continue
		}
		out = append(out, row)
	}
	sortDesc(out, func(r CheckoutRow) time.Time { return r.CheckoutAt })
	return capRows(out, q.Limit), nil
}

func (s *MemoryStore) ListCheckins(_ context.Context, q SourceQuery) ([]CheckoutRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ListCheckins")

	var out []CheckoutRow
	for _, row := range s.checkouts {
		if row.CheckinAt == nil {
			continue
		}
		asset, ok := s.liveAsset(row.Asset.ID)
		if !ok {
			continue
		}
		row.Asset = asset
		if !matchAsset(q, asset) || !inRange(q, *row.CheckinAt) {
			continue
		}
		out = append(out, row)
	}
	sortDesc(out, func(r CheckoutRow) time.Time { return *r.CheckinAt })
	return capRows(out, q.Limit), nil
}

func (s *MemoryStore) ListMoveEditCandidates(_ context.Context, assetIDs []string) ([]AuditRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ListMoveEditCandidates")

	wanted := make(map[string]bool, len(assetIDs))
	for _, id := range assetIDs {
		wanted[id] = true
	}

	var out []AuditRow
	for _, row := range s.audits {
		if row.EventType != AuditEventEdited || !wanted[row.AssetID] {
			continue
		}
		if row.Field == nil {
			continue
		}
		if *row.Field != AuditFieldLocation && *row.Field != AuditFieldDepartment {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// liveAsset resolves an asset that must not be soft-deleted.
func (s *MemoryStore) liveAsset(id string) (AssetInfo, bool) {
	row, ok := s.assets[id]
	if !ok || row.DeletedAt != nil {
		return AssetInfo{}, false
	}
	return row.Asset, true
}

// anyAsset resolves an asset regardless of deletion state; the audit trail
// keeps history for deleted assets too.
func (s *MemoryStore) anyAsset(id string) (AssetInfo, bool) {
	row, ok := s.assets[id]
	if !ok {
		return AssetInfo{}, false
	}
	return row.Asset, true
}

func matchAsset(q SourceQuery, a AssetInfo) bool {
	if q.Category != "" && q.Category != a.Category {
		return false
	}
	if q.Location != "" && q.Location != a.Location {
		return false
	}
	if q.Site != "" && q.Site != a.Site {
		return false
	}
	if q.Department != "" && (a.Department == nil || q.Department != *a.Department) {
		return false
	}
	if q.AssetTag != "" && q.AssetTag != a.Tag {
		return false
	}
	return true
}

func inRange(q SourceQuery, anchor time.Time) bool {
	if q.From != nil && anchor.Before(*q.From) {
		return false
	}
	if q.To != nil && anchor.After(*q.To) {
		return false
	}
	return true
}

func actorContains(actor *string, needle string) bool {
	if actor == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*actor), strings.ToLower(needle))
}

func sortDesc[T any](rows []T, anchor func(T) time.Time) {
	sort.SliceStable(rows, func(i, j int) bool { return anchor(rows[i]).After(anchor(rows[j])) })
}

func capRows[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
