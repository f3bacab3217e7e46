// Package store exposes the per-source filtered, ordered, capped reads the
// report adapters consume. The engine is read-only: nothing here mutates
// asset records.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable signals that a source read failed after the storage layer's
// retry policy was exhausted.
var ErrUnavailable = errors.New("source unavailable")

// Per-source row caps. These bound worst-case memory and latency; sources
// with more underlying rows silently truncate to the most recent rows by
// their own anchor field.
const (
	DefaultSourceCap  = 5000
	DisposalMethodCap = 1000
	AuditTrailCap     = 10000
)

// Audit event types recorded in the generic audit log.
const (
	AuditEventAdded   = "added"
	AuditEventEdited  = "edited"
	AuditEventDeleted = "deleted"
)

// Audit field names the move correlation cares about.
const (
	AuditFieldLocation   = "location"
	AuditFieldDepartment = "department"
)

// SourceQuery carries the filters a single source read honors. Every read
// applies the date range to its own anchor field, orders by that anchor
// descending, and stops at Limit rows.
type SourceQuery struct {
	Category   string
	Location   string
	Site       string
	Department string
	AssetTag   string
	ActionBy   string // honored only by disposal and audit-trail reads
	From       *time.Time
	To         *time.Time
	Limit      int
}

// AssetInfo is the current state of the owning asset, joined onto every
// source row.
type AssetInfo struct {
	ID          string
	Tag         string
	Description string
	Category    string
	SubCategory *string
	Location    string
	Site        string
	Department  *string
	Cost        *float64
}

// AssetRow backs the Add and Delete adapters. DeletedAt is set only for
// soft-deleted assets.
type AssetRow struct {
	Asset     AssetInfo
	CreatedAt time.Time
	CreatedBy *string
	DeletedAt *time.Time
	DeletedBy *string
}

// AuditRow is one generic audit log entry.
type AuditRow struct {
	ID         string
	AssetID    string
	Asset      AssetInfo
	EventType  string
	Field      *string
	OldValue   *string
	NewValue   *string
	Actor      *string
	OccurredAt time.Time
}

// DisposalRow is one disposal record; Method is one of sold, donated,
// scrapped, lost, destroyed.
type DisposalRow struct {
	ID         string
	Asset      AssetInfo
	Method     string
	DisposedAt time.Time
	Reason     *string
	Value      *float64
	DisposedBy *string
}

// LeaseRow backs the LeaseOut adapter.
type LeaseRow struct {
	ID         string
	Asset      AssetInfo
	Lessee     string
	LeaseStart time.Time
	LeaseEnd   *time.Time
	Conditions *string
	CreatedBy  *string
}

// LeaseReturnRow backs the LeaseReturn adapter.
type LeaseReturnRow struct {
	ID         string
	Asset      AssetInfo
	ReturnedAt time.Time
	Condition  *string
	Notes      *string
	ReceivedBy *string
}

// RepairRow backs the Repair adapter.
type RepairRow struct {
	ID            string
	Asset         AssetInfo
	Title         string
	MaintenanceBy *string
	ScheduledAt   time.Time
	DueDate       *time.Time
	Status        string
	Cost          *float64
	CompletedAt   *time.Time
	CreatedBy     *string
}

// MoveRow backs the Move adapter. The movement table does not record who
// performed the move; that provenance is recovered by correlation against
// the audit log.
type MoveRow struct {
	ID           string
	Asset        AssetInfo
	MoveType     string
	MovedAt      time.Time
	EmployeeName *string
	Reason       *string
}

// CheckoutRow backs both the Checkout and Checkin adapters; CheckinAt is set
// once the asset came back.
type CheckoutRow struct {
	ID               string
	Asset            AssetInfo
	CheckoutAt       time.Time
	ExpectedReturnAt *time.Time
	CheckinAt        *time.Time
	CheckedOutTo     *string
	CheckedOutBy     *string
	CheckedInBy      *string
}

// Store is the set of typed reads the report engine runs against the asset
// database. Soft-deleted assets are excluded from every read except
// ListDeletedAssets, which requires them.
type Store interface {
	// ListCreatedAssets returns live assets anchored on creation time.
	ListCreatedAssets(ctx context.Context, q SourceQuery) ([]AssetRow, error)
	// ListDeletedAssets returns soft-deleted assets anchored on deletion time.
	ListDeletedAssets(ctx context.Context, q SourceQuery) ([]AssetRow, error)
	// ListEditEvents returns "edited" audit entries for live assets, anchored
	// on the audit event time.
	ListEditEvents(ctx context.Context, q SourceQuery) ([]AuditRow, error)
	// ListAuditTrail returns the raw audit log across all event types,
	// honoring the actor filter. Feeds the Actions By Users mode.
	ListAuditTrail(ctx context.Context, q SourceQuery) ([]AuditRow, error)
	// ListDisposals returns disposal records for one method, honoring the
	// actor filter. The owning asset must not be soft-deleted.
	ListDisposals(ctx context.Context, method string, q SourceQuery) ([]DisposalRow, error)
	ListLeases(ctx context.Context, q SourceQuery) ([]LeaseRow, error)
	ListLeaseReturns(ctx context.Context, q SourceQuery) ([]LeaseReturnRow, error)
	ListRepairs(ctx context.Context, q SourceQuery) ([]RepairRow, error)
	ListMoves(ctx context.Context, q SourceQuery) ([]MoveRow, error)
	ListCheckouts(ctx context.Context, q SourceQuery) ([]CheckoutRow, error)
	ListCheckins(ctx context.Context, q SourceQuery) ([]CheckoutRow, error)
	// ListMoveEditCandidates returns "edited" audit entries on location or
	// department for the given assets, in ascending event time order. The
	// move correlation consumes them in exactly that order.
	ListMoveEditCandidates(ctx context.Context, assetIDs []string) ([]AuditRow, error)

	Ping(ctx context.Context) error
}
