// Package adapters holds the source adapters: one read-and-normalize unit
// per asset lifecycle event category. Each adapter maps its storage-native
// rows onto the unified transaction envelope; the report service fans out
// over them and merges the results.
package adapters

import (
	"context"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/store"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/pkg/apperrors"
)

// Adapter reads one storage source and normalizes it into unified
// transactions. Fetch honors the filter set and the adapter's own row cap and
// returns rows ordered by the source's anchor field descending.
type Adapter interface {
	// Name identifies the adapter in logs and metrics.
	Name() string
	// Produces reports whether the adapter emits the given tag. The service
	// skips adapters whose tags don't match a type filter without touching
	// storage.
	Produces(t models.TransactionType) bool
	Fetch(ctx context.Context, f models.Filters) ([]models.UnifiedTransaction, error)
}

// Registry returns the ten merge-path adapters in canonical invocation
// order. This order is the sort tie-break, so it must stay fixed.
func Registry(s store.Store) []Adapter {
	return []Adapter{
		NewAddAdapter(s),
		NewEditAdapter(s),
		NewDeleteAdapter(s),
		NewDisposalAdapter(s),
		NewLeaseOutAdapter(s),
		NewLeaseReturnAdapter(s),
		NewRepairAdapter(s),
		NewMoveAdapter(s),
		NewCheckoutAdapter(s),
		NewCheckinAdapter(s),
	}
}

// sourceQuery maps the caller's filters onto a per-source read. The actor
// substring travels to storage only for the sources that can resolve it
// there (disposals and the audit trail); everywhere else it is applied
// post-merge.
func sourceQuery(f models.Filters, limit int, withActor bool) store.SourceQuery {
	q := store.SourceQuery{
		Category:   f.Category,
		Location:   f.Location,
		Site:       f.Site,
		Department: f.Department,
		AssetTag:   f.AssetTag,
		From:       f.StartDate,
		To:         f.EndDate,
		Limit:      limit,
	}
	if withActor {
		q.ActionBy = f.ActionBy
	}
	return q
}

// unavailable wraps a failed source read. The cause is preserved for logs
// but never reaches the caller.
func unavailable(source string, err error) error {
	return apperrors.Wrap(apperrors.CodeUnavailable, source+" source unavailable", err)
}

// base fills the common envelope fields from the joined asset state.
func base(id string, t models.TransactionType, a store.AssetInfo) models.UnifiedTransaction {
	return models.UnifiedTransaction{
		ID:               id,
		TransactionType:  t,
		AssetTagID:       a.Tag,
		AssetDescription: a.Description,
		Category:         a.Category,
		SubCategory:      a.SubCategory,
		Location:         a.Location,
		Site:             a.Site,
		Department:       a.Department,
		AssetCost:        a.Cost,
	}
}

func ptr[T any](v T) *T { return &v }
