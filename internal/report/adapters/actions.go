package adapters

import (
	"context"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/store"
)

// ActionsByUserAdapter replays the raw audit log instead of the per-event
// tables. It is the alternate report mode: when selected, the ten-source
// merge is skipped entirely. Each audit event type maps onto the
// corresponding stored tag; "Actions By Users" itself is never a stored tag.
type ActionsByUserAdapter struct {
	store store.Store
}

func NewActionsByUserAdapter(s store.Store) *ActionsByUserAdapter {
	return &ActionsByUserAdapter{store: s}
}

func (a *ActionsByUserAdapter) Name() string { return "actions_by_user" }

func (a *ActionsByUserAdapter) Produces(t models.TransactionType) bool { return false }

func (a *ActionsByUserAdapter) Fetch(ctx context.Context, f models.Filters) ([]models.UnifiedTransaction, error) {
	rows, err := a.store.ListAuditTrail(ctx, sourceQuery(f, store.AuditTrailCap, true))
	if err != nil {
		return nil, unavailable(a.Name(), err)
	}

	out := make([]models.UnifiedTransaction, 0, len(rows))
	for _, r := range rows {
		switch r.EventType {
		case store.AuditEventAdded:
			tx := base("act-"+r.ID, models.TypeAddAsset, r.Asset)
			tx.TransactionDate = r.OccurredAt
			tx.ActionBy = r.Actor
			tx.Details = ptr("Asset added to the register")
			out = append(out, tx)
		case store.AuditEventEdited:
			out = append(out, editTransaction("act-"+r.ID, r))
		case store.AuditEventDeleted:
			tx := base("act-"+r.ID, models.TypeDeleteAsset, r.Asset)
			tx.TransactionDate = r.OccurredAt
			tx.ActionBy = r.Actor
			tx.Details = ptr("Asset deleted from the register")
			out = append(out, tx)
		}
	}
	return out, nil
}
