package adapters

import (
	"context"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/store"
)

// EditAdapter emits one Edit Asset transaction per "edited" audit entry on a
// live asset, carrying the field-level diff.
type EditAdapter struct {
	store store.Store
}

func NewEditAdapter(s store.Store) *EditAdapter { return &EditAdapter{store: s} }

func (a *EditAdapter) Name() string { return "edit" }

func (a *EditAdapter) Produces(t models.TransactionType) bool { return t == models.TypeEditAsset }

func (a *EditAdapter) Fetch(ctx context.Context, f models.Filters) ([]models.UnifiedTransaction, error) {
	rows, err := a.store.ListEditEvents(ctx, sourceQuery(f, store.DefaultSourceCap, false))
	if err != nil {
		return nil, unavailable(a.Name(), err)
	}

	out := make([]models.UnifiedTransaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, editTransaction("edit-"+r.ID, r))
	}
	return out, nil
}

// editTransaction maps one edit audit entry; shared with the Actions By
// Users replay.
func editTransaction(id string, r store.AuditRow) models.UnifiedTransaction {
	tx := base(id, models.TypeEditAsset, r.Asset)
	tx.TransactionDate = r.OccurredAt
	tx.ActionBy = r.Actor
	tx.FieldChanged = r.Field
	tx.OldValue = r.OldValue
	tx.NewValue = r.NewValue
	if r.Field != nil {
		tx.Details = ptr("Changed " + *r.Field)
	} else {
		tx.Details = ptr("Asset updated")
	}
	return tx
}
