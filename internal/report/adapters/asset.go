package adapters

import (
	"context"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/store"
)

// AddAdapter emits one Add Asset transaction per live asset, anchored on
// creation time.
type AddAdapter struct {
	store store.Store
}

func NewAddAdapter(s store.Store) *AddAdapter { return &AddAdapter{store: s} }

func (a *AddAdapter) Name() string { return "add" }

func (a *AddAdapter) Produces(t models.TransactionType) bool { return t == models.TypeAddAsset }

func (a *AddAdapter) Fetch(ctx context.Context, f models.Filters) ([]models.UnifiedTransaction, error) {
	rows, err := a.store.ListCreatedAssets(ctx, sourceQuery(f, store.DefaultSourceCap, false))
	if err != nil {
		return nil, unavailable(a.Name(), err)
	}

	out := make([]models.UnifiedTransaction, 0, len(rows))
	for _, r := range rows {
		tx := base("add-"+r.Asset.ID, models.TypeAddAsset, r.Asset)
		tx.TransactionDate = r.CreatedAt
		tx.ActionBy = r.CreatedBy
		tx.Details = ptr("Asset added to the register")
		out = append(out, tx)
	}
	return out, nil
}

// DeleteAdapter emits one Delete Asset transaction per soft-deleted asset,
// anchored on deletion time. This is the only adapter that sees deleted
// assets.
type DeleteAdapter struct {
	store store.Store
}

func NewDeleteAdapter(s store.Store) *DeleteAdapter { return &DeleteAdapter{store: s} }

func (a *DeleteAdapter) Name() string { return "delete" }

func (a *DeleteAdapter) Produces(t models.TransactionType) bool { return t == models.TypeDeleteAsset }

func (a *DeleteAdapter) Fetch(ctx context.Context, f models.Filters) ([]models.UnifiedTransaction, error) {
	rows, err := a.store.ListDeletedAssets(ctx, sourceQuery(f, store.DefaultSourceCap, false))
	if err != nil {
		return nil, unavailable(a.Name(), err)
	}

	out := make([]models.UnifiedTransaction, 0, len(rows))
	for _, r := range rows {
		tx := base("del-"+r.Asset.ID, models.TypeDeleteAsset, r.Asset)
		tx.TransactionDate = *r.DeletedAt
		tx.ActionBy = r.DeletedBy
		tx.Details = ptr("Asset deleted from the register")
		out = append(out, tx)
	}
	return out, nil
}
