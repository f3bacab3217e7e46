package adapters

import (
	"context"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/store"
)

// RepairAdapter emits Repair Asset transactions from the maintenance table,
// anchored on the scheduled date.
type RepairAdapter struct {
	store store.Store
}

func NewRepairAdapter(s store.Store) *RepairAdapter { return &RepairAdapter{store: s} }

func (a *RepairAdapter) Name() string { return "repair" }

func (a *RepairAdapter) Produces(t models.TransactionType) bool { return t == models.TypeRepairAsset }

func (a *RepairAdapter) Fetch(ctx context.Context, f models.Filters) ([]models.UnifiedTransaction, error) {
	rows, err := a.store.ListRepairs(ctx, sourceQuery(f, store.DefaultSourceCap, false))
	if err != nil {
		return nil, unavailable(a.Name(), err)
	}

	out := make([]models.UnifiedTransaction, 0, len(rows))
	for _, r := range rows {
		tx := base("rep-"+r.ID, models.TypeRepairAsset, r.Asset)
		tx.TransactionDate = r.ScheduledAt
		tx.ActionBy = r.CreatedBy
		tx.Details = ptr(r.Title)
		tx.Title = ptr(r.Title)
		tx.MaintenanceBy = r.MaintenanceBy
		tx.DueDate = r.DueDate
		tx.Status = ptr(r.Status)
		tx.Cost = r.Cost
		tx.DateCompleted = r.CompletedAt
		out = append(out, tx)
	}
	return out, nil
}
