package adapters

import (
	"context"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/store"
)

// LeaseOutAdapter emits Lease Out transactions anchored on lease start.
type LeaseOutAdapter struct {
	store store.Store
}

func NewLeaseOutAdapter(s store.Store) *LeaseOutAdapter { return &LeaseOutAdapter{store: s} }

func (a *LeaseOutAdapter) Name() string { return "lease_out" }

func (a *LeaseOutAdapter) Produces(t models.TransactionType) bool { return t == models.TypeLeaseOut }

func (a *LeaseOutAdapter) Fetch(ctx context.Context, f models.Filters) ([]models.UnifiedTransaction, error) {
	rows, err := a.store.ListLeases(ctx, sourceQuery(f, store.DefaultSourceCap, false))
	if err != nil {
		return nil, unavailable(a.Name(), err)
	}

	out := make([]models.UnifiedTransaction, 0, len(rows))
	for _, r := range rows {
		tx := base("lease-"+r.ID, models.TypeLeaseOut, r.Asset)
		tx.TransactionDate = r.LeaseStart
		tx.ActionBy = r.CreatedBy
		tx.Details = ptr("Leased to " + r.Lessee)
		tx.Lessee = ptr(r.Lessee)
		tx.LeaseStartDate = ptr(r.LeaseStart)
		tx.LeaseEndDate = r.LeaseEnd
		tx.Conditions = r.Conditions
		out = append(out, tx)
	}
	return out, nil
}

// LeaseReturnAdapter emits Lease Return transactions anchored on the return
// date.
type LeaseReturnAdapter struct {
	store store.Store
}

func NewLeaseReturnAdapter(s store.Store) *LeaseReturnAdapter { return &LeaseReturnAdapter{store: s} }

func (a *LeaseReturnAdapter) Name() string { return "lease_return" }

func (a *LeaseReturnAdapter) Produces(t models.TransactionType) bool {
	return t == models.TypeLeaseReturn
}

func (a *LeaseReturnAdapter) Fetch(ctx context.Context, f models.Filters) ([]models.UnifiedTransaction, error) {
	rows, err := a.store.ListLeaseReturns(ctx, sourceQuery(f, store.DefaultSourceCap, false))
	if err != nil {
		return nil, unavailable(a.Name(), err)
	}

	out := make([]models.UnifiedTransaction, 0, len(rows))
	for _, r := range rows {
		tx := base("lsret-"+r.ID, models.TypeLeaseReturn, r.Asset)
		tx.TransactionDate = r.ReturnedAt
		tx.ActionBy = r.ReceivedBy
		tx.Details = ptr("Lease returned")
		tx.ReturnDate = ptr(r.ReturnedAt)
		tx.Condition = r.Condition
		tx.Notes = r.Notes
		out = append(out, tx)
	}
	return out, nil
}
