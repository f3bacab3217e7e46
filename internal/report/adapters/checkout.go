package adapters

import (
	"context"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/store"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/pkg/requestcontext"
)

// CheckoutAdapter emits Checkout Asset transactions anchored on checkout
// time.
type CheckoutAdapter struct {
	store store.Store
}

func NewCheckoutAdapter(s store.Store) *CheckoutAdapter { return &CheckoutAdapter{store: s} }

func (a *CheckoutAdapter) Name() string { return "checkout" }

func (a *CheckoutAdapter) Produces(t models.TransactionType) bool {
	return t == models.TypeCheckoutAsset
}

func (a *CheckoutAdapter) Fetch(ctx context.Context, f models.Filters) ([]models.UnifiedTransaction, error) {
	rows, err := a.store.ListCheckouts(ctx, sourceQuery(f, store.DefaultSourceCap, false))
	if err != nil {
		return nil, unavailable(a.Name(), err)
	}

	now := requestcontext.Now(ctx)
	out := make([]models.UnifiedTransaction, 0, len(rows))
	for _, r := range rows {
		tx := base("chkout-"+r.ID, models.TypeCheckoutAsset, r.Asset)
		tx.TransactionDate = r.CheckoutAt
		tx.ActionBy = r.CheckedOutBy
		if r.CheckedOutTo != nil {
			tx.Details = ptr("Checked out to " + *r.CheckedOutTo)
		} else {
			tx.Details = ptr("Asset checked out")
		}
		tx.CheckoutDate = ptr(r.CheckoutAt)
		tx.ExpectedReturnDate = r.ExpectedReturnAt
		overdue := r.CheckinAt == nil && r.ExpectedReturnAt != nil && r.ExpectedReturnAt.Before(now)
		tx.IsOverdue = ptr(overdue)
		out = append(out, tx)
	}
	return out, nil
}

// CheckinAdapter emits Checkin Asset transactions for completed checkouts,
// anchored on checkin time.
type CheckinAdapter struct {
	store store.Store
}

func NewCheckinAdapter(s store.Store) *CheckinAdapter { return &CheckinAdapter{store: s} }

func (a *CheckinAdapter) Name() string { return "checkin" }

func (a *CheckinAdapter) Produces(t models.TransactionType) bool {
	return t == models.TypeCheckinAsset
}

func (a *CheckinAdapter) Fetch(ctx context.Context, f models.Filters) ([]models.UnifiedTransaction, error) {
	rows, err := a.store.ListCheckins(ctx, sourceQuery(f, store.DefaultSourceCap, false))
	if err != nil {
		return nil, unavailable(a.Name(), err)
	}

	out := make([]models.UnifiedTransaction, 0, len(rows))
	for _, r := range rows {
		tx := base("chkin-"+r.ID, models.TypeCheckinAsset, r.Asset)
		tx.TransactionDate = *r.CheckinAt
		tx.ActionBy = r.CheckedInBy
		tx.Details = ptr("Asset checked in")
		tx.CheckinDate = r.CheckinAt
		out = append(out, tx)
	}
	return out, nil
}
