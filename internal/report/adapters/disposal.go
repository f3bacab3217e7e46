package adapters

import (
	"context"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/store"
)

// Disposal methods and the tags they map to. Order is fixed: it sets the
// within-adapter merge order and therefore the sort tie-break.
var disposalMethods = []struct {
	Method string
	Type   models.TransactionType
}{
	{"sold", models.TypeSoldAsset},
	{"donated", models.TypeDonatedAsset},
	{"scrapped", models.TypeScrappedAsset},
	{"lost", models.TypeLostAsset},
	{"destroyed", models.TypeDestroyedAsset},
}

// DisposalAdapter is one parametrized adapter covering the five disposal
// methods. Each method is queried separately with its own 1000-row cap.
type DisposalAdapter struct {
	store store.Store
}

func NewDisposalAdapter(s store.Store) *DisposalAdapter { return &DisposalAdapter{store: s} }

func (a *DisposalAdapter) Name() string { return "disposal" }

func (a *DisposalAdapter) Produces(t models.TransactionType) bool {
	for _, m := range disposalMethods {
		if m.Type == t {
			return true
		}
	}
	return false
}

func (a *DisposalAdapter) Fetch(ctx context.Context, f models.Filters) ([]models.UnifiedTransaction, error) {
	q := sourceQuery(f, store.DisposalMethodCap, true)

	var out []models.UnifiedTransaction
	for _, m := range disposalMethods {
		// A single-method type filter narrows the adapter to that method.
		if f.TransactionType != "" && f.TransactionType != string(m.Type) {
			continue
		}
		rows, err := a.store.ListDisposals(ctx, m.Method, q)
		if err != nil {
			return nil, unavailable(a.Name(), err)
		}
		for _, r := range rows {
			tx := base("disp-"+r.ID, m.Type, r.Asset)
			tx.TransactionDate = r.DisposedAt
			tx.ActionBy = r.DisposedBy
			tx.Details = ptr("Asset disposed (" + r.Method + ")")
			tx.DisposeDate = ptr(r.DisposedAt)
			tx.DisposeReason = r.Reason
			tx.DisposeValue = r.Value
			out = append(out, tx)
		}
	}
	return out, nil
}
