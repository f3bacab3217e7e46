package adapters

import (
	"context"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/correlate"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/store"
)

// MoveAdapter emits Move Asset transactions, recovering the responsible
// actor and (for location transfers) the prior location from the audit log
// via time-proximity correlation. The correlation read is scoped to the
// asset IDs of the moves already fetched, so it runs strictly after the
// movement fetch.
type MoveAdapter struct {
	store store.Store
}

func NewMoveAdapter(s store.Store) *MoveAdapter { return &MoveAdapter{store: s} }

func (a *MoveAdapter) Name() string { return "move" }

func (a *MoveAdapter) Produces(t models.TransactionType) bool { return t == models.TypeMoveAsset }

func (a *MoveAdapter) Fetch(ctx context.Context, f models.Filters) ([]models.UnifiedTransaction, error) {
	rows, err := a.store.ListMoves(ctx, sourceQuery(f, store.DefaultSourceCap, false))
	if err != nil {
		return nil, unavailable(a.Name(), err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	assetIDs := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		if !seen[r.Asset.ID] {
			seen[r.Asset.ID] = true
			assetIDs = append(assetIDs, r.Asset.ID)
		}
	}

	auditRows, err := a.store.ListMoveEditCandidates(ctx, assetIDs)
	if err != nil {
		return nil, unavailable(a.Name(), err)
	}
	candidates := correlate.CandidatesFromAudit(auditRows)

	out := make([]models.UnifiedTransaction, 0, len(rows))
	for _, r := range rows {
		tx := base("move-"+r.ID, models.TypeMoveAsset, r.Asset)
		tx.TransactionDate = r.MovedAt
		tx.Details = ptr(r.MoveType)
		tx.MoveType = ptr(r.MoveType)
		tx.MoveDate = ptr(r.MovedAt)
		tx.EmployeeName = r.EmployeeName
		tx.Reason = r.Reason

		// toLocation reflects the asset's state at query time, so it can be
		// stale if the asset moved again since. Kept on purpose; see the
		// correlate package doc.
		switch r.MoveType {
		case models.MoveTypeDepartment:
			tx.ToLocation = r.Asset.Department
		default:
			tx.ToLocation = ptr(r.Asset.Location)
		}

		if m := correlate.Match(r.Asset.ID, r.MovedAt, r.MoveType, candidates); m != nil {
			tx.ActionBy = m.Actor
			if r.MoveType == models.MoveTypeLocation && m.Field == store.AuditFieldLocation {
				tx.FromLocation = m.OldValue
			}
		}

		out = append(out, tx)
	}
	return out, nil
}
