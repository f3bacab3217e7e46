// Package correlate recovers move provenance from the generic audit log.
//
// The movement table does not record who performed a move or, for a location
// transfer, the prior location. Both live in field-level audit entries that
// are not foreign-keyed to the move, so the association is a best-effort
// time-proximity heuristic: attribution may be wrong when several edits
// cluster inside the window, and unmatched moves simply stay unattributed.
package correlate

import (
	"time"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/store"
)

// Window is the symmetric time bound for associating a move with an audit
// entry: 86,400,000 ms to either side of the move.
const Window = 24 * time.Hour

// Candidate is one audit-log edit considered for a move. Candidates are
// request-scoped: built from one bulk read per report, discarded after the
// adapter returns.
type Candidate struct {
	AssetID    string
	OccurredAt time.Time
	Actor      *string
	Field      string
	OldValue   *string
}

// CandidatesFromAudit converts bulk-read audit rows, keeping their order.
func CandidatesFromAudit(rows []store.AuditRow) []Candidate {
	out := make([]Candidate, 0, len(rows))
	for _, r := range rows {
		if r.Field == nil {
			continue
		}
		out = append(out, Candidate{
			AssetID:    r.AssetID,
			OccurredAt: r.OccurredAt,
			Actor:      r.Actor,
			Field:      *r.Field,
			OldValue:   r.OldValue,
		})
	}
	return out
}

// Match selects the audit candidate for one move. Candidates whose field
// matches the move's semantic type win; failing that, the most recently
// considered in-window candidate is used, which is not necessarily the
// closest in time. That fallback is a known heuristic weakness kept for
// report stability. Returns nil when nothing lies inside the window.
func Match(assetID string, movedAt time.Time, moveType string, candidates []Candidate) *Candidate {
	wantField := store.AuditFieldLocation
	if moveType == models.MoveTypeDepartment {
		wantField = store.AuditFieldDepartment
	}

	var fallback *Candidate
	for i := range candidates {
		c := &candidates[i]
		if c.AssetID != assetID {
			continue
		}
		delta := c.OccurredAt.Sub(movedAt)
		if delta < -Window || delta > Window {
			continue
		}
		if c.Field == wantField {
			return c
		}
		fallback = c
	}
	return fallback
}
