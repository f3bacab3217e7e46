package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/adapters"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/store"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/pkg/requestcontext"
)

var fixtureBase = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

type ReportServiceSuite struct {
	suite.Suite
	store   *store.MemoryStore
	service *Service
	ctx     context.Context
}

func TestReportServiceSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceSuite))
}

func (s *ReportServiceSuite) SetupTest() {
	s.store = store.NewMemoryStore()
	seedFixture(s.store)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(
		adapters.Registry(s.store),
		adapters.NewActionsByUserAdapter(s.store),
		nil,
		logger,
		nil,
	)
	// Pinned request time keeps generatedAt and overdue flags stable.
	s.ctx = requestcontext.WithTime(context.Background(), fixtureBase.Add(30*24*time.Hour))
}

// seedFixture loads two live assets, one soft-deleted asset, and events
// across several types: 2 adds, 1 edit, 1 delete, 1 repair, 1 move, 1
// checkout (7 merged records total).
func seedFixture(ms *store.MemoryStore) {
	jane := "jane.cooper"
	mark := "mark.reyes"
	it := "IT"

	laptop := store.AssetInfo{
		ID: "a-1", Tag: "AD-0001", Description: "Dell Latitude 5440",
		Category: "Computers", Location: "HQ-3F", Site: "HQ", Department: &it,
		Cost: f64p(1000),
	}
	printer := store.AssetInfo{
		ID: "a-2", Tag: "AD-0002", Description: "HP LaserJet",
		Category: "Office Equipment", Location: "HQ-1F", Site: "HQ", Department: &it,
		Cost: f64p(500),
	}
	ghost := store.AssetInfo{
		ID: "a-3", Tag: "AD-0003", Description: "Broken projector",
		Category: "AV", Location: "HQ-2F", Site: "HQ",
		Cost: f64p(250),
	}

	ms.PutAsset(store.AssetRow{Asset: laptop, CreatedAt: fixtureBase, CreatedBy: &jane})
	ms.PutAsset(store.AssetRow{Asset: printer, CreatedAt: fixtureBase.Add(time.Hour), CreatedBy: &jane})
	ms.PutAsset(store.AssetRow{
		Asset: ghost, CreatedAt: fixtureBase.Add(2 * time.Hour), CreatedBy: &jane,
		DeletedAt: timep(fixtureBase.Add(5 * time.Hour)), DeletedBy: &mark,
	})

	// Edit on the laptop; also the correlation source for the move below.
	ms.AddAudit(store.AuditRow{
		ID: "e-1", AssetID: laptop.ID, EventType: store.AuditEventEdited,
		Field: strp("location"), OldValue: strp("HQ-2F"), NewValue: strp("HQ-3F"),
		Actor: &mark, OccurredAt: fixtureBase.Add(24 * time.Hour),
	})
	// Audit history for the soft-deleted asset: must never surface in the
	// merge path outside Delete Asset.
	ms.AddAudit(store.AuditRow{
		ID: "e-2", AssetID: ghost.ID, EventType: store.AuditEventEdited,
		Field: strp("description"), OldValue: strp("Projector"), NewValue: strp("Broken projector"),
		Actor: &jane, OccurredAt: fixtureBase.Add(3 * time.Hour),
	})

	ms.AddMove(store.MoveRow{
		ID: "m-1", Asset: laptop, MoveType: models.MoveTypeLocation,
		MovedAt: fixtureBase.Add(25 * time.Hour), EmployeeName: &mark, Reason: strp("Team relocation"),
	})
	ms.AddRepair(store.RepairRow{
		ID: "r-1", Asset: laptop, Title: "Battery replacement",
		ScheduledAt: fixtureBase.Add(48 * time.Hour), Status: "completed",
		Cost: f64p(120), CreatedBy: &jane,
	})
	ms.AddCheckout(store.CheckoutRow{
		ID: "c-1", Asset: printer, CheckoutAt: fixtureBase.Add(2 * time.Hour),
		ExpectedReturnAt: timep(fixtureBase.Add(10 * 24 * time.Hour)),
		CheckedOutTo:     strp("ops.floor2"), CheckedOutBy: &jane,
	})
	// Checkout on the deleted asset: excluded everywhere.
	ms.AddCheckout(store.CheckoutRow{
		ID: "c-2", Asset: ghost, CheckoutAt: fixtureBase.Add(4 * time.Hour),
		CheckedOutBy: &mark,
	})
}

func (s *ReportServiceSuite) TestTypeFilterShortCircuit() {
	report, err := s.service.Generate(s.ctx, models.Filters{
		TransactionType: string(models.TypeRepairAsset),
		Page:            1, PageSize: 50,
	})
	s.Require().NoError(err)

	s.Require().Len(report.Transactions, 1)
	for _, tx := range report.Transactions {
		s.Equal(models.TypeRepairAsset, tx.TransactionType)
	}

	s.Equal(1, s.store.CallCount("ListRepairs"))
	s.Zero(s.store.CallCount("ListCreatedAssets"))
	s.Zero(s.store.CallCount("ListDeletedAssets"))
	s.Zero(s.store.CallCount("ListEditEvents"))
	s.Zero(s.store.CallCount("ListMoves"))
	s.Zero(s.store.CallCount("ListCheckouts"))
	s.Zero(s.store.CallCount("ListDisposals"))
	s.Zero(s.store.CallCount("ListAuditTrail"))
}

func (s *ReportServiceSuite) TestSortedByDateDescending() {
	report, err := s.service.Generate(s.ctx, models.Filters{Page: 1, PageSize: 50})
	s.Require().NoError(err)
	s.Require().NotEmpty(report.Transactions)

	for i := 1; i < len(report.Transactions); i++ {
		prev := report.Transactions[i-1].TransactionDate
		cur := report.Transactions[i].TransactionDate
		s.False(cur.After(prev), "transactions out of order at index %d", i)
	}
}

func (s *ReportServiceSuite) TestSummaryCoversFullSetAcrossPages() {
	page1, err := s.service.Generate(s.ctx, models.Filters{Page: 1, PageSize: 4})
	s.Require().NoError(err)
	page2, err := s.service.Generate(s.ctx, models.Filters{Page: 2, PageSize: 4})
	s.Require().NoError(err)

	s.Equal(7, page1.Summary.TotalTransactions)
	s.Equal(page1.Summary, page2.Summary)

	sum := 0
	for _, ts := range page1.Summary.ByType {
		sum += ts.Count
	}
	s.Equal(page1.Summary.TotalTransactions, sum)

	s.Equal(7, page1.Pagination.Total)
	s.Equal(2, page1.Pagination.TotalPages)
	s.Len(page1.Transactions, 4)
	s.Len(page2.Transactions, 3)
	s.True(page1.Pagination.HasNextPage)
	s.False(page1.Pagination.HasPreviousPage)
	s.True(page2.Pagination.HasPreviousPage)
}

func (s *ReportServiceSuite) TestIdempotentOutput() {
	f := models.Filters{Page: 1, PageSize: 50}

	first, err := s.service.Generate(s.ctx, f)
	s.Require().NoError(err)
	second, err := s.service.Generate(s.ctx, f)
	s.Require().NoError(err)

	a, err := json.Marshal(first)
	s.Require().NoError(err)
	b, err := json.Marshal(second)
	s.Require().NoError(err)
	s.Equal(a, b)
}

func (s *ReportServiceSuite) TestPaginationBoundary() {
	report, err := s.service.Generate(s.ctx, models.Filters{Page: 1, PageSize: 10000})
	s.Require().NoError(err)

	s.Equal(1, report.Pagination.TotalPages)
	s.False(report.Pagination.HasNextPage)
	s.False(report.Pagination.HasPreviousPage)
	s.Len(report.Transactions, report.Pagination.Total)
}

func (s *ReportServiceSuite) TestSoftDeletedAssetOnlyUnderDelete() {
	report, err := s.service.Generate(s.ctx, models.Filters{Page: 1, PageSize: 50})
	s.Require().NoError(err)

	found := 0
	for _, tx := range report.Transactions {
		if tx.AssetTagID == "AD-0003" {
			found++
			s.Equal(models.TypeDeleteAsset, tx.TransactionType)
		}
	}
	s.Equal(1, found, "soft-deleted asset must appear exactly once, as Delete Asset")
}

func (s *ReportServiceSuite) TestMoveCorrelation() {
	report, err := s.service.Generate(s.ctx, models.Filters{
		TransactionType: string(models.TypeMoveAsset),
		Page:            1, PageSize: 50,
	})
	s.Require().NoError(err)
	s.Require().Len(report.Transactions, 1)

	move := report.Transactions[0]
	s.Require().NotNil(move.ActionBy)
	s.Equal("mark.reyes", *move.ActionBy)
	s.Require().NotNil(move.FromLocation)
	s.Equal("HQ-2F", *move.FromLocation)
	s.Require().NotNil(move.ToLocation)
	s.Equal("HQ-3F", *move.ToLocation)
}

func (s *ReportServiceSuite) TestActorFilterAppliedPostMerge() {
	report, err := s.service.Generate(s.ctx, models.Filters{
		ActionBy: "MARK",
		Page:     1, PageSize: 50,
	})
	s.Require().NoError(err)
	s.Require().NotEmpty(report.Transactions)

	for _, tx := range report.Transactions {
		s.Require().NotNil(tx.ActionBy)
		s.Contains(*tx.ActionBy, "mark")
	}
	// The move only carries an actor after correlation, so it must survive
	// the actor filter.
	types := make(map[models.TransactionType]bool)
	for _, tx := range report.Transactions {
		types[tx.TransactionType] = true
	}
	s.True(types[models.TypeMoveAsset], "correlated move must pass the actor filter")
}

func (s *ReportServiceSuite) TestActionsByUsersMode() {
	report, err := s.service.Generate(s.ctx, models.Filters{
		TransactionType: models.ActionsByUsersLabel,
		Page:            1, PageSize: 50,
	})
	s.Require().NoError(err)

	s.Equal(1, s.store.CallCount("ListAuditTrail"))
	s.Zero(s.store.CallCount("ListCreatedAssets"))
	s.Zero(s.store.CallCount("ListMoves"))
	s.Zero(s.store.CallCount("ListRepairs"))

	s.Require().NotEmpty(report.Transactions)
	for _, tx := range report.Transactions {
		// The display label never appears as a stored tag.
		s.NotEqual(models.TransactionType(models.ActionsByUsersLabel), tx.TransactionType)
	}
}

func (s *ReportServiceSuite) TestEmptyPageBeyondEnd() {
	report, err := s.service.Generate(s.ctx, models.Filters{Page: 99, PageSize: 50})
	s.Require().NoError(err)
	s.Empty(report.Transactions)
	s.NotNil(report.Transactions)
	s.Equal(7, report.Pagination.Total)
}

func strp(s string) *string        { return &s }
func f64p(v float64) *float64      { return &v }
func timep(t time.Time) *time.Time { return &t }
