package store

import "time"

// Seed loads a small, fixed dataset into a MemoryStore so dev mode renders a
// meaningful report without a database.
func Seed(s *MemoryStore) {
	base := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	jane := "jane.cooper"
	mark := "mark.reyes"
	itDept := "IT"

	laptop := AssetInfo{
		ID:          "a-1001",
		Tag:         "AD-1001",
		Description: "Dell Latitude 5440",
		Category:    "Computers",
		SubCategory: strp("Laptops"),
		Location:    "Manila HQ - 3F",
		Site:        "Manila HQ",
		Department:  &itDept,
		Cost:        f64p(1450),
	}
	monitor := AssetInfo{
		ID:          "a-1002",
		Tag:         "AD-1002",
		Description: `27" LG UltraFine`,
		Category:    "Computers",
		SubCategory: strp("Monitors"),
		Location:    "Clark Office - 1F",
		Site:        "Clark Office",
		Department:  &itDept,
		Cost:        f64p(380),
	}

	s.PutAsset(AssetRow{Asset: laptop, CreatedAt: base, CreatedBy: &jane})
	s.PutAsset(AssetRow{Asset: monitor, CreatedAt: base.Add(2 * time.Hour), CreatedBy: &jane})

	s.AddAudit(AuditRow{
		ID: "e-1", AssetID: laptop.ID, EventType: AuditEventEdited,
		Field: strp("location"), OldValue: strp("Manila HQ - 2F"), NewValue: strp("Manila HQ - 3F"),
		Actor: &mark, OccurredAt: base.Add(24 * time.Hour),
	})
	s.AddMove(MoveRow{
		ID: "m-1", Asset: laptop, MoveType: "Location Transfer",
		MovedAt: base.Add(25 * time.Hour), EmployeeName: &mark, Reason: strp("Team relocation"),
	})
	s.AddCheckout(CheckoutRow{
		ID: "c-1", Asset: monitor, CheckoutAt: base.Add(48 * time.Hour),
		ExpectedReturnAt: timep(base.Add(14 * 24 * time.Hour)),
		CheckedOutTo:     strp("ops.floor2"), CheckedOutBy: &jane,
	})
	s.AddRepair(RepairRow{
		ID: "r-1", Asset: laptop, Title: "Battery replacement",
		MaintenanceBy: strp("TechServe Inc"), ScheduledAt: base.Add(72 * time.Hour),
		Status: "completed", Cost: f64p(120), CompletedAt: timep(base.Add(96 * time.Hour)),
		CreatedBy: &jane,
	})
}

func strp(s string) *string       { return &s }
func f64p(v float64) *float64     { return &v }
func timep(t time.Time) *time.Time { return &t }
