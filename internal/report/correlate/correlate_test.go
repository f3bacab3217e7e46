package correlate

import (
	"testing"
	"time"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
)

func strp(s string) *string { return &s }

func TestMatch(t *testing.T) {
	movedAt := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	t.Run("edit within window on matching field wins", func(t *testing.T) {
		candidates := []Candidate{
			{AssetID: "a-1", OccurredAt: movedAt.Add(12 * time.Hour), Actor: strp("jane"), Field: "location", OldValue: strp("Warehouse A")},
		}
		m := Match("a-1", movedAt, models.MoveTypeLocation, candidates)
		if m == nil {
			t.Fatal("expected a match inside the window")
		}
		if *m.Actor != "jane" {
			t.Fatalf("expected actor jane, got %q", *m.Actor)
		}
		if *m.OldValue != "Warehouse A" {
			t.Fatalf("expected old value Warehouse A, got %q", *m.OldValue)
		}
	})

	t.Run("edit outside window is ignored", func(t *testing.T) {
		candidates := []Candidate{
			{AssetID: "a-1", OccurredAt: movedAt.Add(36 * time.Hour), Actor: strp("jane"), Field: "location"},
		}
		if m := Match("a-1", movedAt, models.MoveTypeLocation, candidates); m != nil {
			t.Fatalf("expected no match outside the window, got actor %v", m.Actor)
		}
	})

	t.Run("edit before the move is inside the symmetric window", func(t *testing.T) {
		candidates := []Candidate{
			{AssetID: "a-1", OccurredAt: movedAt.Add(-20 * time.Hour), Actor: strp("mark"), Field: "location"},
		}
		if m := Match("a-1", movedAt, models.MoveTypeLocation, candidates); m == nil {
			t.Fatal("expected a match for an edit before the move")
		}
	})

	t.Run("other assets never match", func(t *testing.T) {
		candidates := []Candidate{
			{AssetID: "a-2", OccurredAt: movedAt, Actor: strp("jane"), Field: "location"},
		}
		if m := Match("a-1", movedAt, models.MoveTypeLocation, candidates); m != nil {
			t.Fatal("expected no match for a different asset")
		}
	})

	t.Run("matching field beats a closer candidate on the wrong field", func(t *testing.T) {
		candidates := []Candidate{
			{AssetID: "a-1", OccurredAt: movedAt.Add(time.Hour), Actor: strp("close"), Field: "department"},
			{AssetID: "a-1", OccurredAt: movedAt.Add(20 * time.Hour), Actor: strp("exact"), Field: "location"},
		}
		m := Match("a-1", movedAt, models.MoveTypeLocation, candidates)
		if m == nil || *m.Actor != "exact" {
			t.Fatalf("expected the location edit to win, got %+v", m)
		}
	})

	t.Run("no exact field falls back to the last considered candidate", func(t *testing.T) {
		// Documented heuristic: the fallback is the most recently considered
		// in-window candidate, not the nearest in time.
		candidates := []Candidate{
			{AssetID: "a-1", OccurredAt: movedAt.Add(time.Hour), Actor: strp("near"), Field: "department"},
			{AssetID: "a-1", OccurredAt: movedAt.Add(22 * time.Hour), Actor: strp("far"), Field: "department"},
		}
		m := Match("a-1", movedAt, models.MoveTypeLocation, candidates)
		if m == nil || *m.Actor != "far" {
			t.Fatalf("expected the last considered candidate, got %+v", m)
		}
	})

	t.Run("department transfer prefers department edits", func(t *testing.T) {
		candidates := []Candidate{
			{AssetID: "a-1", OccurredAt: movedAt.Add(2 * time.Hour), Actor: strp("loc"), Field: "location"},
			{AssetID: "a-1", OccurredAt: movedAt.Add(3 * time.Hour), Actor: strp("dep"), Field: "department"},
		}
		m := Match("a-1", movedAt, models.MoveTypeDepartment, candidates)
		if m == nil || *m.Actor != "dep" {
			t.Fatalf("expected the department edit to win, got %+v", m)
		}
	})
}
