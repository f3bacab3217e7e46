package adapters

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/models"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/store"
)

func TestAddAdapterCapsAtMostRecent(t *testing.T) {
	ms := store.NewMemoryStore()
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	total := store.DefaultSourceCap + 200
	for i := 0; i < total; i++ {
		ms.PutAsset(store.AssetRow{
			Asset: store.AssetInfo{
				ID:  fmt.Sprintf("a-%05d", i),
				Tag: fmt.Sprintf("AD-%05d", i),
			},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	out, err := NewAddAdapter(ms).Fetch(context.Background(), models.Filters{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(out) != store.DefaultSourceCap {
		t.Fatalf("got %d rows, want %d", len(out), store.DefaultSourceCap)
	}

	// The cap keeps the most recent rows: the oldest 200 must be gone.
	oldestKept := out[len(out)-1].TransactionDate
	want := base.Add(200 * time.Minute)
	if !oldestKept.Equal(want) {
		t.Fatalf("oldest kept row at %v, want %v", oldestKept, want)
	}
}

func TestDisposalAdapterNarrowsToSingleMethod(t *testing.T) {
	ms := store.NewMemoryStore()
	base := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	asset := store.AssetInfo{ID: "a-1", Tag: "AD-0001", Description: "Old server"}
	ms.PutAsset(store.AssetRow{Asset: asset, CreatedAt: base})
	for i, method := range []string{"sold", "donated", "scrapped", "lost", "destroyed"} {
		ms.AddDisposal(store.DisposalRow{
			ID: fmt.Sprintf("d-%d", i), Asset: asset, Method: method,
			DisposedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	adapter := NewDisposalAdapter(ms)

	out, err := adapter.Fetch(context.Background(), models.Filters{
		TransactionType: string(models.TypeSoldAsset),
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(out) != 1 || out[0].TransactionType != models.TypeSoldAsset {
		t.Fatalf("narrowed fetch returned %+v", out)
	}
	if got := ms.CallCount("ListDisposals"); got != 1 {
		t.Fatalf("narrowed fetch hit storage %d times, want 1", got)
	}

	out, err = adapter.Fetch(context.Background(), models.Filters{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(out) != 5 {
		t.Fatalf("unfiltered fetch returned %d rows, want 5", len(out))
	}
	if got := ms.CallCount("ListDisposals"); got != 6 {
		t.Fatalf("unfiltered fetch should query each method once, total calls %d", got)
	}
}

func TestRegistryProducesMapping(t *testing.T) {
	reg := Registry(store.NewMemoryStore())
	if len(reg) != 10 {
		t.Fatalf("registry has %d adapters, want 10", len(reg))
	}

	// Every stored tag must be produced by exactly one adapter.
	for _, tag := range models.AllTransactionTypes {
		n := 0
		for _, a := range reg {
			if a.Produces(tag) {
				n++
			}
		}
		if n != 1 {
			t.Errorf("tag %q produced by %d adapters, want 1", tag, n)
		}
	}

	for _, a := range reg {
		if a.Produces(models.TransactionType(models.ActionsByUsersLabel)) {
			t.Errorf("adapter %q claims the audit replay label", a.Name())
		}
	}
}

func TestActionsAdapterOutsideMergePath(t *testing.T) {
	a := NewActionsByUserAdapter(store.NewMemoryStore())
	for _, tag := range models.AllTransactionTypes {
		if a.Produces(tag) {
			t.Fatalf("actions adapter must never join the merge path, produced %q", tag)
		}
	}
}
