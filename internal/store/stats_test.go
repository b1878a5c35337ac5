package store

import (
	"context"
	"testing"

	"github.com/opaco/opacovault/internal/db"
	"github.com/opaco/opacovault/internal/model"
)

func TestGetCollectionStats(t *testing.T) {
	dbc := db.NewTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, dbc)

	seed := []model.CollectionItem{
		{Name: "Myers", Brand: "NECA", Category: "figures", InCollection: true, Price: ptr(45.0)},
		{Name: "Chucky", Brand: "NECA", Category: "figures", InCollection: true, Price: ptr(30.0)},
		{Name: "Art", Brand: "TOTS", Category: "masks", InCollection: true},
		{Name: "Pinhead", Brand: "McFarlane", Category: "figures", InWishlist: true, Price: ptr(99.0)},
		{Name: "Franken-Myers", Brand: "custom", Category: "figures", IsCustom: true},
	}
	for i := range seed {
		seed[i].UserID = userID
		if _, err := AddItem(ctx, dbc, &seed[i]); err != nil {
			t.Fatalf("seeding %s: %v", seed[i].Name, err)
		}
	}

	stats, err := GetCollectionStats(ctx, dbc, userID)
	if err != nil {
		t.Fatalf("GetCollectionStats: %v", err)
	}

	if stats.CollectionCount != 3 {
		t.Errorf("expected 3 in collection, got %d", stats.CollectionCount)
	}
	if stats.WishlistCount != 1 || stats.CustomCount != 1 {
		t.Errorf("unexpected wishlist/custom counts: %+v", stats)
	}

	// Value and groupings only cover the in-collection subset: the wishlist
	// item's 99 is excluded, the unpriced mask contributes zero.
	if stats.TotalValue != 75 {
		t.Errorf("expected total value 75, got %v", stats.TotalValue)
	}
	if len(stats.BrandCounts) != 2 {
		t.Fatalf("expected 2 brand buckets, got %+v", stats.BrandCounts)
	}
	if stats.BrandCounts[0].Brand != "NECA" || stats.BrandCounts[0].Count != 2 {
		t.Errorf("expected NECA first with 2, got %+v", stats.BrandCounts[0])
	}
	if len(stats.CategoryCounts) != 2 || stats.CategoryCounts[0].Category != "figures" {
		t.Errorf("unexpected category counts: %+v", stats.CategoryCounts)
	}
}

func TestGetCollectionStatsEmpty(t *testing.T) {
	dbc := db.NewTestDB(t)
	userID := newTestUser(t, dbc)

	stats, err := GetCollectionStats(context.Background(), dbc, userID)
	if err != nil {
		t.Fatalf("GetCollectionStats: %v", err)
	}
	if stats.CollectionCount != 0 || stats.TotalValue != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
	if stats.BrandCounts == nil || stats.CategoryCounts == nil {
		t.Error("count slices must be non-nil for JSON encoding")
	}
}
