package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/opaco/opacovault/internal/model"
)

// GetCollectionStats fetches the user's full item set and derives aggregate
// statistics. Brand and category groupings cover the in-collection subset
// only; a missing price contributes zero to the total.
func GetCollectionStats(ctx context.Context, dbc *sql.DB, userID int64) (*model.CollectionStats, error) {
	items, err := GetUserItems(ctx, dbc, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching items for stats: %w", err)
	}

	stats := &model.CollectionStats{
		BrandCounts:    []model.BrandCount{},
		CategoryCounts: []model.CategoryCount{},
	}

	brandCounts := make(map[string]int)
	categoryCounts := make(map[string]int)

	for _, item := range items {
		if item.InWishlist {
			stats.WishlistCount++
		}
		if item.IsCustom {
			stats.CustomCount++
		}
		if !item.InCollection {
			continue
		}
		stats.CollectionCount++
		brandCounts[item.Brand]++
		categoryCounts[item.Category]++
		if item.Price != nil {
			stats.TotalValue += *item.Price
		}
	}

	for brand, count := range brandCounts {
		stats.BrandCounts = append(stats.BrandCounts, model.BrandCount{Brand: brand, Count: count})
	}
	sort.SliceStable(stats.BrandCounts, func(i, j int) bool {
		if stats.BrandCounts[i].Count != stats.BrandCounts[j].Count {
			return stats.BrandCounts[i].Count > stats.BrandCounts[j].Count
		}
		return stats.BrandCounts[i].Brand < stats.BrandCounts[j].Brand
	})

	for category, count := range categoryCounts {
		stats.CategoryCounts = append(stats.CategoryCounts, model.CategoryCount{Category: category, Count: count})
	}
	sort.SliceStable(stats.CategoryCounts, func(i, j int) bool {
		if stats.CategoryCounts[i].Count != stats.CategoryCounts[j].Count {
			return stats.CategoryCounts[i].Count > stats.CategoryCounts[j].Count
		}
		return stats.CategoryCounts[i].Category < stats.CategoryCounts[j].Category
	})

	return stats, nil
}
