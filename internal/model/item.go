package model

import "time"

// CollectionItem is the canonical remote-backed collectible document.
// ID is assigned by the store on creation and is empty before persistence.
// UserID is immutable after creation; CreatedAt/UpdatedAt are stamped by the
// server on every write.
type CollectionItem struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name" validate:"required"`
	Brand        string    `json:"brand" validate:"required"`
	Category     string    `json:"category" validate:"required"`
	Series       string    `json:"series,omitempty"`
	ReleaseDate  string    `json:"release_date,omitempty"`
	PurchaseDate string    `json:"purchase_date,omitempty"`
	Price        *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Condition    string    `json:"condition,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	InWishlist   bool      `json:"in_wishlist"`
	InCollection bool      `json:"in_collection"`
	IsCustom     bool      `json:"is_custom"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserID       int64     `json:"user_id"`
}

// ItemPatch carries the fields of a partial item update. Nil fields are left
// untouched by the merge. UserID is deliberately absent: ownership never moves.
type ItemPatch struct {
	Name         *string  `json:"name,omitempty"`
	Brand        *string  `json:"brand,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Series       *string  `json:"series,omitempty"`
	ReleaseDate  *string  `json:"release_date,omitempty"`
	PurchaseDate *string  `json:"purchase_date,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Condition    *string  `json:"condition,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty"`
	InWishlist   *bool    `json:"in_wishlist,omitempty"`
	InCollection *bool    `json:"in_collection,omitempty"`
	IsCustom     *bool    `json:"is_custom,omitempty"`
}

// ItemFilter is a conjunction of equality predicates for user item queries.
// Unset fields are not applied.
type ItemFilter struct {
	InCollection *bool
	InWishlist   *bool
	IsCustom     *bool
	Category     string
}

// Empty reports whether no predicate is set.
func (f *ItemFilter) Empty() bool {
	if f == nil {
		return true
	}
	return f.InCollection == nil && f.InWishlist == nil && f.IsCustom == nil && f.Category == ""
}

// BrandCount pairs a brand with the number of in-collection items carrying it.
type BrandCount struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

// CategoryCount pairs a category with the number of in-collection items carrying it.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CollectionStats summarizes a user's remote collection.
type CollectionStats struct {
	CollectionCount int             `json:"collection_count"`
	WishlistCount   int             `json:"wishlist_count"`
	CustomCount     int             `json:"custom_count"`
	BrandCounts     []BrandCount    `json:"brand_counts"`
	CategoryCounts  []CategoryCount `json:"category_counts"`
	TotalValue      float64         `json:"total_value"`
}
