// Package backup implements export and import of the local collections in
// JSON and CSV form. The JSON export is the canonical full backup; CSV covers
// one collection at a time and is detected by its header row on import.
package backup

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/opaco/opacovault/internal/model"
)

// Backup is the full-backup document. ExportDate records when the export was
// taken and is ignored on import.
type Backup struct {
	FigureItems   []model.FigureItem   `json:"figureItems"`
	WishlistItems []model.WishlistItem `json:"wishlistItems"`
	CustomItems   []model.CustomItem   `json:"customItems"`
	ExportDate    string               `json:"exportDate,omitempty"`
}

// ExportJSON serializes all three collections into a backup document.
func ExportJSON(figures []model.FigureItem, wishlist []model.WishlistItem, customs []model.CustomItem) ([]byte, error) {
	b := Backup{
		FigureItems:   figures,
		WishlistItems: wishlist,
		CustomItems:   customs,
		ExportDate:    time.Now().Format(time.RFC3339),
	}
	if b.FigureItems == nil {
		b.FigureItems = []model.FigureItem{}
	}
	if b.WishlistItems == nil {
		b.WishlistItems = []model.WishlistItem{}
	}
	if b.CustomItems == nil {
		b.CustomItems = []model.CustomItem{}
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	return data, nil
}

// ImportJSON parses a backup document. All three collection keys must be
// present and hold arrays; a document missing any of them is rejected rather
// than silently wiping the missing collection on restore.
func ImportJSON(data []byte) (*Backup, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing backup: %w", err)
	}

	b := &Backup{}
	for key, dst := range map[string]any{
		"figureItems":   &b.FigureItems,
		"wishlistItems": &b.WishlistItems,
		"customItems":   &b.CustomItems,
	} {
		raw, ok := doc[key]
		if !ok {
			return nil, fmt.Errorf("backup is missing %q", key)
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, fmt.Errorf("parsing backup %s: %w", key, err)
		}
	}

	return b, nil
}
