// Package localstore is the no-login fast path: whole-array JSON blobs in a
// key-value store on disk. Every save rewrites the full array for its key;
// there is no partial write and no cross-process coordination (last write
// wins). Corrupt stored data is treated as "no stored data" so a bad blob can
// never take a page down.
package localstore

import (
	"encoding/json"
	"log/slog"

	"github.com/peterbourgon/diskv/v3"

	"github.com/opaco/opacovault/internal/model"
)

// Storage keys. The three collections are independent; the counter key is
// shared by all of them.
const (
	KeyFigures  = "figureItems"
	KeyWishlist = "wishlistItems"
	KeyCustoms  = "customItems"
	KeyNextID   = "nextId"
)

// UI preference keys, stored beside the collections.
const (
	KeyTheme      = "theme"
	KeyThemeColor = "themeColor"
	KeyFont       = "font"
)

// Store is the local persistence adapter.
type Store struct {
	d *diskv.Diskv
}

// Open creates a Store rooted at basePath. Keys map to flat files.
func Open(basePath string) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return nil },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

// loadList reads and decodes a whole collection. A missing key or a blob that
// fails to parse both yield the empty collection.
func loadList[T any](s *Store, key string) []T {
	val, err := s.d.Read(key)
	if err != nil {
		return nil
	}
	var items []T
	if err := json.Unmarshal(val, &items); err != nil {
		slog.Warn("corrupt stored collection, treating as empty", "key", key, "error", err)
		return nil
	}
	return items
}

// saveList serializes and writes a whole collection.
func saveList[T any](s *Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.d.Write(key, data)
}

// Figures returns the checklist collection.
func (s *Store) Figures() []model.FigureItem { return loadList[model.FigureItem](s, KeyFigures) }

// SaveFigures replaces the checklist collection.
func (s *Store) SaveFigures(items []model.FigureItem) error { return saveList(s, KeyFigures, items) }

// Wishlist returns the wishlist collection.
func (s *Store) Wishlist() []model.WishlistItem { return loadList[model.WishlistItem](s, KeyWishlist) }

// SaveWishlist replaces the wishlist collection.
func (s *Store) SaveWishlist(items []model.WishlistItem) error {
	return saveList(s, KeyWishlist, items)
}

// Customs returns the custom-build collection.
func (s *Store) Customs() []model.CustomItem { return loadList[model.CustomItem](s, KeyCustoms) }

// SaveCustoms replaces the custom-build collection.
func (s *Store) SaveCustoms(items []model.CustomItem) error { return saveList(s, KeyCustoms, items) }

// Pref returns a UI preference value, or "" if unset.
func (s *Store) Pref(key string) string {
	val, err := s.d.Read(key)
	if err != nil {
		return ""
	}
	return string(val)
}

// SavePref stores a UI preference value.
func (s *Store) SavePref(key, value string) error {
	return s.d.Write(key, []byte(value))
}
