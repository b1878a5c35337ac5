package localstore

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/opaco/opacovault/internal/model"
)

// ErrNotFound is returned when an ID does not exist in its collection.
var ErrNotFound = errors.New("item not found")

// MoveToChecklist converts a wishlist item into a new figure and removes the
// original wishlist record. The figure is a fresh record: it draws a new ID
// from the shared counter, condition "New", the current year as purchase
// year, the default shelf/display slot and ranking zero, whatever the
// wishlist item held.
//
// The two writes span independent keys and cannot be atomic; the figure write
// lands first and is rolled back if the wishlist write fails, so the move is
// all-or-nothing from the caller's point of view.
func (s *Store) MoveToChecklist(id string) (*model.FigureItem, error) {
	wishlist := s.Wishlist()

	idx := -1
	for i, item := range wishlist {
		if item.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("wishlist item %s: %w", id, ErrNotFound)
	}
	item := wishlist[idx]

	newID, err := s.Counter().Next()
	if err != nil {
		return nil, err
	}

	figure := model.FigureItem{
		ID:           newID,
		Name:         item.Name,
		Type:         item.Type,
		Franchise:    item.Franchise,
		Brand:        item.Brand,
		Serie:        item.Serie,
		YearReleased: item.YearReleased,
		Condition:    "New",
		Price:        item.Price,
		YearPurchase: strconv.Itoa(time.Now().Year()),
		Logo:         item.Logo,
		Photo:        item.Photo,
		Tagline:      item.Tagline,
		Review:       item.Review,
		Shelf:        model.DefaultShelf,
		Display:      model.DefaultDisplay,
		Ranking:      0,
		Comments:     item.Comments,
	}

	figures := s.Figures()
	if err := s.SaveFigures(append(figures, figure)); err != nil {
		return nil, fmt.Errorf("saving figures: %w", err)
	}

	remaining := make([]model.WishlistItem, 0, len(wishlist)-1)
	remaining = append(remaining, wishlist[:idx]...)
	remaining = append(remaining, wishlist[idx+1:]...)

	if err := s.SaveWishlist(remaining); err != nil {
		// Compensate: restore the original figures array so the item does not
		// end up in both collections.
		if rbErr := s.SaveFigures(figures); rbErr != nil {
			return nil, fmt.Errorf("saving wishlist: %v (figure rollback also failed: %w)", err, rbErr)
		}
		return nil, fmt.Errorf("saving wishlist: %w", err)
	}

	return &figure, nil
}
