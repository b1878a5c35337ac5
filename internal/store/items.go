package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/opaco/opacovault/internal/db"
	"github.com/opaco/opacovault/internal/model"
)

// timeLayout is the storage format for item timestamps.
const timeLayout = time.RFC3339Nano

var validate = validator.New(validator.WithRequiredStructEnabled())

// AddItem validates and persists a new item, assigning its document ID and
// timestamps. The item's ID, CreatedAt and UpdatedAt fields are filled in on
// success. Validation failures block the write entirely.
func AddItem(ctx context.Context, dbc *sql.DB, item *model.CollectionItem) (string, error) {
	if err := validate.Struct(item); err != nil {
		return "", fmt.Errorf("validating item: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	stamp := now.Format(timeLayout)

	_, err := dbc.ExecContext(ctx,
		`INSERT INTO items (id, user_id, name, brand, category, series,
		                    release_date, purchase_date, price, condition, notes, image_url,
		                    in_wishlist, in_collection, is_custom, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, item.UserID, item.Name, item.Brand, item.Category, item.Series,
		nullable(item.ReleaseDate), nullable(item.PurchaseDate), item.Price,
		nullable(item.Condition), nullable(item.Notes), nullable(item.ImageURL),
		boolToInt(item.InWishlist), boolToInt(item.InCollection), boolToInt(item.IsCustom),
		stamp, stamp,
	)
	if err != nil {
		return "", fmt.Errorf("creating item: %w", err)
	}

	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return id, nil
}

// GetItem returns an item by ID, or nil if absent.
func GetItem(ctx context.Context, dbc *sql.DB, id string) (*model.CollectionItem, error) {
	row := dbc.QueryRowContext(ctx,
		`SELECT id, user_id, name, brand, category, series,
		        release_date, purchase_date, price, condition, notes, image_url,
		        in_wishlist, in_collection, is_custom, created_at, updated_at
		 FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// UpdateItem merges the patch's set fields into the existing document and
// re-stamps updated_at. Returns ErrNotFound if the id does not exist.
func UpdateItem(ctx context.Context, dbc *sql.DB, id string, patch model.ItemPatch) error {
	set := []string{"updated_at = ?"}
	args := []any{time.Now().UTC().Format(timeLayout)}

	add := func(column string, value any) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Brand != nil {
		add("brand", *patch.Brand)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Series != nil {
		add("series", *patch.Series)
	}
	if patch.ReleaseDate != nil {
		add("release_date", *patch.ReleaseDate)
	}
	if patch.PurchaseDate != nil {
		add("purchase_date", *patch.PurchaseDate)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Condition != nil {
		add("condition", *patch.Condition)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.InWishlist != nil {
		add("in_wishlist", boolToInt(*patch.InWishlist))
	}
	if patch.InCollection != nil {
		add("in_collection", boolToInt(*patch.InCollection))
	}
	if patch.IsCustom != nil {
		add("is_custom", boolToInt(*patch.IsCustom))
	}

	query := "UPDATE items SET " + strings.Join(set, ", ") + " WHERE id = ?"
	args = append(args, id)

	result, err := dbc.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("updating item %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteItem hard-deletes an item. Returns ErrNotFound if the id is absent.
func DeleteItem(ctx context.Context, dbc *sql.DB, id string) error {
	result, err := dbc.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("deleting item %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetUserItems returns a user's items matching the filter (a conjunction of
// equality predicates), sorted by updated_at descending. The SQL query covers
// the equality matching; the recency ordering happens here in memory so the
// store only ever needs the one flat composite index. Filtered queries name
// that index explicitly and fail with a MissingIndexError if it has not been
// provisioned.
func GetUserItems(ctx context.Context, dbc *sql.DB, userID int64, filter *model.ItemFilter) ([]model.CollectionItem, error) {
	query := `SELECT id, user_id, name, brand, category, series,
	                 release_date, purchase_date, price, condition, notes, image_url,
	                 in_wishlist, in_collection, is_custom, created_at, updated_at
	          FROM items`
	if !filter.Empty() {
		query += ` INDEXED BY ` + db.ItemQueryIndex
	}
	query += ` WHERE user_id = ?`
	args := []any{userID}

	if filter != nil {
		if filter.InCollection != nil {
			query += ` AND in_collection = ?`
			args = append(args, boolToInt(*filter.InCollection))
		}
		if filter.InWishlist != nil {
			query += ` AND in_wishlist = ?`
			args = append(args, boolToInt(*filter.InWishlist))
		}
		if filter.IsCustom != nil {
			query += ` AND is_custom = ?`
			args = append(args, boolToInt(*filter.IsCustom))
		}
		if filter.Category != "" {
			query += ` AND category = ?`
			args = append(args, filter.Category)
		}
	}

	rows, err := dbc.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing user items: %w", classifyQueryError(db.ItemQueryIndex, err))
	}
	defer rows.Close()

	var items []model.CollectionItem
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing user items: %w", err)
	}

	// Most recently updated first. Items whose timestamp failed to parse have
	// the zero time and sort to the end.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})
	return items, nil
}

// scanItem scans one item row via the given Scan function.
func scanItem(scan func(...any) error) (*model.CollectionItem, error) {
	item := &model.CollectionItem{}
	var series, releaseDate, purchaseDate, condition, notes, imageURL sql.NullString
	var price sql.NullFloat64
	var inWishlist, inCollection, isCustom int
	var createdAt, updatedAt string

	err := scan(&item.ID, &item.UserID, &item.Name, &item.Brand, &item.Category, &series,
		&releaseDate, &purchaseDate, &price, &condition, &notes, &imageURL,
		&inWishlist, &inCollection, &isCustom, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	item.Series = series.String
	item.ReleaseDate = releaseDate.String
	item.PurchaseDate = purchaseDate.String
	item.Condition = condition.String
	item.Notes = notes.String
	item.ImageURL = imageURL.String
	if price.Valid {
		v := price.Float64
		item.Price = &v
	}
	item.InWishlist = inWishlist != 0
	item.InCollection = inCollection != 0
	item.IsCustom = isCustom != 0
	item.CreatedAt = parseTimestamp(createdAt)
	item.UpdatedAt = parseTimestamp(updatedAt)
	return item, nil
}

// parseTimestamp parses a stored timestamp leniently. Anything unparseable
// becomes the zero time, which sorts as the earliest possible date.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{timeLayout, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
