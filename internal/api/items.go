package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/opaco/opacovault/internal/imaging"
	"github.com/opaco/opacovault/internal/model"
	"github.com/opaco/opacovault/internal/store"
)

// ItemsHandler handles the remote vault item endpoints. Every operation is
// scoped to the authenticated user; items belonging to other users read as
// not found.
type ItemsHandler struct {
	DB *sql.DB
}

// List handles GET /api/items. Filters come from query parameters:
// in_collection, in_wishlist and is_custom take true/false, category matches
// exactly.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := store.GetUserItems(r.Context(), h.DB, claims.UserID, filter)
	if err != nil {
		var missing *store.MissingIndexError
		if errors.As(err, &missing) {
			jsonError(w, http.StatusServiceUnavailable, missing.Remediation())
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.CollectionItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var item model.CollectionItem
	if err := decodeJSON(r, &item); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item.UserID = claims.UserID
	item.ImageURL = imaging.NormalizeDriveURL(item.ImageURL)

	if _, err := store.AddItem(r.Context(), h.DB, &item); err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			jsonError(w, http.StatusBadRequest, verr.Error())
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil || item.UserID != claims.UserID {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PATCH /api/items/{id}. Only the fields present in the body
// are changed; updated_at is re-stamped on every successful patch.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id := r.PathValue("id")
	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil || item.UserID != claims.UserID {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	var patch model.ItemPatch
	if err := decodeJSON(r, &patch); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.ImageURL != nil {
		normalized := imaging.NormalizeDriveURL(*patch.ImageURL)
		patch.ImageURL = &normalized
	}

	if err := store.UpdateItem(r.Context(), h.DB, id, patch); err != nil {
		writeItemError(w, err, "failed to update item")
		return
	}

	updated, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id := r.PathValue("id")
	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil || item.UserID != claims.UserID {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		writeItemError(w, err, "failed to delete item")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// Stats handles GET /api/stats.
func (h *ItemsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	stats, err := store.GetCollectionStats(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// writeItemError maps a store error from an item write onto an API response.
// The item can disappear between the ownership check and the write, so
// ErrNotFound still maps to 404 here.
func writeItemError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonError(w, http.StatusInternalServerError, fallback)
}

func filterFromQuery(r *http.Request) (*model.ItemFilter, error) {
	filter := &model.ItemFilter{Category: r.URL.Query().Get("category")}

	for param, dst := range map[string]**bool{
		"in_collection": &filter.InCollection,
		"in_wishlist":   &filter.InWishlist,
		"is_custom":     &filter.IsCustom,
	} {
		val := r.URL.Query().Get(param)
		if val == "" {
			continue
		}
		b, err := strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s (expected true or false)", param)
		}
		*dst = &b
	}

	return filter, nil
}
