package api

import (
	"errors"
	"net/http"

	"github.com/opaco/opacovault/internal/filter"
	"github.com/opaco/opacovault/internal/localstore"
	"github.com/opaco/opacovault/internal/model"
	"github.com/opaco/opacovault/internal/stats"
)

// LocalHandler handles the unauthenticated local vault endpoints. These back
// the no-login mode: a single shared store on disk, no user scoping.
type LocalHandler struct {
	Store *localstore.Store
}

func filterOptions(r *http.Request) filter.Options {
	q := r.URL.Query()
	return filter.Options{
		Type:    q.Get("type"),
		Search:  q.Get("search"),
		SortKey: q.Get("sort"),
		Desc:    q.Get("desc") == "true",
	}
}

// ListFigures handles GET /api/local/figures. Besides the shared filter
// parameters, figures can be narrowed by shelf and display.
func (h *LocalHandler) ListFigures(w http.ResponseWriter, r *http.Request) {
	figures := h.Store.Figures()

	q := r.URL.Query()
	if shelf := q.Get("shelf"); shelf != "" {
		figures = keepFigures(figures, func(f model.FigureItem) bool { return f.Shelf == shelf })
	}
	if display := q.Get("display"); display != "" {
		figures = keepFigures(figures, func(f model.FigureItem) bool { return f.Display == display })
	}

	jsonResponse(w, http.StatusOK, filter.Apply(figures, filter.FigureFields(), filterOptions(r)))
}

func keepFigures(figures []model.FigureItem, keep func(model.FigureItem) bool) []model.FigureItem {
	out := make([]model.FigureItem, 0, len(figures))
	for _, f := range figures {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// CreateFigure handles POST /api/local/figures. The ID comes from the shared
// counter; an empty shelf slot falls back to the default shelf and display.
func (h *LocalHandler) CreateFigure(w http.ResponseWriter, r *http.Request) {
	var figure model.FigureItem
	if err := decodeJSON(r, &figure); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if figure.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if figure.Shelf == "" {
		figure.Shelf = model.DefaultShelf
	}
	if figure.Display == "" {
		figure.Display = model.DefaultDisplay
	}
	if !model.ValidShelf(figure.Shelf) {
		jsonError(w, http.StatusBadRequest, "unknown shelf")
		return
	}
	if !model.ValidDisplay(figure.Shelf, figure.Display) {
		jsonError(w, http.StatusBadRequest, "unknown display for shelf")
		return
	}
	if figure.Ranking < 0 || figure.Ranking > 5 {
		jsonError(w, http.StatusBadRequest, "ranking must be between 0 and 5")
		return
	}

	id, err := h.Store.Counter().Next()
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to assign id")
		return
	}
	figure.ID = id

	if err := h.Store.SaveFigures(append(h.Store.Figures(), figure)); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save figures")
		return
	}
	jsonResponse(w, http.StatusCreated, figure)
}

// ReplaceFigure handles PUT /api/local/figures/{id}.
func (h *LocalHandler) ReplaceFigure(w http.ResponseWriter, r *http.Request) {
	var figure model.FigureItem
	if err := decodeJSON(r, &figure); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if figure.Ranking < 0 || figure.Ranking > 5 {
		jsonError(w, http.StatusBadRequest, "ranking must be between 0 and 5")
		return
	}

	id := r.PathValue("id")
	figures := h.Store.Figures()
	idx := -1
	for i := range figures {
		if figures[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		jsonError(w, http.StatusNotFound, "figure not found")
		return
	}

	figure.ID = id
	figures[idx] = figure
	if err := h.Store.SaveFigures(figures); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save figures")
		return
	}
	jsonResponse(w, http.StatusOK, figure)
}

// DeleteFigure handles DELETE /api/local/figures/{id}.
func (h *LocalHandler) DeleteFigure(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	figures := h.Store.Figures()
	remaining := keepFigures(figures, func(f model.FigureItem) bool { return f.ID != id })
	if len(remaining) == len(figures) {
		jsonError(w, http.StatusNotFound, "figure not found")
		return
	}
	if err := h.Store.SaveFigures(remaining); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save figures")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "figure deleted"})
}

// ListWishlist handles GET /api/local/wishlist.
func (h *LocalHandler) ListWishlist(w http.ResponseWriter, r *http.Request) {
	items := filter.Apply(h.Store.Wishlist(), filter.WishlistFields(), filterOptions(r))
	jsonResponse(w, http.StatusOK, items)
}

// CreateWishlistItem handles POST /api/local/wishlist.
func (h *LocalHandler) CreateWishlistItem(w http.ResponseWriter, r *http.Request) {
	var item model.WishlistItem
	if err := decodeJSON(r, &item); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if item.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	id, err := h.Store.Counter().Next()
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to assign id")
		return
	}
	item.ID = id

	if err := h.Store.SaveWishlist(append(h.Store.Wishlist(), item)); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save wishlist")
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// ReplaceWishlistItem handles PUT /api/local/wishlist/{id}.
func (h *LocalHandler) ReplaceWishlistItem(w http.ResponseWriter, r *http.Request) {
	var item model.WishlistItem
	if err := decodeJSON(r, &item); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	items := h.Store.Wishlist()
	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		jsonError(w, http.StatusNotFound, "wishlist item not found")
		return
	}

	item.ID = id
	items[idx] = item
	if err := h.Store.SaveWishlist(items); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save wishlist")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// DeleteWishlistItem handles DELETE /api/local/wishlist/{id}.
func (h *LocalHandler) DeleteWishlistItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	items := h.Store.Wishlist()
	remaining := make([]model.WishlistItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			remaining = append(remaining, item)
		}
	}
	if len(remaining) == len(items) {
		jsonError(w, http.StatusNotFound, "wishlist item not found")
		return
	}
	if err := h.Store.SaveWishlist(remaining); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save wishlist")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "wishlist item deleted"})
}

// MoveWishlistItem handles POST /api/local/wishlist/{id}/move, turning a
// wishlist item into a checklist figure.
func (h *LocalHandler) MoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	figure, err := h.Store.MoveToChecklist(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "wishlist item not found")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to move item")
		return
	}
	jsonResponse(w, http.StatusCreated, figure)
}

// ListCustoms handles GET /api/local/customs.
func (h *LocalHandler) ListCustoms(w http.ResponseWriter, r *http.Request) {
	items := filter.Apply(h.Store.Customs(), filter.CustomFields(), filterOptions(r))
	jsonResponse(w, http.StatusOK, items)
}

// CreateCustom handles POST /api/local/customs.
func (h *LocalHandler) CreateCustom(w http.ResponseWriter, r *http.Request) {
	var item model.CustomItem
	if err := decodeJSON(r, &item); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if item.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	id, err := h.Store.Counter().Next()
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to assign id")
		return
	}
	item.ID = id

	if err := h.Store.SaveCustoms(append(h.Store.Customs(), item)); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save customs")
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// ReplaceCustom handles PUT /api/local/customs/{id}.
func (h *LocalHandler) ReplaceCustom(w http.ResponseWriter, r *http.Request) {
	var item model.CustomItem
	if err := decodeJSON(r, &item); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	items := h.Store.Customs()
	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		jsonError(w, http.StatusNotFound, "custom item not found")
		return
	}

	item.ID = id
	items[idx] = item
	if err := h.Store.SaveCustoms(items); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save customs")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// DeleteCustom handles DELETE /api/local/customs/{id}.
func (h *LocalHandler) DeleteCustom(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	items := h.Store.Customs()
	remaining := make([]model.CustomItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			remaining = append(remaining, item)
		}
	}
	if len(remaining) == len(items) {
		jsonError(w, http.StatusNotFound, "custom item not found")
		return
	}
	if err := h.Store.SaveCustoms(remaining); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save customs")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "custom item deleted"})
}

// Insights handles GET /api/local/insights.
func (h *LocalHandler) Insights(w http.ResponseWriter, r *http.Request) {
	ins := stats.Collect(h.Store.Figures(), h.Store.Wishlist(), h.Store.Customs())
	jsonResponse(w, http.StatusOK, map[string]any{
		"insights":            ins,
		"totalValueFormatted": stats.FormatValue(ins.TotalValue),
	})
}

// Shelves handles GET /api/local/shelves, returning the fixed shelf taxonomy.
func (h *LocalHandler) Shelves(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"shelves":  model.Shelves,
		"displays": model.ShelfDisplays,
	})
}

// ShelfFigures handles GET /api/local/shelves/{shelf}, returning the shelf's
// figures grouped by display. Every display appears, empty or not, so the
// page can render all slots.
func (h *LocalHandler) ShelfFigures(w http.ResponseWriter, r *http.Request) {
	shelf := r.PathValue("shelf")
	if !model.ValidShelf(shelf) {
		jsonError(w, http.StatusNotFound, "unknown shelf")
		return
	}

	grouped := make(map[string][]model.FigureItem, len(model.ShelfDisplays[shelf]))
	for _, display := range model.ShelfDisplays[shelf] {
		grouped[display] = []model.FigureItem{}
	}
	for _, f := range h.Store.Figures() {
		if f.Shelf != shelf {
			continue
		}
		if _, ok := grouped[f.Display]; !ok {
			continue
		}
		grouped[f.Display] = append(grouped[f.Display], f)
	}
	jsonResponse(w, http.StatusOK, grouped)
}

type prefsDocument struct {
	Theme      string `json:"theme"`
	ThemeColor string `json:"themeColor"`
	Font       string `json:"font"`
}

// GetPrefs handles GET /api/local/prefs.
func (h *LocalHandler) GetPrefs(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, prefsDocument{
		Theme:      h.Store.Pref(localstore.KeyTheme),
		ThemeColor: h.Store.Pref(localstore.KeyThemeColor),
		Font:       h.Store.Pref(localstore.KeyFont),
	})
}

// PutPrefs handles PUT /api/local/prefs, replacing all three preferences.
func (h *LocalHandler) PutPrefs(w http.ResponseWriter, r *http.Request) {
	var prefs prefsDocument
	if err := decodeJSON(r, &prefs); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for key, value := range map[string]string{
		localstore.KeyTheme:      prefs.Theme,
		localstore.KeyThemeColor: prefs.ThemeColor,
		localstore.KeyFont:       prefs.Font,
	} {
		if err := h.Store.SavePref(key, value); err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to save preferences")
			return
		}
	}
	jsonResponse(w, http.StatusOK, prefs)
}
