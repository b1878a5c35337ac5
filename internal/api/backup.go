package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/opaco/opacovault/internal/backup"
	"github.com/opaco/opacovault/internal/localstore"
	"github.com/opaco/opacovault/internal/model"
)

// maxBackupSize caps how large an uploaded backup may be.
const maxBackupSize = 50 << 20 // 50MB

// BackupHandler handles export and import of the local collections.
type BackupHandler struct {
	Store *localstore.Store
}

// ExportJSON handles GET /api/local/backup. The response downloads as a
// dated file.
func (h *BackupHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := backup.ExportJSON(h.Store.Figures(), h.Store.Wishlist(), h.Store.Customs())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to export backup")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		`attachment; filename="opacovault-backup-`+time.Now().Format("2006-01-02")+`.json"`)
	w.Write(data)
}

// ExportCSV handles GET /api/local/backup/csv/{collection}, exporting one
// collection at a time.
func (h *BackupHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")

	var data []byte
	var err error
	switch collection {
	case "figures":
		data, err = backup.ExportCSV(h.Store.Figures())
	case "wishlist":
		data, err = backup.ExportCSV(h.Store.Wishlist())
	case "customs":
		data, err = backup.ExportCSV(h.Store.Customs())
	default:
		jsonError(w, http.StatusNotFound, "unknown collection")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to export csv")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		`attachment; filename="opacovault-`+collection+`-`+time.Now().Format("2006-01-02")+`.csv"`)
	w.Write(data)
}

// ImportJSON handles POST /api/local/backup. A valid backup replaces all
// three collections wholesale; an invalid one changes nothing.
func (h *BackupHandler) ImportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupSize))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "failed to read backup")
		return
	}

	b, err := backup.ImportJSON(data)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.restore(b); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to restore backup")
		return
	}

	slog.Info("backup restored",
		"figures", len(b.FigureItems),
		"wishlist", len(b.WishlistItems),
		"customs", len(b.CustomItems),
	)
	jsonResponse(w, http.StatusOK, map[string]int{
		"figures":  len(b.FigureItems),
		"wishlist": len(b.WishlistItems),
		"customs":  len(b.CustomItems),
	})
}

// ImportCSV handles POST /api/local/backup/csv. The collection is detected
// from the header row and only that collection is replaced.
func (h *BackupHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupSize))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "failed to read csv")
		return
	}

	b, err := backup.ImportCSV(data)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	var saveErr error
	var collection string
	var count int
	switch {
	case b.FigureItems != nil:
		collection, count = "figures", len(b.FigureItems)
		saveErr = h.Store.SaveFigures(b.FigureItems)
	case b.WishlistItems != nil:
		collection, count = "wishlist", len(b.WishlistItems)
		saveErr = h.Store.SaveWishlist(b.WishlistItems)
	case b.CustomItems != nil:
		collection, count = "customs", len(b.CustomItems)
		saveErr = h.Store.SaveCustoms(b.CustomItems)
	}
	if saveErr != nil {
		jsonError(w, http.StatusInternalServerError, "failed to restore csv")
		return
	}

	slog.Info("csv imported", "collection", collection, "count", count)
	jsonResponse(w, http.StatusOK, map[string]any{"collection": collection, "count": count})
}

func (h *BackupHandler) restore(b *backup.Backup) error {
	if b.FigureItems == nil {
		b.FigureItems = []model.FigureItem{}
	}
	if b.WishlistItems == nil {
		b.WishlistItems = []model.WishlistItem{}
	}
	if b.CustomItems == nil {
		b.CustomItems = []model.CustomItem{}
	}
	if err := h.Store.SaveFigures(b.FigureItems); err != nil {
		return err
	}
	if err := h.Store.SaveWishlist(b.WishlistItems); err != nil {
		return err
	}
	return h.Store.SaveCustoms(b.CustomItems)
}
