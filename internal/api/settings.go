package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/opaco/opacovault/internal/imaging"
	"github.com/opaco/opacovault/internal/model"
	"github.com/opaco/opacovault/internal/store"
)

// SettingsHandler handles the per-user settings document and logo upload.
type SettingsHandler struct {
	DB         *sql.DB
	UploadsDir string
}

// Get handles GET /api/settings. Users who never saved settings get the
// defaults rather than a 404.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	settings, err := store.GetUserSettings(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get settings")
		return
	}
	if settings == nil {
		defaults := model.DefaultUserSettings()
		settings = &defaults
	}
	jsonResponse(w, http.StatusOK, settings)
}

// Put handles PUT /api/settings, replacing the settings document wholesale.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var settings model.UserSettings
	if err := decodeJSON(r, &settings); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.SaveUserSettings(r.Context(), h.DB, claims.UserID, settings); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	jsonResponse(w, http.StatusOK, settings)
}

// UploadLogo handles PUT /api/settings/logo. The image is validated,
// downscaled and re-encoded before being stored, then the settings document
// is updated to point at the stored file.
func (h *SettingsHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxInputSize)
	if err := r.ParseMultipartForm(imaging.MaxInputSize); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("logo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "logo file required")
		return
	}
	defer file.Close()

	logo, err := imaging.ProcessLogo(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	dir := filepath.Join(h.UploadsDir, "logos")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to store logo")
		return
	}
	name := fmt.Sprintf("user-%d.jpg", claims.UserID)
	if err := os.WriteFile(filepath.Join(dir, name), logo.Data, 0o644); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to store logo")
		return
	}

	logoURL := "/uploads/logos/" + name

	settings, err := store.GetUserSettings(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get settings")
		return
	}
	if settings == nil {
		defaults := model.DefaultUserSettings()
		settings = &defaults
	}
	settings.LogoURL = logoURL
	if err := store.SaveUserSettings(r.Context(), h.DB, claims.UserID, *settings); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	slog.Info("user uploaded logo", "user", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"url": logoURL})
}
