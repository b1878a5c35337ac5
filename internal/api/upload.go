package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// maxUploadSize caps a single collection image upload.
const maxUploadSize = 20 << 20 // 20MB

// unsafeChars matches everything that is stripped from an uploaded filename.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// UploadHandler handles raw collection image uploads. Unlike logo uploads,
// files are stored as sent; clients link them from item documents directly.
type UploadHandler struct {
	UploadsDir string
}

// Upload handles POST /api/upload. The response carries the public URL of
// the stored file.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	name := sanitizeFilename(header.Filename)
	if name == "" || name == "." {
		name = "upload"
	}
	// A timestamp prefix keeps uploads with identical names from clobbering
	// each other.
	name = fmt.Sprintf("%d-%s", time.Now().UnixMilli(), name)

	dir := filepath.Join(h.UploadsDir, "collection-images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	defer dst.Close()

	if _, err := dst.ReadFrom(file); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	url := "/uploads/collection-images/" + name
	slog.Info("file uploaded", "user", claims.Username, "name", name)
	jsonResponse(w, http.StatusOK, map[string]string{"url": url})
}

// sanitizeFilename keeps letters, digits, dots and dashes and strips
// everything else.
func sanitizeFilename(name string) string {
	return unsafeChars.ReplaceAllString(filepath.Base(name), "")
}
