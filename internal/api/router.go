package api

import (
	"database/sql"
	"net/http"

	"github.com/opaco/opacovault/internal/localstore"
)

// NewRouter creates the API router with all endpoints registered.
//
// The /api/local tree is deliberately unauthenticated: it serves the no-login
// mode backed by a single on-disk store. Everything under /api/items,
// /api/stats, /api/settings and /api/upload requires a bearer token.
func NewRouter(db *sql.DB, local *localstore.Store, jwtSecret, uploadsDir string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{DB: db}
	settingsHandler := &SettingsHandler{DB: db, UploadsDir: uploadsDir}
	uploadHandler := &UploadHandler{UploadsDir: uploadsDir}
	localHandler := &LocalHandler{Store: local}
	backupHandler := &BackupHandler{Store: local}

	authMW := AuthMiddleware(jwtSecret, db)

	// Public: account creation and login.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated account management.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("DELETE /api/auth/account", authMW(http.HandlerFunc(authHandler.DeleteAccount)))

	// Remote vault items and stats.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PATCH /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("GET /api/stats", authMW(http.HandlerFunc(itemsHandler.Stats)))

	// User settings and logo.
	mux.Handle("GET /api/settings", authMW(http.HandlerFunc(settingsHandler.Get)))
	mux.Handle("PUT /api/settings", authMW(http.HandlerFunc(settingsHandler.Put)))
	mux.Handle("PUT /api/settings/logo", authMW(http.HandlerFunc(settingsHandler.UploadLogo)))

	// Collection image uploads.
	mux.Handle("POST /api/upload", authMW(http.HandlerFunc(uploadHandler.Upload)))

	// Local vault: figures.
	mux.HandleFunc("GET /api/local/figures", localHandler.ListFigures)
	mux.HandleFunc("POST /api/local/figures", localHandler.CreateFigure)
	mux.HandleFunc("PUT /api/local/figures/{id}", localHandler.ReplaceFigure)
	mux.HandleFunc("DELETE /api/local/figures/{id}", localHandler.DeleteFigure)

	// Local vault: wishlist.
	mux.HandleFunc("GET /api/local/wishlist", localHandler.ListWishlist)
	mux.HandleFunc("POST /api/local/wishlist", localHandler.CreateWishlistItem)
	mux.HandleFunc("PUT /api/local/wishlist/{id}", localHandler.ReplaceWishlistItem)
	mux.HandleFunc("DELETE /api/local/wishlist/{id}", localHandler.DeleteWishlistItem)
	mux.HandleFunc("POST /api/local/wishlist/{id}/move", localHandler.MoveWishlistItem)

	// Local vault: customs.
	mux.HandleFunc("GET /api/local/customs", localHandler.ListCustoms)
	mux.HandleFunc("POST /api/local/customs", localHandler.CreateCustom)
	mux.HandleFunc("PUT /api/local/customs/{id}", localHandler.ReplaceCustom)
	mux.HandleFunc("DELETE /api/local/customs/{id}", localHandler.DeleteCustom)

	// Local vault: insights, shelves and preferences.
	mux.HandleFunc("GET /api/local/insights", localHandler.Insights)
	mux.HandleFunc("GET /api/local/shelves", localHandler.Shelves)
	mux.HandleFunc("GET /api/local/shelves/{shelf}", localHandler.ShelfFigures)
	mux.HandleFunc("GET /api/local/prefs", localHandler.GetPrefs)
	mux.HandleFunc("PUT /api/local/prefs", localHandler.PutPrefs)

	// Local vault: backup.
	mux.HandleFunc("GET /api/local/backup", backupHandler.ExportJSON)
	mux.HandleFunc("POST /api/local/backup", backupHandler.ImportJSON)
	mux.HandleFunc("GET /api/local/backup/csv/{collection}", backupHandler.ExportCSV)
	mux.HandleFunc("POST /api/local/backup/csv", backupHandler.ImportCSV)

	// Stored uploads (logos and collection images).
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(uploadsDir))))

	return mux
}
