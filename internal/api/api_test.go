package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opaco/opacovault/internal/db"
	"github.com/opaco/opacovault/internal/localstore"
	"github.com/opaco/opacovault/internal/model"
	"github.com/opaco/opacovault/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := db.NewTestDB(t)
	local := localstore.Open(t.TempDir())
	router := NewRouter(database, local, testJWTSecret, t.TempDir())
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// registerUser creates an account through the API and returns its token.
func registerUser(t *testing.T, server *httptest.Server, username string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": "password123"})
	resp, err := http.Post(server.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register failed: %d", resp.StatusCode)
	}

	var tokenResp map[string]string
	json.NewDecoder(resp.Body).Decode(&tokenResp)
	if tokenResp["token"] == "" {
		t.Fatal("empty token from register")
	}
	return tokenResp["token"]
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func TestRegisterAndLogin(t *testing.T) {
	server := setupTestServer(t)
	registerUser(t, server, "collector")

	// Duplicate registration.
	body, _ := json.Marshal(map[string]string{"username": "collector", "password": "password123"})
	resp, _ := http.Post(server.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate username, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Login with the right password.
	resp, _ = http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for login, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Wrong password.
	body, _ = json.Marshal(map[string]string{"username": "collector", "password": "wrong"})
	resp, _ = http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	server := setupTestServer(t)
	token := registerUser(t, server, "collector")

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The same token must no longer work.
	req, _ = authRequest("GET", server.URL+"/api/items", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestItemsAPIFlow(t *testing.T) {
	server := setupTestServer(t)
	token := registerUser(t, server, "collector")

	// Create item.
	req, _ := authRequest("POST", server.URL+"/api/items", token, map[string]any{
		"name":          "Michael Myers Ultimate",
		"brand":         "NECA",
		"category":      "figures",
		"in_collection": true,
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created model.CollectionItem
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if created.ID == "" {
		t.Fatal("expected assigned item id")
	}

	// Missing required fields.
	req, _ = authRequest("POST", server.URL+"/api/items", token, map[string]any{"name": "incomplete"})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing fields, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Patch it.
	req, _ = authRequest("PATCH", server.URL+"/api/items/"+created.ID, token, map[string]any{
		"notes": "signed box",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for patch, got %d", resp.StatusCode)
	}
	var patched model.CollectionItem
	json.NewDecoder(resp.Body).Decode(&patched)
	resp.Body.Close()
	if patched.Notes != "signed box" {
		t.Errorf("patch did not apply: %+v", patched)
	}
	if patched.Name != "Michael Myers Ultimate" {
		t.Errorf("patch clobbered unrelated field: %+v", patched)
	}

	// Filtered list.
	req, _ = authRequest("GET", server.URL+"/api/items?in_collection=true", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for filtered list, got %d", resp.StatusCode)
	}
	var items []model.CollectionItem
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 1 {
		t.Errorf("expected 1 in-collection item, got %d", len(items))
	}

	// Delete it, then deleting again is a 404.
	req, _ = authRequest("DELETE", server.URL+"/api/items/"+created.ID, token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("DELETE", server.URL+"/api/items/"+created.ID, token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for double delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestItemsAreUserScoped(t *testing.T) {
	server := setupTestServer(t)
	ownerToken := registerUser(t, server, "owner")
	otherToken := registerUser(t, server, "other")

	req, _ := authRequest("POST", server.URL+"/api/items", ownerToken, map[string]any{
		"name":     "Chucky",
		"brand":    "NECA",
		"category": "figures",
	})
	resp, _ := http.DefaultClient.Do(req)
	var created model.CollectionItem
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	// Another user reads it as not found.
	req, _ = authRequest("GET", server.URL+"/api/items/"+created.ID, otherToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for foreign item, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// And cannot delete it.
	req, _ = authRequest("DELETE", server.URL+"/api/items/"+created.ID, otherToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for foreign delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The owner still sees it.
	req, _ = authRequest("GET", server.URL+"/api/items/"+created.ID, ownerToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for owner read, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUnauthenticatedAccess(t *testing.T) {
	server := setupTestServer(t)

	resp, _ := http.Get(server.URL + "/api/items")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The local tree needs no token.
	resp, _ = http.Get(server.URL + "/api/local/figures")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for local request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestStatsEndpoint(t *testing.T) {
	server := setupTestServer(t)
	token := registerUser(t, server, "collector")

	for _, item := range []map[string]any{
		{"name": "Myers", "brand": "NECA", "category": "figures", "in_collection": true, "price": 45.0},
		{"name": "Chucky", "brand": "NECA", "category": "figures", "in_collection": true, "price": 30.0},
		{"name": "Pinhead", "brand": "McFarlane", "category": "figures", "in_wishlist": true, "price": 99.0},
	} {
		req, _ := authRequest("POST", server.URL+"/api/items", token, item)
		resp, _ := http.DefaultClient.Do(req)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed item failed: %d", resp.StatusCode)
		}
		resp.Body.Close()
	}

	req, _ := authRequest("GET", server.URL+"/api/stats", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for stats, got %d", resp.StatusCode)
	}
	var stats model.CollectionStats
	json.NewDecoder(resp.Body).Decode(&stats)
	resp.Body.Close()

	if stats.CollectionCount != 2 || stats.WishlistCount != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	// Only in-collection items count toward value.
	if stats.TotalValue != 75 {
		t.Errorf("expected total value 75, got %v", stats.TotalValue)
	}
	if len(stats.BrandCounts) != 1 || stats.BrandCounts[0].Brand != "NECA" {
		t.Errorf("unexpected brand counts: %+v", stats.BrandCounts)
	}
}

func TestLocalFiguresFlow(t *testing.T) {
	server := setupTestServer(t)

	// Create two figures; IDs come from the counter.
	for _, name := range []string{"Myers", "Chucky"} {
		body, _ := json.Marshal(map[string]any{"name": name, "type": "NECA"})
		resp, _ := http.Post(server.URL+"/api/local/figures", "application/json", bytes.NewReader(body))
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp, _ := http.Get(server.URL + "/api/local/figures")
	var figures []model.FigureItem
	json.NewDecoder(resp.Body).Decode(&figures)
	resp.Body.Close()
	if len(figures) != 2 {
		t.Fatalf("expected 2 figures, got %d", len(figures))
	}
	if figures[0].ID != "002" && figures[1].ID != "002" {
		t.Errorf("expected counter-assigned IDs, got %+v", figures)
	}
	for _, f := range figures {
		if f.Shelf != model.DefaultShelf || f.Display != model.DefaultDisplay {
			t.Errorf("expected default shelf slot, got %+v", f)
		}
	}

	// Unknown shelf is rejected.
	body, _ := json.Marshal(map[string]any{"name": "Pinhead", "shelf": "Sieben"})
	resp, _ = http.Post(server.URL+"/api/local/figures", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown shelf, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Replace by id.
	var target model.FigureItem
	for _, f := range figures {
		if f.Name == "Myers" {
			target = f
		}
	}
	target.Ranking = 5
	data, _ := json.Marshal(target)
	req, _ := http.NewRequest("PUT", server.URL+"/api/local/figures/"+target.ID, bytes.NewReader(data))
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for replace, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Delete, then 404.
	req, _ = http.NewRequest("DELETE", server.URL+"/api/local/figures/"+target.ID, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	req, _ = http.NewRequest("DELETE", server.URL+"/api/local/figures/"+target.ID, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for double delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLocalMoveEndpoint(t *testing.T) {
	server := setupTestServer(t)

	body, _ := json.Marshal(map[string]any{"name": "Pinhead", "type": "NECA", "price": "45"})
	resp, _ := http.Post(server.URL+"/api/local/wishlist", "application/json", bytes.NewReader(body))
	var item model.WishlistItem
	json.NewDecoder(resp.Body).Decode(&item)
	resp.Body.Close()

	resp, _ = http.Post(server.URL+"/api/local/wishlist/"+item.ID+"/move", "application/json", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for move, got %d", resp.StatusCode)
	}
	var figure model.FigureItem
	json.NewDecoder(resp.Body).Decode(&figure)
	resp.Body.Close()
	if figure.Condition != "New" {
		t.Errorf("expected condition New, got %q", figure.Condition)
	}

	// The wishlist entry is gone.
	resp, _ = http.Get(server.URL + "/api/local/wishlist")
	var remaining []model.WishlistItem
	json.NewDecoder(resp.Body).Decode(&remaining)
	resp.Body.Close()
	if len(remaining) != 0 {
		t.Errorf("expected empty wishlist after move, got %+v", remaining)
	}

	// Moving it again is a 404.
	resp, _ = http.Post(server.URL+"/api/local/wishlist/"+item.ID+"/move", "application/json", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for repeated move, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestShelvesEndpoints(t *testing.T) {
	server := setupTestServer(t)

	resp, _ := http.Get(server.URL + "/api/local/shelves")
	var taxonomy struct {
		Shelves  []string            `json:"shelves"`
		Displays map[string][]string `json:"displays"`
	}
	json.NewDecoder(resp.Body).Decode(&taxonomy)
	resp.Body.Close()
	if len(taxonomy.Shelves) != 6 {
		t.Fatalf("expected 6 shelves, got %d", len(taxonomy.Shelves))
	}
	for _, shelf := range taxonomy.Shelves {
		if len(taxonomy.Displays[shelf]) != 5 {
			t.Errorf("expected 5 displays for %s, got %d", shelf, len(taxonomy.Displays[shelf]))
		}
	}

	// Per-shelf view groups by display and includes empty displays.
	resp, _ = http.Get(server.URL + "/api/local/shelves/Eins")
	var grouped map[string][]model.FigureItem
	json.NewDecoder(resp.Body).Decode(&grouped)
	resp.Body.Close()
	if len(grouped) != 5 {
		t.Errorf("expected all 5 displays in shelf view, got %d", len(grouped))
	}

	resp, _ = http.Get(server.URL + "/api/local/shelves/Sieben")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown shelf, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestBackupRoundTripOverAPI(t *testing.T) {
	server := setupTestServer(t)

	body, _ := json.Marshal(map[string]any{"name": "Myers", "type": "NECA"})
	resp, _ := http.Post(server.URL+"/api/local/figures", "application/json", bytes.NewReader(body))
	resp.Body.Close()

	resp, _ = http.Get(server.URL + "/api/local/backup")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for export, got %d", resp.StatusCode)
	}
	exported := new(bytes.Buffer)
	exported.ReadFrom(resp.Body)
	resp.Body.Close()

	// Wipe by importing an empty backup, then restore the export.
	empty := []byte(`{"figureItems":[],"wishlistItems":[],"customItems":[]}`)
	resp, _ = http.Post(server.URL+"/api/local/backup", "application/json", bytes.NewReader(empty))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for empty import, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, _ = http.Post(server.URL+"/api/local/backup", "application/json", exported)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for import, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, _ = http.Get(server.URL + "/api/local/figures")
	var figures []model.FigureItem
	json.NewDecoder(resp.Body).Decode(&figures)
	resp.Body.Close()
	if len(figures) != 1 || figures[0].Name != "Myers" {
		t.Errorf("backup did not round-trip: %+v", figures)
	}

	// A backup missing a collection is rejected and changes nothing.
	partial := []byte(`{"figureItems":[]}`)
	resp, _ = http.Post(server.URL+"/api/local/backup", "application/json", bytes.NewReader(partial))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for partial backup, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, _ = http.Get(server.URL + "/api/local/figures")
	figures = nil
	json.NewDecoder(resp.Body).Decode(&figures)
	resp.Body.Close()
	if len(figures) != 1 {
		t.Errorf("rejected import must not change data, got %+v", figures)
	}
}

func TestPrefsEndpoints(t *testing.T) {
	server := setupTestServer(t)

	body := []byte(`{"theme":"dark","themeColor":"#8b0000","font":"creepster"}`)
	req, _ := http.NewRequest("PUT", server.URL+"/api/local/prefs", bytes.NewReader(body))
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for prefs put, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, _ = http.Get(server.URL + "/api/local/prefs")
	var prefs map[string]string
	json.NewDecoder(resp.Body).Decode(&prefs)
	resp.Body.Close()
	if prefs["theme"] != "dark" || prefs["font"] != "creepster" {
		t.Errorf("prefs did not round-trip: %+v", prefs)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	server := setupTestServer(t)
	token := registerUser(t, server, "collector")

	// Defaults before any save.
	req, _ := authRequest("GET", server.URL+"/api/settings", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	var settings model.UserSettings
	json.NewDecoder(resp.Body).Decode(&settings)
	resp.Body.Close()
	if settings.Theme != "system" || settings.Currency != "USD" {
		t.Errorf("expected default settings, got %+v", settings)
	}

	settings.Theme = "dark"
	settings.Currency = "EUR"
	req, _ = authRequest("PUT", server.URL+"/api/settings", token, settings)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for settings put, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("GET", server.URL+"/api/settings", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	json.NewDecoder(resp.Body).Decode(&settings)
	resp.Body.Close()
	if settings.Theme != "dark" || settings.Currency != "EUR" {
		t.Errorf("settings did not round-trip: %+v", settings)
	}
}

func TestWriteItemErrorMapping(t *testing.T) {
	// A write can lose the item to a concurrent delete after the ownership
	// check passed; the wrapped ErrNotFound must still surface as 404.
	rec := httptest.NewRecorder()
	writeItemError(rec, fmt.Errorf("updating item abc: %w", store.ErrNotFound), "failed to update item")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for vanished item, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	writeItemError(rec, errors.New("database is locked"), "failed to delete item")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for unexpected error, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body["error"] != "failed to delete item" {
		t.Errorf("expected fallback message, got %q", body["error"])
	}
}
