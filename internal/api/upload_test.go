package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	part.Write(content)
	w.Close()
	return body, w.FormDataContentType()
}

func uploadRequest(t *testing.T, server *httptest.Server, token, field, filename string, content []byte) *http.Response {
	t.Helper()
	body, contentType := multipartBody(t, field, filename, content)
	req, _ := http.NewRequest("POST", server.URL+"/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload request: %v", err)
	}
	return resp
}

func TestUploadRequiresAuth(t *testing.T) {
	server := setupTestServer(t)

	resp := uploadRequest(t, server, "", "file", "myers.jpg", []byte("data"))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// A malformed scheme is rejected the same way.
	body, contentType := multipartBody(t, "file", "myers.jpg", []byte("data"))
	req, _ := http.NewRequest("POST", server.URL+"/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Basic abc")
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for non-bearer auth, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUploadStoresFile(t *testing.T) {
	server := setupTestServer(t)
	token := registerUser(t, server, "collector")

	resp := uploadRequest(t, server, token, "file", "my figure photo!.jpg", []byte("fake image bytes"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for upload, got %d", resp.StatusCode)
	}
	var result map[string]string
	json.NewDecoder(resp.Body).Decode(&result)
	resp.Body.Close()

	url := result["url"]
	if !strings.HasPrefix(url, "/uploads/collection-images/") {
		t.Fatalf("unexpected upload url %q", url)
	}
	if strings.ContainsAny(url[len("/uploads/"):], " !") {
		t.Errorf("filename was not sanitized: %q", url)
	}

	// The stored file is served back.
	resp, _ = http.Get(server.URL + url)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 fetching stored file, got %d", resp.StatusCode)
	}
	stored := new(bytes.Buffer)
	stored.ReadFrom(resp.Body)
	resp.Body.Close()
	if stored.String() != "fake image bytes" {
		t.Errorf("stored file does not match upload: %q", stored.String())
	}
}

func TestUploadRequiresFilePart(t *testing.T) {
	server := setupTestServer(t)
	token := registerUser(t, server, "collector")

	resp := uploadRequest(t, server, token, "wrong-field", "myers.jpg", []byte("data"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 without file part, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
