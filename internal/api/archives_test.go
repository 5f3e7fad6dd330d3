package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
)

func archivesRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	dir := t.TempDir()
	router := newTestRouter(t, Options{ArchivesDir: dir})
	return router, dir
}

func TestListArchives(t *testing.T) {
	t.Parallel()

	router, dir := archivesRouter(t)
	for _, name := range []string{"Payslips_2024-03_a.zip", "Payslips_2024-04_b.zip", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/archives", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var body struct {
		Archives []struct {
			Name      string `json:"name"`
			SizeBytes int64  `json:"sizeBytes"`
		} `json:"archives"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Archives) != 2 {
		t.Fatalf("archives: %+v", body.Archives)
	}
	for _, a := range body.Archives {
		if a.Name == "notes.txt" {
			t.Fatalf("non-zip file listed")
		}
		if a.SizeBytes != 1 {
			t.Fatalf("size of %s got=%d", a.Name, a.SizeBytes)
		}
	}
}

func TestDownloadArchive(t *testing.T) {
	t.Parallel()

	router, dir := archivesRouter(t)
	if err := os.WriteFile(filepath.Join(dir, "Payslips_2024-03_a.zip"), []byte("zipbytes"), 0644); err != nil {
		t.Fatalf("seed archive: %v", err)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/archives/Payslips_2024-03_a.zip", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != "zipbytes" {
		t.Fatalf("body=%q", w.Body.String())
	}

	// Names outside the retention convention are refused.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/archives/evil.zip", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad name: status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/archives/Payslips_missing.zip", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing archive: status=%d", w.Code)
	}
}
