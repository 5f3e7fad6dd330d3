package api

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/optisols/Solveit-payslip-generator/internal/job"
	"github.com/optisols/Solveit-payslip-generator/internal/renderer"
)

func newTestRouter(t *testing.T, opts Options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	generator := job.NewGenerator(renderer.NewRenderer(renderer.Options{}),
		job.Options{Workers: 2}, zerolog.Nop())
	h := NewHandler(generator, opts, zerolog.Nop())

	router := gin.New()
	h.RegisterRoutes(router.Group("/api"))
	return router
}

func defaultFields() map[string]string {
	return map[string]string{
		"company_name":    "Acme Industries Pvt Ltd",
		"company_address": "12 MG Road, Pune, Maharashtra 411001",
		"payslip_month":   "2024-03",
		"location":        "Pune",
	}
}

func multipartRequest(t *testing.T, fields map[string]string, filename string, file []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("salary_file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(file); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/generate_payslip", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeFailure(t *testing.T, w *httptest.ResponseRecorder) (status, message string) {
	t.Helper()
	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failure body %q: %v", w.Body.String(), err)
	}
	return body.Status, body.Message
}

func TestGeneratePayslip_Success(t *testing.T) {
	t.Parallel()

	archivesDir := t.TempDir()
	router := newTestRouter(t, Options{
		ArchivesDir:    archivesDir,
		RetainArchives: true,
		MaxUploadBytes: 8 << 20,
	})

	register := "id,name,basic,hra,epf\n" +
		"E100,Asha Rao,50000,10000,1800\n" +
		"E101,Vikram Shah,abc,8000,1620\n"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, defaultFields(), "register.csv", []byte(register)))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("content type got=%q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != "attachment; filename=Payslips_2024-03.zip" {
		t.Fatalf("content disposition got=%q", cd)
	}
	if got := w.Header().Get("X-Generated-Count"); got != "1" {
		t.Fatalf("X-Generated-Count got=%q", got)
	}
	if got := w.Header().Get("X-Rejected-Rows"); got != "1" {
		t.Fatalf("X-Rejected-Rows got=%q", got)
	}

	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	if err != nil {
		t.Fatalf("response is not a zip: %v", err)
	}
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	if len(names) != 2 || names[0] != "E100_2024-03.pdf" || names[1] != "_rejected_rows.csv" {
		t.Fatalf("entries: %v", names)
	}

	// The archive is also retained on disk as a side effect.
	entries, err := os.ReadDir(archivesDir)
	if err != nil {
		t.Fatalf("read archives dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("retained archives: %d", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "Payslips_2024-03_") || !strings.HasSuffix(name, ".zip") {
		t.Fatalf("retained name got=%q", name)
	}
	retained, err := os.ReadFile(filepath.Join(archivesDir, name))
	if err != nil {
		t.Fatalf("read retained archive: %v", err)
	}
	if !bytes.Equal(retained, w.Body.Bytes()) {
		t.Fatalf("retained archive differs from response body")
	}
}

func TestGeneratePayslip_MissingFields(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, Options{})

	// No file at all.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, defaultFields(), "", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("no file: status=%d", w.Code)
	}
	if status, msg := decodeFailure(t, w); status != "bad_request" || msg != "All fields are required." {
		t.Fatalf("no file: status=%q msg=%q", status, msg)
	}

	// A blank metadata field.
	fields := defaultFields()
	fields["location"] = ""
	w = httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, fields, "register.csv", []byte("id,name\n")))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank field: status=%d", w.Code)
	}
}

func TestGeneratePayslip_BadMonth(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, Options{})

	for _, month := range []string{"March 2024", "2024-13", "2024-3", "24-03"} {
		fields := defaultFields()
		fields["payslip_month"] = month
		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartRequest(t, fields, "register.csv", []byte("id,name\n")))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("month %q: status=%d", month, w.Code)
		}
	}
}

func TestGeneratePayslip_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, Options{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, defaultFields(), "register.pdf", []byte("%PDF-")))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestGeneratePayslip_FileTooLarge(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, Options{MaxUploadBytes: 64})
	big := bytes.Repeat([]byte("a"), 256)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, defaultFields(), "register.csv", big))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	status, msg := decodeFailure(t, w)
	if status != "file_too_large" {
		t.Fatalf("status field got=%q", status)
	}
	// Sub-megabyte limits are reported in bytes, not rounded to 0 MB.
	if !strings.Contains(msg, "64 bytes") {
		t.Fatalf("limit not reported in bytes: %q", msg)
	}
}

func TestGeneratePayslip_UnreadableFile(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, Options{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, defaultFields(), "register.xlsx", []byte{0x00, 0x01, 0x02}))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if status, _ := decodeFailure(t, w); status != "unreadable_file" {
		t.Fatalf("status field got=%q", status)
	}
}

func TestGeneratePayslip_EmptyBatch(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, Options{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, defaultFields(), "register.csv", []byte("id,name,basic\n")))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if status, _ := decodeFailure(t, w); status != "empty_batch" {
		t.Fatalf("status field got=%q", status)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, Options{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("body=%s", w.Body.String())
	}
}
