package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mid "github.com/OFFIS-RIT/famtree/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/famtree/backend/pkg/common"
	"github.com/OFFIS-RIT/famtree/backend/pkg/loader"
	loaderio "github.com/OFFIS-RIT/famtree/backend/pkg/loader/io"

	"github.com/labstack/echo/v4"
)

const family = "id,first_name,married_with,father_id,mother_id,child_id1\n" +
	"p1,Taro,p2,,,c1\n" +
	"p2,Hanako,p1,,,c1\n" +
	"c1,Ichiro,,p1,p2,\n"

type treeBody struct {
	Success bool `json:"success"`
	Data    struct {
		People        map[string]common.Person `json:"people"`
		Relationships []common.Relationship    `json:"relationships"`
	} `json:"data"`
}

func sampleApp(t *testing.T, content *string) *mid.App {
	t.Helper()
	path := filepath.Join(t.TempDir(), "example_family.csv")
	if content != nil {
		if err := os.WriteFile(path, []byte(*content), 0o600); err != nil {
			t.Fatalf("write sample: %v", err)
		}
	}
	return &mid.App{
		Sample: loader.NewCSVTableFile(loader.NewTableFileParams{
			ID:       "sample",
			FilePath: path,
			Loader:   loaderio.NewIOTableFileLoader(),
		}),
	}
}

func newTestServer(t *testing.T, app *mid.App, opts Options) *echo.Echo {
	t.Helper()
	return New(app, opts)
}

func upload(t *testing.T, e *echo.Echo, field, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if filename == "" {
		fw, err := w.CreateFormField(field)
		if err != nil {
			t.Fatalf("create field: %v", err)
		}
		fw.Write(content)
	} else {
		fw, err := w.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		fw.Write(content)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body["error"]
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, sampleApp(t, nil), Options{})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestUpload(t *testing.T) {
	e := newTestServer(t, sampleApp(t, nil), Options{})
	rec := upload(t, e, "file", "family.csv", []byte(family))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body treeBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || len(body.Data.People) != 3 || len(body.Data.Relationships) != 3 {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if body.Data.People["p1"].FirstName != "Taro" {
		t.Fatalf("unexpected person %#v", body.Data.People["p1"])
	}
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		filename string
		content  []byte
		want     string
	}{
		{name: "wrong field", field: "upload", filename: "family.csv", content: []byte(family), want: "No file provided"},
		{name: "no filename", field: "file", filename: "", content: []byte(family), want: "No file selected"},
		{name: "not csv", field: "file", filename: "family.txt", content: []byte(family), want: "File must be a CSV"},
		{name: "empty", field: "file", filename: "family.csv", content: []byte{}, want: "File is empty"},
		{name: "invalid utf-8", field: "file", filename: "family.csv", content: []byte{'i', 'd', '\n', 0xff, 0xfe}, want: "File must be UTF-8 encoded"},
		{name: "malformed quoting", field: "file", filename: "family.csv", content: []byte("id\n\"p1\n"), want: "Failed to parse CSV"},
	}

	e := newTestServer(t, sampleApp(t, nil), Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := upload(t, e, tt.field, tt.filename, tt.content)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if msg := errorMessage(t, rec); !strings.HasPrefix(msg, tt.want) {
				t.Fatalf("error = %q, want prefix %q", msg, tt.want)
			}
		})
	}
}

func TestUpload_UppercaseExtension(t *testing.T) {
	e := newTestServer(t, sampleApp(t, nil), Options{})
	rec := upload(t, e, "file", "FAMILY.CSV", []byte(family))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestUpload_BodyLimit(t *testing.T) {
	e := newTestServer(t, sampleApp(t, nil), Options{BodyLimit: "1K"})
	big := family + strings.Repeat("x1,filler\n", 200)
	rec := upload(t, e, "file", "family.csv", []byte(big))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantReport *common.ValidationReport
	}{
		{
			name:       "dangling father",
			body:       `{"content":"id,father_id\nc1,ghost\n"}`,
			wantStatus: http.StatusOK,
			wantReport: &common.ValidationReport{
				Valid:       false,
				Errors:      []string{"Person c1 references non-existent father ghost"},
				Warnings:    []string{},
				PersonCount: 1,
			},
		},
		{
			name:       "consistent",
			body:       `{"content":"id,married_with\np1,p2\np2,p1\n"}`,
			wantStatus: http.StatusOK,
			wantReport: &common.ValidationReport{
				Valid:       true,
				Errors:      []string{},
				Warnings:    []string{},
				PersonCount: 2,
			},
		},
		{name: "missing content", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "blank content", body: `{"content":"   "}`, wantStatus: http.StatusBadRequest},
		{name: "not json", body: `content=id`, wantStatus: http.StatusBadRequest},
		{name: "malformed csv", body: `{"content":"id\n\"p1\n"}`, wantStatus: http.StatusBadRequest},
	}

	e := newTestServer(t, sampleApp(t, nil), Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/validate", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantReport == nil {
				return
			}
			var got common.ValidationReport
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Valid != tt.wantReport.Valid || got.PersonCount != tt.wantReport.PersonCount ||
				len(got.Errors) != len(tt.wantReport.Errors) || len(got.Warnings) != len(tt.wantReport.Warnings) {
				t.Fatalf("report = %#v, want %#v", got, *tt.wantReport)
			}
			for i := range got.Errors {
				if got.Errors[i] != tt.wantReport.Errors[i] {
					t.Fatalf("error %d = %q, want %q", i, got.Errors[i], tt.wantReport.Errors[i])
				}
			}
		})
	}
}

func TestSample(t *testing.T) {
	content := family
	e := newTestServer(t, sampleApp(t, &content), Options{})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sample", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body treeBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || len(body.Data.People) != 3 {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestSample_NotFound(t *testing.T) {
	e := newTestServer(t, sampleApp(t, nil), Options{})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sample", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Sample file not found" {
		t.Fatalf("unexpected error %q", msg)
	}
}

func TestSchema(t *testing.T) {
	e := newTestServer(t, sampleApp(t, nil), Options{})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/schema", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var schemas map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &schemas); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := schemas["family_tree"]; !ok {
		t.Fatalf("missing family_tree schema")
	}
}

func TestMetrics(t *testing.T) {
	e := newTestServer(t, sampleApp(t, nil), Options{})
	upload(t, e, "file", "family.csv", []byte(family))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "famtree_tables_total") {
		t.Fatalf("expected famtree metrics in exposition")
	}
}

func TestAuth(t *testing.T) {
	app := sampleApp(t, nil)
	app.AuthEnabled = true
	app.MasterAPIKey = "secret"
	e := newTestServer(t, app, Options{})

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
	}{
		{name: "health stays open", path: "/health", wantStatus: http.StatusOK},
		{name: "api without token", path: "/api/schema", wantStatus: http.StatusUnauthorized},
		{name: "api with wrong token", path: "/api/schema", token: "guess", wantStatus: http.StatusUnauthorized},
		{name: "api with master key", path: "/api/schema", token: "secret", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestStatic(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>famtree</html>"), 0o600); err != nil {
		t.Fatalf("write index: %v", err)
	}
	e := newTestServer(t, sampleApp(t, nil), Options{StaticDir: dir})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "famtree") {
		t.Fatalf("unexpected static response %d %q", rec.Code, rec.Body.String())
	}
}
