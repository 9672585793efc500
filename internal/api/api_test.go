package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/starford/othala/internal/audit"
	"github.com/starford/othala/internal/hierarchy"
	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/noteservice"
	"github.com/starford/othala/internal/reconcile"
	"github.com/starford/othala/internal/storage"
)

// buildEnv wires a temp vault, SQLite index, and note service for router tests.
func buildEnv(t *testing.T) (*noteservice.Service, string) {
	t.Helper()

	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir, nil)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	dbFile, err := os.CreateTemp("", "othala-api-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	cls, err := hierarchy.NewClassifier(vaultDir, "")
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	trail := audit.New(filepath.Join(t.TempDir(), "audit.jsonl"))
	runner := reconcile.NewRunner(store, cls, trail, logger, 0)

	return noteservice.NewService(store, db, runner, trail, logger), vaultDir
}

// newTestEnv returns a router plus the vault directory behind it.
func newTestEnv(t *testing.T, authEnabled bool, token string) (http.Handler, string) {
	t.Helper()
	svc, vaultDir := buildEnv(t)
	return NewRouter(svc, authEnabled, token, nil, vaultDir), vaultDir
}

// newTestRouter is the no-auth convenience used by most tests.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	router, _ := newTestEnv(t, false, "")
	return router
}

func postNote(t *testing.T, router http.Handler, path, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"path": path, "content": content})
	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetNote(t *testing.T) {
	router := newTestRouter(t)

	if w := postNote(t, router, "hello.md", "# Hello\nWorld"); w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/notes/hello.md", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var note NoteDetail
	_ = json.Unmarshal(w.Body.Bytes(), &note)
	if note.Path != "hello.md" {
		t.Errorf("path = %q", note.Path)
	}
	if note.Title != "Hello" {
		t.Errorf("title = %q, want Hello", note.Title)
	}
}

func TestCreateNote_ReturnsAlignedContent(t *testing.T) {
	router := newTestRouter(t)

	w := postNote(t, router, "MBA/Finance/notes.md", "# Notes\n")
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d, body = %s", w.Code, w.Body.String())
	}
	var note NoteDetail
	_ = json.Unmarshal(w.Body.Bytes(), &note)
	if note.Hierarchy.Program != "MBA" || note.Hierarchy.Course != "Finance" {
		t.Errorf("hierarchy = %+v, want MBA/Finance", note.Hierarchy)
	}
	if !strings.Contains(note.Content, "program: MBA") {
		t.Errorf("content not aligned:\n%s", note.Content)
	}
}

func TestCreateDuplicate(t *testing.T) {
	router := newTestRouter(t)

	if w := postNote(t, router, "dup.md", "a"); w.Code != http.StatusCreated {
		t.Fatalf("first create = %d", w.Code)
	}
	if w := postNote(t, router, "dup.md", "a"); w.Code != http.StatusConflict {
		t.Errorf("duplicate create = %d, want 409", w.Code)
	}
}

func TestUpdateWithOptimisticLocking(t *testing.T) {
	router := newTestRouter(t)

	w := postNote(t, router, "lock.md", "v1")
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d", w.Code)
	}
	var created NoteDetail
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	putNote := func(ifMatch string) int {
		body, _ := json.Marshal(map[string]string{"content": "v2"})
		req := httptest.NewRequest(http.MethodPut, "/notes/lock.md", bytes.NewReader(body))
		if ifMatch != "" {
			req.Header.Set("If-Match", ifMatch)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := putNote(created.Checksum); code != http.StatusOK {
		t.Fatalf("update with correct checksum = %d", code)
	}
	// The first update rewrote the file, so the same checksum is stale now.
	if code := putNote(created.Checksum); code != http.StatusConflict {
		t.Errorf("update with stale checksum = %d, want 409", code)
	}
	// Omitting If-Match skips the lock entirely.
	if code := putNote(""); code != http.StatusOK {
		t.Errorf("update without If-Match = %d, want 200", code)
	}
}

func TestDeleteNote(t *testing.T) {
	router := newTestRouter(t)

	postNote(t, router, "bye.md", "gone")

	req := httptest.NewRequest(http.MethodDelete, "/notes/bye.md", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/notes/bye.md", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
}

func TestMoveNoteEndpoint(t *testing.T) {
	router := newTestRouter(t)

	postNote(t, router, "MBA/Finance/roam.md", "# Roam\n")

	body, _ := json.Marshal(map[string]string{"from": "MBA/Finance/roam.md", "to": "MBA/Marketing/roam.md"})
	req := httptest.NewRequest(http.MethodPost, "/notes/move", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("move = %d, body = %s", w.Code, w.Body.String())
	}
	var note NoteDetail
	_ = json.Unmarshal(w.Body.Bytes(), &note)
	if note.Hierarchy.Course != "Marketing" {
		t.Errorf("course = %q, want Marketing", note.Hierarchy.Course)
	}

	req = httptest.NewRequest(http.MethodGet, "/notes/MBA%2FFinance%2Froam.md", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("old path after move = %d, want 404", w.Code)
	}
}

func TestListNotes(t *testing.T) {
	router := newTestRouter(t)

	for _, name := range []string{"a.md", "b.md"} {
		postNote(t, router, name, "# "+name)
	}

	req := httptest.NewRequest(http.MethodGet, "/notes?limit=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	notes := resp["notes"].([]any)
	if len(notes) != 2 {
		t.Errorf("len(notes) = %d, want 2", len(notes))
	}
}

func TestListNotes_HierarchyFilter(t *testing.T) {
	router := newTestRouter(t)

	postNote(t, router, "MBA/Finance/a.md", "# A")
	postNote(t, router, "MBA/Marketing/b.md", "# B")
	postNote(t, router, "MBA/Finance/Finance.md", "# Finance")

	req := httptest.NewRequest(http.MethodGet, "/notes?course=Finance", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var resp struct {
		Notes []NoteListItem `json:"notes"`
		Total int            `json:"total"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}

	// index_type=none narrows to content notes.
	req = httptest.NewRequest(http.MethodGet, "/notes?course=Finance&index_type=none", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 1 || resp.Notes[0].Path != "MBA/Finance/a.md" {
		t.Errorf("content filter got %+v", resp.Notes)
	}
}

func TestSearchEndpoint(t *testing.T) {
	router := newTestRouter(t)

	postNote(t, router, "find.md", "uniquetoken here")

	req := httptest.NewRequest(http.MethodGet, "/search?q=uniquetoken", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d, body = %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	results := resp["results"].([]any)
	if len(results) != 1 {
		t.Errorf("search results = %d, want 1", len(results))
	}
}

func TestTreeEndpoint(t *testing.T) {
	router := newTestRouter(t)

	postNote(t, router, "MBA/MBA.md", "# MBA")
	postNote(t, router, "MBA/Finance/Finance.md", "# Finance")
	postNote(t, router, "MBA/Finance/notes.md", "# Notes")

	req := httptest.NewRequest(http.MethodGet, "/tree", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("tree = %d", w.Code)
	}
	var resp struct {
		Tree *index.TreeNode `json:"tree"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Tree == nil || len(resp.Tree.Children) != 1 {
		t.Fatalf("tree = %+v", resp.Tree)
	}
	prog := resp.Tree.Children[0]
	if prog.Name != "MBA" || prog.Path != "MBA/MBA.md" {
		t.Errorf("program node = %+v", prog)
	}
	if len(prog.Children) != 1 || prog.Children[0].Notes != 1 {
		t.Errorf("course node = %+v", prog.Children)
	}
}

func TestReconcileEndpoint(t *testing.T) {
	router, vaultDir := newTestEnv(t, false, "")

	// Files written behind the API's back, with no frontmatter.
	if err := os.MkdirAll(filepath.Join(vaultDir, "MBA", "Finance"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(vaultDir, "MBA", "Finance", "raw.md"), []byte("# Raw\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Dry run reports but does not write.
	body, _ := json.Marshal(map[string]bool{"dry_run": true})
	req := httptest.NewRequest(http.MethodPost, "/reconcile", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("dry run = %d, body = %s", w.Code, w.Body.String())
	}
	var rpt reconcile.Report
	_ = json.Unmarshal(w.Body.Bytes(), &rpt)
	if !rpt.DryRun || rpt.Stats.Changed != 1 {
		t.Errorf("dry run report = %+v", rpt.Stats)
	}
	data, _ := os.ReadFile(filepath.Join(vaultDir, "MBA", "Finance", "raw.md"))
	if strings.Contains(string(data), "program:") {
		t.Error("dry run wrote to disk")
	}

	// Real pass with empty body applies changes.
	req = httptest.NewRequest(http.MethodPost, "/reconcile", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("reconcile = %d", w.Code)
	}
	data, _ = os.ReadFile(filepath.Join(vaultDir, "MBA", "Finance", "raw.md"))
	if !strings.Contains(string(data), "course: Finance") {
		t.Errorf("reconcile did not write: %q", data)
	}
}

func TestCheckEndpoint(t *testing.T) {
	router, vaultDir := newTestEnv(t, false, "")

	if err := os.MkdirAll(filepath.Join(vaultDir, "MBA"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(vaultDir, "MBA", "drift.md"), []byte("---\nprogram: Wrong\n---\nbody\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/check?path=MBA%2Fdrift.md", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("check = %d, body = %s", w.Code, w.Body.String())
	}
	var rep reconcile.FileReport
	_ = json.Unmarshal(w.Body.Bytes(), &rep)
	if len(rep.Changes) == 0 {
		t.Error("expected pending changes for drifted note")
	}

	// Missing note → 404, missing param → 400.
	req = httptest.NewRequest(http.MethodGet, "/check?path=nope.md", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("check missing = %d, want 404", w.Code)
	}
	req = httptest.NewRequest(http.MethodGet, "/check", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("check no path = %d, want 400", w.Code)
	}
}

func TestAuditEndpoint(t *testing.T) {
	router, vaultDir := newTestEnv(t, false, "")

	if err := os.MkdirAll(filepath.Join(vaultDir, "MBA"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(vaultDir, "MBA", "MBA.md"), []byte("# MBA\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/reconcile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("reconcile = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/audit?limit=5", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("audit = %d", w.Code)
	}
	var resp struct {
		Entries []audit.Entry `json:"entries"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Entries) == 0 {
		t.Fatal("expected audit entries after reconcile")
	}
	if resp.Entries[0].Path != "MBA/MBA.md" {
		t.Errorf("entry path = %q", resp.Entries[0].Path)
	}
}

func TestAuthMiddleware(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer secret123", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"malformed scheme", "Token secret123", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newTestEnv(t, true, "secret123")
			req := httptest.NewRequest(http.MethodGet, "/notes", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Errorf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestAuthDisabled_PassesThrough(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("no auth = %d, want 200", w.Code)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/notes/nope.md", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing note = %d, want 404", w.Code)
	}
}

func TestUpdateNote_NotFound(t *testing.T) {
	router := newTestRouter(t)

	body, _ := json.Marshal(map[string]string{"content": "x"})
	req := httptest.NewRequest(http.MethodPut, "/notes/ghost.md", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("update missing = %d, want 404", w.Code)
	}
}

func TestSearchMissingQuery(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("search no query = %d, want 400", w.Code)
	}
}

// newSSERouter mounts a stub /events handler that holds the stream open
// until the request context is done, to exercise auth on the endpoint.
func newSSERouter(t *testing.T, authEnabled bool, token string) http.Handler {
	t.Helper()
	svc, vaultDir := buildEnv(t)

	stub := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	})

	return NewRouter(svc, authEnabled, token, stub, vaultDir)
}

func TestSSEEvents_AuthProtected(t *testing.T) {
	router := newSSERouter(t, true, "secret")

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_AuthDisabled(t *testing.T) {
	router := newSSERouter(t, false, "")

	// The stub blocks until the request context ends, so cap it.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE should not require auth when disabled")
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	router := newSSERouter(t, true, "tok")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE with valid token should not 401")
	}
}

func uploadFile(t *testing.T, router http.Handler, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = io.Copy(part, bytes.NewReader(content))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/resources", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadAndServeResource(t *testing.T) {
	router, vaultDir := newTestEnv(t, false, "")

	w := uploadFile(t, router, "syllabus.pdf", []byte("fake-pdf-data"))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload = %d, body = %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["filename"] != "syllabus.pdf" {
		t.Errorf("filename = %v", resp["filename"])
	}

	data, err := os.ReadFile(filepath.Join(vaultDir, "resources", "syllabus.pdf"))
	if err != nil {
		t.Fatalf("file not on disk: %v", err)
	}
	if string(data) != "fake-pdf-data" {
		t.Errorf("content mismatch")
	}
}

func TestServeResource_NotFound(t *testing.T) {
	rh := NewResourceHandler(t.TempDir())

	// The handler reads {filename} from chi's route context, so go through
	// a real router.
	r := chi.NewRouter()
	r.Get("/resources/{filename}", rh.ServeFile)
	req := httptest.NewRequest(http.MethodGet, "/resources/nope.pdf", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing resource = %d, want 404", w.Code)
	}
}

func TestServeResource_TraversalBlocked(t *testing.T) {
	rh := NewResourceHandler(t.TempDir())
	r := chi.NewRouter()
	r.Get("/resources/{filename}", rh.ServeFile)

	for _, name := range []string{"../secret.md", "../../etc/passwd"} {
		req := httptest.NewRequest(http.MethodGet, "/resources/"+name, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		// chi may refuse to route the traversal path (404) or the handler
		// rejects it (400); either way it must not be served.
		if w.Code == http.StatusOK {
			t.Errorf("traversal %q should not return 200", name)
		}
	}
}

func TestUploadResource_InvalidFilename(t *testing.T) {
	router, vaultDir := newTestEnv(t, false, "")

	// Multipart headers may clean "../" themselves, so accept either a
	// rejection or a cleaned name landing safely inside resources.
	w := uploadFile(t, router, "../escape.txt", []byte("bad"))
	if w.Code == http.StatusCreated {
		if _, err := os.Stat(filepath.Join(vaultDir, "..", "escape.txt")); err == nil {
			t.Error("file escaped vault directory")
		}
	}
}

func TestUploadResource_AuthProtected(t *testing.T) {
	router, _ := newTestEnv(t, true, "secret")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "x.pdf")
	_, _ = part.Write([]byte("data"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/resources", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("upload no auth = %d, want 401", w.Code)
	}
}

func TestUploadResource_MissingFileField(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("wrong", "data")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/resources", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing field = %d, want 400", w.Code)
	}
}
