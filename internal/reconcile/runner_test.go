package reconcile

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/othala/internal/audit"
	"github.com/starford/othala/internal/hierarchy"
	"github.com/starford/othala/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// testRunner builds a runner over a fresh vault populated with files.
func testRunner(t *testing.T, files map[string]string) (*Runner, *storage.FS, *audit.Trail) {
	t.Helper()
	vaultDir := filepath.Join(t.TempDir(), "Vault")
	if err := os.MkdirAll(vaultDir, 0o755); err != nil {
		t.Fatal(err)
	}
	store, err := storage.NewFS(vaultDir, nil)
	if err != nil {
		t.Fatal(err)
	}
	for rel, content := range files {
		if err := store.Write(rel, []byte(content)); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	cls, err := hierarchy.NewClassifier(vaultDir, "")
	if err != nil {
		t.Fatal(err)
	}
	trail := audit.New(filepath.Join(t.TempDir(), "audit.jsonl"))
	return NewRunner(store, cls, trail, testLogger(), 0), store, trail
}

func TestRun_AlignsVault(t *testing.T) {
	r, store, _ := testRunner(t, map[string]string{
		"MBA/MBA.md":                  "---\ntitle: MBA Overview\n---\n# MBA\n",
		"MBA/Finance/Finance.md":      "---\nprogram: Wrong\n---\n# Finance\n",
		"MBA/Finance/Week1/notes.md":  "# Notes\nplain file\n",
		"MBA/Finance/Week1/Week1.md":  "---\nprogram: MBA\ncourse: Finance\nclass: Week1\nindex-type: class\n---\nok\n",
		"MBA/Finance/Week1/module.md": "---\nmodule: Stray\n---\nbody\n",
	})

	rpt, err := r.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rpt.Stats.Files != 5 {
		t.Errorf("files = %d, want 5", rpt.Stats.Files)
	}
	if rpt.Stats.Unchanged != 1 {
		t.Errorf("unchanged = %d, want 1 (the canonical class index)", rpt.Stats.Unchanged)
	}
	if rpt.Stats.Changed != 4 {
		t.Errorf("changed = %d, want 4", rpt.Stats.Changed)
	}
	if rpt.Stats.Errors != 0 || rpt.Stats.Skipped != 0 {
		t.Errorf("stats = %+v", rpt.Stats)
	}

	data, err := store.Read("MBA/Finance/Finance.md")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "program: MBA\n") || !strings.Contains(got, "course: Finance\n") {
		t.Errorf("course index = %q", got)
	}
	if !strings.Contains(got, "index-type: course\n") {
		t.Errorf("course index missing index-type: %q", got)
	}
	if !strings.HasSuffix(got, "# Finance\n") {
		t.Errorf("body not preserved: %q", got)
	}

	data, _ = store.Read("MBA/Finance/Week1/module.md")
	if strings.Contains(string(data), "module:") {
		t.Errorf("stray module field should be stripped: %q", data)
	}
}

func TestRun_Idempotent(t *testing.T) {
	r, _, _ := testRunner(t, map[string]string{
		"Prog/Prog.md":          "# Program\n",
		"Prog/Course/Course.md": "---\ntitle: C\n---\nbody\n",
		"Prog/Course/note.md":   "---\nprogram: Old\n---\ntext\n",
	})

	first, err := r.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Stats.Changed != 3 {
		t.Fatalf("first changed = %d, want 3", first.Stats.Changed)
	}

	second, err := r.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Stats.Changed != 0 || second.Stats.FieldEdits != 0 {
		t.Errorf("second run stats = %+v, want no changes", second.Stats)
	}
}

func TestRun_DryRunLeavesFilesAlone(t *testing.T) {
	src := "---\nprogram: Wrong\n---\nbody\n"
	r, store, trail := testRunner(t, map[string]string{
		"Prog/note.md": src,
	})

	rpt, err := r.Run(context.Background(), true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !rpt.DryRun || rpt.Stats.Changed != 1 {
		t.Errorf("report = %+v", rpt)
	}
	data, _ := store.Read("Prog/note.md")
	if string(data) != src {
		t.Errorf("dry run must not write, got %q", data)
	}
	entries, _ := trail.Tail(10)
	if len(entries) != 0 {
		t.Errorf("dry run must not audit, got %+v", entries)
	}
}

func TestRun_SkipsUnparseableFrontmatter(t *testing.T) {
	src := "---\nkey: [unclosed\n---\nbody\n"
	r, store, _ := testRunner(t, map[string]string{
		"Prog/bad.md": src,
		"Prog/ok.md":  "text\n",
	})

	rpt, err := r.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rpt.Stats.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", rpt.Stats.Skipped)
	}
	if rpt.Stats.Changed != 1 {
		t.Errorf("changed = %d, want 1", rpt.Stats.Changed)
	}
	data, _ := store.Read("Prog/bad.md")
	if string(data) != src {
		t.Errorf("skipped file must stay untouched, got %q", data)
	}
	var found bool
	for _, f := range rpt.Files {
		if f.Path == "Prog/bad.md" && f.Skipped && f.Reason != "" {
			found = true
		}
	}
	if !found {
		t.Errorf("report should name the skipped file: %+v", rpt.Files)
	}
}

func TestRun_AuditsAppliedChanges(t *testing.T) {
	r, _, trail := testRunner(t, map[string]string{
		"Prog/Course/note.md": "---\nclass: Stray\n---\ntext\n",
	})

	if _, err := r.Run(context.Background(), false); err != nil {
		t.Fatalf("Run: %v", err)
	}
	entries, err := trail.Tail(10)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	// add program, add course, remove class.
	if len(entries) != 3 {
		t.Fatalf("entries = %+v, want 3", entries)
	}
	ops := map[string]string{}
	for _, e := range entries {
		if e.Path != "Prog/Course/note.md" {
			t.Errorf("entry path = %q", e.Path)
		}
		ops[e.Field] = e.Op
	}
	if ops["program"] != "add" || ops["course"] != "add" || ops["class"] != "remove" {
		t.Errorf("ops = %v", ops)
	}
}

func TestReconcileContent_AddsBlockToBareNote(t *testing.T) {
	r, _, _ := testRunner(t, nil)
	out, rep, err := r.ReconcileContent("Prog/Course/Course.md", []byte("# Course\n"))
	if err != nil {
		t.Fatalf("ReconcileContent: %v", err)
	}
	want := "---\nprogram: Prog\ncourse: Course\nindex-type: course\n---\n\n# Course\n"
	if string(out) != want {
		t.Errorf("out = %q, want %q", out, want)
	}
	if rep.IndexType != hierarchy.IndexCourse || rep.Depth != 2 {
		t.Errorf("report = %+v", rep)
	}
}

func TestProcessFile_OnlyWritesWhenChanged(t *testing.T) {
	r, store, _ := testRunner(t, map[string]string{
		"note.md": "plain root content\n",
	})
	info1, _ := os.Stat(filepath.Join(store.Root(), "note.md"))

	rep, err := r.ProcessFile("note.md", false)
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if len(rep.Changes) != 0 {
		t.Errorf("changes = %+v, want none at depth 0", rep.Changes)
	}
	info2, _ := os.Stat(filepath.Join(store.Root(), "note.md"))
	if !info1.ModTime().Equal(info2.ModTime()) {
		t.Errorf("unchanged note must not be rewritten")
	}
}
