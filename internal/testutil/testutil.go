// Package testutil provides shared test helpers for setting up vaults and databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "othala-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir, nil)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// WriteNote writes a markdown file under the vault root, creating parent
// folders as needed. rel uses forward slashes.
func WriteNote(t *testing.T, vaultDir, rel, content string) {
	t.Helper()
	abs := filepath.Join(vaultDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// CurriculumVault populates vaultDir with a small program/course/class layout
// used across service and API tests. Files carry no frontmatter so reconcile
// paths have work to do.
func CurriculumVault(t *testing.T, vaultDir string) {
	t.Helper()
	WriteNote(t, vaultDir, "MBA/MBA.md", "# MBA Program\n")
	WriteNote(t, vaultDir, "MBA/Finance/Finance.md", "# Finance\n")
	WriteNote(t, vaultDir, "MBA/Finance/Week 1/Week 1.md", "# Week 1\n")
	WriteNote(t, vaultDir, "MBA/Finance/Week 1/notes.md", "# Notes\n\nDiscounted cash flow.\n")
	WriteNote(t, vaultDir, "MBA/Marketing/Marketing.md", "# Marketing\n")
	WriteNote(t, vaultDir, "scratch.md", "# Scratch\n")
}
