package index

import (
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/starford/othala/internal/checksum"
	"github.com/starford/othala/internal/hierarchy"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/parser"
	"github.com/starford/othala/internal/storage"
)

// Sync walks the vault and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
//
// Frontmatter goes in as found on disk; callers wanting corrected metadata
// run a reconcile pass first.
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := IndexFile(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteNote(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// IndexFile parses data and upserts it into the DB, lifting the hierarchy
// fields out of the frontmatter. Shared by sync, the watcher, and the note
// service so every write path indexes the same way.
func IndexFile(db *DB, relPath string, data []byte) error {
	res, err := parser.Parse(data)
	if err != nil {
		return err
	}

	row := NoteRow{
		Path:     relPath,
		Title:    res.Title,
		Checksum: checksum.Sum(data),
		Tags:     res.Tags,
		Depth:    pathDepth(relPath),
	}
	if ff := res.Fields; ff != nil {
		row.Hierarchy = models.Hierarchy{
			Program: ff.GetString(hierarchy.FieldProgram),
			Course:  ff.GetString(hierarchy.FieldCourse),
			Class:   ff.GetString(hierarchy.FieldClass),
			Module:  ff.GetString(hierarchy.FieldModule),
		}
		row.IndexType = ff.GetString(hierarchy.FieldIndexType)
	}
	return db.UpsertNote(row, res.Body, res.Links)
}

// pathDepth counts the folders between the vault root and the file.
func pathDepth(rel string) int {
	dir := path.Dir(filepath.ToSlash(rel))
	if dir == "." || dir == "" {
		return 0
	}
	return strings.Count(dir, "/") + 1
}
