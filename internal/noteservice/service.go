// Package noteservice coordinates vault storage, the search index, and
// hierarchy reconciliation behind the HTTP and MCP surfaces.
package noteservice

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/audit"
	"github.com/starford/othala/internal/checksum"
	"github.com/starford/othala/internal/hierarchy"
	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/parser"
	"github.com/starford/othala/internal/reconcile"
	"github.com/starford/othala/internal/storage"
)

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	Path        string           `json:"path"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Checksum    string           `json:"checksum"`
	Tags        []string         `json:"tags"`
	Hierarchy   models.Hierarchy `json:"hierarchy"`
	IndexType   string           `json:"index_type,omitempty"`
	Frontmatter map[string]any   `json:"frontmatter,omitempty"`
	Backlinks   []string         `json:"backlinks"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NoteListItem is a lightweight item in a list response.
type NoteListItem struct {
	Path      string           `json:"path"`
	Title     string           `json:"title"`
	Checksum  string           `json:"checksum"`
	Tags      []string         `json:"tags"`
	Hierarchy models.Hierarchy `json:"hierarchy"`
	IndexType string           `json:"index_type,omitempty"`
	Depth     int              `json:"depth"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Service coordinates storage, index, and reconciliation.
type Service struct {
	store  storage.Provider
	db     *index.DB
	runner *reconcile.Runner
	trail  *audit.Trail
	logger *slog.Logger

	// OnReconciled, when set, is called after a vault-wide writing pass
	// completes. The server hooks the SSE broker in here.
	OnReconciled func(stats reconcile.Stats)
}

// NewService creates a new note service.
func NewService(store storage.Provider, db *index.DB, runner *reconcile.Runner, trail *audit.Trail, logger *slog.Logger) *Service {
	return &Service{store: store, db: db, runner: runner, trail: trail, logger: logger}
}

// GetNote reads a note from storage, parses it, and enriches with backlinks.
func (s *Service) GetNote(_ context.Context, path string) (*NoteDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return s.buildNoteDetail(path, data)
}

// CreateNote aligns the note's frontmatter with its folder position, writes
// it, and indexes it. The returned detail carries the aligned content, which
// may differ from what the caller sent.
func (s *Service) CreateNote(_ context.Context, path string, content []byte) (*NoteDetail, error) {
	if _, err := s.store.Read(path); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	aligned, err := s.alignOnWrite(path, content)
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(path, aligned); err != nil {
		return nil, err
	}
	if err := index.IndexFile(s.db, path, aligned); err != nil {
		return nil, err
	}
	return s.buildNoteDetail(path, aligned)
}

// UpdateNote writes updated content with optimistic concurrency. Frontmatter
// is realigned before the write, same as CreateNote.
func (s *Service) UpdateNote(_ context.Context, path string, content []byte, ifMatch string) (*NoteDetail, error) {
	existing, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if ifMatch != "" && !checksum.Match(ifMatch, existing) {
		return nil, apperr.ErrConflict
	}
	aligned, err := s.alignOnWrite(path, content)
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(path, aligned); err != nil {
		return nil, err
	}
	if err := index.IndexFile(s.db, path, aligned); err != nil {
		return nil, err
	}
	return s.buildNoteDetail(path, aligned)
}

// MoveNote relocates a note and realigns its hierarchy frontmatter to the
// destination folder. The index follows the move.
func (s *Service) MoveNote(_ context.Context, oldPath, newPath string) (*NoteDetail, error) {
	data, err := s.store.Read(oldPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if _, err := s.store.Read(newPath); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	aligned, _, err := s.runner.ReconcileContent(newPath, data)
	if err != nil {
		return nil, err
	}
	if err := s.store.Move(oldPath, newPath); err != nil {
		return nil, err
	}
	if !bytes.Equal(aligned, data) {
		if err := s.store.Write(newPath, aligned); err != nil {
			return nil, err
		}
	}
	if err := s.db.DeleteNote(oldPath); err != nil {
		return nil, err
	}
	if err := index.IndexFile(s.db, newPath, aligned); err != nil {
		return nil, err
	}
	return s.buildNoteDetail(newPath, aligned)
}

// DeleteNote removes a note from storage and index.
func (s *Service) DeleteNote(_ context.Context, path string) error {
	if err := s.store.Delete(path); err != nil {
		return err
	}
	return s.db.DeleteNote(path)
}

// ListNotes returns paginated notes matching the filter.
func (s *Service) ListNotes(_ context.Context, limit, offset int, f index.ListFilter) ([]NoteListItem, int, error) {
	rows, total, err := s.db.ListNotes(limit, offset, f)
	if err != nil {
		return nil, 0, err
	}
	items := make([]NoteListItem, len(rows))
	for i, r := range rows {
		items[i] = NoteListItem{
			Path:      r.Path,
			Title:     r.Title,
			Checksum:  r.Checksum,
			Tags:      nonNilSlice(r.Tags),
			Hierarchy: r.Hierarchy,
			IndexType: r.IndexType,
			Depth:     r.Depth,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return items, total, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Tree returns the curriculum tree assembled from indexed hierarchy fields.
func (s *Service) Tree(_ context.Context) (*index.TreeNode, error) {
	return s.db.Tree()
}

// Backlinks returns all note paths that link to the given target.
func (s *Service) Backlinks(_ context.Context, target string) ([]string, error) {
	return s.db.Backlinks(target)
}

// Reconcile runs a vault-wide alignment pass. After a pass that rewrote
// files the index is re-synced so search and tree reflect the corrections.
func (s *Service) Reconcile(ctx context.Context, dryRun bool) (*reconcile.Report, error) {
	rpt, err := s.runner.Run(ctx, dryRun)
	if err != nil {
		return rpt, err
	}
	if !dryRun && rpt.Stats.Changed > 0 {
		if err := index.Sync(s.db, s.store, s.logger); err != nil {
			s.logger.Warn("noteservice: post-reconcile sync failed", slog.String("error", err.Error()))
		}
	}
	if !dryRun && s.OnReconciled != nil {
		s.OnReconciled(rpt.Stats)
	}
	return rpt, nil
}

// CheckNote reports the frontmatter corrections a note would receive,
// without writing anything.
func (s *Service) CheckNote(_ context.Context, path string) (*reconcile.FileReport, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	_, rep, err := s.runner.ReconcileContent(path, data)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// AuditTail returns the most recent audit entries, oldest first.
func (s *Service) AuditTail(_ context.Context, n int) ([]audit.Entry, error) {
	return s.trail.Tail(n)
}

// alignOnWrite reconciles content against its path before it hits disk.
// Notes whose frontmatter cannot be parsed are written as sent.
func (s *Service) alignOnWrite(path string, content []byte) ([]byte, error) {
	aligned, _, err := s.runner.ReconcileContent(path, content)
	if err != nil {
		return nil, err
	}
	return aligned, nil
}

// buildNoteDetail constructs a NoteDetail from raw data without re-reading the file.
func (s *Service) buildNoteDetail(path string, data []byte) (*NoteDetail, error) {
	res, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	bl, err := s.db.Backlinks(path)
	if err != nil {
		return nil, err
	}
	d := &NoteDetail{
		Path:      path,
		Title:     res.Title,
		Content:   string(data),
		Checksum:  checksum.Sum(data),
		Tags:      nonNilSlice(res.Tags),
		Backlinks: nonNilSlice(bl),
		UpdatedAt: time.Now(),
	}
	if ff := res.Fields; ff != nil {
		d.Hierarchy = models.Hierarchy{
			Program: ff.GetString(hierarchy.FieldProgram),
			Course:  ff.GetString(hierarchy.FieldCourse),
			Class:   ff.GetString(hierarchy.FieldClass),
			Module:  ff.GetString(hierarchy.FieldModule),
		}
		d.IndexType = ff.GetString(hierarchy.FieldIndexType)
		d.Frontmatter = ff.Map()
	}
	return d, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
