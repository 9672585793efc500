package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
)

// NoteRow represents a row in the notes table. The hierarchy columns mirror
// the note's reconciled frontmatter, not raw folder names.
type NoteRow struct {
	Path      string
	Title     string
	Checksum  string
	Tags      []string
	Hierarchy models.Hierarchy
	IndexType string
	Depth     int
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string
	Title   string
	Snippet string
}

// ListFilter narrows ListNotes. Zero values mean no constraint. IndexType
// "none" selects content notes, any other value matches exactly.
type ListFilter struct {
	Tag       string
	Program   string
	Course    string
	Class     string
	Module    string
	IndexType string
	Sort      string // "path" (default), "title", "updated_at"
}

// UpsertNote inserts or replaces a note, its FTS entry, and links within a transaction.
func (db *DB) UpsertNote(n NoteRow, body string, links []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, _ := json.Marshal(n.Tags)
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = time.Now().UTC()
	}

	// Upsert notes table (includes body for fallback search).
	_, err = tx.Exec(`
		INSERT INTO notes (path, title, checksum, tags, body,
		                   program, course, class, module, index_type, depth, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title      = excluded.title,
			checksum   = excluded.checksum,
			tags       = excluded.tags,
			body       = excluded.body,
			program    = excluded.program,
			course     = excluded.course,
			class      = excluded.class,
			module     = excluded.module,
			index_type = excluded.index_type,
			depth      = excluded.depth,
			updated_at = excluded.updated_at
	`, n.Path, n.Title, n.Checksum, string(tagsJSON), body,
		n.Hierarchy.Program, n.Hierarchy.Course, n.Hierarchy.Class, n.Hierarchy.Module,
		n.IndexType, n.Depth, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, n.Path, n.Title, body, n.Tags, n.Hierarchy); err != nil {
		return err
	}

	// Replace links: delete old then bulk insert.
	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, n.Path)
	if len(links) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO links (source, target, type) VALUES (?, ?, 'inline')`)
		if err != nil {
			return fmt.Errorf("index: prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, target := range links {
			if _, err := stmt.Exec(n.Path, target); err != nil {
				return fmt.Errorf("index: insert link: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteNote removes a note, its FTS entry, and outgoing links.
func (db *DB) DeleteNote(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, path)
	_, _ = tx.Exec(`DELETE FROM notes WHERE path = ?`, path)

	return tx.Commit()
}

// Reset clears every indexed note so the next sync re-reads the whole vault.
func (db *DB) Reset() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsClear(tx)
	if _, err := tx.Exec(`DELETE FROM links`); err != nil {
		return fmt.Errorf("index: reset links: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM notes`); err != nil {
		return fmt.Errorf("index: reset notes: %w", err)
	}
	return tx.Commit()
}

// GetChecksum returns the stored checksum for a note, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM notes WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

const noteColumns = `path, title, checksum, tags, program, course, class, module, index_type, depth, updated_at`

func scanNote(scan func(dest ...any) error) (NoteRow, error) {
	var n NoteRow
	var tagsJSON string
	err := scan(&n.Path, &n.Title, &n.Checksum, &tagsJSON,
		&n.Hierarchy.Program, &n.Hierarchy.Course, &n.Hierarchy.Class, &n.Hierarchy.Module,
		&n.IndexType, &n.Depth, &n.UpdatedAt)
	if err != nil {
		return n, err
	}
	if tagsJSON != "" {
		_ = json.Unmarshal([]byte(tagsJSON), &n.Tags)
	}
	return n, nil
}

// GetNote returns a single row by path.
func (db *DB) GetNote(path string) (*NoteRow, error) {
	row := db.conn.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE path = ?`, path)
	n, err := scanNote(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index: note %s: %w", path, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("index: get note: %w", err)
	}
	return &n, nil
}

// ListNotes returns a page of rows matching the filter plus the total count.
func (db *DB) ListNotes(limit, offset int, f ListFilter) ([]NoteRow, int, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	where := `1=1`
	var args []any
	if f.Tag != "" {
		where += ` AND tags LIKE ?`
		args = append(args, `%"`+f.Tag+`"%`)
	}
	if f.Program != "" {
		where += ` AND program = ?`
		args = append(args, f.Program)
	}
	if f.Course != "" {
		where += ` AND course = ?`
		args = append(args, f.Course)
	}
	if f.Class != "" {
		where += ` AND class = ?`
		args = append(args, f.Class)
	}
	if f.Module != "" {
		where += ` AND module = ?`
		args = append(args, f.Module)
	}
	switch f.IndexType {
	case "":
	case "none":
		where += ` AND index_type = ''`
	default:
		where += ` AND index_type = ?`
		args = append(args, f.IndexType)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count notes: %w", err)
	}

	order := `path ASC`
	switch f.Sort {
	case "title":
		order = `title ASC, path ASC`
	case "updated_at":
		order = `updated_at DESC, path ASC`
	}

	rows, err := db.conn.Query(
		`SELECT `+noteColumns+` FROM notes WHERE `+where+` ORDER BY `+order+` LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list notes: %w", err)
	}
	defer rows.Close()

	var out []NoteRow
	for rows.Next() {
		n, err := scanNote(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, n)
	}
	return out, total, rows.Err()
}

// AllPaths returns every indexed note path.
func (db *DB) AllPaths() (map[string]struct{}, error) {
	rows, err := db.conn.Query(`SELECT path FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all paths: %w", err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out[p] = struct{}{}
	}
	return out, rows.Err()
}

// AllChecksums returns path → checksum for every indexed note.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// Backlinks returns all note paths that link to the given target.
func (db *DB) Backlinks(target string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT source FROM links WHERE target = ?`, target)
	if err != nil {
		return nil, fmt.Errorf("index: backlinks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
