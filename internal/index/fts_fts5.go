//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/starford/othala/internal/models"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS files_fts USING fts5(
			path UNINDEXED,
			title,
			body,
			tags,
			hierarchy,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, path, title, body string, tags []string, h models.Hierarchy) error {
	_, _ = tx.Exec(`DELETE FROM files_fts WHERE path = ?`, path)
	_, err := tx.Exec(`INSERT INTO files_fts (path, title, body, tags, hierarchy) VALUES (?, ?, ?, ?, ?)`,
		path, title, body, strings.Join(tags, " "), hierarchyText(h))
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, path string) {
	_, _ = tx.Exec(`DELETE FROM files_fts WHERE path = ?`, path)
}

func ftsClear(tx *sql.Tx) {
	_, _ = tx.Exec(`DELETE FROM files_fts`)
}

func hierarchyText(h models.Hierarchy) string {
	return strings.TrimSpace(strings.Join([]string{h.Program, h.Course, h.Class, h.Module}, " "))
}

// Search performs an FTS5 full-text search and returns matching results with snippets.
// Hierarchy values are searchable, so a course name finds its notes.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT path,
		       title,
		       snippet(files_fts, 2, '<b>', '</b>', '...', 64)
		FROM files_fts
		WHERE files_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Path, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
