package api

import (
	"time"

	"github.com/starford/othala/internal/audit"
	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/noteservice"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Path    string `json:"path" example:"MBA/Finance/notes.md" validate:"required"`
	Content string `json:"content" example:"# Hello\nWorld" validate:"required"`
}

// UpdateNoteRequest is the request body for updating a note.
type UpdateNoteRequest struct {
	Content string `json:"content" example:"# Updated\nContent" validate:"required"`
}

// MoveNoteRequest is the request body for relocating a note.
type MoveNoteRequest struct {
	From string `json:"from" example:"MBA/Finance/notes.md" validate:"required"`
	To   string `json:"to" example:"MBA/Marketing/notes.md" validate:"required"`
}

// ReconcileRequest is the request body for a reconcile pass.
type ReconcileRequest struct {
	DryRun bool `json:"dry_run" example:"true"`
}

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = noteservice.NoteListItem

// NoteListResponse wraps paginated note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path" example:"MBA/Finance/notes.md" validate:"required"`
	Title   string `json:"title" example:"Notes" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// TreeResponse wraps the curriculum tree.
type TreeResponse struct {
	Tree *index.TreeNode `json:"tree" validate:"required"`
}

// AuditResponse wraps audit trail entries, oldest first.
type AuditResponse struct {
	Entries []audit.Entry `json:"entries" validate:"required"`
}

// ResourceUploadResponse is returned after a successful resource upload.
type ResourceUploadResponse struct {
	Filename string `json:"filename" example:"syllabus.pdf" validate:"required"`
	Size     int64  `json:"size" example:"12345" validate:"required"`
	URL      string `json:"url" example:"/resources/syllabus.pdf" validate:"required"`
}

// NoteDetailDTO mirrors NoteDetail with explicit types for swag.
type NoteDetailDTO = NoteDetail

// NoteListItemDTO mirrors NoteListItem for swag.
type NoteListItemDTO struct {
	Path      string           `json:"path" example:"MBA/Finance/notes.md"`
	Title     string           `json:"title" example:"Notes"`
	Checksum  string           `json:"checksum" example:"abc123..."`
	Tags      []string         `json:"tags" example:"finance,week1"`
	Hierarchy models.Hierarchy `json:"hierarchy"`
	IndexType string           `json:"index_type,omitempty" example:"course"`
	Depth     int              `json:"depth" example:"2"`
	UpdatedAt time.Time        `json:"updated_at"`
}
