package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/audit"
	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// notePath extracts the note path from the URL (everything after /api/notes/).
// Supports encoded slashes from OpenAPI clients (e.g. topics%2Fnote.md).
func notePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes with optional pagination and filtering
//	@Tags			notes
//	@Produce		json
//	@Param			limit		query		int		false	"Page size"
//	@Param			offset		query		int		false	"Page offset"
//	@Param			tag			query		string	false	"Filter by tag"
//	@Param			program		query		string	false	"Filter by program"
//	@Param			course		query		string	false	"Filter by course"
//	@Param			class		query		string	false	"Filter by class"
//	@Param			module		query		string	false	"Filter by module"
//	@Param			index_type	query		string	false	"Filter by index type, 'none' selects content notes"
//	@Param			sort		query		string	false	"Sort field"	Enums(updated_at, title, path)
//	@Success		200			{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	filter := index.ListFilter{
		Tag:       q.Get("tag"),
		Program:   q.Get("program"),
		Course:    q.Get("course"),
		Class:     q.Get("class"),
		Module:    q.Get("module"),
		IndexType: q.Get("index_type"),
		Sort:      q.Get("sort"),
	}

	items, total, err := h.svc.ListNotes(r.Context(), limit, offset, filter)
	if err != nil {
		slog.Error("list notes failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notes": items,
		"total": total,
	})
}

// GetNote handles GET /api/notes/*.
//
//	@Summary		Get a single note by path
//	@Tags			notes
//	@Produce		json
//	@Param			path	path		string	true	"Note path"
//	@Success		200		{object}	NoteDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	note, err := h.svc.GetNote(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			slog.Error("get note failed", slog.String("path", path), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a new note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	NoteDetail
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Path == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "path and content are required")
		return
	}
	note, err := h.svc.CreateNote(r.Context(), req.Path, []byte(req.Content))
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "note already exists")
		} else {
			slog.Error("create note failed", slog.String("path", req.Path), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /api/notes/*.
//
//	@Summary		Update a note with optimistic concurrency
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			path	path		string				true	"Note path"
//	@Param			If-Match	header	string				false	"SHA-256 checksum for optimistic concurrency"
//	@Param			body	body		UpdateNoteRequest	true	"Updated content"
//	@Success		200		{object}	NoteDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	path := notePath(r)
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	ifMatch := r.Header.Get("If-Match")
	// Strip surrounding quotes if present (standard ETag format).
	ifMatch = strings.Trim(ifMatch, `"`)

	note, err := h.svc.UpdateNote(r.Context(), path, []byte(req.Content), ifMatch)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, apperr.ErrConflict):
			writeError(w, http.StatusConflict, "checksum mismatch")
		default:
			slog.Error("update note failed", slog.String("path", path), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// MoveNote handles POST /api/notes/move.
//
//	@Summary		Move a note and realign its hierarchy frontmatter
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		MoveNoteRequest	true	"Source and destination paths"
//	@Success		200		{object}	NoteDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/move [post]
func (h *Handler) MoveNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.From == "" || req.To == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}
	note, err := h.svc.MoveNote(r.Context(), req.From, req.To)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, apperr.ErrAlreadyExists):
			writeError(w, http.StatusConflict, "destination already exists")
		default:
			slog.Error("move note failed", slog.String("from", req.From), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/*.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Param			path	path	string	true	"Note path"
//	@Success		204		"Note deleted"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	if err := h.svc.DeleteNote(r.Context(), path); err != nil {
		slog.Error("delete note failed", slog.String("path", path), slog.String("error", err.Error()))
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across notes
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// Tree handles GET /api/tree.
//
//	@Summary		Get the curriculum tree
//	@Tags			hierarchy
//	@Produce		json
//	@Success		200	{object}	TreeResponse
//	@Security		BearerAuth
//	@Router			/tree [get]
func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.svc.Tree(r.Context())
	if err != nil {
		slog.Error("tree failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tree": tree,
	})
}

// Reconcile handles POST /api/reconcile.
//
//	@Summary		Align every note's frontmatter with its folder position
//	@Tags			hierarchy
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ReconcileRequest	false	"Options"
//	@Success		200		{object}	reconcile.Report
//	@Security		BearerAuth
//	@Router			/reconcile [post]
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req struct {
		DryRun bool `json:"dry_run"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rpt, err := h.svc.Reconcile(r.Context(), req.DryRun)
	if err != nil {
		slog.Error("reconcile failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, rpt)
}

// CheckNote handles GET /api/check?path=...
//
//	@Summary		Report the corrections a note would receive, without writing
//	@Tags			hierarchy
//	@Produce		json
//	@Param			path	query		string	true	"Note path"
//	@Success		200		{object}	reconcile.FileReport
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/check [get]
func (h *Handler) CheckNote(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'path' is required")
		return
	}
	rep, err := h.svc.CheckNote(r.Context(), path)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, apperr.ErrOutsideVault):
			writeError(w, http.StatusBadRequest, "path outside vault")
		default:
			slog.Error("check note failed", slog.String("path", path), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// Audit handles GET /api/audit.
//
//	@Summary		List recent frontmatter edits from the audit trail
//	@Tags			hierarchy
//	@Produce		json
//	@Param			limit	query		int	false	"Max entries"
//	@Success		200		{object}	AuditResponse
//	@Security		BearerAuth
//	@Router			/audit [get]
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	entries, err := h.svc.AuditTail(r.Context(), limit)
	if err != nil {
		slog.Error("audit tail failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
	})
}
