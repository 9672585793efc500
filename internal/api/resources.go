package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

const (
	resourceDir    = "resources"
	maxUploadBytes = 50 << 20 // 50 MB
)

// ResourceHandler serves and accepts course material files (slides,
// worksheets, recordings) kept next to the notes.
type ResourceHandler struct {
	vaultRoot string
}

// NewResourceHandler creates a handler rooted at the vault directory.
func NewResourceHandler(vaultRoot string) *ResourceHandler {
	return &ResourceHandler{vaultRoot: vaultRoot}
}

// resourcePath returns the absolute path to the resources directory.
func (h *ResourceHandler) resourcePath() string {
	return filepath.Join(h.vaultRoot, resourceDir)
}

// safeName validates that the filename is a plain name (no path separators,
// no traversal) and returns the absolute path under the resources dir.
func (h *ResourceHandler) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	abs := filepath.Join(h.resourcePath(), cleaned)
	// Double-check the resolved path is under the resources dir.
	if !strings.HasPrefix(abs, h.resourcePath()+string(os.PathSeparator)) && abs != h.resourcePath() {
		return "", fmt.Errorf("path escapes resources directory")
	}
	return abs, nil
}

// ServeFile handles GET /resources/{filename}.
func (h *ResourceHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	abs, err := h.safeName(filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

// Upload handles POST /api/resources (multipart/form-data, field "file").
func (h *ResourceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid multipart")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'file' field in multipart form")
		return
	}
	defer file.Close()

	abs, err := h.safeName(header.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := os.MkdirAll(h.resourcePath(), 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create resources dir")
		return
	}

	dst, err := os.Create(abs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create file")
		return
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to write file")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"filename": header.Filename,
		"size":     written,
		"url":      "/resources/" + header.Filename,
	})
}
