package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/othala/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// vaultRoot is used to resolve the course resources directory.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, sseHandler http.Handler, vaultRoot string) chi.Router {
	h := NewHandler(svc)
	rh := NewResourceHandler(vaultRoot)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes CRUD.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Post("/notes/move", h.MoveNote)
	r.Get("/notes/*", h.GetNote)
	r.Put("/notes/*", h.UpdateNote)
	r.Delete("/notes/*", h.DeleteNote)

	// Hierarchy.
	r.Get("/tree", h.Tree)
	r.Post("/reconcile", h.Reconcile)
	r.Get("/check", h.CheckNote)
	r.Get("/audit", h.Audit)

	// Search.
	r.Get("/search", h.Search)

	// Course resource upload (auth-protected).
	r.Post("/resources", rh.Upload)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
