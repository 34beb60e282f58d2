package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/namesake/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/notes", h.ListNotes)
	r.Get("/notes/*", h.GetNote)
	r.Get("/similar/*", h.Similar)

	r.Get("/fix-images/*", h.PreviewImageLinks)
	r.Post("/fix-images/*", h.FixImageLinks)

	r.Post("/copy", h.CopyContent)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
