package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/namesake/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// notePath extracts the note path from the wildcard part of the URL.
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
//	@Summary		List indexed notes with their title words
//	@Tags			notes
//	@Produce		json
//	@Success		200	{array}	noteservice.NoteSummary
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.ListNotes(r.Context())
	if err != nil {
		writeServiceError(w, "list notes", "", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// GetNote handles GET /api/notes/*.
//
//	@Summary		Get note metadata by path
//	@Tags			notes
//	@Produce		json
//	@Param			path	path		string	true	"Note path"
//	@Success		200		{object}	models.NoteMetadata
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	note, err := h.svc.Note(r.Context(), path)
	if err != nil {
		writeServiceError(w, "get note", path, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Similar handles GET /api/similar/*.
//
//	@Summary		List notes whose titles have the same words
//	@Tags			similar
//	@Produce		json
//	@Param			path	path		string	true	"Reference note path"
//	@Success		200		{object}	SimilarResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/similar/{path} [get]
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	res, err := h.svc.FindSimilar(r.Context(), path)
	if err != nil {
		writeServiceError(w, "find similar", path, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// PreviewImageLinks handles GET /api/fix-images/*.
//
//	@Summary		List image embeds that would be rewritten
//	@Tags			images
//	@Produce		json
//	@Param			path	path		string	true	"Note path"
//	@Success		200		{object}	FixImagesResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/fix-images/{path} [get]
func (h *Handler) PreviewImageLinks(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	res, err := h.svc.PreviewImageLinks(r.Context(), path)
	if err != nil {
		writeServiceError(w, "preview image links", path, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// FixImageLinks handles POST /api/fix-images/*.
//
//	@Summary		Rewrite timestamped image embeds to the pasted-image form
//	@Tags			images
//	@Produce		json
//	@Param			path	path		string	true	"Note path"
//	@Success		200		{object}	FixImagesResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/fix-images/{path} [post]
func (h *Handler) FixImageLinks(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	res, err := h.svc.FixImageLinks(r.Context(), path)
	if err != nil {
		writeServiceError(w, "fix image links", path, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CopyContent handles POST /api/copy.
//
//	@Summary		Copy a note's content into other notes and rename them after it
//	@Tags			copy
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CopyRequest	true	"Source and targets"
//	@Success		200		{object}	CopyResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/copy [post]
func (h *Handler) CopyContent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CopyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	report, err := h.svc.CopyContent(r.Context(), req.Source, req.Targets)
	if err != nil {
		writeServiceError(w, "copy content", req.Source, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
