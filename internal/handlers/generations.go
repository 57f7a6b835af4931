// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ignitia/internal/models"
	"ignitia/internal/render"
)

const (
	// maxGenerationBody bounds POST /generations; the landing page dominates.
	maxGenerationBody = 4 << 20
	// maxExportBody bounds the {generationId} export bodies.
	maxExportBody = 4 << 10
	// unpublishTimeout bounds the best-effort removal of a published page.
	unpublishTimeout = 10 * time.Second
)

// Generations serves the owner-scoped record endpoints, the exports and
// publishing.
type Generations struct {
	store     GenerationRepo
	renderer  *render.Renderer
	publisher Publisher // nil when object storage is not configured
}

// NewGenerations creates the Generations handler group. publisher may be
// nil, in which case publishing answers 503.
func NewGenerations(store GenerationRepo, renderer *render.Renderer, publisher Publisher) *Generations {
	return &Generations{
		store:     store,
		renderer:  renderer,
		publisher: publisher,
	}
}

// publishKey is the object key of a published landing page.
func publishKey(id uuid.UUID) string {
	return "sites/" + id.String() + ".html"
}

// Create handles POST /generations.
func (h *Generations) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var in models.GenerationInput
	if err := decodeJSON(w, r, maxGenerationBody, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid generation", "Request body must be a JSON generation.")
		return
	}
	in = sanitizeGeneration(in)
	if msg := validateGeneration(in); msg != "" {
		writeError(w, http.StatusBadRequest, "Invalid generation", msg)
		return
	}

	g, err := h.store.Create(owner, in)
	if err != nil {
		slog.Error("save generation failed", "error", err, "owner", owner)
		writeError(w, http.StatusInternalServerError, "Failed to save generation", "")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// List handles GET /generations, newest first.
func (h *Generations) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	list, err := h.store.ListByOwner(owner)
	if err != nil {
		slog.Error("list generations failed", "error", err, "owner", owner)
		writeError(w, http.StatusInternalServerError, "Failed to fetch generations", "")
		return
	}
	if list == nil {
		list = []models.Generation{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Delete handles DELETE /generations/{id}. Absent and foreign records are
// both 404.
func (h *Generations) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Generation not found", "")
		return
	}

	deleted, err := h.store.DeleteByOwner(owner, id)
	if err != nil {
		slog.Error("delete generation failed", "error", err, "owner", owner, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete generation", "")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Generation not found", "")
		return
	}

	h.unpublish(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// unpublish removes a published page, if any. Failures are only logged.
func (h *Generations) unpublish(ctx context.Context, id uuid.UUID) {
	if h.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unpublishTimeout)
	defer cancel()
	if err := h.publisher.Delete(ctx, publishKey(id)); err != nil {
		slog.Warn("remove published page failed", "error", err, "id", id)
	}
}

// ExportPDF handles POST /export/pdf. It returns the printable pitch
// document inline; the client prints it to PDF.
func (h *Generations) ExportPDF(w http.ResponseWriter, r *http.Request) {
	g, ok := h.exportTarget(w, r)
	if !ok {
		return
	}

	doc, err := h.renderer.PrintDocument(g)
	if err != nil {
		slog.Error("render print document failed", "error", err, "id", g.ID)
		writeError(w, http.StatusInternalServerError, "Failed to export PDF", "")
		return
	}
	writeFile(w, "text/html; charset=utf-8", "inline", render.PrintFilename(g.StartupName), doc)
}

// ExportMarkdown handles POST /export/markdown.
func (h *Generations) ExportMarkdown(w http.ResponseWriter, r *http.Request) {
	g, ok := h.exportTarget(w, r)
	if !ok {
		return
	}

	md, err := h.renderer.Markdown(g)
	if err != nil {
		slog.Error("render markdown failed", "error", err, "id", g.ID)
		writeError(w, http.StatusInternalServerError, "Failed to export Markdown", "")
		return
	}
	writeFile(w, "text/markdown; charset=utf-8", "attachment", render.MarkdownFilename(g.StartupName), []byte(md))
}

// ExportHTML handles GET /generations/{id}/export/html: the stored landing
// page as a download.
func (h *Generations) ExportHTML(w http.ResponseWriter, r *http.Request) {
	g, ok := h.findFromURL(w, r)
	if !ok {
		return
	}
	writeFile(w, "text/html; charset=utf-8", "attachment", render.LandingPageFilename(g.StartupName), render.LandingPage(g))
}

// Publish handles POST /generations/{id}/publish.
func (h *Generations) Publish(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "Publishing is not configured", "")
		return
	}
	g, ok := h.findFromURL(w, r)
	if !ok {
		return
	}

	key := publishKey(g.ID)
	if err := h.publisher.Upload(r.Context(), key, "text/html; charset=utf-8", render.LandingPage(g)); err != nil {
		slog.Error("publish landing page failed", "error", err, "id", g.ID)
		writeError(w, http.StatusInternalServerError, "Failed to publish generation", "")
		return
	}
	slog.Info("landing page published", "id", g.ID, "key", key)
	writeJSON(w, http.StatusOK, map[string]string{"url": h.publisher.FileURL(key)})
}

// exportTarget resolves the {generationId} body of the POST exports.
func (h *Generations) exportTarget(w http.ResponseWriter, r *http.Request) (*models.Generation, bool) {
	owner, ok := ownerID(w, r)
	if !ok {
		return nil, false
	}

	var body struct {
		GenerationID string `json:"generationId"`
	}
	if err := decodeJSON(w, r, maxExportBody, &body); err != nil || strings.TrimSpace(body.GenerationID) == "" {
		writeError(w, http.StatusBadRequest, "generationId required", "")
		return nil, false
	}
	id, err := uuid.Parse(strings.TrimSpace(body.GenerationID))
	if err != nil {
		writeError(w, http.StatusNotFound, "Generation not found", "")
		return nil, false
	}
	return h.find(w, owner, id)
}

// findFromURL resolves the {id} URL parameter.
func (h *Generations) findFromURL(w http.ResponseWriter, r *http.Request) (*models.Generation, bool) {
	owner, ok := ownerID(w, r)
	if !ok {
		return nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Generation not found", "")
		return nil, false
	}
	return h.find(w, owner, id)
}

func (h *Generations) find(w http.ResponseWriter, owner, id uuid.UUID) (*models.Generation, bool) {
	g, err := h.store.FindByOwner(owner, id)
	if err != nil {
		slog.Error("find generation failed", "error", err, "owner", owner, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to load generation", "")
		return nil, false
	}
	if g == nil {
		writeError(w, http.StatusNotFound, "Generation not found", "")
		return nil, false
	}
	return g, true
}

// writeFile sends body as a named download. disposition is "inline" or
// "attachment"; filename is already slug-safe.
func writeFile(w http.ResponseWriter, contentType, disposition, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", disposition+`; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Warn("write download failed", "error", err)
	}
}
