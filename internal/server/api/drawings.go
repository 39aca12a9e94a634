package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/airsketch/internal/canvas"
	"github.com/ayusman/airsketch/internal/export"
	"github.com/ayusman/airsketch/internal/store"
)

// CanvasSource provides the committed canvas state to save.
type CanvasSource interface {
	Committed(ctx context.Context) (canvas.Snapshot, error)
}

// DrawingHandler handles HTTP requests for saved drawings.
type DrawingHandler struct {
	store  *store.Store
	canvas CanvasSource
}

// NewDrawingHandler creates a new DrawingHandler.
func NewDrawingHandler(s *store.Store, c CanvasSource) *DrawingHandler {
	return &DrawingHandler{store: s, canvas: c}
}

// ServeHTTP routes /api/drawings, /api/drawings/{id} and /api/drawings/{id}/pdf.
func (h *DrawingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/drawings")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/pdf"); ok {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.pdf(w, r, id)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createDrawingRequest struct {
	Name string `json:"name"`
}

type drawingResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt string `json:"created_at"`
}

type listDrawingsResponse struct {
	Drawings []drawingResponse `json:"drawings"`
}

func toDrawingResponse(d *store.Drawing) drawingResponse {
	return drawingResponse{
		ID:        d.ID,
		Name:      d.Name,
		Width:     d.Width,
		Height:    d.Height,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
}

// list handles GET /api/drawings.
func (h *DrawingHandler) list(w http.ResponseWriter, r *http.Request) {
	drawings, err := h.store.Drawings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list drawings")
		return
	}

	response := listDrawingsResponse{
		Drawings: make([]drawingResponse, 0, len(drawings)),
	}
	for _, d := range drawings {
		response.Drawings = append(response.Drawings, toDrawingResponse(d))
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/drawings and saves the committed canvas.
func (h *DrawingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createDrawingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	snap, err := h.canvas.Committed(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "Canvas unavailable")
		return
	}
	if snap.IsZero() {
		writeError(w, http.StatusConflict, "Canvas is empty")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = fmt.Sprintf("Drawing %s", time.Now().Format("2006-01-02 15:04"))
	}

	drawing := &store.Drawing{
		ID:     uuid.New().String(),
		Name:   name,
		Width:  snap.Width(),
		Height: snap.Height(),
		PNG:    snap.PNG(),
	}

	if err := h.store.Drawings().Create(drawing); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save drawing")
		return
	}

	writeJSON(w, http.StatusCreated, toDrawingResponse(drawing))
}

// get handles GET /api/drawings/{id} and returns the PNG.
func (h *DrawingHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	drawing, ok := h.lookup(w, id)
	if !ok {
		return
	}
	writeBlob(w, "image/png", drawing.PNG)
}

// pdf handles GET /api/drawings/{id}/pdf.
func (h *DrawingHandler) pdf(w http.ResponseWriter, r *http.Request, id string) {
	drawing, ok := h.lookup(w, id)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.PDF(&buf, drawing.Name, drawing.PNG, drawing.Width, drawing.Height); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export drawing")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", drawing.ID+".pdf"))
	writeBlob(w, "application/pdf", buf.Bytes())
}

// delete handles DELETE /api/drawings/{id}.
func (h *DrawingHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Drawings().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Drawing not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete drawing")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DrawingHandler) lookup(w http.ResponseWriter, id string) (*store.Drawing, bool) {
	drawing, err := h.store.Drawings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Drawing not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get drawing")
		return nil, false
	}
	return drawing, true
}
