package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/tool"
)

// Controller is the drawing app as seen by the HTTP layer.
type Controller interface {
	Post(ev app.Event) error
	HandleKey(ctx context.Context, key string, ctrl bool) (bool, error)
	Tool(ctx context.Context) (app.ToolView, error)
	CanvasPNG(ctx context.Context) ([]byte, error)
	Depth(ctx context.Context) (undo, redo int, err error)
}

// ControlHandler exposes commands, controls, keys, tool state and the canvas.
type ControlHandler struct {
	app Controller
}

// NewControlHandler creates a new ControlHandler.
func NewControlHandler(c Controller) *ControlHandler {
	return &ControlHandler{app: c}
}

type commandRequest struct {
	Command string `json:"command"`
}

type controlRequest struct {
	Name string `json:"name"`
}

type keyRequest struct {
	Key  string `json:"key"`
	Ctrl bool   `json:"ctrl"`
}

type keyResponse struct {
	Handled bool `json:"handled"`
}

type toolRequest struct {
	Size  int    `json:"size"`
	Color string `json:"color"`
}

type historyResponse struct {
	Undo int `json:"undo"`
	Redo int `json:"redo"`
}

type queuedResponse struct {
	Status string `json:"status"`
}

// Commands handles POST /api/commands.
func (h *ControlHandler) Commands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		writeError(w, http.StatusBadRequest, "Command is required")
		return
	}

	h.post(w, app.CommandEvent{ID: req.Command})
}

// Controls handles POST /api/controls, the equivalent of clicking a control.
func (h *ControlHandler) Controls(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req controlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	h.post(w, app.ControlEvent{Name: req.Name})
}

// Keys handles POST /api/keys.
func (h *ControlHandler) Keys(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req keyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	handled, err := h.app.HandleKey(r.Context(), req.Key, req.Ctrl)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, keyResponse{Handled: handled})
}

// Tool handles GET and POST /api/tool.
func (h *ControlHandler) Tool(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		var req toolRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if req.Size < 0 || req.Size > tool.MaxSize {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Size must be between 1 and %d", tool.MaxSize))
			return
		}
		if err := h.app.Post(app.ToolEvent{Size: req.Size, Color: req.Color}); err != nil {
			writeAppError(w, err)
			return
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	view, err := h.app.Tool(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Canvas handles GET /api/canvas and returns the surface as PNG.
func (h *ControlHandler) Canvas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := h.app.CanvasPNG(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeBlob(w, "image/png", data)
}

// History handles GET /api/history.
func (h *ControlHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	undo, redo, err := h.app.Depth(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Undo: undo, Redo: redo})
}

func (h *ControlHandler) post(w http.ResponseWriter, ev app.Event) {
	if err := h.app.Post(ev); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, queuedResponse{Status: "queued"})
}

func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrStopped):
		writeError(w, http.StatusServiceUnavailable, "Drawing loop is stopped")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "Request cancelled")
	default:
		writeError(w, http.StatusInternalServerError, "Internal error")
	}
}
