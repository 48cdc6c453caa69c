package handlers

import (
	"net/http"

	"fillai-backend/application/commands"
	"fillai-backend/application/queries"
	pkgerrors "fillai-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GraphHandler handles graph-related HTTP requests
type GraphHandler struct {
	base
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(cmds CommandSender, qs QueryAsker, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{base{commands: cmds, queries: qs, errors: errs, logger: logger}}
}

// GetGraph handles GET /graph. width and height ask for a camera fitted to
// that viewport.
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	var q queries.GetGraphDataQuery
	var err error
	if q.ViewportWidth, err = floatParam(r, "width"); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if q.ViewportHeight, err = floatParam(r, "height"); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if q.Padding, err = floatParam(r, "padding"); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.ask(w, r, http.StatusOK, q)
}

// GetNode handles GET /graph/nodes/{nodeID}
func (h *GraphHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, http.StatusOK, queries.GetNodeQuery{NodeID: chi.URLParam(r, "nodeID")})
}

// SelectNode handles POST /graph/select. A null or missing nodeId clears
// the selection.
func (h *GraphHandler) SelectNode(w http.ResponseWriter, r *http.Request) {
	var cmd commands.SelectNodeCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.send(w, r, cmd)
}

func (h *GraphHandler) StartDrag(w http.ResponseWriter, r *http.Request) {
	var cmd commands.StartDragCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.send(w, r, cmd)
}

func (h *GraphHandler) DragNode(w http.ResponseWriter, r *http.Request) {
	var cmd commands.DragNodeCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.send(w, r, cmd)
}

func (h *GraphHandler) StopDrag(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.StopDragCommand{})
}

func (h *GraphHandler) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.ToggleCategoryCommand{CategoryID: chi.URLParam(r, "categoryID")})
}

func (h *GraphHandler) Center(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.CenterGraphCommand{})
}

func (h *GraphHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RegenerateGraphCommand{})
}

func (h *GraphHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.ResetGraphCommand{})
}

// SetCursor handles POST /graph/cursor.
func (h *GraphHandler) SetCursor(w http.ResponseWriter, r *http.Request) {
	var cmd commands.SetCursorCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.send(w, r, cmd)
}

// ClearCursor handles DELETE /graph/cursor.
func (h *GraphHandler) ClearCursor(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.SetCursorCommand{Clear: true})
}

// SetLayoutMode handles PUT /graph/layout.
func (h *GraphHandler) SetLayoutMode(w http.ResponseWriter, r *http.Request) {
	var cmd commands.SetLayoutModeCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.send(w, r, cmd)
}
