package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/talent-pipeline/internal/usecase"
)

type SelectionHandler struct {
	SelectionUC *usecase.SelectionUseCase
}

func NewSelectionHandler(uc *usecase.SelectionUseCase) *SelectionHandler {
	return &SelectionHandler{SelectionUC: uc}
}

func (h *SelectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.SelectionUC.Get(r.Context(), chi.URLParam(r, "selectionId"))
	h.respond(w, r, out, err)
}

// SelectAll selects the leads visible under the same criteria as GET /leads. The
// criteria come from the query string, and a JSON body overrides any field it sets.
func (h *SelectionHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	in := listInput(r)
	if r.ContentLength != 0 {
		if !decodeJSON(w, r, &in) {
			return
		}
	}
	out, err := h.SelectionUC.SelectAll(r.Context(), chi.URLParam(r, "selectionId"), in)
	h.respond(w, r, out, err)
}

func (h *SelectionHandler) DeselectAll(w http.ResponseWriter, r *http.Request) {
	out, err := h.SelectionUC.DeselectAll(r.Context(), chi.URLParam(r, "selectionId"))
	h.respond(w, r, out, err)
}

type toggleRequest struct {
	Selected bool `json:"selected"`
}

func (h *SelectionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.SelectionUC.Toggle(r.Context(), chi.URLParam(r, "selectionId"), chi.URLParam(r, "leadId"), req.Selected)
	h.respond(w, r, out, err)
}

func (h *SelectionHandler) respond(w http.ResponseWriter, r *http.Request, out *usecase.SelectionOutput, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
