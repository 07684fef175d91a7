package search

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	searchService "github.com/huddlemaps/huddle/backend/internal/service/search"
	"github.com/huddlemaps/huddle/backend/pkg/utils"
)

// Handler exposes administrative access to collaborative searches.
type Handler struct {
	searches *searchService.Registry
}

// New creates a search handler.
func New(searches *searchService.Registry) *Handler {
	return &Handler{searches: searches}
}

// RegisterRoutes mounts the search routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/searches", h.handleList)
	r.Get("/searches/{searchID}", h.handleGet)
	r.Delete("/searches/{searchID}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, r, http.StatusOK, h.searches.List())
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	session, ok := h.searches.Get(chi.URLParam(r, "searchID"))
	if !ok {
		utils.RespondError(w, r, http.StatusNotFound, "search not found")
		return
	}
	utils.RespondJSON(w, r, http.StatusOK, session)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	searchID := chi.URLParam(r, "searchID")
	if !h.searches.Delete(searchID) {
		utils.RespondError(w, r, http.StatusNotFound, "search not found")
		return
	}

	hlog.FromRequest(r).Info().Str("search_id", searchID).Msg("search deleted")
	w.WriteHeader(http.StatusNoContent)
}
