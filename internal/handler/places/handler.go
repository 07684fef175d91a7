package places

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/huddlemaps/huddle/backend/internal/model/search"
	"github.com/huddlemaps/huddle/backend/pkg/utils"
)

// Finder runs a filtered place search for a query.
type Finder interface {
	FindPlaces(ctx context.Context, query string) ([]search.Place, error)
}

// Handler serves direct place lookups.
type Handler struct {
	finder Finder
}

// New creates a places handler.
func New(finder Finder) *Handler {
	return &Handler{finder: finder}
}

// RegisterRoutes mounts the places routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/places", h.handleSearch)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("search_query"))
	if query == "" {
		utils.RespondError(w, r, http.StatusBadRequest, "search_query query parameter is required")
		return
	}

	found, err := h.finder.FindPlaces(r.Context(), query)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("query", query).Msg("place lookup failed")
		utils.RespondError(w, r, http.StatusBadGateway, "place search failed")
		return
	}

	utils.RespondJSON(w, r, http.StatusOK, found)
}
