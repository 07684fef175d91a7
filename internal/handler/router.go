package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/huddlemaps/huddle/backend/internal/handler/places"
	"github.com/huddlemaps/huddle/backend/internal/handler/realtime"
	"github.com/huddlemaps/huddle/backend/internal/handler/search"
	"github.com/huddlemaps/huddle/backend/internal/handler/stream"
	middlewarePkg "github.com/huddlemaps/huddle/backend/internal/middleware"
	searchService "github.com/huddlemaps/huddle/backend/internal/service/search"
	sessionService "github.com/huddlemaps/huddle/backend/internal/service/session"
	"github.com/huddlemaps/huddle/backend/pkg/utils"
)

// Dependencies lists what the router serves. Stream may be nil, in which case
// the chat stream route is not mounted.
type Dependencies struct {
	Sessions       *sessionService.Registry
	Searches       *searchService.Registry
	WebSocket      *realtime.WebSocketHandler
	Places         places.Finder
	Stream         *stream.Handler
	AllowedOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(logger))
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, r, http.StatusOK, map[string]any{
			"status":      "ok",
			"connections": deps.Sessions.Count(),
			"searches":    deps.Searches.Count(),
		})
	})

	if deps.WebSocket != nil {
		deps.WebSocket.RegisterRoutes(r)
	}

	r.Route("/api", func(api chi.Router) {
		search.New(deps.Searches).RegisterRoutes(api)

		if deps.Places != nil {
			places.New(deps.Places).RegisterRoutes(api)
		}
		if deps.Stream != nil {
			deps.Stream.RegisterRoutes(api)
		}
	})

	return r
}

func accessLog(next http.Handler) http.Handler {
	return hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(next)
}
