package realtime

//go:generate mockgen -source=dispatcher.go -destination=mock_coordinator_test.go -package=realtime

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/huddlemaps/huddle/backend/internal/model/chat"
	"github.com/huddlemaps/huddle/backend/internal/model/protocol"
	"github.com/huddlemaps/huddle/backend/internal/model/search"
	"github.com/huddlemaps/huddle/backend/internal/service/coordinator"
	searchservice "github.com/huddlemaps/huddle/backend/internal/service/search"
	sessionservice "github.com/huddlemaps/huddle/backend/internal/service/session"
)

// Messages sent to clients when a request fails. Causes are logged, never
// forwarded.
const (
	msgInvalidFormat = "Invalid message format"
	msgSearchFailed  = "Error processing search request"
	msgRefineFailed  = "Error refining search results"
	msgNotMember     = "not a member of this search session"
)

// SearchCoordinator runs the search operations a dispatcher needs.
type SearchCoordinator interface {
	NewSearch(ctx context.Context, conversation []chat.Turn) (coordinator.Result, error)
	RefineSearch(ctx context.Context, conversation []chat.Turn, places []search.Place) (coordinator.Result, error)
}

// Dispatcher turns inbound frames into registry updates, coordinator calls
// and replies. One instance serves every connection; callers must not run
// two Handle calls for the same session at once.
type Dispatcher struct {
	sessions    *sessionservice.Registry
	searches    *searchservice.Registry
	coordinator SearchCoordinator
	logger      zerolog.Logger
}

// NewDispatcher wires a dispatcher to its registries and coordinator.
func NewDispatcher(sessions *sessionservice.Registry, searches *searchservice.Registry, coord SearchCoordinator, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		sessions:    sessions,
		searches:    searches,
		coordinator: coord,
		logger:      logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Open registers a new connection and greets it with its session id.
func (d *Dispatcher) Open(handle sessionservice.Handle) string {
	created := d.sessions.Create(handle)
	d.logger.Info().Str("session_id", created.ID).Msg("connection opened")
	d.send(created.ID, protocol.NewSessionCreated(created.ID))
	return created.ID
}

// Close forgets the connection. Searches it joined keep listing it as a
// member.
func (d *Dispatcher) Close(sessionID string) {
	if d.sessions.Delete(sessionID) {
		d.logger.Info().Str("session_id", sessionID).Msg("connection closed")
	}
}

// Handle processes one inbound frame from sessionID.
func (d *Dispatcher) Handle(ctx context.Context, sessionID string, raw []byte) {
	in, err := protocol.Decode(raw)
	if err != nil {
		d.logger.Warn().Err(err).Str("session_id", sessionID).Msg("malformed message")
		d.send(sessionID, protocol.NewError(msgInvalidFormat))
		return
	}

	d.sessions.Update(sessionID, in.Payload)

	switch in.Type {
	case protocol.TypeNewSearchSession:
		d.handleNewSearch(ctx, sessionID, in)
	case protocol.TypeRefineSearch:
		if in.Has("places") {
			d.handleRefine(ctx, sessionID, in)
		}
	case protocol.TypeJoinSearchSession:
		d.handleJoin(sessionID, in)
	}

	if current, ok := d.sessions.Get(sessionID); ok {
		d.send(sessionID, protocol.NewSessionUpdate(sessionID, current.Data))
	}
}

func (d *Dispatcher) handleNewSearch(ctx context.Context, sessionID string, in protocol.Inbound) {
	req, err := in.AsNewSearchSession()
	if err != nil {
		d.logger.Warn().Err(err).Str("session_id", sessionID).Msg("invalid new search request")
		d.send(sessionID, protocol.NewError(msgInvalidFormat))
		return
	}

	result, err := d.coordinator.NewSearch(ctx, req.Messages)
	if err != nil {
		d.logger.Error().Err(err).Str("session_id", sessionID).Str("category", errorCategory(err)).Msg("new search failed")
		d.send(sessionID, protocol.NewError(msgSearchFailed))
		return
	}

	created := d.searches.Create(result.Query, sessionID, result.Places)
	d.logger.Info().
		Str("session_id", sessionID).
		Str("search_id", created.ID).
		Int("places", len(created.Places)).
		Msg("search session created")
	d.send(sessionID, protocol.NewSearchSessionCreated(created, result.Response, created.Places))
}

func (d *Dispatcher) handleRefine(ctx context.Context, sessionID string, in protocol.Inbound) {
	req, err := in.AsRefineSearch()
	if err != nil {
		d.logger.Warn().Err(err).Str("session_id", sessionID).Msg("invalid refine request")
		d.send(sessionID, protocol.NewError(msgInvalidFormat))
		return
	}

	places := req.Places
	if req.SearchID != "" {
		// Shared searches are refined from their stored places only.
		shared, ok := d.searches.Get(req.SearchID)
		if !ok || !d.searches.IsMember(req.SearchID, sessionID) {
			d.send(sessionID, protocol.NewError(msgNotMember))
			return
		}
		places = shared.Places
	}

	result, err := d.coordinator.RefineSearch(ctx, req.Messages, places)
	if err != nil {
		d.logger.Error().Err(err).Str("session_id", sessionID).Str("category", errorCategory(err)).Msg("refine failed")
		d.send(sessionID, protocol.NewError(msgRefineFailed))
		return
	}

	if req.SearchID != "" {
		if _, ok := d.searches.Update(req.SearchID, searchservice.Patch{Places: result.Places}); !ok {
			d.logger.Debug().Str("search_id", req.SearchID).Msg("refined search no longer exists")
		}
	}
	d.send(sessionID, protocol.NewSearchRefined(req.SearchID, result.Response, result.Places))
}

func (d *Dispatcher) handleJoin(sessionID string, in protocol.Inbound) {
	req, err := in.AsJoinSearchSession()
	if err != nil || req.SearchID == "" {
		d.logger.Debug().Err(err).Str("session_id", sessionID).Msg("ignoring join without search id")
		return
	}

	joined, ok := d.searches.Join(req.SearchID, sessionID)
	if !ok {
		d.logger.Debug().Str("session_id", sessionID).Str("search_id", req.SearchID).Msg("join of unknown search ignored")
		return
	}
	d.send(sessionID, protocol.NewSearchSessionJoined(joined))
}

// send delivers v to the connection if it is still open. Failed deliveries
// are dropped.
func (d *Dispatcher) send(sessionID string, v any) {
	handle, ok := d.sessions.Handle(sessionID)
	if !ok {
		d.logger.Debug().Str("session_id", sessionID).Msg("reply dropped, connection gone")
		return
	}
	if err := handle.Send(v); err != nil {
		d.logger.Debug().Err(err).Str("session_id", sessionID).Msg("reply dropped")
	}
}

func errorCategory(err error) string {
	switch {
	case errors.Is(err, coordinator.ErrResolution):
		return "resolution"
	case errors.Is(err, coordinator.ErrSearchProvider):
		return "search_provider"
	case errors.Is(err, coordinator.ErrRanking):
		return "ranking"
	default:
		return "unknown"
	}
}
